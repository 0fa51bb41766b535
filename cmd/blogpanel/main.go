// Package main is the entry point for the blog admin panel server.
// It loads configuration, connects to services, wires the stores and
// page controller, and starts the HTTP server with graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blogpanel/internal/blog"
	"blogpanel/internal/cache"
	"blogpanel/internal/config"
	"blogpanel/internal/database"
	"blogpanel/internal/form"
	"blogpanel/internal/gateway"
	"blogpanel/internal/handlers"
	"blogpanel/internal/middleware"
	"blogpanel/internal/panel"
	"blogpanel/internal/router"
	"blogpanel/internal/session"
	"blogpanel/internal/store"
	"blogpanel/internal/ui"
)

func main() {
	// Structured logger — text output; flip to JSON behind a collector.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"backend", cfg.Backend,
	)

	// Connect to PostgreSQL. Panel accounts always live here; posts do
	// too unless the hosted backend is selected.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (Redis-compatible cache + session store).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Session store backed by Valkey. In non-development environments,
	// mark session cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// Select the posts backend. Either way, currentUser is answered from
	// the panel's own session.
	var gw gateway.Gateway
	switch cfg.Backend {
	case config.BackendREST:
		rest := gateway.NewREST(gateway.RESTConfig{
			BaseURL:  cfg.GatewayURL,
			APIKey:   cfg.GatewayKey,
			Table:    cfg.GatewayTable,
			PageSize: cfg.PageSize,
		})
		gw = gateway.WithIdentity(rest, middleware.IdentityFromCtx)
	default:
		gw = gateway.NewPostgres(db, middleware.IdentityFromCtx, cfg.PageSize)
	}

	// Cache fetched list windows in Valkey; mutations invalidate them.
	windowCache := cache.NewWindowCache(valkeyClient, cfg.WindowTTL)
	gw = cache.NewCachedGateway(gw, windowCache)

	// Build the state containers and the page controller on top of them.
	userStore := store.NewUserStore(db)
	postStore := blog.NewStore(gw)
	uiStore := ui.NewStore()
	formBuffer := form.NewBuffer(nil)

	ctrl := panel.New(gw, postStore, uiStore, formBuffer, panel.Options{
		ToastHideAfter:   cfg.ToastHideAfter,
		ToastRemoveAfter: cfg.ToastRemoveAfter,
	})
	defer ctrl.Close()

	// Create handler groups with their dependencies.
	adminHandlers := handlers.NewAdmin(ctrl)
	authHandlers := handlers.NewAuth(sessionStore, userStore)

	// Set up the Chi router with all middleware and routes.
	r := router.New(sessionStore, adminHandlers, authHandlers)

	// Create the HTTP server with sensible timeouts. The data service
	// calls behind the panel API are bounded by their own client timeout.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
