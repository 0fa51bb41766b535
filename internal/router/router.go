// Package router sets up all HTTP routes and middleware chains for the
// blog admin panel. The whole surface is the JSON panel API plus auth;
// everything stateful sits behind the session check.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"blogpanel/internal/handlers"
	"blogpanel/internal/middleware"
	"blogpanel/internal/session"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, admin *handlers.Admin, auth *handlers.Auth) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth, no CSRF.
	r.Get("/health", healthHandler)

	// Login is rate-limited per IP to slow down credential guessing.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.CSRF)

		r.With(loginLimiter.Middleware).Post("/login", auth.Login)
		r.Post("/logout", auth.Logout)
		r.Get("/me", auth.Me)

		// Authenticated panel API.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Route("/panel", func(r chi.Router) {
				r.Get("/", admin.State)
				r.Post("/refresh", admin.Refresh)
				r.Post("/page", admin.SetPage)
				r.Post("/create", admin.OpenCreate)
				r.Post("/closed", admin.PanelClosed)
				r.Post("/cancel", admin.Cancel)
			})

			r.Route("/posts", func(r chi.Router) {
				r.Post("/", admin.Submit)
				r.Post("/{id}/edit", admin.StageEdit)
				r.Delete("/{id}", admin.Delete)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
