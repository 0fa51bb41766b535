// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// window.go provides a Valkey-backed cache of fetched list windows. A page
// the panel already requested is served from Valkey until any mutation
// invalidates the whole set, since a single create, edit, or delete can
// shift items across every window boundary.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"blogpanel/internal/gateway"
	"blogpanel/internal/models"
)

const (
	// windowKeyPrefix namespaces window keys in Valkey.
	windowKeyPrefix = "window:"

	// DefaultWindowTTL is how long a cached window stays valid without a
	// mutation. Kept short: the panel is not the only writer to the table.
	DefaultWindowTTL = 30 * time.Second
)

// WindowCache stores JSON-encoded list windows per page number.
type WindowCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewWindowCache creates a window cache backed by the given Valkey client.
func NewWindowCache(client *redis.Client, ttl time.Duration) *WindowCache {
	if ttl == 0 {
		ttl = DefaultWindowTTL
	}
	return &WindowCache{client: client, ttl: ttl}
}

// Get retrieves the cached window for a page. A miss or a decode problem
// both report a miss; cache trouble never fails a fetch.
func (wc *WindowCache) Get(ctx context.Context, page int) (gateway.Window, bool) {
	val, err := wc.client.Get(ctx, windowKey(page)).Bytes()
	if err == redis.Nil {
		return gateway.Window{}, false
	}
	if err != nil {
		slog.Warn("window cache get error", "page", page, "error", err)
		return gateway.Window{}, false
	}

	var win gateway.Window
	if err := json.Unmarshal(val, &win); err != nil {
		slog.Warn("window cache decode error", "page", page, "error", err)
		return gateway.Window{}, false
	}
	slog.Debug("window cache hit", "page", page)
	return win, true
}

// Set stores a fetched window with the configured TTL.
func (wc *WindowCache) Set(ctx context.Context, page int, win gateway.Window) {
	payload, err := json.Marshal(win)
	if err != nil {
		slog.Warn("window cache encode error", "page", page, "error", err)
		return
	}
	if err := wc.client.Set(ctx, windowKey(page), payload, wc.ttl).Err(); err != nil {
		slog.Warn("window cache set error", "page", page, "error", err)
	}
}

// InvalidateAll drops every cached window. Any mutation can move items
// between pages, so per-page invalidation would be wrong.
func (wc *WindowCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := wc.client.Scan(ctx, cursor, windowKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("window cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := wc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("window cache delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("window cache cleared", "deleted", deleted)
	}
}

func windowKey(page int) string {
	return windowKeyPrefix + strconv.Itoa(page)
}

// CachedGateway wraps a gateway with the window cache: list requests are
// served from Valkey when possible, and every successful mutation clears
// the cached windows so the next fetch sees server state.
type CachedGateway struct {
	inner gateway.Gateway
	cache *WindowCache
}

// NewCachedGateway decorates inner with window caching.
func NewCachedGateway(inner gateway.Gateway, cache *WindowCache) *CachedGateway {
	return &CachedGateway{inner: inner, cache: cache}
}

// List serves the window from cache when present, otherwise fetches from
// the inner gateway and stores the result.
func (g *CachedGateway) List(ctx context.Context, page int) (gateway.Window, error) {
	if win, ok := g.cache.Get(ctx, page); ok {
		return win, nil
	}

	win, err := g.inner.List(ctx, page)
	if err != nil {
		return gateway.Window{}, err
	}
	g.cache.Set(ctx, page, win)
	return win, nil
}

// Create inserts through the inner gateway and invalidates cached windows.
func (g *CachedGateway) Create(ctx context.Context, draft models.Draft) (*models.Post, error) {
	post, err := g.inner.Create(ctx, draft)
	if err != nil {
		return nil, err
	}
	g.cache.InvalidateAll(ctx)
	return post, nil
}

// Update rewrites through the inner gateway and invalidates cached windows.
func (g *CachedGateway) Update(ctx context.Context, post models.Post) (*models.Post, error) {
	updated, err := g.inner.Update(ctx, post)
	if err != nil {
		return nil, err
	}
	g.cache.InvalidateAll(ctx)
	return updated, nil
}

// Delete removes through the inner gateway and invalidates cached windows.
func (g *CachedGateway) Delete(ctx context.Context, id int64, userID string) (int64, error) {
	deleted, err := g.inner.Delete(ctx, id, userID)
	if err != nil {
		return 0, err
	}
	g.cache.InvalidateAll(ctx)
	return deleted, nil
}

// CurrentUser passes through to the inner gateway.
func (g *CachedGateway) CurrentUser(ctx context.Context) (*models.Identity, error) {
	return g.inner.CurrentUser(ctx)
}
