// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package gateway defines the contract with the remote data service that
// stores blog posts, plus its implementations. The panel treats the service
// as a black box: pages of posts come back newest-first in fixed-size
// windows, inserts assign the id and created_at server-side, and updates
// and deletes are scoped to the owning user_id.
package gateway

import (
	"context"
	"fmt"

	"blogpanel/internal/models"
)

// DefaultPageSize is the fixed window size for list requests.
const DefaultPageSize = 4

// Window is one page of posts plus the pagination continuation state.
// HasMore is true when the service holds at least one record beyond this
// window, computed from the total count against the next window's offset.
type Window struct {
	Items   []models.Post `json:"items"`
	Total   int64         `json:"total"`
	HasMore bool          `json:"has_more"`
}

// Gateway is the asynchronous CRUD surface of the remote data service.
// Every call is a suspension point: it blocks only the calling goroutine
// and honors context cancellation. Failed calls return *Error and are
// never retried by the implementations.
type Gateway interface {
	// List fetches the window for the given 1-based page, ordered by
	// created_at descending.
	List(ctx context.Context, page int) (Window, error)

	// Create inserts a new post. The service assigns ID and CreatedAt and
	// echoes the stored record.
	Create(ctx context.Context, draft models.Draft) (*models.Post, error)

	// Update rewrites the editable fields of an existing post, keyed by
	// both ID and UserID. A mismatched owner yields an error and no change.
	Update(ctx context.Context, post models.Post) (*models.Post, error)

	// Delete removes the post with the given id, scoped to the owning
	// userID. Returns the deleted id.
	Delete(ctx context.Context, id int64, userID string) (int64, error)

	// CurrentUser returns the session-derived identity of the acting user,
	// or nil when no session exists.
	CurrentUser(ctx context.Context) (*models.Identity, error)
}

// Error is a failed gateway call. It carries the message reported by the
// remote service and, for HTTP transports, the response status.
type Error struct {
	Op      string // "list", "create", "update", "delete", "current_user"
	Status  int    // HTTP status, 0 for non-HTTP transports
	Message string
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("gateway %s: status %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("gateway %s: %s", e.Op, e.Message)
}

// hasMore reports whether a record exists beyond the window for page.
func hasMore(page, pageSize int, total int64) bool {
	return total > int64(page*pageSize)
}

// offsetFor returns the zero-based offset of the window for a 1-based page.
// Pages below 1 clamp to the first window.
func offsetFor(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}
