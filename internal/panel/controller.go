// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package panel implements the page controller of the admin panel. It owns
// the current page number and orchestrates everything the stores do not:
// requesting pages, reconciling the page number after deletes, re-syncing
// to page one after creates and edits, staging edits across the panel's
// close/open transition, and scheduling the timed success notification.
package panel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"blogpanel/internal/blog"
	"blogpanel/internal/form"
	"blogpanel/internal/gateway"
	"blogpanel/internal/models"
	"blogpanel/internal/ui"
)

// FetchState tracks the most recent page fetch.
type FetchState string

const (
	FetchIdle    FetchState = "idle"
	FetchLoading FetchState = "loading"
	FetchLoaded  FetchState = "loaded"
	FetchError   FetchState = "error"
)

// Toast timing defaults: the notification stays fully visible for
// HideAfter, then plays its exit animation and unmounts at RemoveAfter.
const (
	DefaultToastHideAfter   = 3000 * time.Millisecond
	DefaultToastRemoveAfter = 3500 * time.Millisecond
)

// ErrNotAuthenticated is returned when a create is submitted without a
// current-user identity to stamp onto the new post.
var ErrNotAuthenticated = errors.New("panel: no authenticated user")

// ErrUnknownPost is returned when an action names a post id that is not in
// the current window.
var ErrUnknownPost = errors.New("panel: post not in current window")

// Options tune the controller. Zero values fall back to defaults.
type Options struct {
	ToastHideAfter   time.Duration
	ToastRemoveAfter time.Duration
}

// Snapshot is the full view-facing state of the panel at one instant.
type Snapshot struct {
	Page      int           `json:"page"`
	Fetch     FetchState    `json:"fetch"`
	LastError string        `json:"last_error,omitempty"`
	Posts     blog.Snapshot `json:"posts"`
	UI        ui.Snapshot   `json:"ui"`
	Form      form.Values   `json:"form"`
}

// Controller wires the post store, UI store, form buffer, and gateway into
// the create/edit/delete flows. Methods that reach the gateway take a
// context and block only their caller; the controller itself is safe for
// concurrent use.
type Controller struct {
	gw    gateway.Gateway
	posts *blog.Store
	ui    *ui.Store
	form  *form.Buffer

	hideAfter   time.Duration
	removeAfter time.Duration

	mu            sync.Mutex
	page          int
	fetch         FetchState
	lastErr       string
	pendingEdit   *models.Post
	pendingCreate bool
	toastGen      uint64
	hideTimer     *time.Timer
	removeTimer   *time.Timer
}

// New creates a controller starting at page 1 with nothing fetched yet.
func New(gw gateway.Gateway, posts *blog.Store, uiStore *ui.Store, buf *form.Buffer, opts Options) *Controller {
	if opts.ToastHideAfter <= 0 {
		opts.ToastHideAfter = DefaultToastHideAfter
	}
	if opts.ToastRemoveAfter <= 0 {
		opts.ToastRemoveAfter = DefaultToastRemoveAfter
	}
	return &Controller{
		gw:          gw,
		posts:       posts,
		ui:          uiStore,
		form:        buf,
		hideAfter:   opts.ToastHideAfter,
		removeAfter: opts.ToastRemoveAfter,
		page:        1,
		fetch:       FetchIdle,
	}
}

// Snapshot returns the combined state of the controller and its stores.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	page, fetch, lastErr := c.page, c.fetch, c.lastErr
	c.mu.Unlock()

	return Snapshot{
		Page:      page,
		Fetch:     fetch,
		LastError: lastErr,
		Posts:     c.posts.Snapshot(),
		UI:        c.ui.Snapshot(),
		Form:      c.form.Values(),
	}
}

// Page returns the current 1-based page number.
func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// Refresh fetches the current page. Called on mount and whenever the list
// needs to reflect server state again.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.fetchPage(ctx, c.Page())
}

// SetPage moves to the given page (clamped to 1) and fetches it.
func (c *Controller) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	c.mu.Lock()
	c.page = page
	c.mu.Unlock()
	return c.fetchPage(ctx, page)
}

// fetchPage drives the per-fetch state machine. A stale result (superseded
// by a newer fetch) leaves the state alone: the newer fetch owns it.
func (c *Controller) fetchPage(ctx context.Context, page int) error {
	c.mu.Lock()
	c.fetch = FetchLoading
	c.mu.Unlock()

	err := c.posts.FetchPage(ctx, page)

	if errors.Is(err, blog.ErrStaleFetch) {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.fetch = FetchError
		c.lastErr = err.Error()
		slog.Error("page fetch failed", "page", page, "error", err)
		return err
	}
	c.fetch = FetchLoaded
	c.lastErr = ""
	return nil
}

// Delete removes the post with the given id from the current window.
//
// The gateway call is scoped to the post's owner. On success the store has
// already dropped the item locally; the controller then reconciles the
// page number: if the deleted post was the only item on a page past the
// first, it steps back one page, otherwise it re-fetches the same page so
// the item that slid in from the next window appears.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	post, ok := c.posts.Find(id)
	if !ok {
		return fmt.Errorf("%w: id %d", ErrUnknownPost, id)
	}

	before := c.posts.Len()

	if err := c.posts.Delete(ctx, id, post.UserID); err != nil {
		slog.Error("delete failed", "id", id, "error", err)
		return err
	}

	c.ui.SetToastMode(ui.ToastDelete)
	c.showToast()

	c.mu.Lock()
	page := c.page
	soleItem := before == 1 && page > 1
	if soleItem {
		c.page = page - 1
		page = c.page
	}
	c.mu.Unlock()

	return c.fetchPage(ctx, page)
}

// StageEdit begins the edit flow for a post in the current window. Any
// open panel is closed first; the post is staged and applied when the view
// reports the close transition finished via PanelClosed. If no panel was
// open there is no transition to wait for and the edit applies at once.
func (c *Controller) StageEdit(id int64) error {
	post, ok := c.posts.Find(id)
	if !ok {
		return fmt.Errorf("%w: id %d", ErrUnknownPost, id)
	}

	wasOpen := c.ui.Snapshot().ShowCreate

	c.mu.Lock()
	c.pendingCreate = false
	c.pendingEdit = &post
	c.mu.Unlock()

	if wasOpen {
		c.ui.SetShowCreate(false)
		return nil
	}
	c.PanelClosed()
	return nil
}

// OpenCreate begins the create flow: a fresh blank form in a newly opened
// panel. Like StageEdit, an already-open panel closes first and the blank
// form applies on PanelClosed.
func (c *Controller) OpenCreate() {
	wasOpen := c.ui.Snapshot().ShowCreate

	c.mu.Lock()
	c.pendingEdit = nil
	c.pendingCreate = true
	c.mu.Unlock()

	if wasOpen {
		c.ui.SetShowCreate(false)
		return
	}
	c.PanelClosed()
}

// PanelClosed is the completion event for the panel's close transition.
// It applies whichever open is pending — staging an edit or resetting to a
// blank create form — and reopens the panel. With nothing pending (the
// user simply closed the panel) it does nothing.
func (c *Controller) PanelClosed() {
	c.mu.Lock()
	pendingEdit := c.pendingEdit
	pendingCreate := c.pendingCreate
	c.pendingEdit = nil
	c.pendingCreate = false
	c.mu.Unlock()

	switch {
	case pendingEdit != nil:
		c.posts.SetEditBlog(*pendingEdit)
		c.ui.SetMode(ui.ModeEdit)
		c.form.Seed(ui.ModeEdit, pendingEdit)
		c.ui.SetShowCreate(true)
	case pendingCreate:
		c.posts.ClearEditBlog()
		c.ui.SetMode(ui.ModeCreate)
		c.ui.SetToastMode(ui.ToastCreate)
		c.form.Seed(ui.ModeCreate, nil)
		c.ui.SetShowCreate(true)
	}
}

// Cancel abandons the current form: the panel closes, the staged post is
// dropped, and the mode returns to create. Field values are not preserved.
func (c *Controller) Cancel() {
	c.mu.Lock()
	c.pendingEdit = nil
	c.pendingCreate = false
	c.mu.Unlock()

	c.ui.SetShowCreate(false)
	c.posts.ClearEditBlog()
	c.ui.SetMode(ui.ModeCreate)
	c.form.Seed(ui.ModeCreate, nil)
}

// Submit runs the form submission for the current mode. In edit mode the
// staged post is updated with the submitted fields; in create mode a new
// post is stamped with the current user's identity. On success the page
// resets to 1 and re-fetches, the panel closes, edit state clears, and the
// success notification shows. On failure everything stays put — panel
// open, fields retained — so the user can retry.
func (c *Controller) Submit(ctx context.Context, v form.Values) error {
	c.form.Apply(v)

	editing := c.posts.Snapshot().EditBlog

	err := c.form.Submit(ctx, func(ctx context.Context, v form.Values) error {
		if editing != nil {
			post := *editing
			post.Title = v.Title
			post.Author = v.Author
			post.Category = models.Category(v.Category)
			post.Description = v.Description
			if _, err := c.posts.Update(ctx, post); err != nil {
				return err
			}
			c.ui.SetToastMode(ui.ToastEdit)
			return nil
		}

		ident, err := c.gw.CurrentUser(ctx)
		if err != nil {
			return err
		}
		if ident == nil {
			return ErrNotAuthenticated
		}

		draft := models.Draft{
			Title:       v.Title,
			Author:      v.Author,
			Category:    models.Category(v.Category),
			Description: v.Description,
			UserID:      ident.ID,
			Email:       ident.Email,
		}
		draft.Normalize()
		if _, err := c.posts.Create(ctx, draft); err != nil {
			return err
		}
		c.ui.SetToastMode(ui.ToastCreate)
		return nil
	})
	if err != nil {
		slog.Error("form submit failed", "error", err)
		return err
	}

	c.ui.SetShowCreate(false)
	c.posts.ClearEditBlog()
	c.ui.SetMode(ui.ModeCreate)
	c.showToast()

	c.mu.Lock()
	c.page = 1
	c.mu.Unlock()

	return c.fetchPage(ctx, 1)
}

// showToast enters the notification's Showing state and schedules the two
// timed transitions: visible=false at hideAfter (exit animation starts)
// and showSuccess=false at removeAfter (unmount). Re-triggering while a
// notification is up cancels both timers and restarts them from now, so a
// stale timer can never hide a newer notification early.
func (c *Controller) showToast() {
	c.mu.Lock()
	c.toastGen++
	gen := c.toastGen
	if c.hideTimer != nil {
		c.hideTimer.Stop()
	}
	if c.removeTimer != nil {
		c.removeTimer.Stop()
	}
	c.mu.Unlock()

	c.ui.SetShowSuccess(true)
	c.ui.SetVisible(true)

	hide := time.AfterFunc(c.hideAfter, func() {
		if c.currentToast(gen) {
			c.ui.SetVisible(false)
		}
	})
	remove := time.AfterFunc(c.removeAfter, func() {
		if c.currentToast(gen) {
			c.ui.SetShowSuccess(false)
		}
	})

	c.mu.Lock()
	c.hideTimer = hide
	c.removeTimer = remove
	c.mu.Unlock()
}

// currentToast reports whether gen is still the latest notification.
// Timer.Stop cannot stop a callback that is already running, so each
// callback re-checks its generation before touching the UI store.
func (c *Controller) currentToast(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.toastGen
}

// Close cancels any scheduled notification timers. Call on shutdown so a
// timer never fires against torn-down state.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toastGen++
	if c.hideTimer != nil {
		c.hideTimer.Stop()
		c.hideTimer = nil
	}
	if c.removeTimer != nil {
		c.removeTimer.Stop()
		c.removeTimer = nil
	}
}
