// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the blog admin panel.
// The panel's presentation layer lives entirely in the browser; these
// handlers expose the page controller as a JSON API: one snapshot
// endpoint the frontend renders from, and one endpoint per UI action.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"blogpanel/internal/blog"
	"blogpanel/internal/form"
	"blogpanel/internal/gateway"
	"blogpanel/internal/panel"
)

// Admin groups the panel's HTTP handlers around the page controller.
type Admin struct {
	ctrl *panel.Controller
}

// NewAdmin creates the admin handler group.
func NewAdmin(ctrl *panel.Controller) *Admin {
	return &Admin{ctrl: ctrl}
}

// State returns the full panel snapshot: the cached post window, fetch and
// pagination state, UI flags, and the form buffer.
func (a *Admin) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.ctrl.Snapshot())
}

// Refresh fetches the current page and returns the new snapshot. The
// frontend calls it once on mount.
func (a *Admin) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := a.ctrl.Refresh(r.Context()); err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a.ctrl.Snapshot())
}

// SetPage moves to the requested page and fetches it.
func (a *Admin) SetPage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Page int `json:"page"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := a.ctrl.SetPage(r.Context(), req.Page); err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a.ctrl.Snapshot())
}

// OpenCreate starts the create flow (blank form, panel opening).
func (a *Admin) OpenCreate(w http.ResponseWriter, r *http.Request) {
	a.ctrl.OpenCreate()
	writeJSON(w, http.StatusOK, a.ctrl.Snapshot())
}

// PanelClosed is the frontend's notification that the panel's close
// transition finished; any pending edit or create opens now.
func (a *Admin) PanelClosed(w http.ResponseWriter, r *http.Request) {
	a.ctrl.PanelClosed()
	writeJSON(w, http.StatusOK, a.ctrl.Snapshot())
}

// Cancel abandons the open form and closes the panel.
func (a *Admin) Cancel(w http.ResponseWriter, r *http.Request) {
	a.ctrl.Cancel()
	writeJSON(w, http.StatusOK, a.ctrl.Snapshot())
}

// StageEdit begins editing the post named in the URL.
func (a *Admin) StageEdit(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed post id")
		return
	}

	if err := a.ctrl.StageEdit(id); err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a.ctrl.Snapshot())
}

// Submit handles the create/edit form submission. Validation failures come
// back as 422 with per-field messages and leave the form populated.
func (a *Admin) Submit(w http.ResponseWriter, r *http.Request) {
	var v form.Values
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if msg := validateLengths(v); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	if err := a.ctrl.Submit(r.Context(), v); err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a.ctrl.Snapshot())
}

// Delete removes the post named in the URL and reconciles pagination.
func (a *Admin) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed post id")
		return
	}

	if err := a.ctrl.Delete(r.Context(), id); err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a.ctrl.Snapshot())
}

// fail maps controller and store errors onto HTTP status codes.
func (a *Admin) fail(w http.ResponseWriter, err error) {
	var invalid *form.InvalidError
	var gwErr *gateway.Error

	switch {
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "validation failed",
			"fields": invalid.Fields,
		})
	case errors.Is(err, panel.ErrUnknownPost):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, panel.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, blog.ErrMutationInFlight):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &gwErr):
		slog.Error("gateway call failed", "op", gwErr.Op, "status", gwErr.Status, "message", gwErr.Message)
		writeError(w, http.StatusBadGateway, "data service error: "+gwErr.Message)
	default:
		slog.Error("panel action failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// postID parses the {id} URL parameter.
func postID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// writeError writes a JSON error body with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
