// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ui holds the transient UI-only state of the admin panel: the
// current form mode, which panel is visible, and the success-notification
// flags. The store is a plain state container with one setter per field —
// no timers or other side effects live here, so every transition is
// deterministic and the scheduling stays with the page controller.
package ui

import "sync"

// Mode is the form's operating mode.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// ToastMode selects which success message the notification shows.
type ToastMode string

const (
	ToastCreate ToastMode = "create"
	ToastEdit   ToastMode = "edit"
	ToastDelete ToastMode = "delete"
)

// Snapshot is a point-in-time copy of the UI state.
//
// ShowSuccess controls whether the notification is mounted at all;
// Visible drives its enter/exit animation while mounted. Keeping them
// separate lets the exit animation play before unmount.
type Snapshot struct {
	Mode        Mode      `json:"mode"`
	ToastMode   ToastMode `json:"toast_mode"`
	ShowCreate  bool      `json:"show_create"`
	ShowSuccess bool      `json:"show_success"`
	Visible     bool      `json:"visible"`
}

// Store owns the transient UI state. Safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewStore creates a UI store in its initial state: create mode, panel
// closed, no notification.
func NewStore() *Store {
	return &Store{
		snap: Snapshot{
			Mode:      ModeCreate,
			ToastMode: ToastCreate,
		},
	}
}

// Snapshot returns a copy of the current UI state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// SetMode sets the form mode.
func (s *Store) SetMode(m Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Mode = m
}

// SetToastMode selects the notification message variant.
func (s *Store) SetToastMode(m ToastMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.ToastMode = m
}

// SetShowCreate opens or closes the create/edit panel.
func (s *Store) SetShowCreate(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.ShowCreate = open
}

// SetShowSuccess mounts or unmounts the success notification.
func (s *Store) SetShowSuccess(show bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.ShowSuccess = show
}

// SetVisible toggles the notification's animated visibility.
func (s *Store) SetVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Visible = visible
}
