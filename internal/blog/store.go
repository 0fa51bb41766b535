// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package blog implements the client-side post cache of the admin panel.
// The store holds the window of posts for the most recently requested page
// together with the loading flag, the pagination continuation flag, and
// the post staged for editing. All list reconciliation after a
// create/update/delete happens here and nowhere else.
package blog

import (
	"context"
	"errors"
	"sync"

	"blogpanel/internal/gateway"
	"blogpanel/internal/models"
)

// ErrMutationInFlight is returned when a create, update, or delete is
// requested while another mutation has not settled yet. Mutations are
// serialized through a single in-flight token so two overlapping writes
// cannot race on the cached list.
var ErrMutationInFlight = errors.New("blog: another mutation is in flight")

// ErrStaleFetch is returned by FetchPage when its result arrived after a
// newer fetch was requested. The result is discarded; the cache belongs to
// the last-requested page.
var ErrStaleFetch = errors.New("blog: fetch superseded by a newer request")

// Snapshot is a point-in-time copy of the cached list state.
type Snapshot struct {
	Blogs    []models.Post `json:"blogs"`
	Loading  bool          `json:"loading"`
	EditBlog *models.Post  `json:"edit_blog,omitempty"`
	HasMore  bool          `json:"has_more"`
}

// Store is the authoritative client-side cache of fetched posts. It is a
// dependency-injected state container: all reads go through Snapshot and
// all writes go through the action methods. Safe for concurrent use.
type Store struct {
	gw gateway.Gateway

	mu       sync.Mutex
	blogs    []models.Post
	loading  bool
	editBlog *models.Post
	hasMore  bool
	fetchSeq uint64
	mutating bool
}

// NewStore creates a post store backed by the given gateway.
func NewStore(gw gateway.Gateway) *Store {
	return &Store{gw: gw}
}

// Snapshot returns a copy of the current list state. The returned slice is
// the caller's to keep.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Loading: s.loading,
		HasMore: s.hasMore,
	}
	snap.Blogs = make([]models.Post, len(s.blogs))
	copy(snap.Blogs, s.blogs)
	if s.editBlog != nil {
		p := *s.editBlog
		snap.EditBlog = &p
	}
	return snap
}

// FetchPage requests the window for the given page from the gateway and
// replaces the cached list wholesale on success.
//
// The loading flag is raised while the fetch is outstanding; the previous
// window stays visible underneath it. On failure the cache is left as it
// was. When two fetches overlap, only the last-requested one is applied —
// an earlier fetch that settles late returns ErrStaleFetch and changes
// nothing.
func (s *Store) FetchPage(ctx context.Context, page int) error {
	s.mu.Lock()
	s.fetchSeq++
	seq := s.fetchSeq
	s.loading = true
	s.mu.Unlock()

	win, err := s.gw.List(ctx, page)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.fetchSeq {
		// A newer fetch owns the loading flag and the cache now.
		return ErrStaleFetch
	}
	s.loading = false
	if err != nil {
		return err
	}
	s.blogs = win.Items
	s.hasMore = win.HasMore
	return nil
}

// Create sends a new post to the gateway. On success the stored record is
// returned but NOT spliced into the cached list: a fresh post belongs at
// the top of page 1 under newest-first ordering, so the caller resets to
// page 1 and re-fetches instead.
func (s *Store) Create(ctx context.Context, draft models.Draft) (*models.Post, error) {
	if err := s.beginMutation(); err != nil {
		return nil, err
	}
	defer s.endMutation()

	return s.gw.Create(ctx, draft)
}

// Update sends the full post, keyed by id and user_id, to the gateway.
// The gateway enforces ownership; the cache is not touched — the caller
// re-fetches to pick up server-ordered state.
func (s *Store) Update(ctx context.Context, post models.Post) (*models.Post, error) {
	if err := s.beginMutation(); err != nil {
		return nil, err
	}
	defer s.endMutation()

	return s.gw.Update(ctx, post)
}

// Delete removes the post by id, scoped to its owner. On success the
// matching item is dropped from the cached list immediately; on failure
// (including an ownership mismatch) the cache is unchanged.
func (s *Store) Delete(ctx context.Context, id int64, userID string) error {
	if err := s.beginMutation(); err != nil {
		return err
	}
	defer s.endMutation()

	if _, err := s.gw.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.blogs {
		if p.ID == id {
			s.blogs = append(s.blogs[:i], s.blogs[i+1:]...)
			break
		}
	}
	return nil
}

// SetEditBlog stages a post for editing.
func (s *Store) SetEditBlog(post models.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := post
	s.editBlog = &p
}

// ClearEditBlog drops the staged post.
func (s *Store) ClearEditBlog() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editBlog = nil
}

// Find returns a copy of the cached post with the given id, if present in
// the current window.
func (s *Store) Find(id int64) (models.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.blogs {
		if p.ID == id {
			return p, true
		}
	}
	return models.Post{}, false
}

// Len reports how many posts the current window holds.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blogs)
}

func (s *Store) beginMutation() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mutating {
		return ErrMutationInFlight
	}
	s.mutating = true
	return nil
}

func (s *Store) endMutation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mutating = false
}
