// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"blogpanel/internal/gateway"
	"blogpanel/internal/models"
)

// fakeGateway lets each test script the remote service's behavior.
type fakeGateway struct {
	mu         sync.Mutex
	listFn     func(ctx context.Context, page int) (gateway.Window, error)
	createFn   func(ctx context.Context, draft models.Draft) (*models.Post, error)
	updateFn   func(ctx context.Context, post models.Post) (*models.Post, error)
	deleteFn   func(ctx context.Context, id int64, userID string) (int64, error)
	identity   *models.Identity
	listCalls  int
	lastPage   int
	deleteIDs  []int64
	createdAll []models.Draft
}

func (f *fakeGateway) List(ctx context.Context, page int) (gateway.Window, error) {
	f.mu.Lock()
	f.listCalls++
	f.lastPage = page
	fn := f.listFn
	f.mu.Unlock()
	if fn == nil {
		return gateway.Window{}, nil
	}
	return fn(ctx, page)
}

func (f *fakeGateway) Create(ctx context.Context, draft models.Draft) (*models.Post, error) {
	f.mu.Lock()
	f.createdAll = append(f.createdAll, draft)
	fn := f.createFn
	f.mu.Unlock()
	if fn == nil {
		return &models.Post{ID: 1, Title: draft.Title}, nil
	}
	return fn(ctx, draft)
}

func (f *fakeGateway) Update(ctx context.Context, post models.Post) (*models.Post, error) {
	f.mu.Lock()
	fn := f.updateFn
	f.mu.Unlock()
	if fn == nil {
		p := post
		return &p, nil
	}
	return fn(ctx, post)
}

func (f *fakeGateway) Delete(ctx context.Context, id int64, userID string) (int64, error) {
	f.mu.Lock()
	f.deleteIDs = append(f.deleteIDs, id)
	fn := f.deleteFn
	f.mu.Unlock()
	if fn == nil {
		return id, nil
	}
	return fn(ctx, id, userID)
}

func (f *fakeGateway) CurrentUser(ctx context.Context) (*models.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.identity, nil
}

// windowOf builds a fetch result from post ids.
func windowOf(hasMore bool, ids ...int64) gateway.Window {
	items := make([]models.Post, len(ids))
	for i, id := range ids {
		items[i] = models.Post{ID: id, Title: "post", UserID: "u1"}
	}
	return gateway.Window{Items: items, Total: int64(len(ids)), HasMore: hasMore}
}

func TestFetchPageReplacesWindow(t *testing.T) {
	gw := &fakeGateway{
		listFn: func(ctx context.Context, page int) (gateway.Window, error) {
			if page == 1 {
				return windowOf(true, 40, 30, 20, 10), nil
			}
			return windowOf(false, 5), nil
		},
	}
	s := NewStore(gw)

	if err := s.FetchPage(context.Background(), 1); err != nil {
		t.Fatalf("FetchPage(1): %v", err)
	}
	snap := s.Snapshot()
	if len(snap.Blogs) != 4 {
		t.Fatalf("page 1: got %d posts, want 4", len(snap.Blogs))
	}
	if !snap.HasMore {
		t.Error("expected HasMore after page 1")
	}
	if snap.Loading {
		t.Error("loading flag still raised after fetch settled")
	}

	// The next page replaces the window wholesale, never appends.
	if err := s.FetchPage(context.Background(), 2); err != nil {
		t.Fatalf("FetchPage(2): %v", err)
	}
	snap = s.Snapshot()
	if len(snap.Blogs) != 1 || snap.Blogs[0].ID != 5 {
		t.Fatalf("page 2: got %+v, want the single post 5", snap.Blogs)
	}
	if snap.HasMore {
		t.Error("expected HasMore=false on the last page")
	}
}

func TestFetchPageFailureKeepsWindow(t *testing.T) {
	calls := 0
	gw := &fakeGateway{
		listFn: func(ctx context.Context, page int) (gateway.Window, error) {
			calls++
			if calls == 1 {
				return windowOf(true, 3, 2, 1), nil
			}
			return gateway.Window{}, &gateway.Error{Op: "list", Status: 500, Message: "boom"}
		},
	}
	s := NewStore(gw)

	if err := s.FetchPage(context.Background(), 1); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	err := s.FetchPage(context.Background(), 2)
	if err == nil {
		t.Fatal("expected fetch error")
	}

	snap := s.Snapshot()
	if len(snap.Blogs) != 3 {
		t.Errorf("window after failed fetch: got %d posts, want the previous 3", len(snap.Blogs))
	}
	if snap.Loading {
		t.Error("loading flag must clear after a failed fetch")
	}
}

func TestFetchPageStaleResultDiscarded(t *testing.T) {
	release := make(chan struct{})
	gw := &fakeGateway{
		listFn: func(ctx context.Context, page int) (gateway.Window, error) {
			if page == 1 {
				// The slow fetch parks until the fast one has settled.
				<-release
				return windowOf(true, 99, 98), nil
			}
			return windowOf(false, 7), nil
		},
	}
	s := NewStore(gw)

	done := make(chan error, 1)
	go func() { done <- s.FetchPage(context.Background(), 1) }()

	// Let the slow fetch raise its sequence number before the fast one.
	for i := 0; i < 100; i++ {
		gw.mu.Lock()
		started := gw.listCalls >= 1
		gw.mu.Unlock()
		if started {
			break
		}
		time.Sleep(time.Millisecond)
	}

	if err := s.FetchPage(context.Background(), 2); err != nil {
		t.Fatalf("newer fetch: %v", err)
	}
	close(release)

	if err := <-done; !errors.Is(err, ErrStaleFetch) {
		t.Fatalf("stale fetch: got %v, want ErrStaleFetch", err)
	}

	snap := s.Snapshot()
	if len(snap.Blogs) != 1 || snap.Blogs[0].ID != 7 {
		t.Errorf("cache after stale fetch: got %+v, want page 2's single post", snap.Blogs)
	}
	if snap.Loading {
		t.Error("loading flag owned by the newest fetch must be cleared")
	}
}

func TestCreateDoesNotSplice(t *testing.T) {
	gw := &fakeGateway{
		listFn: func(ctx context.Context, page int) (gateway.Window, error) {
			return windowOf(false, 2, 1), nil
		},
		createFn: func(ctx context.Context, draft models.Draft) (*models.Post, error) {
			return &models.Post{ID: 3, Title: draft.Title, CreatedAt: time.Now()}, nil
		},
	}
	s := NewStore(gw)
	if err := s.FetchPage(context.Background(), 1); err != nil {
		t.Fatal(err)
	}

	post, err := s.Create(context.Background(), models.Draft{Title: "new"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if post.ID != 3 {
		t.Errorf("id: got %d, want the server-assigned 3", post.ID)
	}

	// The fresh post belongs at the top of page 1 after a re-fetch; the
	// cached window stays as the server last reported it.
	if got := s.Len(); got != 2 {
		t.Errorf("window length after create: got %d, want 2", got)
	}
}

func TestDeleteDropsCachedItem(t *testing.T) {
	gw := &fakeGateway{
		listFn: func(ctx context.Context, page int) (gateway.Window, error) {
			return windowOf(false, 3, 2, 1), nil
		},
	}
	s := NewStore(gw)
	if err := s.FetchPage(context.Background(), 1); err != nil {
		t.Fatal(err)
	}

	if err := s.Delete(context.Background(), 2, "u1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	snap := s.Snapshot()
	if len(snap.Blogs) != 2 {
		t.Fatalf("got %d posts, want 2", len(snap.Blogs))
	}
	for _, p := range snap.Blogs {
		if p.ID == 2 {
			t.Error("deleted post still cached")
		}
	}
}

func TestDeleteFailureKeepsCache(t *testing.T) {
	gw := &fakeGateway{
		listFn: func(ctx context.Context, page int) (gateway.Window, error) {
			return windowOf(false, 3, 2, 1), nil
		},
		deleteFn: func(ctx context.Context, id int64, userID string) (int64, error) {
			return 0, &gateway.Error{Op: "delete", Message: "no owned post matched id"}
		},
	}
	s := NewStore(gw)
	if err := s.FetchPage(context.Background(), 1); err != nil {
		t.Fatal(err)
	}

	if err := s.Delete(context.Background(), 2, "intruder"); err == nil {
		t.Fatal("expected ownership error")
	}
	if got := s.Len(); got != 3 {
		t.Errorf("cache after failed delete: got %d posts, want 3 untouched", got)
	}
}

func TestMutationsAreSerialized(t *testing.T) {
	block := make(chan struct{})
	gw := &fakeGateway{
		createFn: func(ctx context.Context, draft models.Draft) (*models.Post, error) {
			<-block
			return &models.Post{ID: 1}, nil
		},
	}
	s := NewStore(gw)

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Create(context.Background(), models.Draft{Title: "slow"})
	}()

	// Wait until the first mutation holds the token.
	for i := 0; i < 100; i++ {
		gw.mu.Lock()
		started := len(gw.createdAll) == 1
		gw.mu.Unlock()
		if started {
			break
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := s.Create(context.Background(), models.Draft{Title: "second"}); !errors.Is(err, ErrMutationInFlight) {
		t.Errorf("overlapping create: got %v, want ErrMutationInFlight", err)
	}
	if err := s.Delete(context.Background(), 1, "u1"); !errors.Is(err, ErrMutationInFlight) {
		t.Errorf("overlapping delete: got %v, want ErrMutationInFlight", err)
	}

	close(block)
	<-done

	// The token is released once the mutation settles.
	if _, err := s.Create(context.Background(), models.Draft{Title: "after"}); err != nil {
		t.Errorf("create after settle: %v", err)
	}
}

func TestEditBlogStaging(t *testing.T) {
	s := NewStore(&fakeGateway{})

	if snap := s.Snapshot(); snap.EditBlog != nil {
		t.Fatal("fresh store must have no staged post")
	}

	s.SetEditBlog(models.Post{ID: 9, Title: "staged"})
	snap := s.Snapshot()
	if snap.EditBlog == nil || snap.EditBlog.ID != 9 {
		t.Fatalf("staged post: got %+v", snap.EditBlog)
	}

	// Snapshot hands out a copy, not the staged pointer.
	snap.EditBlog.Title = "mutated"
	if again := s.Snapshot(); again.EditBlog.Title != "staged" {
		t.Error("snapshot leaked the internal staged post")
	}

	s.ClearEditBlog()
	if snap := s.Snapshot(); snap.EditBlog != nil {
		t.Error("staged post survived ClearEditBlog")
	}
}

func TestFind(t *testing.T) {
	gw := &fakeGateway{
		listFn: func(ctx context.Context, page int) (gateway.Window, error) {
			return windowOf(false, 5, 4), nil
		},
	}
	s := NewStore(gw)
	if err := s.FetchPage(context.Background(), 1); err != nil {
		t.Fatal(err)
	}

	if _, ok := s.Find(4); !ok {
		t.Error("expected to find cached post 4")
	}
	if _, ok := s.Find(42); ok {
		t.Error("found a post outside the cached window")
	}
}
