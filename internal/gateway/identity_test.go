package gateway

import (
	"context"
	"testing"

	"blogpanel/internal/models"
)

func TestWithIdentityOverridesCurrentUser(t *testing.T) {
	base := NewREST(RESTConfig{BaseURL: "http://unused.invalid", AccessToken: "would-call-out"})

	ident := &models.Identity{ID: "local-user", Email: "local@example.com"}
	gw := WithIdentity(base, func(ctx context.Context) *models.Identity {
		return ident
	})

	got, err := gw.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if got != ident {
		t.Errorf("identity: got %+v, want the local override", got)
	}
}

func TestWithIdentityNilFunc(t *testing.T) {
	base := NewREST(RESTConfig{BaseURL: "http://unused.invalid"})
	gw := WithIdentity(base, nil)

	got, err := gw.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil identity, got %+v", got)
	}
}
