package gateway

import (
	"context"

	"blogpanel/internal/models"
)

// identityOverride replaces a gateway's currentUser lookup with a local
// source, leaving the CRUD surface untouched. Used when posts live in the
// hosted service but sign-in happens against the panel's own accounts.
type identityOverride struct {
	Gateway
	identity IdentityFunc
}

// WithIdentity returns gw with CurrentUser answered by fn instead of the
// underlying service.
func WithIdentity(gw Gateway, fn IdentityFunc) Gateway {
	return &identityOverride{Gateway: gw, identity: fn}
}

func (o *identityOverride) CurrentUser(ctx context.Context) (*models.Identity, error) {
	if o.identity == nil {
		return nil, nil
	}
	return o.identity(ctx), nil
}
