package state

import (
	"context"

	"github.com/freshkart/storefront-go/pkg/api"
)

// slotKey names the single persisted session slot. Last writer wins.
const slotKey = "current"

// Session is the persisted snapshot restored at startup: the bearer token and
// the last-known identity.
type Session struct {
	Token string
	User  *api.Identity
}

// Store persists the session slot across restarts.
type Store interface {
	Save(ctx context.Context, sess Session) error
	// Load returns (nil, nil) when no session has been persisted.
	Load(ctx context.Context) (*Session, error)
	Clear(ctx context.Context) error
}
