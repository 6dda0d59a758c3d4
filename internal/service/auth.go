package service

import (
	"context"
)

// grantStore is the slice of the store the auth service reads.
type grantStore interface {
	HasAdminGrant(ctx context.Context, id int64) (bool, error)
}

// AuthService answers the single authorization question the system has:
// does this identity hold admin privilege. Every admin-gated operation goes
// through here rather than repeating the check inline.
type AuthService struct {
	store grantStore
}

func NewAuthService(store grantStore) *AuthService {
	return &AuthService{store: store}
}

// IsAdmin is true iff an admin grant row exists for id. Pure read.
func (a *AuthService) IsAdmin(ctx context.Context, id int64) (bool, error) {
	return a.store.HasAdminGrant(ctx, id)
}
