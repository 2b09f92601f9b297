// Package services implements the consistency rules of the platform:
// identity resolution, the social graph, engagement state, comment
// threads, slug allocation and the post lifecycle. Every operation
// takes the caller's raw session credential as an explicit argument;
// nothing reads ambient request state.
package services

import (
	"context"

	"inkwell/internal/apperr"
	"inkwell/internal/auth"
	"inkwell/internal/database"
	"inkwell/internal/models"

	"github.com/google/uuid"
)

// IdentityResolver maps an opaque session credential to the acting
// profile. Pure lookup, no side effects.
type IdentityResolver struct {
	store database.Store
	auth  *auth.Authenticator
}

func NewIdentityResolver(store database.Store, authenticator *auth.Authenticator) *IdentityResolver {
	return &IdentityResolver{store: store, auth: authenticator}
}

// Resolve returns the profile acting behind the credential, or
// (nil, nil) for anonymous callers. Malformed or expired credentials
// are anonymous, not errors; read paths treat them as guests.
func (r *IdentityResolver) Resolve(ctx context.Context, credential string) (*models.Profile, error) {
	userID := r.auth.DecodeUserID(credential)
	if userID == uuid.Nil {
		return nil, nil
	}

	profile, err := r.store.GetProfileByUser(ctx, userID)
	if err != nil {
		return nil, apperr.NewUpstreamFailure("profile lookup", err)
	}
	return profile, nil
}

// requireProfile resolves the credential and rejects anonymous callers
// with an Unauthenticated error; mutating operations go through here.
func (r *IdentityResolver) requireProfile(ctx context.Context, credential string) (*models.Profile, error) {
	profile, err := r.Resolve(ctx, credential)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperr.NewUnauthenticated("no resolvable identity")
	}
	return profile, nil
}
