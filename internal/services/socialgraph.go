package services

import (
	"context"
	"log/slog"

	"inkwell/internal/apperr"
	"inkwell/internal/database"
	"inkwell/internal/models"
	"inkwell/internal/ws"

	"github.com/google/uuid"
)

// SocialGraphService maintains the bidirectional follow relation
// between profiles: A in B.Followers iff B in A.Following after every
// mutation.
//
// The two sides live in two documents and the store has no
// multi-document transactions, so each mutation is a two-step saga: if
// the second write fails after the first succeeded the graph is left
// transiently asymmetric. Both operations are idempotent, so a client
// retry converges; there is no background reconciliation.
type SocialGraphService struct {
	store    database.Store
	identity *IdentityResolver
	hub      *ws.Hub
}

func NewSocialGraphService(store database.Store, identity *IdentityResolver, hub *ws.Hub) *SocialGraphService {
	return &SocialGraphService{store: store, identity: identity, hub: hub}
}

// IsFollowing reports whether the viewer follows the target profile.
// Anonymous viewers get false, not an error.
func (s *SocialGraphService) IsFollowing(ctx context.Context, credential string, targetID uuid.UUID) (bool, error) {
	viewer, err := s.identity.Resolve(ctx, credential)
	if err != nil {
		return false, err
	}
	if viewer == nil {
		return false, nil
	}
	return viewer.IsFollowingProfile(targetID), nil
}

// Follow adds the target to the viewer's following set and the viewer
// to the target's followers set. Idempotent: following an already
// followed profile succeeds without duplicating the relation.
func (s *SocialGraphService) Follow(ctx context.Context, credential string, targetID uuid.UUID) error {
	viewer, err := s.identity.requireProfile(ctx, credential)
	if err != nil {
		return err
	}

	if viewer.ID == targetID {
		return apperr.NewSelfFollowRejected()
	}

	target, err := s.store.GetProfile(ctx, targetID)
	if err != nil {
		return err
	}

	if viewer.IsFollowingProfile(targetID) {
		return nil
	}

	following := append(models.WithoutID(viewer.Following, targetID), targetID)
	if err := s.store.UpdateProfileFollowing(ctx, viewer.ID, following); err != nil {
		return apperr.NewUpstreamFailure("follow", err)
	}

	followers := append(models.WithoutID(target.Followers, viewer.ID), viewer.ID)
	if err := s.store.UpdateProfileFollowers(ctx, targetID, followers); err != nil {
		// First write committed; the graph is asymmetric until a retry.
		slog.Warn("follow left asymmetric state", "viewer", viewer.ID, "target", targetID, "error", err)
		return apperr.NewUpstreamFailure("follow", err)
	}

	s.hub.Publish(targetID, ws.Event{Type: ws.EventFollow, ActorID: viewer.ID})
	return nil
}

// Unfollow removes the relation from both sides. Idempotent:
// unfollowing a profile that was never followed succeeds.
func (s *SocialGraphService) Unfollow(ctx context.Context, credential string, targetID uuid.UUID) error {
	viewer, err := s.identity.requireProfile(ctx, credential)
	if err != nil {
		return err
	}

	target, err := s.store.GetProfile(ctx, targetID)
	if err != nil {
		return err
	}

	following := models.WithoutID(viewer.Following, targetID)
	if err := s.store.UpdateProfileFollowing(ctx, viewer.ID, following); err != nil {
		return apperr.NewUpstreamFailure("unfollow", err)
	}

	followers := models.WithoutID(target.Followers, viewer.ID)
	if err := s.store.UpdateProfileFollowers(ctx, targetID, followers); err != nil {
		slog.Warn("unfollow left asymmetric state", "viewer", viewer.ID, "target", targetID, "error", err)
		return apperr.NewUpstreamFailure("unfollow", err)
	}

	return nil
}
