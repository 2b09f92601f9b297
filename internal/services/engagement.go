package services

import (
	"context"

	"inkwell/internal/apperr"
	"inkwell/internal/database"
	"inkwell/internal/models"
	"inkwell/internal/ws"

	"github.com/google/uuid"
)

// EngagementService maintains per-post upvote sets and per-profile
// reading lists, keeping both sides of each relation in sync.
// UpvoteCount is recomputed from the set and persisted with it in the
// same write. Toggles are read-then-write with no lock; two sessions
// racing on the same viewer can leave the count transiently off until
// the next toggle recomputes it.
type EngagementService struct {
	store    database.Store
	identity *IdentityResolver
	hub      *ws.Hub
}

func NewEngagementService(store database.Store, identity *IdentityResolver, hub *ws.Hub) *EngagementService {
	return &EngagementService{store: store, identity: identity, hub: hub}
}

// ToggleUpvote flips the viewer's membership in the post's upvote set
// and returns the new state (true = now upvoted).
func (s *EngagementService) ToggleUpvote(ctx context.Context, credential string, postID uuid.UUID) (bool, error) {
	viewer, err := s.identity.requireProfile(ctx, credential)
	if err != nil {
		return false, err
	}

	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return false, err
	}

	var upvotes []uuid.UUID
	upvoted := post.IsUpvotedBy(viewer.ID)
	if upvoted {
		upvotes = models.WithoutID(post.Upvotes, viewer.ID)
	} else {
		upvotes = append(models.WithoutID(post.Upvotes, viewer.ID), viewer.ID)
	}

	if err := s.store.UpdatePostUpvotes(ctx, postID, upvotes, len(upvotes)); err != nil {
		return false, apperr.NewUpstreamFailure("upvote toggle", err)
	}

	if !upvoted && post.ProfileID != viewer.ID {
		s.hub.Publish(post.ProfileID, ws.Event{Type: ws.EventUpvote, ActorID: viewer.ID, PostID: postID})
	}
	return !upvoted, nil
}

// ToggleReadingList flips the post's membership in the viewer's
// reading list and the viewer's membership in the post's saves set, in
// that order, and returns the new state.
func (s *EngagementService) ToggleReadingList(ctx context.Context, credential string, postID uuid.UUID) (bool, error) {
	viewer, err := s.identity.requireProfile(ctx, credential)
	if err != nil {
		return false, err
	}

	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return false, err
	}

	saved := viewer.HasSaved(postID)

	var readingList []uuid.UUID
	var saves []uuid.UUID
	if saved {
		readingList = models.WithoutID(viewer.ReadingList, postID)
		saves = models.WithoutID(post.Saves, viewer.ID)
	} else {
		readingList = append(models.WithoutID(viewer.ReadingList, postID), postID)
		saves = append(models.WithoutID(post.Saves, viewer.ID), viewer.ID)
	}

	if err := s.store.UpdateProfileReadingList(ctx, viewer.ID, readingList); err != nil {
		return false, apperr.NewUpstreamFailure("reading list toggle", err)
	}
	if err := s.store.UpdatePostSaves(ctx, postID, saves); err != nil {
		return false, apperr.NewUpstreamFailure("reading list toggle", err)
	}

	return !saved, nil
}

// RemoveFromReadingList unconditionally removes the post from the
// viewer's reading list and the viewer from the post's saves set.
// Idempotent; a missing post only means there is no saves side left to
// clean.
func (s *EngagementService) RemoveFromReadingList(ctx context.Context, credential string, postID uuid.UUID) error {
	viewer, err := s.identity.requireProfile(ctx, credential)
	if err != nil {
		return err
	}

	readingList := models.WithoutID(viewer.ReadingList, postID)
	if err := s.store.UpdateProfileReadingList(ctx, viewer.ID, readingList); err != nil {
		return apperr.NewUpstreamFailure("reading list removal", err)
	}

	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		if apperr.IsErrorCode(err, apperr.ErrNotFound) {
			return nil
		}
		return err
	}

	saves := models.WithoutID(post.Saves, viewer.ID)
	if err := s.store.UpdatePostSaves(ctx, postID, saves); err != nil {
		return apperr.NewUpstreamFailure("reading list removal", err)
	}
	return nil
}

// Status reports whether the viewer has upvoted and saved the post
// with the given slug. Anonymous viewers get false/false.
func (s *EngagementService) Status(ctx context.Context, credential string, slug string) (upvoted, saved bool, err error) {
	viewer, err := s.identity.Resolve(ctx, credential)
	if err != nil {
		return false, false, err
	}
	if viewer == nil {
		return false, false, nil
	}

	post, err := s.store.GetPostBySlug(ctx, slug)
	if err != nil {
		return false, false, apperr.NewUpstreamFailure("post lookup", err)
	}
	if post == nil {
		return false, false, apperr.NewNotFound("Post", slug)
	}

	return post.IsUpvotedBy(viewer.ID), viewer.HasSaved(post.ID), nil
}
