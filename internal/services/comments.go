package services

import (
	"context"
	"strings"
	"time"

	"inkwell/internal/apperr"
	"inkwell/internal/database"
	"inkwell/internal/models"
	"inkwell/internal/ws"

	"github.com/google/uuid"
)

// CommentService creates comments with optional parent linkage and
// appends them to the owning post's comment sequence. No nesting depth
// is enforced here; display truncation is the renderer's policy.
type CommentService struct {
	store    database.Store
	identity *IdentityResolver
	hub      *ws.Hub
}

func NewCommentService(store database.Store, identity *IdentityResolver, hub *ws.Hub) *CommentService {
	return &CommentService{store: store, identity: identity, hub: hub}
}

// Add creates a comment on the post, optionally as a reply to parent.
func (s *CommentService) Add(ctx context.Context, credential string, postID uuid.UUID, text string, parentID *uuid.UUID) (*models.Comment, error) {
	viewer, err := s.identity.requireProfile(ctx, credential)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(text) == "" {
		return nil, apperr.New(apperr.ErrInvalidInput, "Comment text is required", nil)
	}

	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	if parentID != nil {
		parent, err := s.store.GetComment(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID {
			return nil, apperr.New(apperr.ErrInvalidInput, "Parent comment belongs to a different post", nil)
		}
	}

	comment := &models.Comment{
		ID:        uuid.New(),
		AuthorID:  viewer.ID,
		PostID:    postID,
		Text:      text,
		ParentID:  parentID,
		CreatedAt: time.Now(),
	}

	if err := s.store.SaveComment(ctx, comment); err != nil {
		return nil, apperr.NewUpstreamFailure("comment create", err)
	}

	comments := append(post.Comments, comment.ID)
	if err := s.store.UpdatePostComments(ctx, postID, comments); err != nil {
		return nil, apperr.NewUpstreamFailure("comment create", err)
	}

	if post.ProfileID != viewer.ID {
		s.hub.Publish(post.ProfileID, ws.Event{
			Type:      ws.EventComment,
			ActorID:   viewer.ID,
			PostID:    postID,
			CommentID: comment.ID,
		})
	}
	return comment, nil
}

// ListForPost returns every comment on the post, newest first.
func (s *CommentService) ListForPost(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	if _, err := s.store.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	return s.store.GetPostComments(ctx, postID)
}
