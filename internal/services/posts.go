package services

import (
	"context"
	"log/slog"
	"time"

	"inkwell/internal/apperr"
	"inkwell/internal/blob"
	"inkwell/internal/database"
	"inkwell/internal/models"

	"github.com/google/uuid"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Upload is an inbound binary attachment (cover image, avatar).
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// PostInput carries the caller-editable fields of a post. Slug, when
// set, overrides title-derived slug allocation.
type PostInput struct {
	Title       string
	Description string
	Content     string
	Categories  []uuid.UUID
	Slug        string
	CoverImage  *Upload
}

// PostService owns the post lifecycle: create, update, delete with its
// cleanup cascade, and the featured-post rotation.
type PostService struct {
	store    database.Store
	identity *IdentityResolver
	slugs    *SlugAllocator
	files    blob.FileStore
}

func NewPostService(store database.Store, identity *IdentityResolver, slugs *SlugAllocator, files blob.FileStore) *PostService {
	return &PostService{store: store, identity: identity, slugs: slugs, files: files}
}

// Create publishes a new post for the calling profile. Engagement
// state starts empty and the slug is allocated before the first write.
func (s *PostService) Create(ctx context.Context, credential string, input PostInput) (*models.Post, error) {
	profile, err := s.identity.requireProfile(ctx, credential)
	if err != nil {
		return nil, err
	}
	if input.Title == "" {
		return nil, apperr.New(apperr.ErrInvalidInput, "Title is required", nil)
	}
	if input.Content == "" {
		return nil, apperr.New(apperr.ErrInvalidInput, "Content is required", nil)
	}

	slug, err := s.allocateSlug(ctx, input, nil)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	post := &models.Post{
		ID:          uuid.New(),
		ProfileID:   profile.ID,
		UserID:      profile.UserID,
		Title:       input.Title,
		Description: input.Description,
		Content:     input.Content,
		Categories:  input.Categories,
		Upvotes:     []uuid.UUID{},
		Saves:       []uuid.UUID{},
		Comments:    []uuid.UUID{},
		Slug:        slug,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if input.CoverImage != nil {
		media, err := s.storeCover(ctx, input.CoverImage)
		if err != nil {
			return nil, err
		}
		post.CoverImageID = &media.ID
	}

	if err := s.store.SavePost(ctx, post); err != nil {
		return nil, apperr.NewUpstreamFailure("post create", err)
	}
	return post, nil
}

// Update edits an existing post. Only the owning user may update; the
// slug is reallocated only when the title changed and the caller did
// not pin one explicitly.
func (s *PostService) Update(ctx context.Context, credential string, postID uuid.UUID, input PostInput) (*models.Post, error) {
	profile, err := s.identity.requireProfile(ctx, credential)
	if err != nil {
		return nil, err
	}
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != profile.UserID {
		return nil, apperr.NewUnauthorized("only the author can edit this post")
	}
	if input.Title == "" {
		return nil, apperr.New(apperr.ErrInvalidInput, "Title is required", nil)
	}

	switch {
	case input.Slug != "":
		slug, err := s.slugs.AllocateExplicit(ctx, input.Slug, &post.ID)
		if err != nil {
			return nil, err
		}
		post.Slug = slug
	case input.Title != post.Title:
		slug, err := s.slugs.Allocate(ctx, input.Title, &post.ID)
		if err != nil {
			return nil, err
		}
		post.Slug = slug
	}

	post.Title = input.Title
	post.Description = input.Description
	post.Content = input.Content
	post.Categories = input.Categories
	post.UpdatedAt = time.Now()

	if input.CoverImage != nil {
		old := post.CoverImageID
		media, err := s.storeCover(ctx, input.CoverImage)
		if err != nil {
			return nil, err
		}
		post.CoverImageID = &media.ID
		if old != nil {
			removeMedia(ctx, s.store, s.files, *old)
		}
	}

	if err := s.store.SavePost(ctx, post); err != nil {
		return nil, apperr.NewUpstreamFailure("post update", err)
	}
	return post, nil
}

// Delete removes a post and everything that references it: reading
// list entries across all profiles, the post's comments, the post
// document itself, and finally its cover image. Reference cleanup runs
// before the post delete so a failure never strands dangling pointers
// at a deleted post.
func (s *PostService) Delete(ctx context.Context, credential string, postID uuid.UUID) error {
	profile, err := s.identity.requireProfile(ctx, credential)
	if err != nil {
		return err
	}
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != profile.UserID {
		return apperr.NewUnauthorized("only the author can delete this post")
	}

	savers, err := s.store.FindProfilesWithSaved(ctx, post.ID)
	if err != nil {
		return apperr.NewUpstreamFailure("reading list scan", err)
	}
	for _, saver := range savers {
		pruned := models.WithoutID(saver.ReadingList, post.ID)
		if err := s.store.UpdateProfileReadingList(ctx, saver.ID, pruned); err != nil {
			return apperr.NewUpstreamFailure("reading list cleanup", err)
		}
	}

	removed, err := s.store.DeletePostComments(ctx, post.ID)
	if err != nil {
		return apperr.NewUpstreamFailure("comment cleanup", err)
	}

	if err := s.store.DeletePost(ctx, post.ID); err != nil {
		return apperr.NewUpstreamFailure("post delete", err)
	}

	// The post is gone; cover cleanup failures only leak storage.
	if post.CoverImageID != nil {
		removeMedia(ctx, s.store, s.files, *post.CoverImageID)
	}

	slog.Info("post deleted",
		"post", post.ID,
		"slug", post.Slug,
		"comments_removed", removed,
		"reading_lists_pruned", len(savers))
	return nil
}

// SetFeatured flags the most-upvoted post as featured, unflagging the
// previous holder when it changed. Returns the post now featured, or
// nil when no posts exist.
func (s *PostService) SetFeatured(ctx context.Context) (*models.Post, error) {
	top, err := s.store.MostUpvotedPost(ctx)
	if err != nil {
		return nil, apperr.NewUpstreamFailure("featured candidate lookup", err)
	}
	if top == nil {
		return nil, nil
	}

	current, err := s.store.GetFeaturedPost(ctx)
	if err != nil {
		return nil, apperr.NewUpstreamFailure("featured lookup", err)
	}
	if current != nil && current.ID == top.ID {
		return current, nil
	}

	if current != nil {
		if err := s.store.SetPostFeatured(ctx, current.ID, false); err != nil {
			return nil, apperr.NewUpstreamFailure("featured unflag", err)
		}
	}
	if err := s.store.SetPostFeatured(ctx, top.ID, true); err != nil {
		return nil, apperr.NewUpstreamFailure("featured flag", err)
	}
	top.Featured = true
	return top, nil
}

// GetBySlug returns the post published under the slug.
func (s *PostService) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	post, err := s.store.GetPostBySlug(ctx, slug)
	if err != nil {
		return nil, apperr.NewUpstreamFailure("post lookup", err)
	}
	if post == nil {
		return nil, apperr.NewNotFound("Post", slug)
	}
	return post, nil
}

// List returns posts newest first. A zero limit falls back to the
// default page size and limits above the cap are clamped.
func (s *PostService) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	posts, err := s.store.ListPosts(ctx, limit, offset)
	if err != nil {
		return nil, apperr.NewUpstreamFailure("post list", err)
	}
	return posts, nil
}

// ListByProfile returns a profile's posts newest first.
func (s *PostService) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*models.Post, error) {
	if _, err := s.store.GetProfile(ctx, profileID); err != nil {
		return nil, err
	}
	posts, err := s.store.ListPostsByProfile(ctx, profileID)
	if err != nil {
		return nil, apperr.NewUpstreamFailure("post list", err)
	}
	return posts, nil
}

func (s *PostService) allocateSlug(ctx context.Context, input PostInput, existingID *uuid.UUID) (string, error) {
	if input.Slug != "" {
		return s.slugs.AllocateExplicit(ctx, input.Slug, existingID)
	}
	return s.slugs.Allocate(ctx, input.Title, existingID)
}

func (s *PostService) storeCover(ctx context.Context, upload *Upload) (*models.Media, error) {
	media, err := s.files.Store(ctx, upload.Filename, upload.ContentType, upload.Data)
	if err != nil {
		return nil, apperr.NewUpstreamFailure("cover image upload", err)
	}
	if err := s.store.SaveMedia(ctx, media); err != nil {
		return nil, apperr.NewUpstreamFailure("media record create", err)
	}
	return media, nil
}

// removeMedia deletes a media record and its blob, logging instead of
// failing: by the time this runs the primary mutation has succeeded.
func removeMedia(ctx context.Context, store database.Store, files blob.FileStore, mediaID uuid.UUID) {
	media, err := store.GetMedia(ctx, mediaID)
	if err != nil {
		slog.Warn("media record lookup failed during cleanup", "media", mediaID, "error", err)
		return
	}
	if err := files.Delete(ctx, media); err != nil {
		slog.Warn("blob delete failed during cleanup", "media", mediaID, "key", media.ObjectKey, "error", err)
	}
	if err := store.DeleteMedia(ctx, mediaID); err != nil {
		slog.Warn("media record delete failed during cleanup", "media", mediaID, "error", err)
	}
}
