package database

import (
	"context"

	"inkwell/internal/models"

	"github.com/google/uuid"
)

// Store defines the document-store contract the services are written
// against. Every call is atomic on its own; nothing here spans
// documents, so multi-document consistency is the callers' problem.
//
// Lookup conventions: Get-by-id methods return a NOT_FOUND AppError
// when the document is absent; secondary-key lookups (email, username,
// slug) return (nil, nil) so callers can probe without error plumbing.
type Store interface {
	Close(ctx context.Context) error

	// User methods
	SaveUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// Profile methods
	SaveProfile(ctx context.Context, profile *models.Profile) error
	GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	GetProfileByUser(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error)
	UpdateProfileFollowing(ctx context.Context, id uuid.UUID, following []uuid.UUID) error
	UpdateProfileFollowers(ctx context.Context, id uuid.UUID, followers []uuid.UUID) error
	UpdateProfileReadingList(ctx context.Context, id uuid.UUID, readingList []uuid.UUID) error
	FindProfilesWithSaved(ctx context.Context, postID uuid.UUID) ([]*models.Profile, error)

	// Post methods
	SavePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*models.Post, error)
	ListPosts(ctx context.Context, limit, offset int) ([]*models.Post, error)
	ListPostsByProfile(ctx context.Context, profileID uuid.UUID) ([]*models.Post, error)
	UpdatePostUpvotes(ctx context.Context, id uuid.UUID, upvotes []uuid.UUID, count int) error
	UpdatePostSaves(ctx context.Context, id uuid.UUID, saves []uuid.UUID) error
	UpdatePostComments(ctx context.Context, id uuid.UUID, comments []uuid.UUID) error
	SetPostFeatured(ctx context.Context, id uuid.UUID, featured bool) error
	MostUpvotedPost(ctx context.Context) (*models.Post, error)
	GetFeaturedPost(ctx context.Context) (*models.Post, error)
	DeletePost(ctx context.Context, id uuid.UUID) error

	// Comment methods
	SaveComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	GetPostComments(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error)
	DeletePostComments(ctx context.Context, postID uuid.UUID) (int, error)

	// Media methods
	SaveMedia(ctx context.Context, media *models.Media) error
	GetMedia(ctx context.Context, id uuid.UUID) (*models.Media, error)
	DeleteMedia(ctx context.Context, id uuid.UUID) error
}
