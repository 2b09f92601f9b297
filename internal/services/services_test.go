package services

import (
	"context"
	"testing"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/blob"
	"inkwell/internal/database"
	"inkwell/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// testEnv bundles the in-memory collaborators shared by the service
// tests.
type testEnv struct {
	store    *database.MemoryStore
	auth     *auth.Authenticator
	identity *IdentityResolver
	files    *blob.MemoryFileStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := database.NewMemoryStore()
	authenticator := auth.NewAuthenticator("test-secret", time.Hour)
	return &testEnv{
		store:    store,
		auth:     authenticator,
		identity: NewIdentityResolver(store, authenticator),
		files:    blob.NewMemoryFileStore(),
	}
}

// newProfile creates a verified profile and returns it with a valid
// session credential for its user.
func (e *testEnv) newProfile(t *testing.T, username string) (*models.Profile, string) {
	t.Helper()
	now := time.Now()
	userID := uuid.New()
	profile := &models.Profile{
		ID:          uuid.New(),
		UserID:      userID,
		Username:    username,
		Followers:   []uuid.UUID{},
		Following:   []uuid.UUID{},
		ReadingList: []uuid.UUID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, e.store.SaveProfile(context.Background(), profile))

	credential, err := e.auth.IssueToken(userID)
	require.NoError(t, err)
	return profile, credential
}

// newPost writes a post owned by the profile straight into the store.
func (e *testEnv) newPost(t *testing.T, owner *models.Profile, title, slug string) *models.Post {
	t.Helper()
	now := time.Now()
	post := &models.Post{
		ID:        uuid.New(),
		ProfileID: owner.ID,
		UserID:    owner.UserID,
		Title:     title,
		Content:   "content of " + title,
		Upvotes:   []uuid.UUID{},
		Saves:     []uuid.UUID{},
		Comments:  []uuid.UUID{},
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, e.store.SavePost(context.Background(), post))
	return post
}
