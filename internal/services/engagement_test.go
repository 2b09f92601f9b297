package services

import (
	"context"
	"errors"
	"testing"

	"inkwell/internal/apperr"
	"inkwell/internal/database"
	"inkwell/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleUpvoteKeepsCountConsistent(t *testing.T) {
	env := newTestEnv(t)
	engagement := NewEngagementService(env.store, env.identity, nil)
	ctx := context.Background()

	author, _ := env.newProfile(t, "author")
	_, aliceCred := env.newProfile(t, "alice")
	_, bobCred := env.newProfile(t, "bob")
	post := env.newPost(t, author, "Post", "post")

	upvoted, err := engagement.ToggleUpvote(ctx, aliceCred, post.ID)
	require.NoError(t, err)
	assert.True(t, upvoted)

	upvoted, err = engagement.ToggleUpvote(ctx, bobCred, post.ID)
	require.NoError(t, err)
	assert.True(t, upvoted)

	got, err := env.store.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, got.Upvotes, 2)
	assert.Equal(t, len(got.Upvotes), got.UpvoteCount)

	// Second toggle removes the vote.
	upvoted, err = engagement.ToggleUpvote(ctx, aliceCred, post.ID)
	require.NoError(t, err)
	assert.False(t, upvoted)

	got, err = env.store.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, got.Upvotes, 1)
	assert.Equal(t, 1, got.UpvoteCount)
}

func TestToggleReadingListRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	engagement := NewEngagementService(env.store, env.identity, nil)
	ctx := context.Background()

	author, _ := env.newProfile(t, "author")
	alice, aliceCred := env.newProfile(t, "alice")
	post := env.newPost(t, author, "Post", "post")

	saved, err := engagement.ToggleReadingList(ctx, aliceCred, post.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	gotProfile, err := env.store.GetProfile(ctx, alice.ID)
	require.NoError(t, err)
	gotPost, err := env.store.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, models.ContainsID(gotProfile.ReadingList, post.ID))
	assert.True(t, models.ContainsID(gotPost.Saves, alice.ID))

	saved, err = engagement.ToggleReadingList(ctx, aliceCred, post.ID)
	require.NoError(t, err)
	assert.False(t, saved)

	gotProfile, err = env.store.GetProfile(ctx, alice.ID)
	require.NoError(t, err)
	gotPost, err = env.store.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.False(t, models.ContainsID(gotProfile.ReadingList, post.ID))
	assert.False(t, models.ContainsID(gotPost.Saves, alice.ID))
}

func TestRemoveFromReadingListIdempotent(t *testing.T) {
	env := newTestEnv(t)
	engagement := NewEngagementService(env.store, env.identity, nil)
	ctx := context.Background()

	author, _ := env.newProfile(t, "author")
	alice, aliceCred := env.newProfile(t, "alice")
	post := env.newPost(t, author, "Post", "post")

	_, err := engagement.ToggleReadingList(ctx, aliceCred, post.ID)
	require.NoError(t, err)

	require.NoError(t, engagement.RemoveFromReadingList(ctx, aliceCred, post.ID))
	require.NoError(t, engagement.RemoveFromReadingList(ctx, aliceCred, post.ID))

	gotProfile, err := env.store.GetProfile(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, gotProfile.ReadingList)
}

func TestRemoveFromReadingListMissingPost(t *testing.T) {
	env := newTestEnv(t)
	engagement := NewEngagementService(env.store, env.identity, nil)

	_, aliceCred := env.newProfile(t, "alice")

	// A deleted post leaves no saves side to clean; the removal still
	// succeeds.
	assert.NoError(t, engagement.RemoveFromReadingList(context.Background(), aliceCred, uuid.New()))
}

func TestEngagementStatus(t *testing.T) {
	env := newTestEnv(t)
	engagement := NewEngagementService(env.store, env.identity, nil)
	ctx := context.Background()

	author, _ := env.newProfile(t, "author")
	_, aliceCred := env.newProfile(t, "alice")
	post := env.newPost(t, author, "Post", "post")

	upvoted, saved, err := engagement.Status(ctx, aliceCred, post.Slug)
	require.NoError(t, err)
	assert.False(t, upvoted)
	assert.False(t, saved)

	_, err = engagement.ToggleUpvote(ctx, aliceCred, post.ID)
	require.NoError(t, err)
	_, err = engagement.ToggleReadingList(ctx, aliceCred, post.ID)
	require.NoError(t, err)

	upvoted, saved, err = engagement.Status(ctx, aliceCred, post.Slug)
	require.NoError(t, err)
	assert.True(t, upvoted)
	assert.True(t, saved)
}

func TestEngagementStatusAnonymous(t *testing.T) {
	env := newTestEnv(t)
	engagement := NewEngagementService(env.store, env.identity, nil)

	author, _ := env.newProfile(t, "author")
	post := env.newPost(t, author, "Post", "post")

	upvoted, saved, err := engagement.Status(context.Background(), "", post.Slug)
	require.NoError(t, err)
	assert.False(t, upvoted)
	assert.False(t, saved)
}

// failingSlugStore errors on every slug lookup.
type failingSlugStore struct {
	*database.MemoryStore
}

func (s *failingSlugStore) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return nil, errors.New("connection reset")
}

func TestEngagementStatusWrapsStoreFailure(t *testing.T) {
	env := newTestEnv(t)
	engagement := NewEngagementService(&failingSlugStore{env.store}, env.identity, nil)
	_, aliceCred := env.newProfile(t, "alice")

	_, _, err := engagement.Status(context.Background(), aliceCred, "post")
	assert.True(t, apperr.IsErrorCode(err, apperr.ErrUpstreamFailure))
}

func TestEngagementStatusUnknownSlug(t *testing.T) {
	env := newTestEnv(t)
	engagement := NewEngagementService(env.store, env.identity, nil)
	_, aliceCred := env.newProfile(t, "alice")

	_, _, err := engagement.Status(context.Background(), aliceCred, "no-such-slug")
	assert.True(t, apperr.IsErrorCode(err, apperr.ErrNotFound))
}

func TestToggleUpvoteRequiresIdentity(t *testing.T) {
	env := newTestEnv(t)
	engagement := NewEngagementService(env.store, env.identity, nil)
	author, _ := env.newProfile(t, "author")
	post := env.newPost(t, author, "Post", "post")

	_, err := engagement.ToggleUpvote(context.Background(), "", post.ID)
	assert.True(t, apperr.IsErrorCode(err, apperr.ErrUnauthenticated))
}
