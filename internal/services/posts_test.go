package services

import (
	"context"
	"testing"

	"inkwell/internal/apperr"
	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostService(env *testEnv) *PostService {
	return NewPostService(env.store, env.identity, NewSlugAllocator(env.store), env.files)
}

func TestCreatePostAllocatesSlug(t *testing.T) {
	env := newTestEnv(t)
	posts := newPostService(env)
	ctx := context.Background()

	alice, aliceCred := env.newProfile(t, "alice")

	first, err := posts.Create(ctx, aliceCred, PostInput{Title: "Hello World", Content: "body"})
	require.NoError(t, err)
	assert.Equal(t, "hello-world", first.Slug)
	assert.Equal(t, alice.ID, first.ProfileID)
	assert.Zero(t, first.UpvoteCount)
	assert.Empty(t, first.Upvotes)

	second, err := posts.Create(ctx, aliceCred, PostInput{Title: "Hello World", Content: "body"})
	require.NoError(t, err)
	assert.Equal(t, "hello-world-1", second.Slug)
}

func TestCreatePostWithCover(t *testing.T) {
	env := newTestEnv(t)
	posts := newPostService(env)
	ctx := context.Background()

	_, aliceCred := env.newProfile(t, "alice")

	post, err := posts.Create(ctx, aliceCred, PostInput{
		Title:   "With Cover",
		Content: "body",
		CoverImage: &Upload{
			Filename:    "cover.png",
			ContentType: "image/png",
			Data:        []byte{0x89, 0x50, 0x4e, 0x47},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, post.CoverImageID)

	media, err := env.store.GetMedia(ctx, *post.CoverImageID)
	require.NoError(t, err)
	assert.Equal(t, "cover.png", media.Filename)

	_, ok := env.files.Get(media.ObjectKey)
	assert.True(t, ok)
}

func TestUpdatePostOwnership(t *testing.T) {
	env := newTestEnv(t)
	posts := newPostService(env)
	ctx := context.Background()

	_, aliceCred := env.newProfile(t, "alice")
	_, bobCred := env.newProfile(t, "bob")

	post, err := posts.Create(ctx, aliceCred, PostInput{Title: "Mine", Content: "body"})
	require.NoError(t, err)

	_, err = posts.Update(ctx, bobCred, post.ID, PostInput{Title: "Stolen", Content: "body"})
	assert.True(t, apperr.IsErrorCode(err, apperr.ErrUnauthorized))

	updated, err := posts.Update(ctx, aliceCred, post.ID, PostInput{Title: "Mine Updated", Content: "body"})
	require.NoError(t, err)
	assert.Equal(t, "mine-updated", updated.Slug)
}

func TestUpdatePostKeepsSlugWhenTitleUnchanged(t *testing.T) {
	env := newTestEnv(t)
	posts := newPostService(env)
	ctx := context.Background()

	_, aliceCred := env.newProfile(t, "alice")

	post, err := posts.Create(ctx, aliceCred, PostInput{Title: "Stable Title", Content: "v1"})
	require.NoError(t, err)

	updated, err := posts.Update(ctx, aliceCred, post.ID, PostInput{Title: "Stable Title", Content: "v2"})
	require.NoError(t, err)
	assert.Equal(t, post.Slug, updated.Slug)
	assert.Equal(t, "v2", updated.Content)
}

func TestUpdatePostExplicitSlugWins(t *testing.T) {
	env := newTestEnv(t)
	posts := newPostService(env)
	ctx := context.Background()

	_, aliceCred := env.newProfile(t, "alice")
	post, err := posts.Create(ctx, aliceCred, PostInput{Title: "A Title", Content: "body"})
	require.NoError(t, err)

	updated, err := posts.Update(ctx, aliceCred, post.ID, PostInput{Title: "New Title", Content: "body", Slug: "pinned-slug"})
	require.NoError(t, err)
	assert.Equal(t, "pinned-slug", updated.Slug)
}

func TestDeletePostCascade(t *testing.T) {
	env := newTestEnv(t)
	posts := newPostService(env)
	engagement := NewEngagementService(env.store, env.identity, nil)
	comments := NewCommentService(env.store, env.identity, nil)
	ctx := context.Background()

	_, aliceCred := env.newProfile(t, "alice")
	bob, bobCred := env.newProfile(t, "bob")

	post, err := posts.Create(ctx, aliceCred, PostInput{
		Title:   "Doomed",
		Content: "body",
		CoverImage: &Upload{
			Filename:    "cover.jpg",
			ContentType: "image/jpeg",
			Data:        []byte("jpeg"),
		},
	})
	require.NoError(t, err)
	coverID := *post.CoverImageID

	// Bob saves the post and comments on it.
	_, err = engagement.ToggleReadingList(ctx, bobCred, post.ID)
	require.NoError(t, err)
	_, err = comments.Add(ctx, bobCred, post.ID, "first", nil)
	require.NoError(t, err)
	_, err = comments.Add(ctx, bobCred, post.ID, "second", nil)
	require.NoError(t, err)

	require.NoError(t, posts.Delete(ctx, aliceCred, post.ID))

	_, err = env.store.GetPost(ctx, post.ID)
	assert.True(t, apperr.IsErrorCode(err, apperr.ErrNotFound))

	gotBob, err := env.store.GetProfile(ctx, bob.ID)
	require.NoError(t, err)
	assert.False(t, models.ContainsID(gotBob.ReadingList, post.ID))

	remaining, err := env.store.GetPostComments(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	_, err = env.store.GetMedia(ctx, coverID)
	assert.True(t, apperr.IsErrorCode(err, apperr.ErrNotFound))
}

func TestDeletePostOwnership(t *testing.T) {
	env := newTestEnv(t)
	posts := newPostService(env)
	ctx := context.Background()

	_, aliceCred := env.newProfile(t, "alice")
	_, bobCred := env.newProfile(t, "bob")

	post, err := posts.Create(ctx, aliceCred, PostInput{Title: "Mine", Content: "body"})
	require.NoError(t, err)

	err = posts.Delete(ctx, bobCred, post.ID)
	assert.True(t, apperr.IsErrorCode(err, apperr.ErrUnauthorized))
}

func TestSetFeaturedFollowsUpvotes(t *testing.T) {
	env := newTestEnv(t)
	posts := newPostService(env)
	engagement := NewEngagementService(env.store, env.identity, nil)
	ctx := context.Background()

	author, authorCred := env.newProfile(t, "author")
	_, aliceCred := env.newProfile(t, "alice")
	first := env.newPost(t, author, "First", "first")
	second := env.newPost(t, author, "Second", "second")

	_, err := engagement.ToggleUpvote(ctx, aliceCred, first.ID)
	require.NoError(t, err)

	featured, err := posts.SetFeatured(ctx)
	require.NoError(t, err)
	require.NotNil(t, featured)
	assert.Equal(t, first.ID, featured.ID)

	// Second post overtakes; the flag moves.
	_, err = engagement.ToggleUpvote(ctx, aliceCred, second.ID)
	require.NoError(t, err)
	_, err = engagement.ToggleUpvote(ctx, authorCred, second.ID)
	require.NoError(t, err)

	featured, err = posts.SetFeatured(ctx)
	require.NoError(t, err)
	require.NotNil(t, featured)
	assert.Equal(t, second.ID, featured.ID)

	old, err := env.store.GetPost(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, old.Featured)
}

func TestSetFeaturedNoPosts(t *testing.T) {
	env := newTestEnv(t)
	posts := newPostService(env)

	featured, err := posts.SetFeatured(context.Background())
	require.NoError(t, err)
	assert.Nil(t, featured)
}

func TestGetBySlug(t *testing.T) {
	env := newTestEnv(t)
	posts := newPostService(env)
	ctx := context.Background()

	author, _ := env.newProfile(t, "author")
	post := env.newPost(t, author, "Findable", "findable")

	got, err := posts.GetBySlug(ctx, "findable")
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)

	_, err = posts.GetBySlug(ctx, "missing")
	assert.True(t, apperr.IsErrorCode(err, apperr.ErrNotFound))
}

func TestListPostsPagination(t *testing.T) {
	env := newTestEnv(t)
	posts := newPostService(env)
	ctx := context.Background()

	_, aliceCred := env.newProfile(t, "alice")
	for _, title := range []string{"One", "Two", "Three"} {
		_, err := posts.Create(ctx, aliceCred, PostInput{Title: title, Content: "body"})
		require.NoError(t, err)
	}

	page, err := posts.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	rest, err := posts.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}
