package services

import (
	"context"
	"testing"

	"inkwell/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetByUsername(t *testing.T) {
	env := newTestEnv(t)
	profiles := NewProfileService(env.store, env.identity, env.files)
	ctx := context.Background()

	alice, _ := env.newProfile(t, "alice")

	got, err := profiles.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	_, err = profiles.GetByUsername(ctx, "nobody")
	assert.True(t, apperr.IsErrorCode(err, apperr.ErrNotFound))
}

func TestUpdateProfileFields(t *testing.T) {
	env := newTestEnv(t)
	profiles := NewProfileService(env.store, env.identity, env.files)
	ctx := context.Background()

	alice, aliceCred := env.newProfile(t, "alice")

	updated, err := profiles.Update(ctx, aliceCred, ProfileInput{
		FirstName:    "Alice",
		LastName:     "Ng",
		Bio:          "writes about Go",
		DisplayEmail: true,
		WebsiteURL:   "https://alice.example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.FirstName)
	assert.Equal(t, "writes about Go", updated.Bio)
	assert.True(t, updated.DisplayEmail)

	got, err := env.store.GetProfile(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ng", got.LastName)
}

func TestUpdateProfileReplacesAvatar(t *testing.T) {
	env := newTestEnv(t)
	profiles := NewProfileService(env.store, env.identity, env.files)
	ctx := context.Background()

	_, aliceCred := env.newProfile(t, "alice")

	first, err := profiles.Update(ctx, aliceCred, ProfileInput{
		Avatar: &Upload{Filename: "old.png", ContentType: "image/png", Data: []byte("old")},
	})
	require.NoError(t, err)
	require.NotNil(t, first.AvatarID)
	oldID := *first.AvatarID
	oldMedia, err := env.store.GetMedia(ctx, oldID)
	require.NoError(t, err)

	second, err := profiles.Update(ctx, aliceCred, ProfileInput{
		Avatar: &Upload{Filename: "new.png", ContentType: "image/png", Data: []byte("new")},
	})
	require.NoError(t, err)
	require.NotNil(t, second.AvatarID)
	assert.NotEqual(t, oldID, *second.AvatarID)

	// The old avatar's record and blob are gone.
	_, err = env.store.GetMedia(ctx, oldID)
	assert.True(t, apperr.IsErrorCode(err, apperr.ErrNotFound))
	_, ok := env.files.Get(oldMedia.ObjectKey)
	assert.False(t, ok)
}

func TestUpdateProfileRequiresIdentity(t *testing.T) {
	env := newTestEnv(t)
	profiles := NewProfileService(env.store, env.identity, env.files)

	_, err := profiles.Update(context.Background(), "", ProfileInput{Bio: "anon"})
	assert.True(t, apperr.IsErrorCode(err, apperr.ErrUnauthenticated))
}
