package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"Hello, World!", "hello-world"},
		{"  Leading & trailing  ", "leading-trailing"},
		{"Go 1.23 Released", "go-1-23-released"},
		{"UPPER case TITLE", "upper-case-title"},
		{"multiple---separators___here", "multiple-separators-here"},
		{"!!!", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.title), "title %q", tc.title)
	}
}

func TestAllocateUniqueSuffixes(t *testing.T) {
	env := newTestEnv(t)
	slugs := NewSlugAllocator(env.store)
	owner, _ := env.newProfile(t, "author")
	ctx := context.Background()

	first, err := slugs.Allocate(ctx, "Hello World", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello-world", first)
	env.newPost(t, owner, "Hello World", first)

	second, err := slugs.Allocate(ctx, "Hello World", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello-world-1", second)
	env.newPost(t, owner, "Hello World", second)

	third, err := slugs.Allocate(ctx, "Hello World!", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello-world-2", third)
}

func TestAllocateKeepsOwnSlugOnUpdate(t *testing.T) {
	env := newTestEnv(t)
	slugs := NewSlugAllocator(env.store)
	owner, _ := env.newProfile(t, "author")
	post := env.newPost(t, owner, "Hello World", "hello-world")

	// Re-allocating for the same post with an unchanged title must not
	// grow a suffix.
	slug, err := slugs.Allocate(context.Background(), "Hello World", &post.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello-world", slug)
}

func TestAllocateEmptyTitle(t *testing.T) {
	env := newTestEnv(t)
	slugs := NewSlugAllocator(env.store)

	_, err := slugs.Allocate(context.Background(), "???", nil)
	assert.Error(t, err)
}

func TestAllocateExplicitSlug(t *testing.T) {
	env := newTestEnv(t)
	slugs := NewSlugAllocator(env.store)
	owner, _ := env.newProfile(t, "author")
	env.newPost(t, owner, "Taken", "custom-slug")

	slug, err := slugs.AllocateExplicit(context.Background(), "custom-slug", nil)
	require.NoError(t, err)
	assert.Equal(t, "custom-slug-1", slug)
}
