package services

import (
	"context"
	"fmt"
	"strings"

	"inkwell/internal/apperr"
	"inkwell/internal/database"

	"github.com/google/uuid"
)

// maxSlugProbes caps the collision-resolution loop. Titles collide
// rarely enough that hitting this means something is wrong upstream.
const maxSlugProbes = 10000

// SlugAllocator derives a unique URL-safe identifier for a post from
// its title. Runs before every create, and on update when the caller
// supplies no explicit slug.
type SlugAllocator struct {
	store database.Store
}

func NewSlugAllocator(store database.Store) *SlugAllocator {
	return &SlugAllocator{store: store}
}

// Slugify normalizes a title: lowercase, runs of non-alphanumeric
// characters collapse to a single hyphen, leading and trailing hyphens
// trimmed.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// Allocate returns a unique slug derived from the title. When updating
// an existing post, existingID excludes the post's own slug from
// collision checks so an unchanged title keeps its slug.
func (s *SlugAllocator) Allocate(ctx context.Context, title string, existingID *uuid.UUID) (string, error) {
	base := Slugify(title)
	if base == "" {
		return "", apperr.New(apperr.ErrInvalidInput, "Title produces an empty slug", nil)
	}
	return s.probe(ctx, base, existingID)
}

// AllocateExplicit runs collision resolution on a caller-supplied slug
// without normalizing it.
func (s *SlugAllocator) AllocateExplicit(ctx context.Context, slug string, existingID *uuid.UUID) (string, error) {
	if slug == "" {
		return "", apperr.New(apperr.ErrInvalidInput, "Slug is required", nil)
	}
	return s.probe(ctx, slug, existingID)
}

func (s *SlugAllocator) probe(ctx context.Context, base string, existingID *uuid.UUID) (string, error) {
	slug := base
	for suffix := 1; suffix <= maxSlugProbes; suffix++ {
		existing, err := s.store.GetPostBySlug(ctx, slug)
		if err != nil {
			return "", apperr.NewUpstreamFailure("slug lookup", err)
		}
		if existing == nil {
			return slug, nil
		}
		if existingID != nil && existing.ID == *existingID {
			// The only collision is the post being updated.
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, suffix)
	}
	return "", apperr.New(apperr.ErrConflict, "Slug collision retries exhausted for "+base, nil)
}
