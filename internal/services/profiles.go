package services

import (
	"context"
	"time"

	"inkwell/internal/apperr"
	"inkwell/internal/blob"
	"inkwell/internal/database"
	"inkwell/internal/models"
)

// ProfileInput carries the caller-editable profile fields.
type ProfileInput struct {
	FirstName    string
	LastName     string
	Bio          string
	DisplayEmail bool
	WebsiteURL   string
	Avatar       *Upload
}

// ProfileService reads and edits public profiles. Social graph and
// reading list mutations live elsewhere; this only touches the fields
// a profile owner edits directly.
type ProfileService struct {
	store    database.Store
	identity *IdentityResolver
	files    blob.FileStore
}

func NewProfileService(store database.Store, identity *IdentityResolver, files blob.FileStore) *ProfileService {
	return &ProfileService{store: store, identity: identity, files: files}
}

// GetByUsername returns the profile published under the username.
func (s *ProfileService) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	profile, err := s.store.GetProfileByUsername(ctx, username)
	if err != nil {
		return nil, apperr.NewUpstreamFailure("profile lookup", err)
	}
	if profile == nil {
		return nil, apperr.NewNotFound("Profile", username)
	}
	return profile, nil
}

// Update edits the calling profile. A new avatar replaces the old one;
// removal of the previous image is best effort once the new one is
// stored.
func (s *ProfileService) Update(ctx context.Context, credential string, input ProfileInput) (*models.Profile, error) {
	profile, err := s.identity.requireProfile(ctx, credential)
	if err != nil {
		return nil, err
	}

	profile.FirstName = input.FirstName
	profile.LastName = input.LastName
	profile.Bio = input.Bio
	profile.DisplayEmail = input.DisplayEmail
	profile.WebsiteURL = input.WebsiteURL
	profile.UpdatedAt = time.Now()

	if input.Avatar != nil {
		old := profile.AvatarID
		media, err := s.files.Store(ctx, input.Avatar.Filename, input.Avatar.ContentType, input.Avatar.Data)
		if err != nil {
			return nil, apperr.NewUpstreamFailure("avatar upload", err)
		}
		if err := s.store.SaveMedia(ctx, media); err != nil {
			return nil, apperr.NewUpstreamFailure("media record create", err)
		}
		profile.AvatarID = &media.ID
		if old != nil {
			removeMedia(ctx, s.store, s.files, *old)
		}
	}

	if err := s.store.SaveProfile(ctx, profile); err != nil {
		return nil, apperr.NewUpstreamFailure("profile update", err)
	}
	return profile, nil
}
