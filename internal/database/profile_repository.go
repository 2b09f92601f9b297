// internal/database/profile_repository.go
package database

import (
	"context"
	"fmt"
	"time"

	"inkwell/internal/apperr"
	"inkwell/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProfileDocument represents profile data in MongoDB
type ProfileDocument struct {
	ID           string    `bson:"_id"`
	UserID       string    `bson:"user"`
	Username     string    `bson:"username"`
	FirstName    string    `bson:"firstname"`
	LastName     string    `bson:"lastname"`
	Bio          string    `bson:"bio"`
	DisplayEmail bool      `bson:"displayemail"`
	AvatarID     *string   `bson:"avatar,omitempty"`
	WebsiteURL   string    `bson:"websiteurl"`
	Followers    []string  `bson:"followers"`
	Following    []string  `bson:"following"`
	ReadingList  []string  `bson:"readinglist"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

// SaveProfile creates or updates a profile in MongoDB
func (m *MongoDB) SaveProfile(ctx context.Context, profile *models.Profile) error {
	doc := ProfileDocument{
		ID:           profile.ID.String(),
		UserID:       profile.UserID.String(),
		Username:     profile.Username,
		FirstName:    profile.FirstName,
		LastName:     profile.LastName,
		Bio:          profile.Bio,
		DisplayEmail: profile.DisplayEmail,
		WebsiteURL:   profile.WebsiteURL,
		Followers:    idsToStrings(profile.Followers),
		Following:    idsToStrings(profile.Following),
		ReadingList:  idsToStrings(profile.ReadingList),
		CreatedAt:    profile.CreatedAt,
		UpdatedAt:    profile.UpdatedAt,
	}

	if profile.AvatarID != nil {
		avatarStr := profile.AvatarID.String()
		doc.AvatarID = &avatarStr
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": doc.ID}
	update := bson.M{"$set": doc}

	if _, err := m.Profiles.UpdateOne(ctx, filter, update, opts); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.New(apperr.ErrDuplicate, "Username already taken", err)
		}
		return fmt.Errorf("failed to save profile: %v", err)
	}
	return nil
}

// GetProfile retrieves a profile by ID
func (m *MongoDB) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var doc ProfileDocument

	err := m.Profiles.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NewNotFound("Profile", id.String())
	}
	if err != nil {
		return nil, err
	}

	return convertProfileDocumentToModel(&doc)
}

// GetProfileByUser retrieves the profile bound to a user account;
// returns (nil, nil) when the account has no profile yet.
func (m *MongoDB) GetProfileByUser(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var doc ProfileDocument

	err := m.Profiles.FindOne(ctx, bson.M{"user": userID.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return convertProfileDocumentToModel(&doc)
}

// GetProfileByUsername retrieves a profile by its unique username;
// returns (nil, nil) when no profile carries the name.
func (m *MongoDB) GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	var doc ProfileDocument

	err := m.Profiles.FindOne(ctx, bson.M{"username": username}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return convertProfileDocumentToModel(&doc)
}

// UpdateProfileFollowing replaces the following set of a profile
func (m *MongoDB) UpdateProfileFollowing(ctx context.Context, id uuid.UUID, following []uuid.UUID) error {
	return m.updateProfileList(ctx, id, "following", following)
}

// UpdateProfileFollowers replaces the followers set of a profile
func (m *MongoDB) UpdateProfileFollowers(ctx context.Context, id uuid.UUID, followers []uuid.UUID) error {
	return m.updateProfileList(ctx, id, "followers", followers)
}

// UpdateProfileReadingList replaces the reading list of a profile
func (m *MongoDB) UpdateProfileReadingList(ctx context.Context, id uuid.UUID, readingList []uuid.UUID) error {
	return m.updateProfileList(ctx, id, "readinglist", readingList)
}

func (m *MongoDB) updateProfileList(ctx context.Context, id uuid.UUID, field string, ids []uuid.UUID) error {
	filter := bson.M{"_id": id.String()}
	update := bson.M{
		"$set": bson.M{
			field:       idsToStrings(ids),
			"updatedAt": time.Now(),
		},
	}

	result, err := m.Profiles.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update profile %s: %v", field, err)
	}
	if result.MatchedCount == 0 {
		return apperr.NewNotFound("Profile", id.String())
	}
	return nil
}

// FindProfilesWithSaved retrieves every profile whose reading list
// contains the given post.
func (m *MongoDB) FindProfilesWithSaved(ctx context.Context, postID uuid.UUID) ([]*models.Profile, error) {
	cursor, err := m.Profiles.Find(ctx, bson.M{"readinglist": postID.String()})
	if err != nil {
		return nil, fmt.Errorf("failed to find profiles with saved post: %v", err)
	}
	defer cursor.Close(ctx)

	var profiles []*models.Profile
	for cursor.Next(ctx) {
		var doc ProfileDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode profile: %v", err)
		}

		profile, err := convertProfileDocumentToModel(&doc)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	return profiles, nil
}

func convertProfileDocumentToModel(doc *ProfileDocument) (*models.Profile, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid profile ID in database: %v", err)
	}

	userID, err := uuid.Parse(doc.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in database: %v", err)
	}

	followers, err := stringsToIDs(doc.Followers)
	if err != nil {
		return nil, fmt.Errorf("invalid follower ID in database: %v", err)
	}
	following, err := stringsToIDs(doc.Following)
	if err != nil {
		return nil, fmt.Errorf("invalid following ID in database: %v", err)
	}
	readingList, err := stringsToIDs(doc.ReadingList)
	if err != nil {
		return nil, fmt.Errorf("invalid reading list ID in database: %v", err)
	}

	var avatarID *uuid.UUID
	if doc.AvatarID != nil {
		parsed, err := uuid.Parse(*doc.AvatarID)
		if err != nil {
			return nil, fmt.Errorf("invalid avatar ID in database: %v", err)
		}
		avatarID = &parsed
	}

	return &models.Profile{
		ID:           id,
		UserID:       userID,
		Username:     doc.Username,
		FirstName:    doc.FirstName,
		LastName:     doc.LastName,
		Bio:          doc.Bio,
		DisplayEmail: doc.DisplayEmail,
		AvatarID:     avatarID,
		WebsiteURL:   doc.WebsiteURL,
		Followers:    followers,
		Following:    following,
		ReadingList:  readingList,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}, nil
}

func idsToStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func stringsToIDs(raw []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, len(raw))
	for i, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}
