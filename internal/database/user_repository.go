// internal/database/user_repository.go
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

// UserDocument represents the MongoDB schema for a user account
type UserDocument struct {
	ID                      string     `bson:"_id"`
	Name                    string     `bson:"name"`
	Email                   string     `bson:"email"`
	HashedPassword          string     `bson:"hashedPassword"`
	Role                    string     `bson:"role"`
	IsVerified              bool       `bson:"isVerified"`
	// No omitempty: SaveUser persists through $set, and clearing the
	// token on verification must overwrite the stored values.
	VerificationToken       string     `bson:"verificationToken"`
	VerificationTokenExpiry *time.Time `bson:"verificationTokenExpiry"`
	CreatedAt               time.Time  `bson:"createdAt"`
	UpdatedAt               time.Time  `bson:"updatedAt"`
}

// SaveUser creates or updates a user in MongoDB
func (m *MongoDB) SaveUser(ctx context.Context, user *models.User) error {
	doc := UserDocument{
		ID:                      user.ID.String(),
		Name:                    user.Name,
		Email:                   user.Email,
		HashedPassword:          user.HashedPassword,
		Role:                    string(user.Role),
		IsVerified:              user.IsVerified,
		VerificationToken:       user.VerificationToken,
		VerificationTokenExpiry: user.VerificationTokenExpiry,
		CreatedAt:               user.CreatedAt,
		UpdatedAt:               user.UpdatedAt,
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": doc.ID}
	update := bson.M{"$set": doc}

	if _, err := m.Users.UpdateOne(ctx, filter, update, opts); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.New(apperr.ErrDuplicate, "Email already registered", err)
		}
		return fmt.Errorf("failed to save user: %v", err)
	}
	return nil
}

// GetUser retrieves a user from MongoDB by their ID
func (m *MongoDB) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var doc UserDocument

	err := m.Users.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NewNotFound("User", id.String())
	}
	if err != nil {
		return nil, err
	}

	return convertUserDocumentToModel(&doc)
}

// GetUserByEmail retrieves a user by email; returns (nil, nil) when no
// account exists for the address.
func (m *MongoDB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var doc UserDocument

	err := m.Users.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return convertUserDocumentToModel(&doc)
}

func convertUserDocumentToModel(doc *UserDocument) (*models.User, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in database: %v", err)
	}

	return &models.User{
		ID:                      id,
		Name:                    doc.Name,
		Email:                   doc.Email,
		HashedPassword:          doc.HashedPassword,
		Role:                    models.Role(doc.Role),
		IsVerified:              doc.IsVerified,
		VerificationToken:       doc.VerificationToken,
		VerificationTokenExpiry: doc.VerificationTokenExpiry,
		CreatedAt:               doc.CreatedAt,
		UpdatedAt:               doc.UpdatedAt,
	}, nil
}
