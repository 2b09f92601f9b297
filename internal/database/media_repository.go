// internal/database/media_repository.go
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

// MediaDocument represents media metadata in MongoDB; the bytes live in
// blob storage under ObjectKey.
type MediaDocument struct {
	ID          string    `bson:"_id"`
	ObjectKey   string    `bson:"objectKey"`
	Filename    string    `bson:"filename"`
	ContentType string    `bson:"mimeType"`
	Size        int64     `bson:"filesize"`
	URL         string    `bson:"url"`
	CreatedAt   time.Time `bson:"createdAt"`
}

// SaveMedia creates or updates a media record in MongoDB
func (m *MongoDB) SaveMedia(ctx context.Context, media *models.Media) error {
	doc := MediaDocument{
		ID:          media.ID.String(),
		ObjectKey:   media.ObjectKey,
		Filename:    media.Filename,
		ContentType: media.ContentType,
		Size:        media.Size,
		URL:         media.URL,
		CreatedAt:   media.CreatedAt,
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": doc.ID}
	update := bson.M{"$set": doc}

	if _, err := m.Media.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to save media: %v", err)
	}
	return nil
}

// GetMedia retrieves a media record by ID
func (m *MongoDB) GetMedia(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	var doc MediaDocument

	err := m.Media.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NewNotFound("Media", id.String())
	}
	if err != nil {
		return nil, err
	}

	mediaID, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid media ID in database: %v", err)
	}

	return &models.Media{
		ID:          mediaID,
		ObjectKey:   doc.ObjectKey,
		Filename:    doc.Filename,
		ContentType: doc.ContentType,
		Size:        doc.Size,
		URL:         doc.URL,
		CreatedAt:   doc.CreatedAt,
	}, nil
}

// DeleteMedia removes a media record
func (m *MongoDB) DeleteMedia(ctx context.Context, id uuid.UUID) error {
	result, err := m.Media.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("failed to delete media: %v", err)
	}
	if result.DeletedCount == 0 {
		return apperr.NewNotFound("Media", id.String())
	}
	return nil
}
