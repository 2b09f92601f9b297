// internal/database/post_repository.go
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

// PostDocument represents post data in MongoDB
type PostDocument struct {
	ID           string    `bson:"_id"`
	ProfileID    string    `bson:"profile"`
	UserID       string    `bson:"user"`
	Title        string    `bson:"title"`
	Description  string    `bson:"description"`
	Content      string    `bson:"content"`
	CoverImageID *string   `bson:"coverImage,omitempty"`
	Categories   []string  `bson:"categories"`
	Upvotes      []string  `bson:"upvotes"`
	UpvoteCount  int       `bson:"upvoteCount"`
	Saves        []string  `bson:"saves"`
	Comments     []string  `bson:"comments"`
	Featured     bool      `bson:"featured"`
	Slug         string    `bson:"slug"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

// SavePost creates or updates a post in MongoDB
func (m *MongoDB) SavePost(ctx context.Context, post *models.Post) error {
	doc := PostDocument{
		ID:          post.ID.String(),
		ProfileID:   post.ProfileID.String(),
		UserID:      post.UserID.String(),
		Title:       post.Title,
		Description: post.Description,
		Content:     post.Content,
		Categories:  idsToStrings(post.Categories),
		Upvotes:     idsToStrings(post.Upvotes),
		UpvoteCount: post.UpvoteCount,
		Saves:       idsToStrings(post.Saves),
		Comments:    idsToStrings(post.Comments),
		Featured:    post.Featured,
		Slug:        post.Slug,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
	}

	if post.CoverImageID != nil {
		coverStr := post.CoverImageID.String()
		doc.CoverImageID = &coverStr
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": doc.ID}
	update := bson.M{"$set": doc}

	if _, err := m.Posts.UpdateOne(ctx, filter, update, opts); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.New(apperr.ErrConflict, "Slug already in use", err)
		}
		return fmt.Errorf("failed to save post: %v", err)
	}
	return nil
}

// GetPost retrieves a post by ID
func (m *MongoDB) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var doc PostDocument

	err := m.Posts.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NewNotFound("Post", id.String())
	}
	if err != nil {
		return nil, err
	}

	return convertPostDocumentToModel(&doc)
}

// GetPostBySlug retrieves a post by its unique slug; returns (nil, nil)
// when no post carries the slug.
func (m *MongoDB) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var doc PostDocument

	err := m.Posts.FindOne(ctx, bson.M{"slug": slug}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return convertPostDocumentToModel(&doc)
}

// ListPosts retrieves posts newest first with offset pagination
func (m *MongoDB) ListPosts(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := m.Posts.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %v", err)
	}
	defer cursor.Close(ctx)

	return decodePosts(ctx, cursor)
}

// ListPostsByProfile retrieves every post authored by a profile,
// newest first.
func (m *MongoDB) ListPostsByProfile(ctx context.Context, profileID uuid.UUID) ([]*models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := m.Posts.Find(ctx, bson.M{"profile": profileID.String()}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts by profile: %v", err)
	}
	defer cursor.Close(ctx)

	return decodePosts(ctx, cursor)
}

// UpdatePostUpvotes persists the upvote set and its count in one write
func (m *MongoDB) UpdatePostUpvotes(ctx context.Context, id uuid.UUID, upvotes []uuid.UUID, count int) error {
	return m.updatePostFields(ctx, id, bson.M{
		"upvotes":     idsToStrings(upvotes),
		"upvoteCount": count,
	})
}

// UpdatePostSaves replaces the saves set of a post
func (m *MongoDB) UpdatePostSaves(ctx context.Context, id uuid.UUID, saves []uuid.UUID) error {
	return m.updatePostFields(ctx, id, bson.M{"saves": idsToStrings(saves)})
}

// UpdatePostComments replaces the comment id sequence of a post
func (m *MongoDB) UpdatePostComments(ctx context.Context, id uuid.UUID, comments []uuid.UUID) error {
	return m.updatePostFields(ctx, id, bson.M{"comments": idsToStrings(comments)})
}

// SetPostFeatured flips the featured flag of a post
func (m *MongoDB) SetPostFeatured(ctx context.Context, id uuid.UUID, featured bool) error {
	return m.updatePostFields(ctx, id, bson.M{"featured": featured})
}

func (m *MongoDB) updatePostFields(ctx context.Context, id uuid.UUID, fields bson.M) error {
	fields["updatedAt"] = time.Now()
	filter := bson.M{"_id": id.String()}
	update := bson.M{"$set": fields}

	result, err := m.Posts.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update post: %v", err)
	}
	if result.MatchedCount == 0 {
		return apperr.NewNotFound("Post", id.String())
	}
	return nil
}

// MostUpvotedPost retrieves the single most-upvoted post; ties break on
// the earliest creation time so the result is deterministic. Returns
// (nil, nil) when the collection is empty.
func (m *MongoDB) MostUpvotedPost(ctx context.Context) (*models.Post, error) {
	opts := options.FindOne().SetSort(bson.D{
		{Key: "upvoteCount", Value: -1},
		{Key: "createdAt", Value: 1},
	})

	var doc PostDocument
	err := m.Posts.FindOne(ctx, bson.M{}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return convertPostDocumentToModel(&doc)
}

// GetFeaturedPost retrieves the currently featured post, (nil, nil)
// when none is flagged.
func (m *MongoDB) GetFeaturedPost(ctx context.Context) (*models.Post, error) {
	var doc PostDocument

	err := m.Posts.FindOne(ctx, bson.M{"featured": true}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return convertPostDocumentToModel(&doc)
}

// DeletePost removes a post document
func (m *MongoDB) DeletePost(ctx context.Context, id uuid.UUID) error {
	result, err := m.Posts.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("failed to delete post: %v", err)
	}
	if result.DeletedCount == 0 {
		return apperr.NewNotFound("Post", id.String())
	}
	return nil
}

func decodePosts(ctx context.Context, cursor *mongo.Cursor) ([]*models.Post, error) {
	var posts []*models.Post
	for cursor.Next(ctx) {
		var doc PostDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode post: %v", err)
		}

		post, err := convertPostDocumentToModel(&doc)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func convertPostDocumentToModel(doc *PostDocument) (*models.Post, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID in database: %v", err)
	}

	profileID, err := uuid.Parse(doc.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("invalid profile ID in database: %v", err)
	}

	userID, err := uuid.Parse(doc.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in database: %v", err)
	}

	categories, err := stringsToIDs(doc.Categories)
	if err != nil {
		return nil, fmt.Errorf("invalid category ID in database: %v", err)
	}
	upvotes, err := stringsToIDs(doc.Upvotes)
	if err != nil {
		return nil, fmt.Errorf("invalid upvote ID in database: %v", err)
	}
	saves, err := stringsToIDs(doc.Saves)
	if err != nil {
		return nil, fmt.Errorf("invalid save ID in database: %v", err)
	}
	comments, err := stringsToIDs(doc.Comments)
	if err != nil {
		return nil, fmt.Errorf("invalid comment ID in database: %v", err)
	}

	var coverImageID *uuid.UUID
	if doc.CoverImageID != nil {
		parsed, err := uuid.Parse(*doc.CoverImageID)
		if err != nil {
			return nil, fmt.Errorf("invalid cover image ID in database: %v", err)
		}
		coverImageID = &parsed
	}

	return &models.Post{
		ID:           id,
		ProfileID:    profileID,
		UserID:       userID,
		Title:        doc.Title,
		Description:  doc.Description,
		Content:      doc.Content,
		CoverImageID: coverImageID,
		Categories:   categories,
		Upvotes:      upvotes,
		UpvoteCount:  doc.UpvoteCount,
		Saves:        saves,
		Comments:     comments,
		Featured:     doc.Featured,
		Slug:         doc.Slug,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}, nil
}
