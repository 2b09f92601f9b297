// internal/database/comment_repository.go
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

// CommentDocument represents comment data in MongoDB
type CommentDocument struct {
	ID        string    `bson:"_id"`
	AuthorID  string    `bson:"author"`
	PostID    string    `bson:"post"`
	Text      string    `bson:"text"`
	ParentID  *string   `bson:"parent,omitempty"`
	CreatedAt time.Time `bson:"createdAt"`
}

// SaveComment creates or updates a comment in MongoDB
func (m *MongoDB) SaveComment(ctx context.Context, comment *models.Comment) error {
	doc := CommentDocument{
		ID:        comment.ID.String(),
		AuthorID:  comment.AuthorID.String(),
		PostID:    comment.PostID.String(),
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}

	// Handle optional ParentID
	if comment.ParentID != nil {
		parentIDStr := comment.ParentID.String()
		doc.ParentID = &parentIDStr
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": doc.ID}
	update := bson.M{"$set": doc}

	if _, err := m.Comments.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to save comment: %v", err)
	}
	return nil
}

// GetComment retrieves a comment by ID
func (m *MongoDB) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var doc CommentDocument

	err := m.Comments.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NewNotFound("Comment", id.String())
	}
	if err != nil {
		return nil, err
	}

	return convertCommentDocumentToModel(&doc)
}

// GetPostComments retrieves all comments for a post, newest first
func (m *MongoDB) GetPostComments(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := m.Comments.Find(ctx, bson.M{"post": postID.String()}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get post comments: %v", err)
	}
	defer cursor.Close(ctx)

	var comments []*models.Comment
	for cursor.Next(ctx) {
		var doc CommentDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode comment: %v", err)
		}

		comment, err := convertCommentDocumentToModel(&doc)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}

	return comments, nil
}

// DeletePostComments removes every comment referencing the post and
// reports how many were deleted.
func (m *MongoDB) DeletePostComments(ctx context.Context, postID uuid.UUID) (int, error) {
	result, err := m.Comments.DeleteMany(ctx, bson.M{"post": postID.String()})
	if err != nil {
		return 0, fmt.Errorf("failed to delete post comments: %v", err)
	}
	return int(result.DeletedCount), nil
}

func convertCommentDocumentToModel(doc *CommentDocument) (*models.Comment, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid comment ID in database: %v", err)
	}

	authorID, err := uuid.Parse(doc.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("invalid author ID in database: %v", err)
	}

	postID, err := uuid.Parse(doc.PostID)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID in database: %v", err)
	}

	var parentID *uuid.UUID
	if doc.ParentID != nil {
		parsed, err := uuid.Parse(*doc.ParentID)
		if err != nil {
			return nil, fmt.Errorf("invalid parent ID in database: %v", err)
		}
		parentID = &parsed
	}

	return &models.Comment{
		ID:        id,
		AuthorID:  authorID,
		PostID:    postID,
		Text:      doc.Text,
		ParentID:  parentID,
		CreatedAt: doc.CreatedAt,
	}, nil
}
