package services

import (
	"context"
	"testing"
	"time"

	"inkwell/internal/apperr"
	"inkwell/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCommentAppendsToPost(t *testing.T) {
	env := newTestEnv(t)
	comments := NewCommentService(env.store, env.identity, nil)
	ctx := context.Background()

	author, _ := env.newProfile(t, "author")
	alice, aliceCred := env.newProfile(t, "alice")
	post := env.newPost(t, author, "Post", "post")

	comment, err := comments.Add(ctx, aliceCred, post.ID, "nice read", nil)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, comment.AuthorID)
	assert.Nil(t, comment.ParentID)

	got, err := env.store.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, models.ContainsID(got.Comments, comment.ID))
}

func TestAddReply(t *testing.T) {
	env := newTestEnv(t)
	comments := NewCommentService(env.store, env.identity, nil)
	ctx := context.Background()

	author, _ := env.newProfile(t, "author")
	_, aliceCred := env.newProfile(t, "alice")
	post := env.newPost(t, author, "Post", "post")

	root, err := comments.Add(ctx, aliceCred, post.ID, "root", nil)
	require.NoError(t, err)

	reply, err := comments.Add(ctx, aliceCred, post.ID, "reply", &root.ID)
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, root.ID, *reply.ParentID)
}

func TestAddReplyToUnknownParent(t *testing.T) {
	env := newTestEnv(t)
	comments := NewCommentService(env.store, env.identity, nil)

	author, _ := env.newProfile(t, "author")
	_, aliceCred := env.newProfile(t, "alice")
	post := env.newPost(t, author, "Post", "post")

	missing := uuid.New()
	_, err := comments.Add(context.Background(), aliceCred, post.ID, "reply", &missing)
	assert.True(t, apperr.IsErrorCode(err, apperr.ErrNotFound))
}

func TestAddReplyToParentOnOtherPost(t *testing.T) {
	env := newTestEnv(t)
	comments := NewCommentService(env.store, env.identity, nil)
	ctx := context.Background()

	author, _ := env.newProfile(t, "author")
	_, aliceCred := env.newProfile(t, "alice")
	postA := env.newPost(t, author, "Post A", "post-a")
	postB := env.newPost(t, author, "Post B", "post-b")

	parent, err := comments.Add(ctx, aliceCred, postA.ID, "on post a", nil)
	require.NoError(t, err)

	_, err = comments.Add(ctx, aliceCred, postB.ID, "cross-post reply", &parent.ID)
	assert.True(t, apperr.IsErrorCode(err, apperr.ErrInvalidInput))
}

func TestAddCommentEmptyText(t *testing.T) {
	env := newTestEnv(t)
	comments := NewCommentService(env.store, env.identity, nil)

	author, _ := env.newProfile(t, "author")
	_, aliceCred := env.newProfile(t, "alice")
	post := env.newPost(t, author, "Post", "post")

	_, err := comments.Add(context.Background(), aliceCred, post.ID, "   ", nil)
	assert.True(t, apperr.IsErrorCode(err, apperr.ErrInvalidInput))
}

func makeComment(id int, postID uuid.UUID, parent *uuid.UUID, createdAt time.Time) *models.Comment {
	return &models.Comment{
		ID:        uuid.NewSHA1(uuid.NameSpaceOID, []byte{byte(id)}),
		AuthorID:  uuid.New(),
		PostID:    postID,
		Text:      "comment",
		ParentID:  parent,
		CreatedAt: createdAt,
	}
}

func TestBuildThreadGroupsByParent(t *testing.T) {
	postID := uuid.New()
	base := time.Now()

	c1 := makeComment(1, postID, nil, base)
	c2 := makeComment(2, postID, &c1.ID, base.Add(time.Minute))
	c3 := makeComment(3, postID, &c1.ID, base.Add(2*time.Minute))
	c4 := makeComment(4, postID, &c2.ID, base.Add(3*time.Minute))

	thread := BuildThread([]*models.Comment{c1, c2, c3, c4})
	require.Len(t, thread, 1)

	root := thread[0]
	assert.Equal(t, c1.ID, root.Comment.ID)
	require.Len(t, root.Children, 2)

	// Siblings come newest first.
	assert.Equal(t, c3.ID, root.Children[0].Comment.ID)
	assert.Equal(t, c2.ID, root.Children[1].Comment.ID)

	require.Len(t, root.Children[1].Children, 1)
	assert.Equal(t, c4.ID, root.Children[1].Children[0].Comment.ID)
}

func TestBuildThreadDropsOrphans(t *testing.T) {
	postID := uuid.New()
	base := time.Now()

	deletedParent := uuid.New()
	c1 := makeComment(1, postID, nil, base)
	orphan := makeComment(2, postID, &deletedParent, base.Add(time.Minute))

	thread := BuildThread([]*models.Comment{c1, orphan})
	require.Len(t, thread, 1)
	assert.Equal(t, c1.ID, thread[0].Comment.ID)
	assert.Empty(t, thread[0].Children)
}

func TestBuildThreadRootOrder(t *testing.T) {
	postID := uuid.New()
	base := time.Now()

	c1 := makeComment(1, postID, nil, base)
	c2 := makeComment(2, postID, nil, base.Add(time.Minute))
	c3 := makeComment(3, postID, nil, base.Add(2*time.Minute))

	thread := BuildThread([]*models.Comment{c1, c2, c3})
	require.Len(t, thread, 3)
	assert.Equal(t, c3.ID, thread[0].Comment.ID)
	assert.Equal(t, c2.ID, thread[1].Comment.ID)
	assert.Equal(t, c1.ID, thread[2].Comment.ID)
}

func TestListForPostUnknownPost(t *testing.T) {
	env := newTestEnv(t)
	comments := NewCommentService(env.store, env.identity, nil)

	_, err := comments.ListForPost(context.Background(), uuid.New())
	assert.True(t, apperr.IsErrorCode(err, apperr.ErrNotFound))
}
