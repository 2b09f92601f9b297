// internal/database/memory.go
package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"inkwell/internal/apperr"
	"inkwell/internal/models"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used by tests and local runs
// without a MongoDB. Per-call atomicity is provided by a single mutex,
// matching the per-document write serialization the production store
// guarantees; nothing spans calls.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]*models.User
	profiles map[uuid.UUID]*models.Profile
	posts    map[uuid.UUID]*models.Post
	comments map[uuid.UUID]*models.Comment
	media    map[uuid.UUID]*models.Media
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[uuid.UUID]*models.User),
		profiles: make(map[uuid.UUID]*models.Profile),
		posts:    make(map[uuid.UUID]*models.Post),
		comments: make(map[uuid.UUID]*models.Comment),
		media:    make(map[uuid.UUID]*models.Media),
	}
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

// User methods

func (s *MemoryStore) SaveUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, apperr.NewNotFound("User", id.String())
	}
	clone := *user
	return &clone, nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

// Profile methods

func (s *MemoryStore) SaveProfile(ctx context.Context, profile *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.ID] = cloneProfile(profile)
	return nil
}

func (s *MemoryStore) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[id]
	if !ok {
		return nil, apperr.NewNotFound("Profile", id.String())
	}
	return cloneProfile(profile), nil
}

func (s *MemoryStore) GetProfileByUser(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, profile := range s.profiles {
		if profile.UserID == userID {
			return cloneProfile(profile), nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, profile := range s.profiles {
		if profile.Username == username {
			return cloneProfile(profile), nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) UpdateProfileFollowing(ctx context.Context, id uuid.UUID, following []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[id]
	if !ok {
		return apperr.NewNotFound("Profile", id.String())
	}
	profile.Following = cloneIDs(following)
	profile.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) UpdateProfileFollowers(ctx context.Context, id uuid.UUID, followers []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[id]
	if !ok {
		return apperr.NewNotFound("Profile", id.String())
	}
	profile.Followers = cloneIDs(followers)
	profile.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) UpdateProfileReadingList(ctx context.Context, id uuid.UUID, readingList []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[id]
	if !ok {
		return apperr.NewNotFound("Profile", id.String())
	}
	profile.ReadingList = cloneIDs(readingList)
	profile.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) FindProfilesWithSaved(ctx context.Context, postID uuid.UUID) ([]*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Profile
	for _, profile := range s.profiles {
		if models.ContainsID(profile.ReadingList, postID) {
			out = append(out, cloneProfile(profile))
		}
	}
	return out, nil
}

// Post methods

func (s *MemoryStore) SavePost(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[post.ID] = clonePost(post)
	return nil
}

func (s *MemoryStore) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	post, ok := s.posts[id]
	if !ok {
		return nil, apperr.NewNotFound("Post", id.String())
	}
	return clonePost(post), nil
}

func (s *MemoryStore) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, post := range s.posts {
		if post.Slug == slug {
			return clonePost(post), nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) ListPosts(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	posts := s.sortedPosts(func(a, b *models.Post) bool {
		return a.CreatedAt.After(b.CreatedAt)
	})
	if offset >= len(posts) {
		return nil, nil
	}
	posts = posts[offset:]
	if limit > 0 && limit < len(posts) {
		posts = posts[:limit]
	}
	out := make([]*models.Post, len(posts))
	for i, post := range posts {
		out[i] = clonePost(post)
	}
	return out, nil
}

func (s *MemoryStore) ListPostsByProfile(ctx context.Context, profileID uuid.UUID) ([]*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Post
	for _, post := range s.sortedPosts(func(a, b *models.Post) bool {
		return a.CreatedAt.After(b.CreatedAt)
	}) {
		if post.ProfileID == profileID {
			out = append(out, clonePost(post))
		}
	}
	return out, nil
}

func (s *MemoryStore) UpdatePostUpvotes(ctx context.Context, id uuid.UUID, upvotes []uuid.UUID, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[id]
	if !ok {
		return apperr.NewNotFound("Post", id.String())
	}
	post.Upvotes = cloneIDs(upvotes)
	post.UpvoteCount = count
	post.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) UpdatePostSaves(ctx context.Context, id uuid.UUID, saves []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[id]
	if !ok {
		return apperr.NewNotFound("Post", id.String())
	}
	post.Saves = cloneIDs(saves)
	post.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) UpdatePostComments(ctx context.Context, id uuid.UUID, comments []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[id]
	if !ok {
		return apperr.NewNotFound("Post", id.String())
	}
	post.Comments = cloneIDs(comments)
	post.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) SetPostFeatured(ctx context.Context, id uuid.UUID, featured bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[id]
	if !ok {
		return apperr.NewNotFound("Post", id.String())
	}
	post.Featured = featured
	post.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) MostUpvotedPost(ctx context.Context) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	posts := s.sortedPosts(func(a, b *models.Post) bool {
		if a.UpvoteCount != b.UpvoteCount {
			return a.UpvoteCount > b.UpvoteCount
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	if len(posts) == 0 {
		return nil, nil
	}
	return clonePost(posts[0]), nil
}

func (s *MemoryStore) GetFeaturedPost(ctx context.Context) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, post := range s.posts {
		if post.Featured {
			return clonePost(post), nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) DeletePost(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return apperr.NewNotFound("Post", id.String())
	}
	delete(s.posts, id)
	return nil
}

// Comment methods

func (s *MemoryStore) SaveComment(ctx context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *comment
	if comment.ParentID != nil {
		parent := *comment.ParentID
		clone.ParentID = &parent
	}
	s.comments[comment.ID] = &clone
	return nil
}

func (s *MemoryStore) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	comment, ok := s.comments[id]
	if !ok {
		return nil, apperr.NewNotFound("Comment", id.String())
	}
	clone := *comment
	return &clone, nil
}

func (s *MemoryStore) GetPostComments(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Comment
	for _, comment := range s.comments {
		if comment.PostID == postID {
			clone := *comment
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *MemoryStore) DeletePostComments(ctx context.Context, postID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for id, comment := range s.comments {
		if comment.PostID == postID {
			delete(s.comments, id)
			deleted++
		}
	}
	return deleted, nil
}

// Media methods

func (s *MemoryStore) SaveMedia(ctx context.Context, media *models.Media) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *media
	s.media[media.ID] = &clone
	return nil
}

func (s *MemoryStore) GetMedia(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	media, ok := s.media[id]
	if !ok {
		return nil, apperr.NewNotFound("Media", id.String())
	}
	clone := *media
	return &clone, nil
}

func (s *MemoryStore) DeleteMedia(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.media[id]; !ok {
		return apperr.NewNotFound("Media", id.String())
	}
	delete(s.media, id)
	return nil
}

// helpers

func (s *MemoryStore) sortedPosts(less func(a, b *models.Post) bool) []*models.Post {
	posts := make([]*models.Post, 0, len(s.posts))
	for _, post := range s.posts {
		posts = append(posts, post)
	}
	sort.SliceStable(posts, func(i, j int) bool {
		if less(posts[i], posts[j]) {
			return true
		}
		if less(posts[j], posts[i]) {
			return false
		}
		return posts[i].ID.String() < posts[j].ID.String()
	})
	return posts
}

func cloneProfile(p *models.Profile) *models.Profile {
	clone := *p
	clone.Followers = cloneIDs(p.Followers)
	clone.Following = cloneIDs(p.Following)
	clone.ReadingList = cloneIDs(p.ReadingList)
	if p.AvatarID != nil {
		avatar := *p.AvatarID
		clone.AvatarID = &avatar
	}
	return &clone
}

func clonePost(p *models.Post) *models.Post {
	clone := *p
	clone.Categories = cloneIDs(p.Categories)
	clone.Upvotes = cloneIDs(p.Upvotes)
	clone.Saves = cloneIDs(p.Saves)
	clone.Comments = cloneIDs(p.Comments)
	if p.CoverImageID != nil {
		cover := *p.CoverImageID
		clone.CoverImageID = &cover
	}
	return &clone
}

func cloneIDs(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return nil
	}
	out := make([]uuid.UUID, len(ids))
	copy(out, ids)
	return out
}
