// Package blob stores the binary resources (avatars, cover images)
// referenced by media records.
package blob

import (
	"context"
	"sync"
	"time"

	"inkwell/internal/apperr"
	"inkwell/internal/models"

	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v4"
)

// FileStore is the blob storage collaborator. Store persists the bytes
// and returns the media record describing them; Delete removes the
// bytes for a previously stored record.
type FileStore interface {
	Store(ctx context.Context, filename, contentType string, data []byte) (*models.Media, error)
	Delete(ctx context.Context, media *models.Media) error
}

// MemoryFileStore keeps blobs in process memory; used by tests and
// local runs without an object store.
type MemoryFileStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

var _ FileStore = (*MemoryFileStore)(nil)

func NewMemoryFileStore() *MemoryFileStore {
	return &MemoryFileStore{objects: make(map[string][]byte)}
}

func (s *MemoryFileStore) Store(ctx context.Context, filename, contentType string, data []byte) (*models.Media, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := ObjectKey(filename)
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[key] = buf

	return &models.Media{
		ID:          uuid.New(),
		ObjectKey:   key,
		Filename:    filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		URL:         "memory://" + key,
		CreatedAt:   time.Now(),
	}, nil
}

func (s *MemoryFileStore) Delete(ctx context.Context, media *models.Media) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[media.ObjectKey]; !ok {
		return apperr.NewNotFound("Blob", media.ObjectKey)
	}
	delete(s.objects, media.ObjectKey)
	return nil
}

// Get returns the stored bytes; test helper.
func (s *MemoryFileStore) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return data, ok
}

// ObjectKey derives a collision-free object key from the original
// filename.
func ObjectKey(filename string) string {
	return shortuuid.New() + "-" + filename
}
