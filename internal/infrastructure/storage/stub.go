package storage

import (
	"context"
	"strings"
	"sync"

	recipeapp "github.com/foodgram/backend/internal/application/recipe"
)

var _ recipeapp.ImageStorage = (*MemoryImageStorage)(nil)

// MemoryImageStorage keeps images in process memory. It is used when object
// storage is disabled in development and in tests.
type MemoryImageStorage struct {
	baseURL string

	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	data        []byte
	contentType string
}

// NewMemoryImageStorage creates an empty store whose URLs start with baseURL
func NewMemoryImageStorage(baseURL string) *MemoryImageStorage {
	return &MemoryImageStorage{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		objects: make(map[string]memoryObject),
	}
}

// Upload stores a copy of data under key
func (s *MemoryImageStorage) Upload(_ context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = memoryObject{data: append([]byte(nil), data...), contentType: contentType}
	return nil
}

// DownloadURL returns baseURL/key
func (s *MemoryImageStorage) DownloadURL(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", errEmptyKey
	}
	return s.baseURL + "/" + key, nil
}

// Delete removes key; deleting a missing key is not an error
func (s *MemoryImageStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return errEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// Get returns the stored bytes and content type
func (s *MemoryImageStorage) Get(key string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj.data, obj.contentType, ok
}
