// Package storage keeps uploaded speaker material files.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("object not found")

type Object struct {
	Key         string
	ContentType string
	Data        []byte
}

// MemoryStorage is a bucket of uploaded objects held in process memory.
type MemoryStorage struct {
	BucketName string

	mu      sync.RWMutex
	objects map[string]Object
}

func NewMemoryStorage(bucketName string) *MemoryStorage {
	return &MemoryStorage{
		BucketName: bucketName,
		objects:    make(map[string]Object),
	}
}

// UploadFile stores the file under a generated key and returns its public URL
func (s *MemoryStorage) UploadFile(file multipart.File, header *multipart.FileHeader) (string, int64, error) {
	// Generate unique filename
	key := uuid.New().String() + filepath.Ext(header.Filename)

	data, err := io.ReadAll(file)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read file: %w", err)
	}

	s.mu.Lock()
	s.objects[key] = Object{
		Key:         key,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}
	s.mu.Unlock()

	return s.PublicURL(key), int64(len(data)), nil
}

func (s *MemoryStorage) PublicURL(key string) string {
	return fmt.Sprintf("/storage/v1/object/public/%s/%s", s.BucketName, key)
}

func (s *MemoryStorage) Get(key string) (Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]
	if !ok {
		return Object{}, ErrNotFound
	}
	return obj, nil
}

func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
