package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryStorage is an in-process StorageService used in tests and in
// deployments that run with import archival disabled.
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryStorage creates an empty in-memory storage service
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		objects: make(map[string][]byte),
	}
}

func objectKey(bucket, objectName string) string {
	return bucket + "/" + objectName
}

// Upload stores the content under bucket/objectName
func (m *MemoryStorage) Upload(ctx context.Context, bucket, objectName string, content []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	buf := make([]byte, len(content))
	copy(buf, content)
	m.objects[objectKey(bucket, objectName)] = buf
	return objectName, nil
}

// Download returns the stored content
func (m *MemoryStorage) Download(ctx context.Context, bucket, objectName string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	content, ok := m.objects[objectKey(bucket, objectName)]
	if !ok {
		return nil, fmt.Errorf("object %s not found in bucket %s", objectName, bucket)
	}
	return content, nil
}

// Delete removes the stored content
func (m *MemoryStorage) Delete(ctx context.Context, bucket, objectName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.objects, objectKey(bucket, objectName))
	return nil
}

// GetSignedURL returns a stable pseudo-URL for the object
func (m *MemoryStorage) GetSignedURL(ctx context.Context, bucket, objectName string, expires int64) (string, error) {
	return fmt.Sprintf("mem://%s/%s", bucket, objectName), nil
}

// StreamUpload stores the reader's content under bucket/objectName
func (m *MemoryStorage) StreamUpload(ctx context.Context, bucket, objectName string, reader io.Reader, contentType string) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return "", err
	}
	return m.Upload(ctx, bucket, objectName, buf.Bytes(), contentType)
}
