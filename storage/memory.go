package storage

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"chronolens/apperr"
)

type memObject struct {
	data        []byte
	contentType string
}

// MemoryStore keeps objects in a map. It backs tests and local development
// where no bucket is reachable.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memObject
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]memObject)}
}

func (m *MemoryStore) Put(_ context.Context, key string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([]byte, len(data))
	copy(copied, data)
	m.objects[key] = memObject{data: copied, contentType: contentType}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, apperr.Newf(apperr.NotFound, "no object at %s", key)
	}
	return obj.data, nil
}

func (m *MemoryStore) Exists(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok, nil
}

func (m *MemoryStore) PresignGet(_ context.Context, key string, expires time.Duration, attachmentName string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.objects[key]; !ok {
		return "", apperr.Newf(apperr.NotFound, "no object at %s", key)
	}

	values := url.Values{}
	values.Set("expires", fmt.Sprintf("%d", int64(expires.Seconds())))
	if attachmentName != "" {
		values.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", attachmentName))
	}
	return fmt.Sprintf("https://objects.invalid/%s?%s", key, values.Encode()), nil
}

// Delete removes an object. Only tests use this, to simulate partially
// written state.
func (m *MemoryStore) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
}

// Len reports the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
