package storage

import (
	"bytes"
	"context"
	"sync"
)

// MemoryStore keeps blobs in process memory. Data is lost on exit.
type MemoryStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.blobs[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *MemoryStore) PutAll(_ context.Context, blobs map[string][]byte, guard *Guard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if guard != nil {
		cur, ok := s.blobs[guard.Key]
		if ok != (guard.Old != nil) || !bytes.Equal(cur, guard.Old) {
			return ErrConflict
		}
		s.blobs[guard.Key] = append([]byte(nil), guard.New...)
	}
	for k, v := range blobs {
		s.blobs[k] = append([]byte(nil), v...)
	}
	return nil
}

// Keys returns the number of stored keys.
func (s *MemoryStore) Keys() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}

func (s *MemoryStore) Close() error { return nil }
