package artifact

import (
	"bytes"
	"fmt"
	"path"
	"sync"

	"musegen/internal/muse"
)

// MemoryStore is an in-memory implementation of the ArtifactStore interface,
// useful for testing. Paths mirror the filesystem layout without a root.
// This implementation is safe for concurrent use.
type MemoryStore struct {
	clock muse.Clock
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemoryStore creates a new in-memory artifact store.
func NewMemoryStore(clock muse.Clock) *MemoryStore {
	return &MemoryStore{
		clock: clock,
		files: make(map[string][]byte),
	}
}

func (s *MemoryStore) Save(id string, kind muse.ArtifactKind, data []byte) (string, error) {
	sub := "images"
	if kind == muse.ArtifactModel {
		sub = "models"
	}
	key := path.Join(sub, FileName(id, kind, s.clock.Now()))

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.files[key]; ok && !bytes.Equal(existing, data) {
		// Paths are write-once; a colliding (id, kind, timestamp) with
		// different bytes is a caller bug.
		return "", fmt.Errorf("artifact path already written: %s", key)
	}
	s.files[key] = append([]byte(nil), data...)
	return key, nil
}

func (s *MemoryStore) Load(p string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[p]
	if !ok {
		return nil, fmt.Errorf("artifact not found: %s", p)
	}
	return append([]byte(nil), data...), nil
}

func (s *MemoryStore) Exists(p string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.files[p]
	return ok
}

func (s *MemoryStore) Size(p string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.files[p]))
}

// Delete removes a stored artifact. Only used by tests to simulate files
// removed out-of-band.
func (s *MemoryStore) Delete(p string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, p)
}

// Compile-time check that MemoryStore implements muse.ArtifactStore.
var _ muse.ArtifactStore = (*MemoryStore)(nil)
