package kvstore

import (
	"context"
	"strconv"
	"sync"

	"github.com/dmitrijs2005/staffdir/internal/common"
)

type memoryEntry struct {
	value   []byte
	version int64
}

// MemoryStore keeps values in process memory. Versions come from a
// store-wide counter so a deleted and recreated key never reuses one.
type MemoryStore struct {
	mu      sync.Mutex
	data    map[string]memoryEntry
	counter int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key]
	if !ok {
		return nil, "", nil
	}
	return append([]byte(nil), e.value...), strconv.FormatInt(e.version, 10), nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, expectedVersion string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key]
	switch {
	case !ok && expectedVersion != "":
		return "", common.ErrVersionConflict
	case ok && expectedVersion != strconv.FormatInt(e.version, 10):
		return "", common.ErrVersionConflict
	}

	s.counter++
	s.data[key] = memoryEntry{value: append([]byte(nil), value...), version: s.counter}
	return strconv.FormatInt(s.counter, 10), nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
