package users

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/staffdir/internal/kvstore"
	"github.com/dmitrijs2005/staffdir/internal/logging"
)

// faultyStore wraps a MemoryStore and lets tests inject failures.
type faultyStore struct {
	*kvstore.MemoryStore

	getErr    error
	setErr    error
	deleteErr error
	setCalls  atomic.Int32
}

func newFaultyStore() *faultyStore {
	return &faultyStore{MemoryStore: kvstore.NewMemoryStore()}
}

func (f *faultyStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	if f.getErr != nil {
		return nil, "", f.getErr
	}
	return f.MemoryStore.Get(ctx, key)
}

func (f *faultyStore) Set(ctx context.Context, key string, value []byte, expected string) (string, error) {
	f.setCalls.Add(1)
	if f.setErr != nil {
		return "", f.setErr
	}
	return f.MemoryStore.Set(ctx, key, value, expected)
}

func (f *faultyStore) Delete(ctx context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.MemoryStore.Delete(ctx, key)
}

func newTestService(t *testing.T, store kvstore.Store) *Service {
	t.Helper()
	return NewService(store, logging.Discard(), WithRetry(50, time.Millisecond))
}

func strPtr(s string) *string { return &s }

func discardLogger() logging.Logger { return logging.Discard() }
