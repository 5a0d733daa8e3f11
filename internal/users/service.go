// Package users owns the restaurant's staff collection: employee credential
// records persisted as a single JSON array under the "users" key of a
// versioned key-value store.
//
// All mutations are read-modify-write cycles. They are serialized by a
// mutex inside one Service and guarded across processes by the store's
// compare-and-swap, so concurrent writers never silently drop each other's
// changes.
package users

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/staffdir/internal/common"
	"github.com/dmitrijs2005/staffdir/internal/kvstore"
	"github.com/dmitrijs2005/staffdir/internal/logging"
	"github.com/sethvargo/go-retry"
)

const (
	defaultMaxRetries   = 5
	defaultRetryBackoff = 10 * time.Millisecond
)

type Service struct {
	store  kvstore.Store
	logger logging.Logger

	mu           sync.Mutex
	maxRetries   uint64
	retryBackoff time.Duration
}

type Option func(*Service)

// WithRetry sets how many times a mutation is retried after losing a
// compare-and-swap race, and the base of the exponential backoff.
func WithRetry(maxRetries uint64, backoff time.Duration) Option {
	return func(s *Service) {
		s.maxRetries = maxRetries
		s.retryBackoff = backoff
	}
}

func NewService(store kvstore.Store, logger logging.Logger, opts ...Option) *Service {
	s := &Service{
		store:        store,
		logger:       logger.With("module", "users"),
		maxRetries:   defaultMaxRetries,
		retryBackoff: defaultRetryBackoff,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every record in insertion order. An absent key yields an
// empty slice.
func (s *Service) List(ctx context.Context) ([]User, error) {
	list, _, err := s.load(ctx)
	if err != nil {
		s.logger.Error(ctx, "failed to list users", "error", err)
		return nil, err
	}
	return list, nil
}

// Get returns the record with the given id.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexByID(list, id); i >= 0 {
		return &list[i], nil
	}
	return nil, common.ErrorNotFound
}

// Create appends u unless another record already uses its login.
func (s *Service) Create(ctx context.Context, u User) error {
	err := s.mutate(ctx, "create", func(list []User) ([]User, error) {
		if indexByLogin(list, u.Login) >= 0 {
			return nil, common.ErrorConflict
		}
		return append(list, u), nil
	})
	if err != nil {
		s.logFailure(ctx, "failed to create user", err, "login", u.Login)
		return fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user created", "id", u.ID, "role", u.Role)
	return nil
}

// Authenticate returns the record whose login and PIN both match exactly.
// Matching is case-sensitive and inputs are not trimmed.
func (s *Service) Authenticate(ctx context.Context, login, pin string) (*User, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range list {
		if list[i].Login == login && subtle.ConstantTimeCompare([]byte(list[i].PIN), []byte(pin)) == 1 {
			s.logger.Info(ctx, "user authenticated", "id", list[i].ID)
			return &list[i], nil
		}
	}

	s.logger.Warn(ctx, "authentication failed", "login", login)
	return nil, common.ErrorUnauthorized
}

// Update merges the fields present in p into the record with the given id
// and returns the merged record.
func (s *Service) Update(ctx context.Context, id string, p Patch) (*User, error) {
	var updated User

	err := s.mutate(ctx, "update", func(list []User) ([]User, error) {
		i := indexByID(list, id)
		if i < 0 {
			return nil, common.ErrorNotFound
		}

		if p.Login != nil && *p.Login != list[i].Login {
			for j := range list {
				if j != i && list[j].Login == *p.Login {
					return nil, common.ErrorConflict
				}
			}
		}

		list[i] = p.apply(list[i])
		updated = list[i]
		return list, nil
	})
	if err != nil {
		s.logFailure(ctx, "failed to update user", err, "id", id)
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	s.logger.Info(ctx, "user updated", "id", id)
	return &updated, nil
}

// Remove deletes the record with the given id.
func (s *Service) Remove(ctx context.Context, id string) error {
	err := s.mutate(ctx, "remove", func(list []User) ([]User, error) {
		kept := make([]User, 0, len(list))
		for _, u := range list {
			if u.ID != id {
				kept = append(kept, u)
			}
		}
		if len(kept) == len(list) {
			return nil, common.ErrorNotFound
		}
		return kept, nil
	})
	if err != nil {
		s.logFailure(ctx, "failed to remove user", err, "id", id)
		return fmt.Errorf("error removing user: %w", err)
	}

	s.logger.Info(ctx, "user removed", "id", id)
	return nil
}

// Clear deletes the whole collection.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, common.UsersKey); err != nil {
		s.logger.Error(ctx, "failed to clear users", "error", err)
		return fmt.Errorf("%w: clear users: %w", common.ErrStorageFault, err)
	}

	s.logger.Warn(ctx, "user collection cleared")
	return nil
}

func (s *Service) load(ctx context.Context) ([]User, string, error) {
	raw, version, err := s.store.Get(ctx, common.UsersKey)
	if err != nil {
		return nil, "", fmt.Errorf("%w: read users: %w", common.ErrStorageFault, err)
	}
	if raw == nil {
		return []User{}, "", nil
	}

	var list []User
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, "", fmt.Errorf("%w: decode users: %w", common.ErrStorageFault, err)
	}
	if list == nil {
		list = []User{}
	}
	return list, version, nil
}

// mutate loads the collection, applies fn and writes the result back with a
// compare-and-swap on the version it read. A lost race reloads and runs fn
// again, so fn must derive everything from the list it is given.
func (s *Service) mutate(ctx context.Context, op string, fn func([]User) ([]User, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := s.retryBackoff
	if base <= 0 {
		base = time.Nanosecond
	}
	backoff := retry.WithMaxRetries(s.maxRetries, retry.NewExponential(base))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		list, version, err := s.load(ctx)
		if err != nil {
			return err
		}

		next, err := fn(list)
		if err != nil {
			return err
		}

		raw, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("%w: encode users: %w", common.ErrStorageFault, err)
		}

		if _, err := s.store.Set(ctx, common.UsersKey, raw, version); err != nil {
			if errors.Is(err, common.ErrVersionConflict) {
				s.logger.Debug(ctx, "users changed concurrently, retrying", "op", op)
				return retry.RetryableError(err)
			}
			return fmt.Errorf("%w: write users: %w", common.ErrStorageFault, err)
		}
		return nil
	})

	if errors.Is(err, common.ErrVersionConflict) {
		return fmt.Errorf("%w: %s kept losing concurrent writes: %w", common.ErrStorageFault, op, err)
	}
	return err
}

// logFailure logs expected outcomes (not found, conflict) at warn level
// and everything else as an error.
func (s *Service) logFailure(ctx context.Context, msg string, err error, args ...any) {
	args = append(args, "error", err)
	if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorConflict) {
		s.logger.Warn(ctx, msg, args...)
		return
	}
	s.logger.Error(ctx, msg, args...)
}

func indexByID(list []User, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

func indexByLogin(list []User, login string) int {
	for i := range list {
		if list[i].Login == login {
			return i
		}
	}
	return -1
}
