// Package kvstore provides the versioned key-value stores the staff
// directory persists its collection in.
//
// Every backend follows the same contract:
//
//   - Get returns (nil, "", nil) when the key is absent.
//   - Set is a compare-and-swap: expectedVersion "" means the key must not
//     exist yet, any other value must equal the version returned by the last
//     Get. On mismatch Set returns common.ErrVersionConflict.
//   - Delete is idempotent.
package kvstore

import "context"

type Store interface {
	Get(ctx context.Context, key string) (value []byte, version string, err error)
	Set(ctx context.Context, key string, value []byte, expectedVersion string) (newVersion string, err error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}
