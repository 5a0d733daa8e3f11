package kvstore

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/staffdir/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract exercises the behaviour every backend must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("absent key", func(t *testing.T) {
		s := newStore(t)
		v, ver, err := s.Get(ctx, "users")
		require.NoError(t, err)
		assert.Nil(t, v)
		assert.Empty(t, ver)
	})

	t.Run("create then update", func(t *testing.T) {
		s := newStore(t)

		v1, err := s.Set(ctx, "users", []byte(`[]`), "")
		require.NoError(t, err)
		require.NotEmpty(t, v1)

		got, ver, err := s.Get(ctx, "users")
		require.NoError(t, err)
		assert.Equal(t, []byte(`[]`), got)
		assert.Equal(t, v1, ver)

		v2, err := s.Set(ctx, "users", []byte(`[{"id":"1"}]`), v1)
		require.NoError(t, err)
		assert.NotEqual(t, v1, v2)

		got, ver, err = s.Get(ctx, "users")
		require.NoError(t, err)
		assert.Equal(t, []byte(`[{"id":"1"}]`), got)
		assert.Equal(t, v2, ver)
	})

	t.Run("create over existing conflicts", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Set(ctx, "users", []byte(`[]`), "")
		require.NoError(t, err)

		_, err = s.Set(ctx, "users", []byte(`[1]`), "")
		require.ErrorIs(t, err, common.ErrVersionConflict)
	})

	t.Run("stale version conflicts", func(t *testing.T) {
		s := newStore(t)
		v1, err := s.Set(ctx, "users", []byte(`a`), "")
		require.NoError(t, err)
		_, err = s.Set(ctx, "users", []byte(`b`), v1)
		require.NoError(t, err)

		_, err = s.Set(ctx, "users", []byte(`c`), v1)
		require.ErrorIs(t, err, common.ErrVersionConflict)

		got, _, err := s.Get(ctx, "users")
		require.NoError(t, err)
		assert.Equal(t, []byte(`b`), got)
	})

	t.Run("update of absent key conflicts", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Set(ctx, "users", []byte(`a`), "7")
		require.ErrorIs(t, err, common.ErrVersionConflict)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Set(ctx, "users", []byte(`a`), "")
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, "users"))
		require.NoError(t, s.Delete(ctx, "users"))

		v, ver, err := s.Get(ctx, "users")
		require.NoError(t, err)
		assert.Nil(t, v)
		assert.Empty(t, ver)

		_, err = s.Set(ctx, "users", []byte(`b`), "")
		require.NoError(t, err)
	})

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, newStore(t).Ping(ctx))
	})
}
