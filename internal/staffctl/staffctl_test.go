package staffctl

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/staffdir/internal/common"
	"github.com/dmitrijs2005/staffdir/internal/kvstore"
	"github.com/dmitrijs2005/staffdir/internal/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sharedStore keeps one store alive across command invocations.
type sharedStore struct{ kvstore.Store }

func (sharedStore) Close() error { return nil }

func run(t *testing.T, open OpenFunc, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(open)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func memoryOpen(store kvstore.Store) OpenFunc {
	return func(context.Context, kvstore.Config) (kvstore.Store, error) {
		return sharedStore{store}, nil
	}
}

func TestUsersLifecycle(t *testing.T) {
	open := memoryOpen(kvstore.NewMemoryStore())

	out, err := run(t, open, "bootstrap")
	require.NoError(t, err)
	assert.Contains(t, out, "default administrator created")

	out, err = run(t, open, "bootstrap")
	require.NoError(t, err)
	assert.Contains(t, out, "administrator already present")

	out, err = run(t, open, "users", "add", "--name", "Ana Souza", "--role", users.RoleCook, "--login", "ANAS10", "--pin", "123456", "--id", "ana")
	require.NoError(t, err)
	assert.Equal(t, "id=ana login=ANAS10 pin=123456 role=cozinheiro\n", out)

	_, err = run(t, open, "users", "add", "--name", "Other", "--login", "ANAS10")
	require.ErrorIs(t, err, common.ErrorConflict)

	out, err = run(t, open, "users", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Ana Souza")
	assert.NotContains(t, out, "123456")

	out, err = run(t, open, "users", "list", "--pins")
	require.NoError(t, err)
	assert.Contains(t, out, "123456")

	out, err = run(t, open, "users", "list", "--json")
	require.NoError(t, err)
	var list []users.User
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 2)
	assert.Equal(t, users.DefaultAdminID, list[0].ID)
	assert.Empty(t, list[1].PIN)

	out, err = run(t, open, "users", "auth", "--login", "ANAS10", "--pin", "123456")
	require.NoError(t, err)
	assert.Equal(t, "ok id=ana role=cozinheiro\n", out)

	_, err = run(t, open, "users", "auth", "--login", "ANAS10", "--pin", "000000")
	require.ErrorIs(t, err, common.ErrorUnauthorized)

	out, err = run(t, open, "users", "update", "ana", "--role", users.RoleManager)
	require.NoError(t, err)
	assert.Contains(t, out, "role=gerente")
	assert.Contains(t, out, "login=ANAS10")

	_, err = run(t, open, "users", "update", "ana")
	require.ErrorContains(t, err, "nothing to update")

	_, err = run(t, open, "users", "update", "ghost", "--name", "x")
	require.ErrorIs(t, err, common.ErrorNotFound)

	out, err = run(t, open, "users", "remove", "ana")
	require.NoError(t, err)
	assert.Equal(t, "removed ana\n", out)

	_, err = run(t, open, "users", "remove", "ana")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUsersAdd_GeneratesCredentials(t *testing.T) {
	open := memoryOpen(kvstore.NewMemoryStore())

	out, err := run(t, open, "users", "add", "--name", "Caio")
	require.NoError(t, err)
	assert.Regexp(t, `^id=\S+ login=[A-Z]{4}[1-9][0-9] pin=[1-9][0-9]{5} role=atendente\n$`, out)

	_, err = run(t, open, "users", "add", "--role", users.RoleCook)
	require.Error(t, err, "--name is required")
}

func TestClear(t *testing.T) {
	open := memoryOpen(kvstore.NewMemoryStore())
	_, err := run(t, open, "bootstrap")
	require.NoError(t, err)

	_, err = run(t, open, "clear")
	require.ErrorContains(t, err, "--yes")

	out, err := run(t, open, "clear", "--yes")
	require.NoError(t, err)
	assert.Equal(t, "directory cleared\n", out)

	out, err = run(t, open, "users", "list", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestStorageConfigSources(t *testing.T) {
	var got kvstore.Config
	capture := func(_ context.Context, cfg kvstore.Config) (kvstore.Store, error) {
		got = cfg
		return sharedStore{kvstore.NewMemoryStore()}, nil
	}

	t.Run("defaults", func(t *testing.T) {
		_, err := run(t, capture, "users", "list")
		require.NoError(t, err)
		assert.Equal(t, kvstore.BackendSQLite, got.Backend)
		assert.Equal(t, "staffdir.db", got.SQLitePath)
		assert.Equal(t, "staffdir:", got.RedisKeyPrefix)
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("STAFFDIR_STORAGE_BACKEND", "redis")
		t.Setenv("STAFFDIR_REDIS_URL", "redis://cache:6379/3")
		t.Setenv("STAFFDIR_S3_ENDPOINT", "http://minio:9000")

		_, err := run(t, capture, "users", "list")
		require.NoError(t, err)
		assert.Equal(t, "redis", got.Backend)
		assert.Equal(t, "redis://cache:6379/3", got.RedisURL)
		assert.Equal(t, "http://minio:9000", got.S3.BaseEndpoint)
	})

	t.Run("flags win over env", func(t *testing.T) {
		t.Setenv("STAFFDIR_STORAGE_BACKEND", "redis")

		_, err := run(t, capture, "--backend", "postgres", "--database-dsn", "postgres://db/staff", "users", "list")
		require.NoError(t, err)
		assert.Equal(t, "postgres", got.Backend)
		assert.Equal(t, "postgres://db/staff", got.DatabaseDSN)
	})

	t.Run("config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "staffctl.yaml")
		require.NoError(t, os.WriteFile(path, []byte("backend: s3\ns3_bucket: team\n"), 0o600))

		_, err := run(t, capture, "--config", path, "users", "list")
		require.NoError(t, err)
		assert.Equal(t, "s3", got.Backend)
		assert.Equal(t, "team", got.S3.Bucket)
	})

	t.Run("missing config file", func(t *testing.T) {
		_, err := run(t, capture, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "users", "list")
		require.ErrorContains(t, err, "read config")
	})
}

func TestSQLiteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ops", "staff.db")

	_, err := run(t, nil, "--backend", "sqlite", "--sqlite-path", path, "bootstrap")
	require.NoError(t, err)

	out, err := run(t, nil, "--backend", "sqlite", "--sqlite-path", path, "users", "auth", "--login", "admin", "--pin", "admin")
	require.NoError(t, err)
	assert.Contains(t, out, "role=ADMIN")
}
