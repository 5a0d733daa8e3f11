package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/staffdir/internal/common"
	"github.com/dmitrijs2005/staffdir/internal/dbx"
)

type sqlQueries struct {
	get    string
	insert string
	update string
	delete string
}

// SQLStore keeps each key as a row of kv_blobs. The version column is
// seeded from the clock on insert and incremented on every update, so a
// deleted and recreated key does not resurrect an old version.
type SQLStore struct {
	db   dbx.DBTX
	conn *sql.DB
	q    sqlQueries
}

var nowVersion = func() int64 { return time.Now().UnixNano() }

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	var (
		value   []byte
		version int64
	)
	err := s.db.QueryRowContext(ctx, s.q.get, key).Scan(&value, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to get kv[%s]: %w", key, err)
	}
	return value, strconv.FormatInt(version, 10), nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value []byte, expectedVersion string) (string, error) {
	if expectedVersion == "" {
		version := nowVersion()
		res, err := s.db.ExecContext(ctx, s.q.insert, key, value, version)
		if err != nil {
			return "", fmt.Errorf("failed to set kv[%s]: %w", key, err)
		}
		if err := requireOneRow(res); err != nil {
			return "", err
		}
		return strconv.FormatInt(version, 10), nil
	}

	expected, err := strconv.ParseInt(expectedVersion, 10, 64)
	if err != nil {
		return "", common.ErrVersionConflict
	}

	res, err := s.db.ExecContext(ctx, s.q.update, value, key, expected)
	if err != nil {
		return "", fmt.Errorf("failed to set kv[%s]: %w", key, err)
	}
	if err := requireOneRow(res); err != nil {
		return "", err
	}
	return strconv.FormatInt(expected+1, 10), nil
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n != 1 {
		return common.ErrVersionConflict
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.q.delete, key); err != nil {
		return fmt.Errorf("failed to delete kv[%s]: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	return s.conn.Close()
}
