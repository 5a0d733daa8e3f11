package kvstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/staffdir/internal/filex"
	_ "modernc.org/sqlite"
)

var sqliteQueries = sqlQueries{
	get: `SELECT value, version FROM kv_blobs WHERE key = ?`,
	insert: `INSERT INTO kv_blobs (key, value, version) VALUES (?, ?, ?)
		ON CONFLICT(key) DO NOTHING`,
	update: `UPDATE kv_blobs SET value = ?, version = version + 1
		WHERE key = ? AND version = ?`,
	delete: `DELETE FROM kv_blobs WHERE key = ?`,
}

func NewSQLiteStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, conn: db, q: sqliteQueries}
}

// OpenSQLite opens (creating if needed) the database file at path and
// applies the embedded migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLStore, error) {
	if err := filex.EnsureParentDir(path); err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps the busy timeout and serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite pragma: %w", err)
	}

	if err := RunMigrations(ctx, db, DialectSQLite); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite migrations: %w", err)
	}

	return NewSQLiteStore(db), nil
}
