package kvstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var postgresQueries = sqlQueries{
	get: `SELECT value, version FROM kv_blobs WHERE key = $1`,
	insert: `INSERT INTO kv_blobs (key, value, version) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO NOTHING`,
	update: `UPDATE kv_blobs SET value = $1, version = version + 1
		WHERE key = $2 AND version = $3`,
	delete: `DELETE FROM kv_blobs WHERE key = $1`,
}

func NewPostgresStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, conn: db, q: postgresQueries}
}

// OpenPostgres connects through the pgx stdlib driver and applies the
// embedded migrations.
func OpenPostgres(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := RunMigrations(ctx, db, DialectPostgres); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres migrations: %w", err)
	}

	return NewPostgresStore(db), nil
}
