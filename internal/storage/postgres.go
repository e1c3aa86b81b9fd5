package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS seen (
	id TEXT PRIMARY KEY,
	url TEXT,
	title TEXT,
	ts TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresStore keeps the dedup table in PostgreSQL.
type PostgresStore struct {
	sqlStore
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore connects to connectionString and creates the table if absent.
func NewPostgresStore(ctx context.Context, connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &PostgresStore{sqlStore{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		onInsert: func(b sq.InsertBuilder) sq.InsertBuilder {
			return b.Suffix("ON CONFLICT (id) DO NOTHING")
		},
		now: time.Now,
	}}, nil
}
