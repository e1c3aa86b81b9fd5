// Package storage keeps the table of items that were already posted.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

const seenTable = "seen"

// SeenRecord is one delivered item. Records are written once and never updated.
type SeenRecord struct {
	ID       string
	URL      string
	Title    string
	PostedAt time.Time
}

// Store is the dedup table.
type Store interface {
	// ShouldPost reports whether id has never been recorded.
	ShouldPost(ctx context.Context, id string) (bool, error)
	// MarkPosted records id; recording an existing id is a no-op.
	MarkPosted(ctx context.Context, id, url, title string) error
	Count(ctx context.Context) (int, error)
	Close() error
}

// Options selects and configures the backend.
type Options struct {
	// DatabaseURL selects Postgres when set.
	DatabaseURL string
	// Path is the SQLite file used otherwise.
	Path string
}

// Open returns the Postgres store when DatabaseURL is set, else the SQLite one.
func Open(ctx context.Context, opts Options) (Store, error) {
	if opts.DatabaseURL != "" {
		s, err := NewPostgresStore(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	s, err := NewSQLiteStore(ctx, opts.Path)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// sqlStore holds the queries both backends share; only the placeholder
// format and the conflict clause differ.
type sqlStore struct {
	db       *sql.DB
	sb       sq.StatementBuilderType
	onInsert func(sq.InsertBuilder) sq.InsertBuilder
	now      func() time.Time
}

func (s *sqlStore) ShouldPost(ctx context.Context, id string) (bool, error) {
	query, args, err := s.sb.Select("1").From(seenTable).Where(sq.Eq{"id": id}).Limit(1).ToSql()
	if err != nil {
		return false, fmt.Errorf("build lookup: %w", err)
	}

	var one int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup %s: %w", id, err)
	}
	return false, nil
}

func (s *sqlStore) MarkPosted(ctx context.Context, id, url, title string) error {
	b := s.sb.Insert(seenTable).
		Columns("id", "url", "title", "ts").
		Values(id, url, title, s.now().UTC())
	query, args, err := s.onInsert(b).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark posted %s: %w", id, err)
	}
	return nil
}

// get returns the record for id, if any.
func (s *sqlStore) get(ctx context.Context, id string) (SeenRecord, bool, error) {
	query, args, err := s.sb.Select("id", "url", "title", "ts").From(seenTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return SeenRecord{}, false, fmt.Errorf("build get: %w", err)
	}

	var (
		rec        SeenRecord
		url, title sql.NullString
	)
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&rec.ID, &url, &title, &rec.PostedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return SeenRecord{}, false, nil
	}
	if err != nil {
		return SeenRecord{}, false, fmt.Errorf("get %s: %w", id, err)
	}
	rec.URL, rec.Title = url.String, title.String
	return rec, true, nil
}

func (s *sqlStore) Count(ctx context.Context) (int, error) {
	query, args, err := s.sb.Select("COUNT(*)").From(seenTable).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

func (s *sqlStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
