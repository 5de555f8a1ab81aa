package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/leymap/pkg/errors"
)

// timeFormat sorts lexically in chronological order.
const timeFormat = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore keeps records in a single SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and migrates) the database at path. ":memory:"
// gives a private in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dsn := path
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create archive directory: %w", err)
			}
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// An in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS layouts (
		id TEXT PRIMARY KEY,
		focus TEXT NOT NULL,
		timeframe TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT '',
		circles INTEGER NOT NULL DEFAULT 0,
		data JSON NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_layouts_created ON layouts(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save inserts or replaces r.
func (s *SQLiteStore) Save(ctx context.Context, r *Record) error {
	r.prepare()
	data, err := json.Marshal(r.Layout)
	if err != nil {
		return fmt.Errorf("failed to marshal layout: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO layouts (id, focus, timeframe, source, circles, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.Focus, r.Timeframe, r.Source, r.Circles, data, r.CreatedAt.Format(timeFormat))
	if err != nil {
		return fmt.Errorf("failed to save layout %s: %w", r.ID, err)
	}
	return nil
}

// Get loads one record.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, focus, timeframe, source, circles, data, created_at
		FROM layouts WHERE id = ?
	`, id)

	var (
		r       Record
		data    []byte
		created string
	)
	err := row.Scan(&r.ID, &r.Focus, &r.Timeframe, &r.Source, &r.Circles, &data, &created)
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.ErrCodeNotFound, "no archived layout %q", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load layout %s: %w", id, err)
	}
	if err := json.Unmarshal(data, &r.Layout); err != nil {
		return nil, fmt.Errorf("failed to unmarshal layout %s: %w", id, err)
	}
	if r.CreatedAt, err = time.Parse(timeFormat, created); err != nil {
		return nil, fmt.Errorf("bad timestamp on layout %s: %w", id, err)
	}
	return &r, nil
}

// List returns summaries, newest first.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, focus, timeframe, source, circles, created_at
		FROM layouts ORDER BY created_at DESC, id LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query layouts: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum     Summary
			created string
		)
		if err := rows.Scan(&sum.ID, &sum.Focus, &sum.Timeframe, &sum.Source, &sum.Circles, &created); err != nil {
			return nil, fmt.Errorf("failed to scan layout: %w", err)
		}
		if sum.CreatedAt, err = time.Parse(timeFormat, created); err != nil {
			return nil, fmt.Errorf("bad timestamp on layout %s: %w", sum.ID, err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating layouts: %w", err)
	}
	return out, nil
}

// Delete removes one record.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM layouts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete layout %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.ErrCodeNotFound, "no archived layout %q", id)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ Store = (*SQLiteStore)(nil)
