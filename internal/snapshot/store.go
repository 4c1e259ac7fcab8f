// Package snapshot persists assembled plot results to a local SQLite
// database, so a dashboard restart can serve the last known series while
// the caches warm back up.
package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gridsight/gridsight/schema"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS series_snapshots (
	snapshot_key TEXT PRIMARY KEY,
	payload      BLOB NOT NULL,
	created_at   INTEGER NOT NULL
);
`

// payload is the stored JSON shape. The dataset's column values and times
// are enough to re-render a series without touching parquet files.
type payload struct {
	Site       string               `json:"site"`
	Category   schema.Category      `json:"category"`
	Columns    []string             `json:"columns"`
	Values     map[string][]float64 `json:"values"`
	Times      []time.Time          `json:"times,omitempty"`
	Diagnostic schema.Diagnostic    `json:"diagnostic"`
}

// Status summarizes the store contents for the CLI status command.
type Status struct {
	Entries int       `json:"entries"`
	Oldest  time.Time `json:"oldest,omitempty"`
	Newest  time.Time `json:"newest,omitempty"`
}

// Store is a SQLite-backed snapshot store. Safe for concurrent use; SQLite
// serializes writers internally.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens or creates the snapshot database at path.
func Open(path string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot db %s: %w", path, err)
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing snapshot db %s: %w", path, err)
	}
	return &Store{db: db, log: log}, nil
}

// Put stores or replaces the snapshot for a key.
func (s *Store) Put(ctx context.Context, key string, result *schema.PlotResult) error {
	p := payload{Diagnostic: result.Diagnostic}
	if result.Series != nil {
		p.Site = result.Series.Site
		p.Category = result.Series.Category
		p.Columns = result.Series.Columns
		p.Values = result.Series.Values
		p.Times = result.Series.Times
	}
	blob, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding snapshot %s: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO series_snapshots (snapshot_key, payload, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(snapshot_key) DO UPDATE SET payload = excluded.payload, created_at = excluded.created_at`,
		key, blob, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("storing snapshot %s: %w", key, err)
	}
	s.log.Debug("snapshot stored", "key", key, "bytes", len(blob))
	return nil
}

// Get returns the snapshot for a key, or ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) (*schema.PlotResult, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM series_snapshots WHERE snapshot_key = ?`, key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %s: %w", key, schema.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", key, err)
	}

	var p payload
	if err := json.Unmarshal(blob, &p); err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", key, err)
	}
	result := &schema.PlotResult{Diagnostic: p.Diagnostic}
	if len(p.Columns) > 0 {
		result.Series = &schema.Dataset{
			Site:     p.Site,
			Category: p.Category,
			Scope:    schema.HistoricalHourly,
			Columns:  p.Columns,
			Values:   p.Values,
			Times:    p.Times,
		}
	}
	return result, nil
}

// Status reports entry count and timestamp range.
func (s *Store) Status(ctx context.Context) (Status, error) {
	var st Status
	var oldest, newest sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), MIN(created_at), MAX(created_at) FROM series_snapshots`).
		Scan(&st.Entries, &oldest, &newest)
	if err != nil {
		return Status{}, fmt.Errorf("snapshot status: %w", err)
	}
	if oldest.Valid {
		st.Oldest = time.Unix(oldest.Int64, 0).UTC()
	}
	if newest.Valid {
		st.Newest = time.Unix(newest.Int64, 0).UTC()
	}
	return st, nil
}

// Clear removes every snapshot and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM series_snapshots`)
	if err != nil {
		return 0, fmt.Errorf("clearing snapshots: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
