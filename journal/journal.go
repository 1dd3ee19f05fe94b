package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/sovafoundation/fountfi-open/vault/types"
)

// Config holds configuration for the embedded SQLite journal.
type Config struct {
	Path string // e.g., fountfi.db
}

// Journal is an append-only audit log for vault events backed by an
// embedded SQLite database. It implements types.EventSink.
type Journal struct {
	config Config
	db     *sql.DB
}

var _ types.EventSink = (*Journal)(nil)

// Entry is a persisted vault event.
type Entry struct {
	Id         string            `json:"id"`
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
	At         time.Time         `json:"at"`
}

func New(cfg Config) *Journal {
	return &Journal{config: cfg}
}

// Bootstrap opens the database and creates the schema if missing.
func (j *Journal) Bootstrap(ctx context.Context) error {
	db, err := openSQLite(j.config)
	if err != nil {
		return err
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return err
	}
	j.db = db
	return nil
}

func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	return j.db.Close()
}

func (j *Journal) GetDb() *sql.DB { return j.db }

// Emit appends one event row. Called under the keeper lock, so writes
// arrive strictly in operation order.
func (j *Journal) Emit(ev types.Event) error {
	if j.db == nil {
		return errors.New("journal is not bootstrapped")
	}
	attrs, err := json.Marshal(ev.Attributes)
	if err != nil {
		return err
	}
	q := `INSERT INTO vault_events(id, type, attributes_json, occurred_at) VALUES(?, ?, ?, ?)`
	_, err = j.db.ExecContext(context.Background(), q,
		uuid.NewString(), ev.Type, string(attrs), ev.At.UTC().Format(time.RFC3339Nano))
	return err
}

// Entries returns the newest events first, at most limit rows.
// A non-positive limit returns everything.
func (j *Journal) Entries(ctx context.Context, limit int) ([]Entry, error) {
	if j.db == nil {
		return nil, errors.New("journal is not bootstrapped")
	}
	q := `SELECT id, type, attributes_json, occurred_at FROM vault_events ORDER BY seq DESC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = j.db.QueryContext(ctx, q+` LIMIT ?`, limit)
	} else {
		rows, err = j.db.QueryContext(ctx, q)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e        Entry
			attrsRaw string
			at       string
		)
		if err := rows.Scan(&e.Id, &e.Type, &attrsRaw, &at); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(attrsRaw), &e.Attributes); err != nil {
			return nil, err
		}
		if e.At, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// EntriesByType returns the newest events of one type first.
func (j *Journal) EntriesByType(ctx context.Context, eventType string, limit int) ([]Entry, error) {
	all, err := j.Entries(ctx, 0)
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, e := range all {
		if e.Type != eventType {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func openSQLite(cfg Config) (*sql.DB, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is empty")
	}
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, err
	}
	// Reasonable pool defaults for sqlite
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetConnMaxLifetime(0)
	db.SetMaxIdleConns(1)

	// Enable WAL; if it fails, return error (not optional for our usage)
	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL;"); err != nil {
		return nil, err
	}
	// Reasonable defaults; ignore failure as they are optional
	_, _ = db.ExecContext(context.Background(), "PRAGMA synchronous=NORMAL;")
	_, _ = db.ExecContext(context.Background(), "PRAGMA busy_timeout=5000;")
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	stmt := `
CREATE TABLE IF NOT EXISTS vault_events (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  type TEXT NOT NULL,
  attributes_json TEXT NOT NULL,
  occurred_at TEXT NOT NULL,
  recorded_at DATETIME NOT NULL DEFAULT (STRFTIME('%Y-%m-%d %H:%M:%f','now'))
);

CREATE INDEX IF NOT EXISTS idx_vault_events_type ON vault_events(type);`
	_, err := db.ExecContext(ctx, stmt)
	return err
}
