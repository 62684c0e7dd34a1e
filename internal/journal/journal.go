// Package journal keeps a history of drawn readings in SQLite.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/arcanaland/tarot-today/internal/reading"
)

// ErrNotFound is returned when an entry does not exist.
var ErrNotFound = errors.New("journal entry not found")

// Entry is one stored reading.
type Entry struct {
	ID          int64     `json:"id" yaml:"id"`
	Deck        string    `json:"deck" yaml:"deck"`
	Language    string    `json:"language" yaml:"language"`
	Question    string    `json:"question,omitempty" yaml:"question,omitempty"`
	CardID      int       `json:"card_id" yaml:"card_id"`
	CardName    string    `json:"card_name" yaml:"card_name"`
	Reversed    bool      `json:"reversed" yaml:"reversed"`
	Orientation string    `json:"orientation" yaml:"orientation"`
	Advice      string    `json:"advice" yaml:"advice"`
	DrawnAt     time.Time `json:"drawn_at" yaml:"drawn_at"`
}

// Store is a SQLite backed journal.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

const schema = `
CREATE TABLE IF NOT EXISTS readings (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	deck        TEXT    NOT NULL,
	language    TEXT    NOT NULL,
	question    TEXT    NOT NULL DEFAULT '',
	card_id     INTEGER NOT NULL,
	card_name   TEXT    NOT NULL,
	reversed    INTEGER NOT NULL,
	orientation TEXT    NOT NULL,
	advice      TEXT    NOT NULL,
	drawn_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_readings_drawn_at ON readings(drawn_at);
`

// Open opens or creates the journal database at path. The special path
// ":memory:" keeps the journal in memory.
func Open(path string) (*Store, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating journal tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Record appends a reading and returns its entry.
func (s *Store) Record(ctx context.Context, r reading.Reading) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	drawn := r.DrawnAt
	if drawn.IsZero() {
		drawn = time.Now()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO readings (deck, language, question, card_id, card_name, reversed, orientation, advice, drawn_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Deck, r.Language, r.Question, r.Card.ID, r.Card.Name, r.Reversed, r.Orientation, r.Advice, drawn.UnixMilli(),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("recording reading: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Entry{}, fmt.Errorf("recording reading: %w", err)
	}

	return Entry{
		ID:          id,
		Deck:        r.Deck,
		Language:    r.Language,
		Question:    r.Question,
		CardID:      r.Card.ID,
		CardName:    r.Card.Name,
		Reversed:    r.Reversed,
		Orientation: r.Orientation,
		Advice:      r.Advice,
		DrawnAt:     time.UnixMilli(drawn.UnixMilli()).UTC(),
	}, nil
}

const selectColumns = `SELECT id, deck, language, question, card_id, card_name, reversed, orientation, advice, drawn_at FROM readings`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var e Entry
	var drawn int64
	if err := row.Scan(&e.ID, &e.Deck, &e.Language, &e.Question, &e.CardID, &e.CardName,
		&e.Reversed, &e.Orientation, &e.Advice, &drawn); err != nil {
		return Entry{}, err
	}
	e.DrawnAt = time.UnixMilli(drawn).UTC()
	return e, nil
}

// List returns the most recent entries first. A limit of zero or less
// returns every entry.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := selectColumns + ` ORDER BY drawn_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("listing journal: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns one entry by id.
func (s *Store) Get(ctx context.Context, id int64) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, err := scanEntry(s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("reading journal entry %d: %w", id, err)
	}
	return e, nil
}

// Clear deletes every entry and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM readings`)
	if err != nil {
		return 0, fmt.Errorf("clearing journal: %w", err)
	}
	return res.RowsAffected()
}
