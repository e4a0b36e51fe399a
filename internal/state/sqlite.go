package state

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore creates a new SQLite store instance.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{}
}

// NewSQLiteStoreWithDB wraps an existing database connection. Used by tests
// that drive the store against a mock.
func NewSQLiteStoreWithDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Open opens a connection to the SQLite database.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

// RecordConversion appends one ledger row.
func (s *SQLiteStore) RecordConversion(c *Conversion) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if c.ID == "" {
		c.ID = generateID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO conversions (id, source, target, direction, control_number, segments, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Source, c.Target, c.Direction, c.ControlNumber, c.Segments,
		c.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to record conversion: %w", err)
	}
	return nil
}

// ListConversions returns recorded conversions, newest first.
func (s *SQLiteStore) ListConversions(limit int) ([]Conversion, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = -1 // SQLite treats a negative LIMIT as unlimited
	}

	rows, err := s.db.Query(`
		SELECT id, source, target, direction, control_number, segments, created_at
		FROM conversions
		ORDER BY created_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Conversion
	for rows.Next() {
		var c Conversion
		var created string
		if err := rows.Scan(&c.ID, &c.Source, &c.Target, &c.Direction,
			&c.ControlNumber, &c.Segments, &created); err != nil {
			return nil, fmt.Errorf("failed to scan conversion: %w", err)
		}
		c.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, c)
	}
	return out, rows.Err()
}

// HasControlNumber reports whether the control number was already recorded.
// Empty control numbers are never considered seen: documents without an ISA
// cannot be deduplicated.
func (s *SQLiteStore) HasControlNumber(controlNumber string) (bool, error) {
	if s.db == nil {
		return false, fmt.Errorf("database not opened")
	}
	if controlNumber == "" {
		return false, nil
	}

	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM conversions WHERE control_number = ?`,
		controlNumber).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check control number: %w", err)
	}
	return n > 0, nil
}
