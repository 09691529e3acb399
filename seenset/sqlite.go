package seenset

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps the seen-set in a SQLite database. IDs are loaded into
// memory at open; Record stages new rows which Flush writes in a single
// transaction.
type SQLiteStore struct {
	db     *sql.DB
	ids    map[string]struct{}
	staged []string
}

// OpenSQLite opens (creating if needed) the seen-set database at path. Schema
// or load failures degrade to an empty set rather than failing the open; a
// database that is truly unwritable surfaces at Flush, where the caller
// absorbs it. The returned error covers only an unusable DSN.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{
		db:  db,
		ids: make(map[string]struct{}),
	}
	if err := store.initSchema(); err != nil {
		// Corrupt or locked database: behave like an absent state file.
		return store, nil
	}
	store.load()
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS seen_ads (
		id TEXT PRIMARY KEY,
		first_seen TIMESTAMP NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) load() {
	rows, err := s.db.Query("SELECT id FROM seen_ads")
	if err != nil {
		return
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			continue
		}
		s.ids[id] = struct{}{}
	}
}

// Contains reports whether id has been recorded.
func (s *SQLiteStore) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Record adds id to the set and reports whether it was newly added.
func (s *SQLiteStore) Record(id string) bool {
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	s.staged = append(s.staged, id)
	return true
}

// Len returns the current size of the set.
func (s *SQLiteStore) Len() int { return len(s.ids) }

// Flush inserts staged IDs in one transaction. INSERT OR IGNORE keeps a
// replayed cycle from failing on rows another run already wrote.
func (s *SQLiteStore) Flush() error {
	if len(s.staged) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	now := time.Now().UTC()
	for _, id := range s.staged {
		if _, err := tx.Exec("INSERT OR IGNORE INTO seen_ads (id, first_seen) VALUES (?, ?)", id, now); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert seen id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seen-set: %w", err)
	}

	s.staged = nil
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
