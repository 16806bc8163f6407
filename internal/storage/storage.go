// Package storage persists the vocabulary pool. Saving always replaces the
// complete item set; there are no partial updates.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Store is a sqlx-backed pool store. SQLite is the default backend;
// PostgreSQL is used when DATABASE_URL is set.
type Store struct {
	db *sqlx.DB
}

// Connect opens the database selected by the environment and initializes
// the schema.
func Connect() (*Store, error) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return Open("postgres", dsn)
	}

	dataDir := "data"
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	dbPath := os.Getenv("LINGOBOT_DB_PATH")
	if dbPath == "" {
		dbPath = filepath.Join(dataDir, "lingobot.db")
	}
	return Open("sqlite3", dbPath)
}

// Open connects with an explicit driver and DSN and initializes the schema.
func Open(driver, dsn string) (*Store, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite3" {
		// SQLite doesn't support multiple writers.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	s := &Store{db: db}
	if err := s.initializeSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initializeSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			category TEXT NOT NULL DEFAULT '',
			term_target TEXT NOT NULL,
			term_primary TEXT NOT NULL,
			recognition_score INTEGER NOT NULL DEFAULT 0,
			recognition_due_at TIMESTAMP NOT NULL,
			production_score INTEGER NOT NULL DEFAULT 0,
			production_due_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create items table: %w", err)
	}
	return nil
}
