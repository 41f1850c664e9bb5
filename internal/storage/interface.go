/*
Package storage keeps catalog snapshots in a SQLite database.

A snapshot is one built documentation collection plus one component
collection, stored together under a UUID. Snapshots are written only by
explicit export commands and read back by "serve --snapshot", so a server
can start without walking the documentation tree or the component manifest.

The database uses modernc.org/sqlite (a pure Go, CGo-free implementation) and
lives at ~/.pmui-mcp/snapshots.db unless another path is given.
*/
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pmui/pmui-mcp/internal/components"
	"github.com/pmui/pmui-mcp/internal/docs"
	"github.com/rs/zerolog/log"

	_ "modernc.org/sqlite"
)

// Storage defines the snapshot operations.
type Storage interface {
	// Init opens the database and runs migrations.
	Init() error

	// SaveSnapshot stores both collections and returns the new snapshot record.
	SaveSnapshot(ctx context.Context, d *docs.Collection, c *components.Collection) (Snapshot, error)

	// LatestSnapshot loads the most recently created snapshot.
	LatestSnapshot(ctx context.Context) (*Catalog, error)

	// LoadSnapshot loads a snapshot by id.
	LoadSnapshot(ctx context.Context, id string) (*Catalog, error)

	// ListSnapshots returns every snapshot record, newest first.
	ListSnapshots(ctx context.Context) ([]Snapshot, error)

	// Cleanup removes snapshots older than retention, always keeping the newest.
	Cleanup(ctx context.Context, retention time.Duration) (int, error)

	// Close closes the database connection.
	Close() error
}

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db       *sql.DB
	dbPath   string
	mu       sync.Mutex
	initOnce sync.Once
	initErr  error
	now      func() time.Time
}

// DefaultPath returns ~/.pmui-mcp/snapshots.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".pmui-mcp", "snapshots.db"), nil
}

// NewStorage creates a storage for the database at dbPath. The file and its
// directory are created by Init.
func NewStorage(dbPath string) *SQLiteStorage {
	return &SQLiteStorage{dbPath: dbPath, now: time.Now}
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string { return s.dbPath }

// Init opens the database and runs migrations. It is safe to call more than
// once; later calls return the first result.
func (s *SQLiteStorage) Init() error {
	s.initOnce.Do(func() {
		if err := os.MkdirAll(filepath.Dir(s.dbPath), 0o755); err != nil {
			s.initErr = fmt.Errorf("failed to create db directory: %w", err)
			return
		}

		db, err := sql.Open("sqlite", s.dbPath+"?_pragma=foreign_keys(1)")
		if err != nil {
			s.initErr = fmt.Errorf("failed to open database: %w", err)
			return
		}
		db.SetMaxOpenConns(1)

		if err := db.Ping(); err != nil {
			db.Close()
			s.initErr = fmt.Errorf("failed to ping database: %w", err)
			return
		}
		s.db = db

		if err := s.runMigrations(); err != nil {
			db.Close()
			s.db = nil
			s.initErr = fmt.Errorf("failed to run migrations: %w", err)
			return
		}
		log.Debug().Str("path", s.dbPath).Msg("snapshot database ready")
	})
	return s.initErr
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	s.db = nil
	return nil
}

func (s *SQLiteStorage) ready() error {
	if s.db == nil {
		if s.initErr != nil {
			return s.initErr
		}
		return fmt.Errorf("storage %s is not initialized", s.dbPath)
	}
	return nil
}
