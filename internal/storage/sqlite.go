package storage

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// migration represents a single database migration.
type migration struct {
	version int
	name    string
	up      []string
}

var migrations = []migration{
	{
		version: 1,
		name:    "initial_schema",
		up: []string{
			`CREATE TABLE IF NOT EXISTS snapshots (
				id TEXT PRIMARY KEY,
				created_at TEXT NOT NULL,
				doc_root TEXT NOT NULL,
				page_count INTEGER NOT NULL,
				component_count INTEGER NOT NULL,
				docs_timestamp TEXT NOT NULL,
				components_timestamp TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS doc_pages (
				snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
				name TEXT NOT NULL,
				title TEXT NOT NULL,
				description TEXT NOT NULL,
				url TEXT NOT NULL,
				file_path TEXT NOT NULL,
				content TEXT NOT NULL,
				PRIMARY KEY (snapshot_id, name)
			)`,
			`CREATE TABLE IF NOT EXISTS components (
				snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
				module_path TEXT NOT NULL,
				name TEXT NOT NULL,
				info TEXT NOT NULL,
				PRIMARY KEY (snapshot_id, module_path)
			)`,
		},
	},
	{
		version: 2,
		name:    "snapshot_created_index",
		up: []string{
			`CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at DESC)`,
			`CREATE INDEX IF NOT EXISTS idx_components_name ON components(snapshot_id, name)`,
		},
	},
}

// runMigrations executes database schema migrations.
func (s *SQLiteStorage) runMigrations() error {
	if err := s.createMigrationsTable(); err != nil {
		return err
	}

	version, err := s.getCurrentMigrationVersion()
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if version >= m.version {
			continue
		}
		log.Info().Int("version", m.version).Str("name", m.name).Msg("running migration")
		if err := s.applyMigration(m); err != nil {
			return fmt.Errorf("migration %d failed: %w", m.version, err)
		}
	}
	return nil
}

// createMigrationsTable creates the schema_migrations table.
func (s *SQLiteStorage) createMigrationsTable() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`)
	return err
}

// getCurrentMigrationVersion returns the highest applied migration version.
func (s *SQLiteStorage) getCurrentMigrationVersion() (int, error) {
	var version int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version); err != nil {
		return 0, err
	}
	return version, nil
}

// applyMigration runs the statements of m and records it, all in one transaction.
func (s *SQLiteStorage) applyMigration(m migration) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range m.up {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", m.version, m.name); err != nil {
		return err
	}
	return tx.Commit()
}
