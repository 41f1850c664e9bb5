package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pmui/pmui-mcp/internal/components"
	"github.com/pmui/pmui-mcp/internal/docs"
	"github.com/rs/zerolog/log"
)

// ErrNoSnapshot is returned when the database holds no matching snapshot.
var ErrNoSnapshot = errors.New("no snapshot found")

// SaveSnapshot stores both collections in one transaction.
func (s *SQLiteStorage) SaveSnapshot(ctx context.Context, d *docs.Collection, c *components.Collection) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		ID:                  uuid.NewString(),
		CreatedAt:           s.now().UTC(),
		DocRoot:             d.DocRoot(),
		PageCount:           d.TotalCount(),
		ComponentCount:      c.TotalCount(),
		DocsTimestamp:       d.Timestamp().UTC(),
		ComponentsTimestamp: c.Timestamp().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, created_at, doc_root, page_count, component_count, docs_timestamp, components_timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		snap.ID,
		formatTime(snap.CreatedAt),
		snap.DocRoot,
		snap.PageCount,
		snap.ComponentCount,
		formatTime(snap.DocsTimestamp),
		formatTime(snap.ComponentsTimestamp),
	); err != nil {
		return Snapshot{}, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	for _, p := range d.Pages() {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO doc_pages (snapshot_id, name, title, description, url, file_path, content)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, snap.ID, p.Name, p.Title, p.Description, p.URL, p.FilePath, p.Content); err != nil {
			return Snapshot{}, fmt.Errorf("failed to insert page %s: %w", p.Name, err)
		}
	}

	for _, comp := range c.Components() {
		info, err := json.Marshal(comp)
		if err != nil {
			return Snapshot{}, fmt.Errorf("failed to encode component %s: %w", comp.ModulePath, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO components (snapshot_id, module_path, name, info)
			VALUES (?, ?, ?, ?)
		`, snap.ID, comp.ModulePath, comp.Name, string(info)); err != nil {
			return Snapshot{}, fmt.Errorf("failed to insert component %s: %w", comp.ModulePath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Snapshot{}, fmt.Errorf("failed to commit snapshot: %w", err)
	}

	log.Info().
		Str("id", snap.ID).
		Int("pages", snap.PageCount).
		Int("components", snap.ComponentCount).
		Msg("saved snapshot")
	return snap, nil
}

// LatestSnapshot loads the most recently created snapshot.
func (s *SQLiteStorage) LatestSnapshot(ctx context.Context) (*Catalog, error) {
	return s.loadSnapshot(ctx, `
		SELECT id, created_at, doc_root, page_count, component_count, docs_timestamp, components_timestamp
		FROM snapshots ORDER BY created_at DESC LIMIT 1
	`)
}

// LoadSnapshot loads a snapshot by id.
func (s *SQLiteStorage) LoadSnapshot(ctx context.Context, id string) (*Catalog, error) {
	return s.loadSnapshot(ctx, `
		SELECT id, created_at, doc_root, page_count, component_count, docs_timestamp, components_timestamp
		FROM snapshots WHERE id = ?
	`, id)
}

func (s *SQLiteStorage) loadSnapshot(ctx context.Context, query string, args ...any) (*Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return nil, err
	}

	snap, err := scanSnapshot(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	pages, err := s.loadPages(ctx, snap.ID)
	if err != nil {
		return nil, err
	}
	infos, err := s.loadComponents(ctx, snap.ID)
	if err != nil {
		return nil, err
	}

	return &Catalog{
		Snapshot:   snap,
		Docs:       docs.NewCollection(snap.DocRoot, pages, snap.DocsTimestamp),
		Components: components.NewCollection(infos, snap.ComponentsTimestamp),
	}, nil
}

func (s *SQLiteStorage) loadPages(ctx context.Context, id string) ([]docs.Page, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, title, description, url, file_path, content
		FROM doc_pages WHERE snapshot_id = ? ORDER BY name
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	var pages []docs.Page
	for rows.Next() {
		var p docs.Page
		if err := rows.Scan(&p.Name, &p.Title, &p.Description, &p.URL, &p.FilePath, &p.Content); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

func (s *SQLiteStorage) loadComponents(ctx context.Context, id string) ([]components.ComponentInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT module_path, info FROM components WHERE snapshot_id = ? ORDER BY module_path
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query components: %w", err)
	}
	defer rows.Close()

	var infos []components.ComponentInfo
	for rows.Next() {
		var modulePath, raw string
		if err := rows.Scan(&modulePath, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan component: %w", err)
		}
		var info components.ComponentInfo
		if err := json.Unmarshal([]byte(raw), &info); err != nil {
			return nil, fmt.Errorf("failed to decode component %s: %w", modulePath, err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// ListSnapshots returns every snapshot record, newest first.
func (s *SQLiteStorage) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, doc_root, page_count, component_count, docs_timestamp, components_timestamp
		FROM snapshots ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Cleanup removes snapshots created before now-retention. The newest snapshot
// is never removed. It returns the number of deleted snapshots.
func (s *SQLiteStorage) Cleanup(ctx context.Context, retention time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return 0, err
	}

	cutoff := formatTime(s.now().UTC().Add(-retention))
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM snapshots
		WHERE created_at < ?
		AND id != (SELECT id FROM snapshots ORDER BY created_at DESC LIMIT 1)
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up snapshots: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Info().Int64("deleted", n).Dur("retention", retention).Msg("cleaned up snapshots")
	}
	return int(n), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (Snapshot, error) {
	var snap Snapshot
	var created, docsTS, compsTS string
	if err := row.Scan(&snap.ID, &created, &snap.DocRoot, &snap.PageCount, &snap.ComponentCount, &docsTS, &compsTS); err != nil {
		return Snapshot{}, err
	}

	var err error
	if snap.CreatedAt, err = parseTime(created); err != nil {
		return Snapshot{}, err
	}
	if snap.DocsTimestamp, err = parseTime(docsTS); err != nil {
		return Snapshot{}, err
	}
	if snap.ComponentsTimestamp, err = parseTime(compsTS); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Timestamps are stored as fixed-width RFC 3339 strings so they sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}
