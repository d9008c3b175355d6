package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/gplanner/gplan/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/gplanner/gplan/internal/core/domain"
	"github.com/gplanner/gplan/internal/core/ports/driven"
)

// DatabaseFile is the file name used inside the data directory.
const DatabaseFile = "projects.db"

var _ driven.PersistenceStore = (*Store)(nil)

// Store keeps the project store in a SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.gplan/data/projects.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".gplan", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// LoadAll reads every project in list order together with its content.
// Content rows that fail to decode are replaced by empty content.
func (s *Store) LoadAll(ctx context.Context) (*domain.Store, error) {
	out := domain.NewStore()

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.cover, p.last_modified, COALESCE(c.body, '')
		FROM projects p
		LEFT JOIN project_contents c ON c.project_id = p.id
		ORDER BY p.position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var meta domain.ProjectMeta
		var body string
		if err := rows.Scan(&meta.ID, &meta.Name, &meta.Cover, &meta.LastModified, &body); err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		out.Projects = append(out.Projects, meta)
		if body == "" {
			continue
		}
		content := &domain.ProjectContent{}
		if err := json.Unmarshal([]byte(body), content); err != nil {
			continue
		}
		out.Contents[meta.ID] = content
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}

	out.Normalize()
	return out, nil
}

// SaveAll replaces every row in one transaction.
func (s *Store) SaveAll(ctx context.Context, data *domain.Store) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM project_contents"); err != nil {
		return fmt.Errorf("clearing contents: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM projects"); err != nil {
		return fmt.Errorf("clearing projects: %w", err)
	}

	for i, meta := range data.Projects {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO projects (id, position, name, cover, last_modified) VALUES (?, ?, ?, ?, ?)",
			meta.ID, i, meta.Name, meta.Cover, meta.LastModified,
		)
		if err != nil {
			return fmt.Errorf("inserting project %s: %w", meta.ID, err)
		}

		content := data.Contents[meta.ID]
		if content == nil {
			content = domain.NewProjectContent()
		}
		body, err := json.Marshal(content)
		if err != nil {
			return fmt.Errorf("marshalling content %s: %w", meta.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO project_contents (project_id, body) VALUES (?, ?)",
			meta.ID, string(body),
		); err != nil {
			return fmt.Errorf("inserting content %s: %w", meta.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_init.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}
