// Package overrides persists package-name to advisory-name mappings in an embedded SQLite database.
package overrides

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/importspectre/internal/models"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const schema = `
CREATE TABLE IF NOT EXISTS snyk_name_overrides (
    package_name TEXT PRIMARY KEY,
    snyk_name    TEXT NOT NULL,
    updated_at   TEXT NOT NULL
);`

// Store is a single-connection handle on the override table.
// It is not safe for concurrent use.
type Store struct {
	conn *sqlite.Conn
	path string
	now  func() time.Time
}

// Open opens (creating if needed) the override database at path.
func Open(path string) (*Store, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("override database path is empty")
	}

	if dir := filepath.Dir(trimmed); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create override database directory: %w", err)
		}
	}

	conn, err := sqlite.OpenConn(trimmed, sqlite.OpenCreate, sqlite.OpenReadWrite, sqlite.OpenWAL)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("create override table: %w", err)
	}

	return &Store{conn: conn, path: trimmed, now: time.Now}, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Lookup returns the advisory name recorded for packageName.
func (s *Store) Lookup(packageName string) (string, bool, error) {
	var (
		name  string
		found bool
	)
	err := sqlitex.ExecuteTransient(s.conn,
		`SELECT snyk_name FROM snyk_name_overrides WHERE package_name = ?`,
		&sqlitex.ExecOptions{
			Args: []any{packageName},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				name = stmt.ColumnText(0)
				found = true
				return nil
			},
		})
	if err != nil {
		return "", false, fmt.Errorf("lookup override for %s: %w", packageName, err)
	}
	return name, found, nil
}

// Upsert records snykName for packageName, replacing any previous mapping.
func (s *Store) Upsert(packageName, snykName string) error {
	err := sqlitex.ExecuteTransient(s.conn,
		`INSERT INTO snyk_name_overrides (package_name, snyk_name, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(package_name) DO UPDATE SET snyk_name = excluded.snyk_name, updated_at = excluded.updated_at`,
		&sqlitex.ExecOptions{
			Args: []any{packageName, snykName, s.now().UTC().Format(time.RFC3339)},
		})
	if err != nil {
		return fmt.Errorf("upsert override %s=%s: %w", packageName, snykName, err)
	}
	return nil
}

// All returns every override ordered by package name.
func (s *Store) All() ([]models.NameOverride, error) {
	var out []models.NameOverride
	err := sqlitex.ExecuteTransient(s.conn,
		`SELECT package_name, snyk_name, updated_at FROM snyk_name_overrides ORDER BY package_name`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				updated, _ := time.Parse(time.RFC3339, stmt.ColumnText(2))
				out = append(out, models.NameOverride{
					PackageName: stmt.ColumnText(0),
					SnykName:    stmt.ColumnText(1),
					UpdatedAt:   updated,
				})
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	return out, nil
}

// Close closes the database connection. It is safe to call more than once.
func (s *Store) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}
