// internal/db/migrations/migrations.go
package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
)

//go:embed sql/*.sql
var files embed.FS

type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// RunMigrations applies every embedded migration not yet recorded in
// schema_migrations and returns the names it applied, in order.
func RunMigrations(db *sql.DB) ([]string, error) {
	return run(db, files)
}

func run(db *sql.DB, fsys fs.FS) ([]string, error) {
	if err := createMigrationsTable(db); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := getAppliedMigrations(db)
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	migrations, err := loadMigrations(fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	var names []string
	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := applyMigration(db, m); err != nil {
			return names, fmt.Errorf("failed to apply migration %04d_%s: %w", m.Version, m.Name, err)
		}
		names = append(names, fmt.Sprintf("%04d_%s", m.Version, m.Name))
	}
	return names, nil
}

func createMigrationsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

func getAppliedMigrations(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func loadMigrations(fsys fs.FS) ([]Migration, error) {
	ups, err := fs.Glob(fsys, "sql/*.up.sql")
	if err != nil {
		return nil, err
	}

	var migrations []Migration
	for _, file := range ups {
		version, name, err := parseMigrationFilename(path.Base(file))
		if err != nil {
			return nil, err
		}

		up, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, err
		}
		// down files are optional
		down, _ := fs.ReadFile(fsys, fmt.Sprintf("sql/%04d_%s.down.sql", version, name))

		migrations = append(migrations, Migration{
			Version: version,
			Name:    name,
			Up:      string(up),
			Down:    string(down),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// parseMigrationFilename expects 0001_name.up.sql or 0001_name.down.sql.
func parseMigrationFilename(filename string) (int, string, error) {
	parts := strings.SplitN(filename, "_", 2)
	if len(parts) != 2 {
		return 0, "", fmt.Errorf("invalid migration filename format: %s", filename)
	}

	version, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, "", fmt.Errorf("invalid version in filename %s: %w", filename, err)
	}

	name := strings.TrimSuffix(parts[1], ".up.sql")
	name = strings.TrimSuffix(name, ".down.sql")
	return version, name, nil
}

func applyMigration(db *sql.DB, migration Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(migration.Up); err != nil {
		return fmt.Errorf("failed to execute migration: %w", err)
	}

	if _, err := tx.Exec(
		"INSERT INTO schema_migrations (version, name) VALUES ($1, $2) ON CONFLICT (version) DO NOTHING",
		migration.Version,
		migration.Name,
	); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	return tx.Commit()
}
