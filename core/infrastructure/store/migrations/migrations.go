package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

//go:embed sql/*.sql
var embedded embed.FS

// Migration is one schema step read from a file named "NNN_description.sql"
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Run brings the selection database up to the latest embedded schema version
func Run(ctx context.Context, db *sql.DB) error {
	steps, err := Load(embedded, "sql")
	if err != nil {
		return err
	}
	_, err = Apply(ctx, db, steps)
	return err
}

// Load reads every .sql file of dir in version order.
// Files without a numeric prefix and duplicated versions are errors.
func Load(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading migrations: %w", err)
	}

	var steps []Migration
	seen := make(map[int]string)
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".sql" {
			continue
		}
		version, name, err := parseFileName(entry.Name())
		if err != nil {
			return nil, err
		}
		if other, ok := seen[version]; ok {
			return nil, fmt.Errorf("migration version %d used by %s and %s", version, other, entry.Name())
		}
		seen[version] = entry.Name()

		content, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}
		steps = append(steps, Migration{Version: version, Name: name, SQL: string(content)})
	}

	sort.Slice(steps, func(i, j int) bool { return steps[i].Version < steps[j].Version })
	return steps, nil
}

// Apply runs the steps newer than the database's user_version, each in its own
// transaction together with the version bump. It returns how many steps ran.
func Apply(ctx context.Context, db *sql.DB, steps []Migration) (int, error) {
	current, err := Version(ctx, db)
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, step := range steps {
		if step.Version <= current {
			continue
		}
		if err := applyStep(ctx, db, step); err != nil {
			return applied, fmt.Errorf("migration %03d_%s: %w", step.Version, step.Name, err)
		}
		zap.S().Debugw("applied schema migration", "version", step.Version, "name", step.Name)
		current = step.Version
		applied++
	}
	return applied, nil
}

// Version returns the schema version recorded in the database header
func Version(ctx context.Context, db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

func applyStep(ctx context.Context, db *sql.DB, step Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, step.SQL); err != nil {
		return err
	}
	// PRAGMA does not accept bind parameters.
	if _, err := tx.ExecContext(ctx, "PRAGMA user_version = "+strconv.Itoa(step.Version)); err != nil {
		return err
	}
	return tx.Commit()
}

func parseFileName(file string) (int, string, error) {
	prefix, rest, ok := strings.Cut(strings.TrimSuffix(file, ".sql"), "_")
	version, err := strconv.Atoi(prefix)
	if !ok || err != nil || version <= 0 || rest == "" {
		return 0, "", fmt.Errorf("invalid migration file name %q, want NNN_description.sql", file)
	}
	return version, rest, nil
}
