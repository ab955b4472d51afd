package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/bagdasarian/meeting-cost-ticker/internal/config"
	"github.com/bagdasarian/meeting-cost-ticker/migrations"
)

const migrationTable = "schema_migrations"

// Dialect describes the per-driver differences the migrator cares about.
type Dialect struct {
	Name        string
	Placeholder func(n int) string
}

var (
	PostgresDialect = Dialect{
		Name:        config.DriverPostgres,
		Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	}
	SQLiteDialect = Dialect{
		Name:        config.DriverSQLite,
		Placeholder: func(int) string { return "?" },
	}
)

func DialectFor(driver string) Dialect {
	if driver == config.DriverPostgres {
		return PostgresDialect
	}
	return SQLiteDialect
}

// ApplyMigrations runs the embedded migrations for the dialect.
func ApplyMigrations(db *sql.DB, dialect Dialect) error {
	return ApplyMigrationsFS(db, dialect, migrations.FS, dialect.Name)
}

// ApplyMigrationsFS executes *.up.sql files under root at most once per file.
func ApplyMigrationsFS(db *sql.DB, dialect Dialect, migrationFS fs.FS, root string) error {
	if db == nil {
		return errors.New("sql db is required")
	}

	entries, err := fs.ReadDir(migrationFS, root)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".up.sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	createSQL := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (name TEXT PRIMARY KEY, applied_at BIGINT NOT NULL)`, migrationTable)
	if _, err := db.Exec(createSQL); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, file := range files {
		applied, err := isApplied(db, dialect, file)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", file, err)
		}
		if applied {
			continue
		}

		content, err := fs.ReadFile(migrationFS, path.Join(root, file))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		if strings.TrimSpace(string(content)) == "" {
			continue
		}

		if err := applyOne(db, dialect, file, string(content)); err != nil {
			return err
		}
	}

	return nil
}

func applyOne(db *sql.DB, dialect Dialect, name, content string) error {
	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("begin migration tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(content); err != nil {
		return fmt.Errorf("exec migration %s: %w", name, err)
	}

	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (name, applied_at) VALUES (%s, %s)",
		migrationTable, dialect.Placeholder(1), dialect.Placeholder(2),
	)
	if _, err := tx.Exec(insertSQL, name, time.Now().UTC().UnixMilli()); err != nil {
		return fmt.Errorf("record migration %s: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", name, err)
	}
	return nil
}

func isApplied(db *sql.DB, dialect Dialect, name string) (bool, error) {
	var found int
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE name = %s", migrationTable, dialect.Placeholder(1))
	err := db.QueryRow(query, name).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
