package repository

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFS embed.FS

// RunMigrations applies every embedded migration for the store's dialect
// that is not yet recorded in schema_migrations
func (s *SQLStore) RunMigrations(ctx context.Context) error {
	if err := s.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	dir := path.Join("migrations", s.dialect.name)
	files, err := migrationFiles(dir)
	if err != nil {
		return fmt.Errorf("failed to get migration files: %w", err)
	}

	applied, err := s.appliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	for _, file := range files {
		if applied[file] {
			continue
		}

		if err := s.runMigration(ctx, dir, file); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", file, err)
		}

		s.log.Info("migration applied", "migration", file)
	}

	return nil
}

// PendingMigrations lists the migrations that RunMigrations would apply
func (s *SQLStore) PendingMigrations(ctx context.Context) ([]string, error) {
	if err := s.createMigrationsTable(ctx); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}
	files, err := migrationFiles(path.Join("migrations", s.dialect.name))
	if err != nil {
		return nil, err
	}
	applied, err := s.appliedMigrations(ctx)
	if err != nil {
		return nil, err
	}

	var pending []string
	for _, file := range files {
		if !applied[file] {
			pending = append(pending, file)
		}
	}
	return pending, nil
}

func (s *SQLStore) createMigrationsTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			migration_name VARCHAR(255) PRIMARY KEY,
			applied_at VARCHAR(64) NOT NULL
		)`)
	return err
}

// migrationFiles returns the sorted .sql file names in dir
func migrationFiles(dir string) ([]string, error) {
	entries, err := fs.ReadDir(migrationFS, dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	return files, nil
}

func (s *SQLStore) appliedMigrations(ctx context.Context) (map[string]bool, error) {
	applied := make(map[string]bool)

	rows, err := s.db.QueryContext(ctx, "SELECT migration_name FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}

	return applied, rows.Err()
}

// runMigration executes one migration file and records it in the same transaction
func (s *SQLStore) runMigration(ctx context.Context, dir, filename string) error {
	content, err := fs.ReadFile(migrationFS, path.Join(dir, filename))
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("failed to execute migration: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		s.dialect.rebind("INSERT INTO schema_migrations (migration_name, applied_at) VALUES (?, ?)"),
		filename, formatTime(time.Now()),
	); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	return tx.Commit()
}
