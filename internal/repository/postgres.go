package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Connection pool defaults for PostgreSQL
const (
	DefaultMaxOpenConns    = 25
	DefaultMaxIdleConns    = 5
	DefaultConnMaxLifetime = time.Hour
)

// pgUniqueViolation is the SQLSTATE for unique_violation
const pgUniqueViolation = "23505"

var postgresDialect = dialect{
	name:     DriverPostgres,
	numbered: true,
	isConflict: func(err error) bool {
		var pgErr *pgconn.PgError
		return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
	},
}

// openPostgres opens a pgx-backed pool and verifies it with retries
func openPostgres(ctx context.Context, opts Options) (*sql.DB, dialect, error) {
	db, err := sql.Open("pgx", opts.DSN)
	if err != nil {
		return nil, dialect{}, fmt.Errorf("failed to open database: %w", err)
	}

	maxOpen := opts.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = DefaultMaxOpenConns
	}
	maxIdle := opts.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = DefaultMaxIdleConns
	}
	lifetime := opts.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = DefaultConnMaxLifetime
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(lifetime)

	const maxRetries = 5
	for i := 0; i < maxRetries; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err == nil {
			return db, postgresDialect, nil
		}

		if i < maxRetries-1 {
			wait := time.Duration(i+1) * 2 * time.Second
			select {
			case <-ctx.Done():
				_ = db.Close()
				return nil, dialect{}, ctx.Err()
			case <-time.After(wait):
			}
		}
	}

	_ = db.Close()
	return nil, dialect{}, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}
