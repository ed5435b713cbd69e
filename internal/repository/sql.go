package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Lixing-Zhang/restaurant-pos/internal/models"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// timeLayout is fixed width so that text timestamps sort chronologically
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Options configures a SQL store
type Options struct {
	Driver string
	// DSN is a PostgreSQL connection URL or a SQLite file path
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// SkipMigrations leaves the schema untouched on Open
	SkipMigrations bool
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// dialect carries the differences between the supported databases
type dialect struct {
	name string
	// numbered placeholders ($1, $2, ...) instead of ?
	numbered bool
	// isConflict reports unique constraint violations
	isConflict func(err error) bool
}

// rebind rewrites ? placeholders for dialects that use numbered ones
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var _ Store = (*SQLStore)(nil)

// SQLStore implements Store on top of database/sql
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	log     *slog.Logger
}

// Open connects to the configured database and applies pending migrations
func Open(ctx context.Context, opts Options, log *slog.Logger) (*SQLStore, error) {
	if log == nil {
		log = slog.Default()
	}

	var (
		db  *sql.DB
		d   dialect
		err error
	)
	switch opts.Driver {
	case DriverPostgres:
		db, d, err = openPostgres(ctx, opts)
	case DriverSQLite:
		db, d, err = openSQLite(ctx, opts)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
	if err != nil {
		return nil, err
	}

	s := &SQLStore{db: db, dialect: d, log: log.With("component", "repository", "driver", d.name)}

	if opts.SkipMigrations {
		return s, nil
	}
	if err := s.RunMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return s, nil
}

// Close closes the connection pool
func (s *SQLStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping tests the database connection
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Driver returns the dialect name of the store
func (s *SQLStore) Driver() string {
	return s.dialect.name
}

// WithTx executes fn within a database transaction
func (s *SQLStore) WithTx(ctx context.Context, fn func(tx Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			s.log.Error("transaction panic, rolled back", "panic", p)
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				s.log.Error("failed to roll back transaction", "error", rbErr)
			} else {
				s.log.Debug("transaction rolled back", "error", err)
			}
		}
	}()

	if err = fn(&sqlTx{q: tx, dialect: s.dialect}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// sqlTx implements Tx
type sqlTx struct {
	q       querier
	dialect dialect
}

func (t *sqlTx) ProductsByID(ctx context.Context, ids []int64) (map[int64]models.Product, error) {
	return productsByID(ctx, t.q, t.dialect, ids)
}

func (t *sqlTx) InsertOrder(ctx context.Context, order *models.Order) error {
	return insertOrder(ctx, t.q, t.dialect, order)
}

func (t *sqlTx) InsertOrderItem(ctx context.Context, item *models.OrderItem) error {
	return insertOrderItem(ctx, t.q, t.dialect, item)
}

func (t *sqlTx) InsertAccompaniment(ctx context.Context, acc *models.AccompanimentItem) error {
	return insertAccompaniment(ctx, t.q, t.dialect, acc)
}

// formatTime renders t in the storage layout
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// timestamp scans TIMESTAMPTZ values and text timestamps alike
type timestamp struct {
	t *time.Time
}

func (ts timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*ts.t = v.UTC()
		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	case nil:
		*ts.t = time.Time{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into timestamp", src)
	}
}

func (ts timestamp) parse(s string) error {
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	*ts.t = parsed.UTC()
	return nil
}

// placeholders returns "?, ?, ?" for n arguments
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

// nullableID converts a nullable column to an optional id
func nullableID(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}

// nullInt converts an optional id to a driver value
func nullInt(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
