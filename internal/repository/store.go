package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Lixing-Zhang/restaurant-pos/internal/models"
)

var (
	// ErrNotFound is returned when a requested row doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write violates a unique constraint
	ErrConflict = errors.New("already exists")
)

// ProductRepository defines catalog data access
type ProductRepository interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	// DeleteProduct removes a catalog entry. Order lines that referenced it
	// keep their snapshot and lose the reference.
	DeleteProduct(ctx context.Context, id int64) error
}

// OrderRepository defines read and administrative access to order aggregates.
// Orders are written only through a transaction, see Tx.
type OrderRepository interface {
	// OrdersByTable returns the full aggregates for a table, newest first
	OrdersByTable(ctx context.Context, tableNumber int) ([]models.Order, error)
	// ListOrders returns order headers (no items), newest first
	ListOrders(ctx context.Context) ([]models.Order, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	// DeleteOrder removes an order together with its items and accompaniments
	DeleteOrder(ctx context.Context, id int64) error
}

// SessionRepository defines staff account and session access
type SessionRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, token string) (*models.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// Tx is the unit of work used to save an order aggregate.
// Everything done through a Tx is committed together or not at all.
type Tx interface {
	// ProductsByID resolves catalog entries; missing ids are absent from the map
	ProductsByID(ctx context.Context, ids []int64) (map[int64]models.Product, error)
	InsertOrder(ctx context.Context, order *models.Order) error
	InsertOrderItem(ctx context.Context, item *models.OrderItem) error
	InsertAccompaniment(ctx context.Context, acc *models.AccompanimentItem) error
}

// Store is the full persistence surface of the POS
type Store interface {
	ProductRepository
	OrderRepository
	SessionRepository

	// WithTx runs fn inside a transaction. The transaction is committed when
	// fn returns nil and rolled back on error or panic.
	WithTx(ctx context.Context, fn func(tx Tx) error) error
	Ping(ctx context.Context) error
	Close() error
}
