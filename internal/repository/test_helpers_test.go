package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Lixing-Zhang/restaurant-pos/internal/models"
	"github.com/Lixing-Zhang/restaurant-pos/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// createTestStore opens a fresh SQLite store in a temp directory
func createTestStore(t *testing.T) *SQLStore {
	t.Helper()
	s, err := Open(context.Background(), Options{
		Driver: DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "pos.db"),
	}, logger.New("error"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestProduct(t *testing.T, s *SQLStore, name, price string, category models.Category) models.Product {
	t.Helper()
	p := models.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Category: category,
		Quantity: 10,
	}
	require.NoError(t, s.CreateProduct(context.Background(), &p))
	return p
}

func int64Ptr(v int64) *int64 {
	return &v
}
