package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Lixing-Zhang/restaurant-pos/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLister struct {
	orders []models.Order
	err    error
}

func (s stubLister) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.orders, s.err
}

func TestDashboardService_Summary(t *testing.T) {
	tests := []struct {
		name      string
		orders    []models.Order
		wantCount int
		wantTotal string
	}{
		{
			name:      "no orders",
			wantCount: 0,
			wantTotal: "0.00",
		},
		{
			name: "sums exactly",
			orders: []models.Order{
				{ID: 3, Total: decimal.RequireFromString("0.10")},
				{ID: 2, Total: decimal.RequireFromString("0.20")},
				{ID: 1, Total: decimal.RequireFromString("64.80")},
			},
			wantCount: 3,
			wantTotal: "65.10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewDashboardService(stubLister{orders: tt.orders})
			summary, err := svc.Summary(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, summary.TotalOrders)
			assert.Equal(t, tt.wantTotal, summary.TotalSales.StringFixed(2))
		})
	}
}

func TestDashboardService_Summary_Error(t *testing.T) {
	boom := errors.New("boom")
	svc := NewDashboardService(stubLister{err: boom})

	_, err := svc.Summary(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestDashboardService_Summary_Store(t *testing.T) {
	e := newTestEnv(t)
	seedMenu(t, e)
	orders := newOrderService(e)
	ctx := context.Background()

	for _, table := range []int{1, 2} {
		_, err := orders.SaveOrder(ctx, pizzaCart(table))
		require.NoError(t, err)
	}

	summary, err := NewDashboardService(e.store).Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalOrders)
	assert.Equal(t, "129.60", summary.TotalSales.StringFixed(2))
	require.Len(t, summary.Orders, 2)
	assert.Greater(t, summary.Orders[0].ID, summary.Orders[1].ID)
}
