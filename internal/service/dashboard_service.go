package service

import (
	"context"
	"fmt"

	"github.com/Lixing-Zhang/restaurant-pos/internal/models"
	"github.com/shopspring/decimal"
)

// OrderLister lists order headers newest first
type OrderLister interface {
	ListOrders(ctx context.Context) ([]models.Order, error)
}

// DashboardService aggregates persisted orders
type DashboardService struct {
	orders OrderLister
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(orders OrderLister) *DashboardService {
	return &DashboardService{orders: orders}
}

// Summary returns all orders newest first with their count and total sales
func (s *DashboardService) Summary(ctx context.Context) (*models.SalesSummary, error) {
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard summary: %w", err)
	}

	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.Total)
	}

	return &models.SalesSummary{
		Orders:      orders,
		TotalOrders: len(orders),
		TotalSales:  total,
	}, nil
}
