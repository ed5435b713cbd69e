package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a persisted sale for one table.
// Items and their accompaniments are owned by the order and removed with it.
type Order struct {
	ID          int64
	TableNumber int
	CreatedAt   time.Time
	Total       decimal.Decimal
	Items       []OrderItem
}

// OrderItem is one cart line. Name and Price are snapshots taken when the
// order was saved; ProductID is nil once the product leaves the catalog.
type OrderItem struct {
	ID             int64
	OrderID        int64
	ProductID      *int64
	Name           string
	Price          decimal.Decimal
	Quantity       int
	Accompaniments []AccompanimentItem
}

// AccompanimentItem is a side product attached to a single order line
type AccompanimentItem struct {
	ID          int64
	OrderItemID int64
	ProductID   *int64
	Name        string
	Price       decimal.Decimal
	Quantity    int
}

// Subtotal returns price times quantity for the line, accompaniments excluded
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Subtotal returns price times quantity
func (a AccompanimentItem) Subtotal() decimal.Decimal {
	return a.Price.Mul(decimal.NewFromInt(int64(a.Quantity)))
}

// ComputeTotal sums every line and accompaniment subtotal of the order
func (o Order) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
		for _, acc := range item.Accompaniments {
			total = total.Add(acc.Subtotal())
		}
	}
	return total
}

// SalesSummary aggregates persisted orders for the dashboard
type SalesSummary struct {
	Orders      []Order
	TotalOrders int
	TotalSales  decimal.Decimal
}
