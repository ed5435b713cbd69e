package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartRequest is the body of POST /save_order.
// Cart items are keyed by product id.
type CartRequest struct {
	TableNumber *int                `json:"table_number"`
	CartItems   map[string]CartItem `json:"cart_items"`
}

// CartItem is one product line of a cart. Name and Price are what the UI
// displayed; the server recomputes both from the catalog.
type CartItem struct {
	Name           string                       `json:"name"`
	Price          decimal.Decimal              `json:"price"`
	Quantity       int                          `json:"quantity"`
	Accompaniments map[string]CartAccompaniment `json:"accompaniments,omitempty"`
}

// CartAccompaniment is a side product selected for a cart line
type CartAccompaniment struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// SaveOrderResponse is returned after an order is persisted
type SaveOrderResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	OrderID int64  `json:"order_id"`
	Total   Amount `json:"total"`
}

// OrderHistoryResponse is the body of GET /get_order_history/{table_number}
type OrderHistoryResponse struct {
	Orders []OrderView `json:"orders"`
}

// OrderView is the display form of an order built from snapshot fields only
type OrderView struct {
	ID          int64      `json:"id"`
	Timestamp   time.Time  `json:"timestamp"`
	TableNumber int        `json:"table_number"`
	TotalPrice  Amount     `json:"total_price"`
	Items       []ItemView `json:"items"`
}

// ItemView is the display form of an order line
type ItemView struct {
	Name           string              `json:"name"`
	Price          Amount              `json:"price"`
	Quantity       int                 `json:"quantity"`
	Accompaniments []AccompanimentView `json:"accompaniments"`
}

// AccompanimentView is the display form of an accompaniment
type AccompanimentView struct {
	Name     string `json:"name"`
	Price    Amount `json:"price"`
	Quantity int    `json:"quantity"`
}

// Amount is a decimal that encodes as a JSON number with two decimal places
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps d
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// MarshalJSON implements json.Marshaler
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.StringFixed(2)), nil
}

// UnmarshalJSON accepts both quoted and bare numbers
func (a *Amount) UnmarshalJSON(data []byte) error {
	return a.Decimal.UnmarshalJSON(data)
}

// NewOrderView converts a persisted order to its display form
func NewOrderView(o Order) OrderView {
	items := make([]ItemView, 0, len(o.Items))
	for _, item := range o.Items {
		accs := make([]AccompanimentView, 0, len(item.Accompaniments))
		for _, acc := range item.Accompaniments {
			accs = append(accs, AccompanimentView{
				Name:     acc.Name,
				Price:    NewAmount(acc.Price),
				Quantity: acc.Quantity,
			})
		}
		items = append(items, ItemView{
			Name:           item.Name,
			Price:          NewAmount(item.Price),
			Quantity:       item.Quantity,
			Accompaniments: accs,
		})
	}

	return OrderView{
		ID:          o.ID,
		Timestamp:   o.CreatedAt.UTC(),
		TableNumber: o.TableNumber,
		TotalPrice:  NewAmount(o.Total),
		Items:       items,
	}
}
