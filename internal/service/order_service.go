package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Lixing-Zhang/restaurant-pos/internal/models"
	"github.com/Lixing-Zhang/restaurant-pos/internal/repository"
	"github.com/shopspring/decimal"
)

var (
	ErrRequestFormat   = errors.New("invalid request body")
	ErrValidation      = errors.New("invalid order")
	ErrProductNotFound = errors.New("product not found")
)

// Limits the schema can hold on every backend: quantities are 32-bit
// integers and money columns are NUMERIC(10,2).
const MaxQuantity = math.MaxInt32

var MaxOrderTotal = decimal.RequireFromString("99999999.99")

// OrderStore is the persistence the order service needs
type OrderStore interface {
	WithTx(ctx context.Context, fn func(tx repository.Tx) error) error
	OrdersByTable(ctx context.Context, tableNumber int) ([]models.Order, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
}

// OrderService saves carts as order aggregates and reads them back
type OrderService struct {
	store OrderStore
	log   *slog.Logger
	now   func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(store OrderStore, log *slog.Logger) *OrderService {
	if log == nil {
		log = slog.Default()
	}
	return &OrderService{
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// cartLine is a validated cart entry with its product id parsed
type cartLine struct {
	productID      int64
	quantity       int
	clientName     string
	clientPrice    decimal.Decimal
	accompaniments []cartLine
}

// DecodeCartRequest parses a cart payload. Unknown fields, trailing data and
// lines missing name, price or quantity are rejected.
func DecodeCartRequest(r io.Reader) (models.CartRequest, error) {
	var payload cartPayload

	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		return models.CartRequest{}, fmt.Errorf("%w: %v", ErrRequestFormat, err)
	}

	var extra json.RawMessage
	if err := decoder.Decode(&extra); err != io.EOF {
		return models.CartRequest{}, fmt.Errorf("%w: unexpected data after JSON object", ErrRequestFormat)
	}

	return payload.toRequest()
}

// cartPayload mirrors models.CartRequest with pointer fields so absent keys
// can be told apart from zero values
type cartPayload struct {
	TableNumber *int                   `json:"table_number"`
	CartItems   map[string]linePayload `json:"cart_items"`
}

type linePayload struct {
	Name           *string                `json:"name"`
	Price          *decimal.Decimal       `json:"price"`
	Quantity       *int                   `json:"quantity"`
	Accompaniments map[string]linePayload `json:"accompaniments,omitempty"`
}

func (l linePayload) missing() []string {
	var fields []string
	if l.Name == nil {
		fields = append(fields, "name")
	}
	if l.Price == nil {
		fields = append(fields, "price")
	}
	if l.Quantity == nil {
		fields = append(fields, "quantity")
	}
	return fields
}

func (p cartPayload) toRequest() (models.CartRequest, error) {
	req := models.CartRequest{TableNumber: p.TableNumber}
	if p.CartItems == nil {
		return req, nil
	}

	req.CartItems = make(map[string]models.CartItem, len(p.CartItems))
	for key, line := range p.CartItems {
		if fields := line.missing(); len(fields) > 0 {
			return models.CartRequest{}, fmt.Errorf("%w: cart item %q is missing %s", ErrRequestFormat, key, strings.Join(fields, ", "))
		}
		item := models.CartItem{Name: *line.Name, Price: *line.Price, Quantity: *line.Quantity}

		for accKey, acc := range line.Accompaniments {
			if acc.Accompaniments != nil {
				return models.CartRequest{}, fmt.Errorf("%w: accompaniment %q cannot have accompaniments", ErrRequestFormat, accKey)
			}
			if fields := acc.missing(); len(fields) > 0 {
				return models.CartRequest{}, fmt.Errorf("%w: accompaniment %q of cart item %q is missing %s", ErrRequestFormat, accKey, key, strings.Join(fields, ", "))
			}
			if item.Accompaniments == nil {
				item.Accompaniments = make(map[string]models.CartAccompaniment, len(line.Accompaniments))
			}
			item.Accompaniments[accKey] = models.CartAccompaniment{Name: *acc.Name, Price: *acc.Price, Quantity: *acc.Quantity}
		}
		req.CartItems[key] = item
	}
	return req, nil
}

// SaveOrder validates the cart, resolves every product against the catalog
// and persists the order with its items and accompaniments in one
// transaction. Prices and names are taken from the catalog, never from the
// client.
func (s *OrderService) SaveOrder(ctx context.Context, req models.CartRequest) (*models.Order, error) {
	lines, err := validateCart(req)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		TableNumber: *req.TableNumber,
		CreatedAt:   s.now().UTC().Truncate(time.Microsecond),
	}

	err = s.store.WithTx(ctx, func(tx repository.Tx) error {
		products, err := tx.ProductsByID(ctx, productIDs(lines))
		if err != nil {
			return err
		}

		items, err := s.buildItems(lines, products)
		if err != nil {
			return err
		}
		order.Items = items
		order.Total = order.ComputeTotal()
		if order.Total.GreaterThan(MaxOrderTotal) {
			return fmt.Errorf("%w: total %s exceeds %s", ErrValidation, order.Total.StringFixed(2), MaxOrderTotal.StringFixed(2))
		}

		if err := tx.InsertOrder(ctx, order); err != nil {
			return err
		}
		for i := range order.Items {
			item := &order.Items[i]
			item.OrderID = order.ID
			if err := tx.InsertOrderItem(ctx, item); err != nil {
				return err
			}
			for j := range item.Accompaniments {
				acc := &item.Accompaniments[j]
				acc.OrderItemID = item.ID
				if err := tx.InsertAccompaniment(ctx, acc); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrProductNotFound) || errors.Is(err, ErrValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("save order: %w", err)
	}

	s.log.Info("order saved",
		"order_id", order.ID,
		"table_number", order.TableNumber,
		"items_count", len(order.Items),
		"total", order.Total.StringFixed(2),
	)
	return order, nil
}

// History returns every order of a table, newest first
func (s *OrderService) History(ctx context.Context, tableNumber int) ([]models.Order, error) {
	if tableNumber <= 0 {
		return nil, fmt.Errorf("%w: table_number must be a positive integer", ErrValidation)
	}

	orders, err := s.store.OrdersByTable(ctx, tableNumber)
	if err != nil {
		return nil, fmt.Errorf("order history: %w", err)
	}
	return orders, nil
}

// GetOrder returns a single order aggregate
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	return s.store.GetOrder(ctx, id)
}

// DeleteOrder removes an order with all of its items and accompaniments
func (s *OrderService) DeleteOrder(ctx context.Context, id int64) error {
	if err := s.store.DeleteOrder(ctx, id); err != nil {
		return err
	}
	s.log.Info("order deleted", "order_id", id)
	return nil
}

// validateCart checks the request shape and returns lines sorted by product id
func validateCart(req models.CartRequest) ([]cartLine, error) {
	if req.TableNumber == nil || *req.TableNumber <= 0 {
		return nil, fmt.Errorf("%w: table_number must be a positive integer", ErrValidation)
	}
	if len(req.CartItems) == 0 {
		return nil, fmt.Errorf("%w: cart_items must not be empty", ErrValidation)
	}

	lines := make([]cartLine, 0, len(req.CartItems))
	for key, item := range req.CartItems {
		line, err := newCartLine(key, item.Quantity, item.Name, item.Price)
		if err != nil {
			return nil, err
		}

		for accKey, acc := range item.Accompaniments {
			accLine, err := newCartLine(accKey, acc.Quantity, acc.Name, acc.Price)
			if err != nil {
				return nil, err
			}
			line.accompaniments = append(line.accompaniments, accLine)
		}
		sortLines(line.accompaniments)

		lines = append(lines, line)
	}
	sortLines(lines)

	return lines, nil
}

func newCartLine(key string, quantity int, name string, price decimal.Decimal) (cartLine, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
	if err != nil || id <= 0 {
		return cartLine{}, fmt.Errorf("%w: product id %q must be a positive integer", ErrValidation, key)
	}
	if quantity <= 0 {
		return cartLine{}, fmt.Errorf("%w: quantity for product %d must be positive", ErrValidation, id)
	}
	if quantity > MaxQuantity {
		return cartLine{}, fmt.Errorf("%w: quantity for product %d must not exceed %d", ErrValidation, id, MaxQuantity)
	}
	return cartLine{productID: id, quantity: quantity, clientName: name, clientPrice: price}, nil
}

func sortLines(lines []cartLine) {
	sort.Slice(lines, func(i, j int) bool { return lines[i].productID < lines[j].productID })
}

// productIDs collects the distinct product ids referenced by the cart
func productIDs(lines []cartLine) []int64 {
	seen := make(map[int64]bool)
	var ids []int64
	add := func(id int64) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, line := range lines {
		add(line.productID)
		for _, acc := range line.accompaniments {
			add(acc.productID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// buildItems snapshots catalog name and price into order lines
func (s *OrderService) buildItems(lines []cartLine, products map[int64]models.Product) ([]models.OrderItem, error) {
	var missing []string
	for _, id := range productIDs(lines) {
		if _, ok := products[id]; !ok {
			missing = append(missing, strconv.FormatInt(id, 10))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, strings.Join(missing, ", "))
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		p := products[line.productID]
		s.logClientMismatch(line, p)

		item := models.OrderItem{
			ProductID:      &p.ID,
			Name:           p.Name,
			Price:          p.Price,
			Quantity:       line.quantity,
			Accompaniments: make([]models.AccompanimentItem, 0, len(line.accompaniments)),
		}
		for _, accLine := range line.accompaniments {
			ap := products[accLine.productID]
			s.logClientMismatch(accLine, ap)

			item.Accompaniments = append(item.Accompaniments, models.AccompanimentItem{
				ProductID: &ap.ID,
				Name:      ap.Name,
				Price:     ap.Price,
				Quantity:  accLine.quantity,
			})
		}
		items = append(items, item)
	}
	return items, nil
}

// logClientMismatch records carts built from a stale catalog; the catalog wins
func (s *OrderService) logClientMismatch(line cartLine, p models.Product) {
	nameDiffers := line.clientName != "" && line.clientName != p.Name
	priceDiffers := !line.clientPrice.IsZero() && !line.clientPrice.Equal(p.Price)
	if nameDiffers || priceDiffers {
		s.log.Warn("cart differs from catalog",
			"product_id", p.ID,
			"cart_name", line.clientName,
			"catalog_name", p.Name,
			"cart_price", line.clientPrice.StringFixed(2),
			"catalog_price", p.Price.StringFixed(2),
		)
	}
}
