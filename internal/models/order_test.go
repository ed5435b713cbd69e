package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder_ComputeTotal(t *testing.T) {
	order := Order{
		Items: []OrderItem{
			{
				Price:    decimal.RequireFromString("29.90"),
				Quantity: 2,
				Accompaniments: []AccompanimentItem{
					{Price: decimal.RequireFromString("5.00"), Quantity: 1},
				},
			},
			{Price: decimal.RequireFromString("0.10"), Quantity: 3},
		},
	}

	assert.Equal(t, "65.10", order.ComputeTotal().StringFixed(2))
}

func TestAmount_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Amount{"total": NewAmount(decimal.RequireFromString("64.8"))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":64.80}`, string(data))
}

func TestCartItem_AcceptsStringAndNumberPrices(t *testing.T) {
	var item CartItem
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Pizza","price":"29.90","quantity":2}`), &item))
	assert.True(t, item.Price.Equal(decimal.RequireFromString("29.9")))

	require.NoError(t, json.Unmarshal([]byte(`{"name":"Pizza","price":29.90,"quantity":2}`), &item))
	assert.True(t, item.Price.Equal(decimal.RequireFromString("29.9")))
}

func TestNewOrderView(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 30, 0, 0, time.FixedZone("BRT", -3*3600))
	order := Order{
		ID:          9,
		TableNumber: 4,
		CreatedAt:   created,
		Total:       decimal.RequireFromString("10"),
		Items: []OrderItem{
			{Name: "Calabresa", Price: decimal.RequireFromString("10"), Quantity: 1},
		},
	}

	view := NewOrderView(order)
	assert.Equal(t, int64(9), view.ID)
	assert.Equal(t, time.UTC, view.Timestamp.Location())
	require.Len(t, view.Items, 1)
	assert.NotNil(t, view.Items[0].Accompaniments)

	data, err := json.Marshal(view)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"timestamp":"2024-03-01T15:30:00Z"`)
	assert.Contains(t, string(data), `"accompaniments":[]`)
	assert.Contains(t, string(data), `"total_price":10.00`)
}

func TestCategory(t *testing.T) {
	c, err := ParseCategory("bebida")
	require.NoError(t, err)
	assert.Equal(t, "Bebidas", c.Label())

	_, err = ParseCategory("sobremesa")
	assert.Error(t, err)
}

func TestProduct_Validate(t *testing.T) {
	valid := Product{Name: "Coca", Price: decimal.RequireFromString("6.50"), Category: CategoryBebida}
	assert.NoError(t, valid.Validate())

	noName := valid
	noName.Name = ""
	assert.Error(t, noName.Validate())

	negative := valid
	negative.Price = decimal.RequireFromString("-1")
	assert.Error(t, negative.Validate())
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	s := Session{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(time.Minute)))
}
