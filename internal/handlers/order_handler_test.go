package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pizzaCartJSON = `{"table_number":5,"cart_items":{"1":{"name":"Pizza","price":"29.90","quantity":2,"accompaniments":{"3":{"name":"Cheese","price":"5.00","quantity":1}}}}}`

func TestOrderHandler_SaveOrder(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		body           string
		expectedStatus int
	}{
		{
			name:           "successful order",
			method:         http.MethodPost,
			body:           pizzaCartJSON,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "malformed json",
			method:         http.MethodPost,
			body:           `{"table_number":5,`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown field",
			method:         http.MethodPost,
			body:           `{"table_number":5,"cart_items":{"1":{"quantity":1}},"coupon":"X"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing table number",
			method:         http.MethodPost,
			body:           `{"cart_items":{"1":{"name":"Pizza","price":"29.90","quantity":1}}}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "empty cart",
			method:         http.MethodPost,
			body:           `{"table_number":5,"cart_items":{}}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "zero quantity",
			method:         http.MethodPost,
			body:           `{"table_number":5,"cart_items":{"1":{"name":"Pizza","price":"29.90","quantity":0}}}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "item with only quantity",
			method:         http.MethodPost,
			body:           `{"table_number":5,"cart_items":{"1":{"quantity":2}}}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "accompaniment with only quantity",
			method:         http.MethodPost,
			body:           `{"table_number":5,"cart_items":{"1":{"name":"Pizza","price":"29.90","quantity":2,"accompaniments":{"1":{"quantity":1}}}}}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "quantity too large for storage",
			method:         http.MethodPost,
			body:           `{"table_number":5,"cart_items":{"1":{"name":"Pizza","price":"29.90","quantity":9223372036854775807}}}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "total too large for storage",
			method:         http.MethodPost,
			body:           `{"table_number":5,"cart_items":{"1":{"name":"Pizza","price":"29.90","quantity":3344482}}}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown product",
			method:         http.MethodPost,
			body:           `{"table_number":5,"cart_items":{"99":{"name":"Ghost","price":"1.00","quantity":1}}}`,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "wrong method",
			method:         http.MethodGet,
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)

			var w *httptest.ResponseRecorder
			if tt.method == http.MethodPost {
				w = srv.postJSON("/save_order", tt.body)
			} else {
				w = srv.get("/save_order")
			}

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["message"])

			if tt.expectedStatus != http.StatusOK {
				assert.Equal(t, "error", body["status"])
				assert.NotContains(t, body, "order_id")
			}
		})
	}
}

func TestOrderHandler_SaveOrder_Response(t *testing.T) {
	srv := newTestServer(t)

	w := srv.postJSON("/save_order", pizzaCartJSON)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success","message":"Order saved successfully","order_id":1,"total":64.80}`, w.Body.String())
	assert.Contains(t, w.Body.String(), `"total":64.80`)

	// resubmission creates a second order
	w = srv.postJSON("/save_order", pizzaCartJSON)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"order_id":2`)
}

func TestOrderHandler_SaveOrder_StorageFailure(t *testing.T) {
	srv := newTestServer(t)
	require.NoError(t, srv.store.Close())

	w := srv.postJSON("/save_order", pizzaCartJSON)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Erro ao salvar o pedido", body["message"])
	assert.NotContains(t, w.Body.String(), "sql:")
	assert.NotContains(t, w.Body.String(), "closed")
}

func TestOrderHandler_GetOrderHistory(t *testing.T) {
	srv := newTestServer(t)

	w := srv.postJSON("/save_order", pizzaCartJSON)
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.get("/get_order_history/5")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Orders []struct {
			ID          int64           `json:"id"`
			Timestamp   string          `json:"timestamp"`
			TableNumber int             `json:"table_number"`
			TotalPrice  json.RawMessage `json:"total_price"`
			Items       []struct {
				Name           string          `json:"name"`
				Price          json.RawMessage `json:"price"`
				Quantity       int             `json:"quantity"`
				Accompaniments []struct {
					Name     string `json:"name"`
					Quantity int    `json:"quantity"`
				} `json:"accompaniments"`
			} `json:"items"`
		} `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Orders, 1)

	o := resp.Orders[0]
	assert.Equal(t, int64(1), o.ID)
	assert.Equal(t, 5, o.TableNumber)
	assert.Equal(t, "64.80", string(o.TotalPrice))
	assert.NotEmpty(t, o.Timestamp)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "Pizza", o.Items[0].Name)
	assert.Equal(t, "29.90", string(o.Items[0].Price))
	require.Len(t, o.Items[0].Accompaniments, 1)
	assert.Equal(t, "Cheese", o.Items[0].Accompaniments[0].Name)
}

func TestOrderHandler_GetOrderHistory_Params(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "table without orders",
			path:           "/get_order_history/42",
			expectedStatus: http.StatusOK,
			expectedBody:   `{"orders":[]}`,
		},
		{
			name:           "non integer table",
			path:           "/get_order_history/abc",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "zero table",
			path:           "/get_order_history/0",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "negative table",
			path:           "/get_order_history/-3",
			expectedStatus: http.StatusBadRequest,
		},
	}

	srv := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.get(tt.path)
			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}
