package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Lixing-Zhang/restaurant-pos/internal/models"
	"github.com/Lixing-Zhang/restaurant-pos/internal/service"
	"github.com/go-chi/chi/v5"
)

// maxCartBytes bounds the request body of a cart submission
const maxCartBytes = 1 << 20

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
	log          *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		log:          log,
	}
}

// SaveOrder handles POST /save_order
func (h *OrderHandler) SaveOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		WriteError(w, http.StatusMethodNotAllowed, "Invalid request method", h.log)
		return
	}

	req, err := service.DecodeCartRequest(http.MaxBytesReader(w, r.Body, maxCartBytes))
	if err != nil {
		h.log.Warn("failed to decode cart", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid JSON payload", h.log)
		return
	}

	order, err := h.orderService.SaveOrder(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			h.log.Warn("invalid order", "error", err)
			WriteError(w, http.StatusBadRequest, err.Error(), h.log)
		case errors.Is(err, service.ErrProductNotFound):
			h.log.Warn("order references unknown products", "error", err)
			WriteError(w, http.StatusNotFound, err.Error(), h.log)
		default:
			h.log.Error("failed to save order", "error", err)
			WriteError(w, http.StatusInternalServerError, "Erro ao salvar o pedido", h.log)
		}
		return
	}

	WriteJSON(w, http.StatusOK, models.SaveOrderResponse{
		Status:  "success",
		Message: "Order saved successfully",
		OrderID: order.ID,
		Total:   models.NewAmount(order.Total),
	}, h.log)
}

// GetOrderHistory handles GET /get_order_history/{table_number}
func (h *OrderHandler) GetOrderHistory(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "table_number")
	table, err := strconv.Atoi(raw)
	if err != nil || table <= 0 {
		h.log.Warn("invalid table number", "table_number", raw)
		WriteError(w, http.StatusBadRequest, "table_number must be a positive integer", h.log)
		return
	}

	orders, err := h.orderService.History(r.Context(), table)
	if err != nil {
		h.log.Error("failed to load order history", "table_number", table, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	response := models.OrderHistoryResponse{Orders: make([]models.OrderView, 0, len(orders))}
	for _, o := range orders {
		response.Orders = append(response.Orders, models.NewOrderView(o))
	}

	WriteJSON(w, http.StatusOK, response, h.log)
}
