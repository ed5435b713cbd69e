package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/restaurant-pos/internal/models"
	"github.com/Lixing-Zhang/restaurant-pos/internal/service"
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// CatalogResponse is the body of GET /api/products
type CatalogResponse struct {
	Categories []models.CategoryGroup `json:"categories"`
}

// ListProducts handles GET /api/products
// Returns the catalog grouped by category in menu order
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.ListByCategory(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, CatalogResponse{Categories: groups}, h.logger)
}
