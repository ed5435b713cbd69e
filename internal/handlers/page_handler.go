package handlers

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/restaurant-pos/internal/middleware"
	"github.com/Lixing-Zhang/restaurant-pos/internal/service"
	"github.com/Lixing-Zhang/restaurant-pos/internal/web"
)

// PageHandler serves the HTML screens behind the session gate
type PageHandler struct {
	products  *service.ProductService
	dashboard *service.DashboardService
	pages     *web.Renderer
	logger    *slog.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(products *service.ProductService, dashboard *service.DashboardService, pages *web.Renderer, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		products:  products,
		dashboard: dashboard,
		pages:     pages,
		logger:    logger,
	}
}

// Index handles GET /
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	groups, err := h.products.ListByCategory(r.Context())
	if err != nil {
		h.logger.Error("failed to load catalog", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.render(w, http.StatusOK, web.PageIndex, web.IndexPage{
		Layout:     layoutFor(r),
		Categories: groups,
	})
}

// Dashboard handles GET /dashboard
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashboard.Summary(r.Context())
	if err != nil {
		h.logger.Error("failed to load dashboard", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.render(w, http.StatusOK, web.PageDashboard, web.DashboardPage{
		Layout:  layoutFor(r),
		Summary: summary,
	})
}

func (h *PageHandler) render(w http.ResponseWriter, status int, page string, data any) {
	renderPage(w, h.pages, status, page, data, h.logger)
}

// renderPage writes nothing until the template has executed, so a failed
// render becomes a plain 500 instead of a truncated page
func renderPage(w http.ResponseWriter, pages *web.Renderer, status int, page string, data any, logger *slog.Logger) {
	var buf bytes.Buffer
	if err := pages.Render(&buf, page, data); err != nil {
		logger.Error("failed to render page", "page", page, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Warn("failed to write page", "page", page, "error", err)
	}
}

func layoutFor(r *http.Request) web.Layout {
	if session, ok := middleware.SessionFromContext(r.Context()); ok {
		return web.Layout{User: session.Username}
	}
	return web.Layout{}
}
