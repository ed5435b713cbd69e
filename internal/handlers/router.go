package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Lixing-Zhang/restaurant-pos/internal/middleware"
	"github.com/Lixing-Zhang/restaurant-pos/internal/service"
	"github.com/Lixing-Zhang/restaurant-pos/internal/web"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig carries everything the HTTP surface depends on
type RouterConfig struct {
	Orders    *service.OrderService
	Products  *service.ProductService
	Dashboard *service.DashboardService
	Auth      *service.AuthService
	Pages     *web.Renderer
	DB        Pinger

	Cookie         CookieOptions
	AllowedOrigins []string
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// NewRouter builds the chi router with middleware and all routes
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	healthHandler := NewHealthHandler(cfg.DB, log)
	orderHandler := NewOrderHandler(cfg.Orders, log)
	productHandler := NewProductHandler(cfg.Products, log)
	pageHandler := NewPageHandler(cfg.Products, cfg.Dashboard, cfg.Pages, log)
	authHandler := NewAuthHandler(cfg.Auth, cfg.Pages, cfg.Cookie, log)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(timeout))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusNotFound, "Not found", log)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Invalid request method", log)
	})

	r.Get("/health", healthHandler.ServeHTTP)

	// JSON endpoints used by the ordering screen
	r.HandleFunc("/save_order", orderHandler.SaveOrder)
	r.Get("/get_order_history/{table_number}", orderHandler.GetOrderHistory)
	r.Get("/api/products", productHandler.ListProducts)

	r.Get("/login", authHandler.LoginForm)
	r.Post("/login", authHandler.Login)
	r.Post("/logout", authHandler.Logout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(cfg.Auth, cfg.Cookie.Name, log))
		r.Get("/", pageHandler.Index)
		r.Get("/dashboard", pageHandler.Dashboard)
	})

	return r
}
