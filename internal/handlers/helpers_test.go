package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Lixing-Zhang/restaurant-pos/internal/models"
	"github.com/Lixing-Zhang/restaurant-pos/internal/repository"
	"github.com/Lixing-Zhang/restaurant-pos/internal/service"
	"github.com/Lixing-Zhang/restaurant-pos/internal/web"
	"github.com/Lixing-Zhang/restaurant-pos/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testCookie = "pos_session"

type testServer struct {
	store  *repository.SQLStore
	auth   *service.AuthService
	router http.Handler
}

// newTestServer wires the full router over a fresh SQLite database with
// Pizza (1), Coca-Cola (2) and Cheese (3) in the catalog
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := logger.New("error")

	store, err := repository.Open(context.Background(), repository.Options{
		Driver: repository.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "pos.db"),
	}, log)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	for _, p := range []models.Product{
		{Name: "Pizza", Price: decimal.RequireFromString("29.90"), Category: models.CategoryTradicional, Quantity: 10},
		{Name: "Coca-Cola", Price: decimal.RequireFromString("7.50"), Category: models.CategoryBebida, Quantity: 10},
		{Name: "Cheese", Price: decimal.RequireFromString("5.00"), Category: models.CategoryAcompanhamento, Quantity: 10},
	} {
		p := p
		require.NoError(t, store.CreateProduct(context.Background(), &p))
	}

	pages, err := web.NewRenderer()
	require.NoError(t, err)

	auth := service.NewAuthService(store, time.Hour, log)
	router := NewRouter(RouterConfig{
		Orders:    service.NewOrderService(store, log),
		Products:  service.NewProductService(store, log),
		Dashboard: service.NewDashboardService(store),
		Auth:      auth,
		Pages:     pages,
		DB:        store,
		Cookie:    CookieOptions{Name: testCookie},
		Logger:    log,
	})

	return &testServer{store: store, auth: auth, router: router}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) postJSON(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

func (s *testServer) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return s.do(req)
}

func (s *testServer) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return s.do(req)
}

// login creates a user and returns the session cookie set by POST /login
func (s *testServer) login(t *testing.T) *http.Cookie {
	t.Helper()
	_, err := s.auth.CreateUser(context.Background(), "gerente", "senha-forte")
	require.NoError(t, err)

	w := s.postForm("/login", url.Values{"username": {"gerente"}, "password": {"senha-forte"}})
	require.Equal(t, http.StatusSeeOther, w.Code)

	for _, c := range w.Result().Cookies() {
		if c.Name == testCookie {
			return c
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}
