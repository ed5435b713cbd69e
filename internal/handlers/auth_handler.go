package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Lixing-Zhang/restaurant-pos/internal/service"
	"github.com/Lixing-Zhang/restaurant-pos/internal/web"
)

// invalidLoginMessage is shown on the login form after a failed attempt
const invalidLoginMessage = "Nome de usuário ou senha inválidos."

// CookieOptions configures the session cookie
type CookieOptions struct {
	Name   string
	Secure bool
}

// AuthHandler handles login and logout
type AuthHandler struct {
	auth   *service.AuthService
	pages  *web.Renderer
	cookie CookieOptions
	logger *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *service.AuthService, pages *web.Renderer, cookie CookieOptions, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		pages:  pages,
		cookie: cookie,
		logger: logger,
	}
}

// LoginForm handles GET /login
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, h.pages, http.StatusOK, web.PageLogin, web.LoginPage{}, h.logger)
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")

	session, err := h.auth.Login(r.Context(), username, r.PostFormValue("password"))
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			h.logger.Error("login failed", "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		renderPage(w, h.pages, http.StatusUnauthorized, web.PageLogin, web.LoginPage{
			Username: username,
			Error:    invalidLoginMessage,
		}, h.logger)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cookie.Name); err == nil {
		if err := h.auth.Logout(r.Context(), cookie.Value); err != nil {
			h.logger.Error("failed to delete session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
