package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/restaurant-pos/internal/models"
	"github.com/Lixing-Zhang/restaurant-pos/internal/service"
)

// Authenticator resolves a session token to a live session
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Session, error)
}

type sessionKey struct{}

// LoginPath is where unauthenticated page requests are sent
const LoginPath = "/login"

// RequireSession lets a request through only when the session cookie names
// a live session. Missing, unknown and expired sessions are redirected to the
// login page; any other lookup failure is a 500.
func RequireSession(auth Authenticator, cookieName string, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			session, err := auth.Authenticate(r.Context(), cookie.Value)
			switch {
			case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrSessionExpired):
				logger.Debug("session rejected", "path", r.URL.Path, "error", err)
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			case err != nil:
				logger.Error("failed to authenticate session", "path", r.URL.Path, "error", err)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// WithSession stores the session in ctx
func WithSession(ctx context.Context, session *models.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the session stored by RequireSession
func SessionFromContext(ctx context.Context) (*models.Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(*models.Session)
	return session, ok && session != nil
}
