package service

import (
	"context"
	"testing"
	"time"

	"github.com/Lixing-Zhang/restaurant-pos/internal/repository"
	"github.com/Lixing-Zhang/restaurant-pos/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	e := newTestEnv(t)
	return NewAuthService(e.store, time.Hour, logger.New("error"))
}

func TestAuthService_CreateUser(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, " caixa ", "senha-forte")
	require.NoError(t, err)
	assert.Equal(t, "caixa", user.Username)
	assert.NotEqual(t, "senha-forte", user.PasswordHash)

	_, err = svc.CreateUser(ctx, "caixa", "outra-senha")
	assert.ErrorIs(t, err, repository.ErrConflict)

	_, err = svc.CreateUser(ctx, "garcom", "curta")
	assert.Error(t, err)

	_, err = svc.CreateUser(ctx, "  ", "senha-forte")
	assert.Error(t, err)
}

func TestAuthService_Login(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "gerente", "senha-forte")
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "valid credentials", username: "gerente", password: "senha-forte"},
		{name: "wrong password", username: "gerente", password: "errada123", wantErr: ErrInvalidCredentials},
		{name: "unknown user", username: "ninguem", password: "senha-forte", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := svc.Login(ctx, tt.username, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, session.Token)
			assert.Equal(t, "gerente", session.Username)

			got, err := svc.Authenticate(ctx, session.Token)
			require.NoError(t, err)
			assert.Equal(t, session.UserID, got.UserID)
		})
	}
}

func TestAuthService_SessionLifecycle(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "gerente", "senha-forte")
	require.NoError(t, err)

	start := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }

	session, err := svc.Login(ctx, "gerente", "senha-forte")
	require.NoError(t, err)
	assert.True(t, session.ExpiresAt.Equal(start.Add(time.Hour)))

	_, err = svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = svc.Authenticate(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	svc.now = func() time.Time { return start.Add(time.Hour) }
	_, err = svc.Authenticate(ctx, session.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)

	// expired sessions are removed on first use
	_, err = svc.Authenticate(ctx, session.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthService_LogoutAndPurge(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "gerente", "senha-forte")
	require.NoError(t, err)

	start := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }

	first, err := svc.Login(ctx, "gerente", "senha-forte")
	require.NoError(t, err)
	second, err := svc.Login(ctx, "gerente", "senha-forte")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, first.Token))
	_, err = svc.Authenticate(ctx, first.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.NoError(t, svc.Logout(ctx, ""))

	svc.now = func() time.Time { return start.Add(2 * time.Hour) }
	n, err := svc.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = svc.Authenticate(ctx, second.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
