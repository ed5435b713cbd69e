package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Lixing-Zhang/restaurant-pos/internal/models"
	"github.com/Lixing-Zhang/restaurant-pos/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSessionExpired     = errors.New("session expired")
	ErrUnauthenticated    = errors.New("not authenticated")
)

// MinPasswordLength is enforced when staff accounts are created
const MinPasswordLength = 8

const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z3ZFjAlcNSxJ2R0Jb5qgFQmK"

// AuthService handles staff login sessions
type AuthService struct {
	repo repository.SessionRepository
	ttl  time.Duration
	log  *slog.Logger
	now  func() time.Time
}

// NewAuthService creates a new auth service issuing sessions valid for ttl
func NewAuthService(repo repository.SessionRepository, ttl time.Duration, log *slog.Logger) *AuthService {
	if log == nil {
		log = slog.Default()
	}
	return &AuthService{
		repo: repo,
		ttl:  ttl,
		log:  log,
		now:  time.Now,
	}
}

// CreateUser registers a staff account with a bcrypt password hash
func (s *AuthService) CreateUser(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("password must have at least %d characters", MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user created", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login verifies credentials and opens a new session
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.Session, error) {
	user, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, repository.ErrNotFound) {
		// unknown users pay the same bcrypt cost as wrong passwords
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("login failed", "username", user.Username)
		return nil, ErrInvalidCredentials
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	session := &models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info("user logged in", "user_id", user.ID, "username", user.Username)
	return session, nil
}

// Authenticate returns the live session for token
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	session, err := s.repo.GetSession(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if session.Expired(s.now()) {
		if err := s.repo.DeleteSession(ctx, token); err != nil {
			s.log.Warn("failed to delete expired session", "error", err)
		}
		return nil, ErrSessionExpired
	}
	return session, nil
}

// Logout ends the session for token
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.repo.DeleteSession(ctx, token)
}

// PurgeExpired removes sessions past their expiry
func (s *AuthService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpiredSessions(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Debug("expired sessions purged", "count", n)
	}
	return n, nil
}
