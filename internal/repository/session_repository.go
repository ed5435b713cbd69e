package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Lixing-Zhang/restaurant-pos/internal/models"
)

// CreateUser inserts a staff account and sets its ID
func (s *SQLStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	err := s.db.QueryRowContext(ctx, s.dialect.rebind(`
		INSERT INTO users (username, password_hash, created_at)
		VALUES (?, ?, ?)
		RETURNING id`),
		user.Username, user.PasswordHash, formatTime(user.CreatedAt),
	).Scan(&user.ID)
	if err != nil {
		if s.dialect.isConflict(err) {
			return fmt.Errorf("user %q: %w", user.Username, ErrConflict)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUserByUsername looks up a staff account
func (s *SQLStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, s.dialect.rebind(`
		SELECT id, username, password_hash, created_at
		FROM users WHERE username = ?`), username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, timestamp{t: &u.CreatedAt})
	if isNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// CreateSession stores a login session
func (s *SQLStore) CreateSession(ctx context.Context, session *models.Session) error {
	_, err := s.db.ExecContext(ctx, s.dialect.rebind(`
		INSERT INTO sessions (token, user_id, created_at, expires_at)
		VALUES (?, ?, ?, ?)`),
		session.Token, session.UserID, formatTime(session.CreatedAt), formatTime(session.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetSession returns the session for token along with the username
func (s *SQLStore) GetSession(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	err := s.db.QueryRowContext(ctx, s.dialect.rebind(`
		SELECT s.token, s.user_id, u.username, s.created_at, s.expires_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = ?`), token,
	).Scan(&session.Token, &session.UserID, &session.Username,
		timestamp{t: &session.CreatedAt}, timestamp{t: &session.ExpiresAt})
	if isNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &session, nil
}

// DeleteSession removes a session; deleting an unknown token is not an error
func (s *SQLStore) DeleteSession(ctx context.Context, token string) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.rebind("DELETE FROM sessions WHERE token = ?"), token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions purges sessions that expired before now
func (s *SQLStore) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.dialect.rebind("DELETE FROM sessions WHERE expires_at <= ?"), formatTime(now))
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}
