package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/smartviz/smartviz-go/internal/model"
)

var ErrSessionNotFound = errors.New("session not found")

// tokenPreviewLen is the number of token characters kept in the audit
// log. Full credentials are never logged.
const tokenPreviewLen = 12

// SessionRepository persists issued sessions and the append-only audit
// log of authentication events.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Open inserts a new active session row. The session ID is the issued
// token itself, which makes the token its own lookup key.
func (r *SessionRepository) Open(ctx context.Context, sessionID string, userID int64, expiresAt time.Time) error {
	query := `INSERT INTO sessions (session_id, user_id, expires_at) VALUES (?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, sessionID, userID, expiresAt)
	return err
}

// Close flips the active flag to false. The row is kept for audit
// retention and the call is a no-op for unknown session IDs.
func (r *SessionRepository) Close(ctx context.Context, sessionID string) error {
	query := `UPDATE sessions SET active_flag = FALSE WHERE session_id = ?`

	_, err := r.db.ExecContext(ctx, query, sessionID)
	return err
}

// Get retrieves a session by its ID.
func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	query := `SELECT session_id, user_id, created_at, expires_at, active_flag
		FROM sessions WHERE session_id = ?`

	s := &model.Session{}
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&s.ID, &s.UserID, &s.CreatedAt, &s.ExpiresAt, &s.Active,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	return s, nil
}

// RecordEvent appends one audit row. userID is nil for events that could
// not be attributed to a user. The token preview is truncated before it
// is stored.
func (r *SessionRepository) RecordEvent(ctx context.Context, userID *int64, ip, tokenPreview, status string) error {
	if len(tokenPreview) > tokenPreviewLen {
		tokenPreview = tokenPreview[:tokenPreviewLen]
	}

	query := `INSERT INTO auth_log (user_id, ip_address, token_preview, status)
		VALUES (?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, userID, ip, tokenPreview, status)
	return err
}

// Events retrieves the audit log in insertion order.
func (r *SessionRepository) Events(ctx context.Context) ([]model.AuthLogEntry, error) {
	query := `SELECT log_id, user_id, login_time, ip_address, token_preview, status
		FROM auth_log ORDER BY log_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.AuthLogEntry
	for rows.Next() {
		var e model.AuthLogEntry
		if err := rows.Scan(&e.LogID, &e.UserID, &e.LoginTime, &e.IP, &e.TokenPreview, &e.Status); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
