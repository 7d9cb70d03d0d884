package model

import "time"

// Auth event statuses recorded in the audit log.
const (
	StatusLoginOK   = "LOGIN_OK"
	StatusLoginFail = "LOGIN_FAIL"
	StatusLogout    = "LOGOUT"
)

// Session binds an issued token to a user and its validity window.
// The session ID is the signed token string itself.
type Session struct {
	ID        string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
	Active    bool
}

// AuthLogEntry is an append-only audit record of an authentication event.
// UserID is nil when the event could not be attributed (failed login, logout).
type AuthLogEntry struct {
	LogID        int64
	UserID       *int64
	LoginTime    time.Time
	IP           string
	TokenPreview string
	Status       string
}
