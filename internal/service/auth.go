package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/smartviz/smartviz-go/internal/crypto"
	"github.com/smartviz/smartviz-go/internal/model"
	"github.com/smartviz/smartviz-go/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrDuplicateEmail     = errors.New("email already registered")
)

// AuthService orchestrates registration, login, token resolution and
// logout over the user directory, token codec and session store.
type AuthService struct {
	users    *repository.UserRepository
	sessions *repository.SessionRepository
	codec    *crypto.TokenCodec
	ttl      time.Duration
}

// NewAuthService creates a new AuthService. ttl is used both for the
// token expiry claim and for the persisted session expiry.
func NewAuthService(users *repository.UserRepository, sessions *repository.SessionRepository, codec *crypto.TokenCodec, ttl time.Duration) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		codec:    codec,
		ttl:      ttl,
	}
}

// Register creates a new user account and returns its identifier.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (int64, error) {
	if req.Email == "" {
		return 0, ErrEmailRequired
	}
	if req.Password == "" {
		return 0, ErrPasswordRequired
	}

	// The unique constraint on email backstops the race between this
	// check and the insert.
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return 0, ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return 0, err
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return 0, err
	}

	user := &model.User{
		Email:          req.Email,
		HashedPassword: hash,
		Name:           req.Name,
		Role:           "user",
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return 0, ErrDuplicateEmail
		}
		return 0, err
	}

	return user.ID, nil
}

// Login authenticates a user and returns a signed bearer token. Failed
// attempts are written to the audit log before the error is returned.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest, ip string) (string, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.auditFailure(ctx, ip)
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	match, err := crypto.VerifyPassword(req.Password, user.HashedPassword)
	if err != nil {
		return "", err
	}
	if !match {
		s.auditFailure(ctx, ip)
		return "", ErrInvalidCredentials
	}

	token, err := s.codec.Issue(crypto.Claims{"user_id": user.ID}, s.ttl)
	if err != nil {
		return "", err
	}

	expiresAt := time.Now().Add(s.ttl)
	if err := s.sessions.Open(ctx, token, user.ID, expiresAt); err != nil {
		return "", err
	}
	if err := s.sessions.RecordEvent(ctx, &user.ID, ip, token, model.StatusLoginOK); err != nil {
		slog.Warn("recording login audit entry failed", "error", err)
	}

	return token, nil
}

// Resolve returns the user identifier embedded in a token. It consults
// only cryptographic validity: a logged-out token resolves until its
// embedded expiry elapses. See DESIGN.md.
func (s *AuthService) Resolve(token string) (int64, error) {
	claims, err := s.codec.Validate(token)
	if err != nil {
		return 0, err
	}

	userID, ok := claims.UserID()
	if !ok {
		return 0, crypto.ErrInvalidToken
	}

	return userID, nil
}

// Logout deactivates the corresponding session and records the event.
// Idempotent: unknown or already-inactive tokens are not an error.
func (s *AuthService) Logout(ctx context.Context, token, ip string) error {
	if err := s.sessions.Close(ctx, token); err != nil {
		return err
	}
	return s.sessions.RecordEvent(ctx, nil, ip, token, model.StatusLogout)
}

// Me retrieves the authenticated user's profile.
func (s *AuthService) Me(ctx context.Context, userID int64) (model.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.UserResponse{}, err
	}

	return model.UserResponse{
		UserID:     user.ID,
		Email:      user.Email,
		Name:       user.Name,
		Role:       user.Role,
		DateJoined: user.DateJoined,
	}, nil
}

func (s *AuthService) auditFailure(ctx context.Context, ip string) {
	if err := s.sessions.RecordEvent(ctx, nil, ip, "invalid", model.StatusLoginFail); err != nil {
		slog.Warn("recording failed-login audit entry failed", "error", err)
	}
}
