package model

import "time"

// User represents a registered user in the database.
type User struct {
	ID             int64
	Email          string
	HashedPassword string
	Name           string
	Role           string
	DateJoined     time.Time
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse acknowledges a successful registration.
type RegisterResponse struct {
	UserID int64  `json:"user_id"`
	Status string `json:"status"`
}

// TokenResponse carries the bearer token issued on login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserResponse represents user data safe for API responses (no hash).
type UserResponse struct {
	UserID     int64     `json:"user_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	DateJoined time.Time `json:"date_joined"`
}
