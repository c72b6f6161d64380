package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUsernameRequired   = errors.New("username must not be empty")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTokenInvalid       = errors.New("token is invalid or expired")
)

type User struct {
	ID           int64
	Username     string
	Email        string // optional, may be empty
	PasswordHash string // bcrypt, never the plaintext
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TokenPair is issued on register and login. Validation is stateless:
// neither token is persisted server-side.
type TokenPair struct {
	Access  string
	Refresh string
}
