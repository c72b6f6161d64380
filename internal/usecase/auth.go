package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/dkarimov/todoapp/internal/domain"
	"github.com/dkarimov/todoapp/internal/email"
	"github.com/dkarimov/todoapp/internal/metrics"
	"github.com/dkarimov/todoapp/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8

	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

type AuthUsecase struct {
	users      repository.UserRepository
	email      email.Sender
	jwtKey     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     *slog.Logger
}

func NewAuthUsecase(users repository.UserRepository, emailSender email.Sender, jwtKey []byte, logger *slog.Logger) *AuthUsecase {
	return &AuthUsecase{
		users:      users,
		email:      emailSender,
		jwtKey:     jwtKey,
		accessTTL:  defaultAccessTTL,
		refreshTTL: defaultRefreshTTL,
		logger:     logger.With("component", "auth_usecase"),
	}
}

type RegisterInput struct {
	Username string
	Email    string // optional
	Password string
}

// Register creates the user with a bcrypt-hashed password and immediately
// issues a token pair (auto-login on register).
func (u *AuthUsecase) Register(ctx context.Context, input RegisterInput) (*domain.User, *domain.TokenPair, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, nil, domain.ErrUsernameRequired
	}
	if len(input.Password) < minPasswordLength {
		return nil, nil, domain.ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := u.users.Create(ctx, username, input.Email, string(hash))
	if err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			return nil, nil, domain.ErrUsernameTaken
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	pair, err := u.IssueTokenPair(user.ID)
	if err != nil {
		return nil, nil, err
	}

	metrics.UsersRegisteredTotal.Inc()

	// Best-effort: a failed welcome mail must not fail the registration.
	if user.Email != "" {
		body := fmt.Sprintf("<p>Hi %s, your account is ready.</p>", user.Username)
		if err := u.email.Send(ctx, user.Email, "Welcome to Todoapp", body); err != nil {
			u.logger.WarnContext(ctx, "welcome email", "error", err)
		}
	}

	return user, pair, nil
}

// Login verifies the credentials and issues a fresh token pair. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (u *AuthUsecase) Login(ctx context.Context, username, password string) (*domain.TokenPair, error) {
	user, err := u.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return u.IssueTokenPair(user.ID)
}

// IssueTokenPair signs a short-lived access token and a longer-lived
// refresh token for the user. Neither is stored server-side.
func (u *AuthUsecase) IssueTokenPair(userID int64) (*domain.TokenPair, error) {
	access, err := u.signToken(userID, "access", u.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := u.signToken(userID, "refresh", u.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{Access: access, Refresh: refresh}, nil
}

func (u *AuthUsecase) signToken(userID int64, typ string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"typ": typ,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(u.jwtKey)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}
