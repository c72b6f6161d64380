package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/dkarimov/todoapp/internal/domain"
	"github.com/dkarimov/todoapp/internal/usecase"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ---- fakes ----

type fakeUserRepo struct {
	create         func(ctx context.Context, username, email, passwordHash string) (*domain.User, error)
	findByUsername func(ctx context.Context, username string) (*domain.User, error)
	findByID       func(ctx context.Context, id int64) (*domain.User, error)
}

func (r *fakeUserRepo) Create(ctx context.Context, username, email, passwordHash string) (*domain.User, error) {
	return r.create(ctx, username, email, passwordHash)
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findByUsername(ctx, username)
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findByID(ctx, id)
}

type fakeEmailSender struct {
	send func(ctx context.Context, to, subject, body string) error
}

func (s *fakeEmailSender) Send(ctx context.Context, to, subject, body string) error {
	if s.send == nil {
		return nil
	}
	return s.send(ctx, to, subject, body)
}

// ---- helpers ----

const testJWTKey = "test-jwt-secret-at-least-32-chars!!"

func newAuthUsecase(repo *fakeUserRepo, sender *fakeEmailSender) *usecase.AuthUsecase {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return usecase.NewAuthUsecase(repo, sender, []byte(testJWTKey), logger)
}

func parseClaims(t *testing.T, raw string) jwt.MapClaims {
	t.Helper()
	token, err := jwt.Parse(raw, func(*jwt.Token) (any, error) {
		return []byte(testJWTKey), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("parse token: %v", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("claims are not MapClaims")
	}
	return claims
}

// ---- Register ----

func TestRegister_ShortPassword_CreatesNoUser(t *testing.T) {
	created := false
	repo := &fakeUserRepo{
		create: func(_ context.Context, _, _, _ string) (*domain.User, error) {
			created = true
			return nil, nil
		},
	}

	_, _, err := newAuthUsecase(repo, &fakeEmailSender{}).Register(context.Background(), usecase.RegisterInput{
		Username: "alice",
		Password: "short",
	})
	if !errors.Is(err, domain.ErrPasswordTooShort) {
		t.Fatalf("err = %v, want ErrPasswordTooShort", err)
	}
	if created {
		t.Error("user row was created despite invalid password")
	}
}

func TestRegister_EmptyUsername_Fails(t *testing.T) {
	repo := &fakeUserRepo{
		create: func(_ context.Context, _, _, _ string) (*domain.User, error) {
			t.Fatal("create must not be called")
			return nil, nil
		},
	}

	_, _, err := newAuthUsecase(repo, &fakeEmailSender{}).Register(context.Background(), usecase.RegisterInput{
		Username: "   ",
		Password: "secret123",
	})
	if !errors.Is(err, domain.ErrUsernameRequired) {
		t.Fatalf("err = %v, want ErrUsernameRequired", err)
	}
}

func TestRegister_DuplicateUsername_Fails(t *testing.T) {
	repo := &fakeUserRepo{
		create: func(_ context.Context, _, _, _ string) (*domain.User, error) {
			return nil, domain.ErrUsernameTaken
		},
	}

	_, _, err := newAuthUsecase(repo, &fakeEmailSender{}).Register(context.Background(), usecase.RegisterInput{
		Username: "alice",
		Password: "secret123",
	})
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("err = %v, want ErrUsernameTaken", err)
	}
}

func TestRegister_StoresBcryptHashNotPlaintext(t *testing.T) {
	var storedHash string
	repo := &fakeUserRepo{
		create: func(_ context.Context, username, email, passwordHash string) (*domain.User, error) {
			storedHash = passwordHash
			return &domain.User{ID: 1, Username: username, Email: email, PasswordHash: passwordHash}, nil
		},
	}

	const password = "secret123"
	_, _, err := newAuthUsecase(repo, &fakeEmailSender{}).Register(context.Background(), usecase.RegisterInput{
		Username: "alice",
		Password: password,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if storedHash == password {
		t.Fatal("password stored in plaintext")
	}
	if bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) != nil {
		t.Error("stored hash does not verify against the original password")
	}
}

func TestRegister_AccessTokenResolvesToNewUser(t *testing.T) {
	repo := &fakeUserRepo{
		create: func(_ context.Context, username, email, passwordHash string) (*domain.User, error) {
			return &domain.User{ID: 7, Username: username, Email: email}, nil
		},
	}

	_, pair, err := newAuthUsecase(repo, &fakeEmailSender{}).Register(context.Background(), usecase.RegisterInput{
		Username: "alice",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	access := parseClaims(t, pair.Access)
	if sub, _ := access["sub"].(string); sub != "7" {
		t.Errorf("access sub = %q, want %q", sub, "7")
	}
	if typ, _ := access["typ"].(string); typ != "access" {
		t.Errorf("access typ = %q, want %q", typ, "access")
	}

	refresh := parseClaims(t, pair.Refresh)
	if typ, _ := refresh["typ"].(string); typ != "refresh" {
		t.Errorf("refresh typ = %q, want %q", typ, "refresh")
	}
}

func TestRegister_WelcomeMailOnlyWhenEmailGiven(t *testing.T) {
	repo := &fakeUserRepo{
		create: func(_ context.Context, username, email, passwordHash string) (*domain.User, error) {
			return &domain.User{ID: 1, Username: username, Email: email}, nil
		},
	}

	var sentTo []string
	sender := &fakeEmailSender{
		send: func(_ context.Context, to, _, _ string) error {
			sentTo = append(sentTo, to)
			return nil
		},
	}
	uc := newAuthUsecase(repo, sender)

	if _, _, err := uc.Register(context.Background(), usecase.RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "secret123",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := uc.Register(context.Background(), usecase.RegisterInput{
		Username: "bob", Password: "secret123",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sentTo) != 1 || sentTo[0] != "alice@example.com" {
		t.Errorf("sent to %v, want exactly [alice@example.com]", sentTo)
	}
}

func TestRegister_WelcomeMailFailureDoesNotFailRegistration(t *testing.T) {
	repo := &fakeUserRepo{
		create: func(_ context.Context, username, email, passwordHash string) (*domain.User, error) {
			return &domain.User{ID: 1, Username: username, Email: email}, nil
		},
	}
	sender := &fakeEmailSender{
		send: func(_ context.Context, _, _, _ string) error {
			return errors.New("smtp down")
		},
	}

	_, pair, err := newAuthUsecase(repo, sender).Register(context.Background(), usecase.RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pair == nil || pair.Access == "" {
		t.Error("expected a token pair despite email failure")
	}
}

// ---- Login ----

func TestLogin_UnknownUser_InvalidCredentials(t *testing.T) {
	repo := &fakeUserRepo{
		findByUsername: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}

	_, err := newAuthUsecase(repo, &fakeEmailSender{}).Login(context.Background(), "ghost", "whatever1")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogin_WrongPassword_InvalidCredentials(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	repo := &fakeUserRepo{
		findByUsername: func(_ context.Context, _ string) (*domain.User, error) {
			return &domain.User{ID: 1, Username: "alice", PasswordHash: string(hash)}, nil
		},
	}

	_, err := newAuthUsecase(repo, &fakeEmailSender{}).Login(context.Background(), "alice", "battery-staple")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogin_ValidCredentials_IssuesPair(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	repo := &fakeUserRepo{
		findByUsername: func(_ context.Context, _ string) (*domain.User, error) {
			return &domain.User{ID: 42, Username: "alice", PasswordHash: string(hash)}, nil
		},
	}

	pair, err := newAuthUsecase(repo, &fakeEmailSender{}).Login(context.Background(), "alice", "secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims := parseClaims(t, pair.Access)
	if sub, _ := claims["sub"].(string); sub != "42" {
		t.Errorf("access sub = %q, want %q", sub, "42")
	}
	if pair.Refresh == "" {
		t.Error("expected a refresh token")
	}
}
