package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/dkarimov/todoapp/internal/domain"
	"github.com/dkarimov/todoapp/internal/transport/http/handler"
	"github.com/dkarimov/todoapp/internal/usecase"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAuthUsecase implements the unexported authUsecaser interface via method matching.
type fakeAuthUsecase struct {
	register func(ctx context.Context, input usecase.RegisterInput) (*domain.User, *domain.TokenPair, error)
	login    func(ctx context.Context, username, password string) (*domain.TokenPair, error)
}

func (f *fakeAuthUsecase) Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, *domain.TokenPair, error) {
	return f.register(ctx, input)
}

func (f *fakeAuthUsecase) Login(ctx context.Context, username, password string) (*domain.TokenPair, error) {
	return f.login(ctx, username, password)
}

func newAuthEngine(uc *fakeAuthUsecase) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	h := handler.NewAuthHandler(uc, logger)

	r := gin.New()
	r.POST("/api/register", h.Register)
	r.POST("/api/token", h.Login)
	return r
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

// ---- Register ----

func TestRegister_InvalidJSON_Returns400(t *testing.T) {
	w := postJSON(newAuthEngine(&fakeAuthUsecase{}), "/api/register", `{bad json}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRegister_ShortPassword_Returns400(t *testing.T) {
	// Rejected by binding before the usecase is reached.
	w := postJSON(newAuthEngine(&fakeAuthUsecase{}), "/api/register",
		`{"username":"alice","password":"short"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRegister_MissingUsername_Returns400(t *testing.T) {
	w := postJSON(newAuthEngine(&fakeAuthUsecase{}), "/api/register",
		`{"password":"secret123"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRegister_DuplicateUsername_Returns400(t *testing.T) {
	uc := &fakeAuthUsecase{
		register: func(_ context.Context, _ usecase.RegisterInput) (*domain.User, *domain.TokenPair, error) {
			return nil, nil, domain.ErrUsernameTaken
		},
	}
	w := postJSON(newAuthEngine(uc), "/api/register",
		`{"username":"alice","password":"secret123"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "already exists") {
		t.Errorf("body %q does not name the conflict", w.Body.String())
	}
}

func TestRegister_UsecaseError_Returns500(t *testing.T) {
	uc := &fakeAuthUsecase{
		register: func(_ context.Context, _ usecase.RegisterInput) (*domain.User, *domain.TokenPair, error) {
			return nil, nil, errors.New("db down")
		},
	}
	w := postJSON(newAuthEngine(uc), "/api/register",
		`{"username":"alice","password":"secret123"}`)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestRegister_Success_Returns201WithUserAndTokens(t *testing.T) {
	uc := &fakeAuthUsecase{
		register: func(_ context.Context, input usecase.RegisterInput) (*domain.User, *domain.TokenPair, error) {
			return &domain.User{ID: 1, Username: input.Username, Email: input.Email},
				&domain.TokenPair{Access: "acc-token", Refresh: "ref-token"}, nil
		},
	}
	w := postJSON(newAuthEngine(uc), "/api/register",
		`{"username":"alice","email":"alice@example.com","password":"secret123"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}

	var resp struct {
		User struct {
			ID       int64  `json:"id"`
			Username string `json:"username"`
			Email    string `json:"email"`
		} `json:"user"`
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.User.ID != 1 || resp.User.Username != "alice" || resp.User.Email != "alice@example.com" {
		t.Errorf("user = %+v", resp.User)
	}
	if resp.Access != "acc-token" || resp.Refresh != "ref-token" {
		t.Errorf("tokens = %q / %q", resp.Access, resp.Refresh)
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Error("response leaks the password field")
	}
}

// ---- Login ----

func TestLogin_MissingFields_Returns400(t *testing.T) {
	w := postJSON(newAuthEngine(&fakeAuthUsecase{}), "/api/token", `{"username":"alice"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestLogin_BadCredentials_Returns401(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(_ context.Context, _, _ string) (*domain.TokenPair, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	w := postJSON(newAuthEngine(uc), "/api/token",
		`{"username":"alice","password":"wrong-pass"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestLogin_Success_Returns200WithPair(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(_ context.Context, username, password string) (*domain.TokenPair, error) {
			return &domain.TokenPair{Access: "acc-token", Refresh: "ref-token"}, nil
		},
	}
	w := postJSON(newAuthEngine(uc), "/api/token",
		`{"username":"alice","password":"secret123"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "acc-token") || !strings.Contains(w.Body.String(), "ref-token") {
		t.Errorf("body %q missing tokens", w.Body.String())
	}
}
