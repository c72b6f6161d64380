package repository

import (
	"context"

	"github.com/dkarimov/todoapp/internal/domain"
)

// Usecases depend on the interface, not the pgx implementation.
// This way we can swap the DB later without touching usecases, and tests
// pass a hand-written fake instead of spinning up Postgres.
type UserRepository interface {
	// Create inserts a new user and returns it with the generated ID.
	// Returns domain.ErrUsernameTaken on a username collision.
	Create(ctx context.Context, username, email, passwordHash string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}
