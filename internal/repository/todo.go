package repository

import (
	"context"

	"github.com/dkarimov/todoapp/internal/domain"
)

// Every read and write is keyed by (id, userID): a todo owned by another
// user is indistinguishable from a missing one.
type TodoRepository interface {
	Create(ctx context.Context, userID int64, title string) (*domain.Todo, error)
	// ListByUser returns the user's todos newest-created-first.
	ListByUser(ctx context.Context, userID int64) ([]*domain.Todo, error)
	GetByID(ctx context.Context, id, userID int64) (*domain.Todo, error)
	// UpdateTitle replaces the title and refreshes updated_at.
	UpdateTitle(ctx context.Context, id, userID int64, title string) (*domain.Todo, error)
	Delete(ctx context.Context, id, userID int64) error
}
