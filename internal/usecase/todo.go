package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dkarimov/todoapp/internal/domain"
	"github.com/dkarimov/todoapp/internal/metrics"
	"github.com/dkarimov/todoapp/internal/repository"
)

// TodoUsecase scopes every operation to the acting user. Ownership is part
// of the existence check: another user's todo surfaces as ErrTodoNotFound.
type TodoUsecase struct {
	repo repository.TodoRepository
}

func NewTodoUsecase(repo repository.TodoRepository) *TodoUsecase {
	return &TodoUsecase{repo: repo}
}

func (u *TodoUsecase) List(ctx context.Context, userID int64) ([]*domain.Todo, error) {
	todos, err := u.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

func (u *TodoUsecase) Create(ctx context.Context, userID int64, title string) (*domain.Todo, error) {
	title, err := validTitle(title)
	if err != nil {
		return nil, err
	}

	todo, err := u.repo.Create(ctx, userID, title)
	if err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}

	metrics.TodosCreatedTotal.Inc()
	return todo, nil
}

func (u *TodoUsecase) Get(ctx context.Context, userID, id int64) (*domain.Todo, error) {
	return u.repo.GetByID(ctx, id, userID)
}

func (u *TodoUsecase) Update(ctx context.Context, userID, id int64, title string) (*domain.Todo, error) {
	title, err := validTitle(title)
	if err != nil {
		return nil, err
	}
	return u.repo.UpdateTitle(ctx, id, userID, title)
}

func (u *TodoUsecase) Delete(ctx context.Context, userID, id int64) error {
	return u.repo.Delete(ctx, id, userID)
}

func validTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", domain.ErrTitleEmpty
	}
	if utf8.RuneCountInString(title) > domain.MaxTitleLength {
		return "", domain.ErrTitleTooLong
	}
	return title, nil
}
