package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkarimov/todoapp/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TodoRepository struct {
	pool *pgxpool.Pool
}

func NewTodoRepository(pool *pgxpool.Pool) *TodoRepository {
	return &TodoRepository{pool: pool}
}

func (r *TodoRepository) Create(ctx context.Context, userID int64, title string) (*domain.Todo, error) {
	query := `
		INSERT INTO todos (user_id, title)
		VALUES ($1, $2)
		RETURNING id, user_id, title, created_at, updated_at`

	t, err := scanTodo(r.pool.QueryRow(ctx, query, userID, title))
	if err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	return t, nil
}

func (r *TodoRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Todo, error) {
	// id DESC breaks ties between rows created in the same instant.
	query := `
		SELECT id, user_id, title, created_at, updated_at
		FROM todos
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	var todos []*domain.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

func (r *TodoRepository) GetByID(ctx context.Context, id, userID int64) (*domain.Todo, error) {
	query := `
		SELECT id, user_id, title, created_at, updated_at
		FROM todos
		WHERE id = $1 AND user_id = $2`

	return scanTodo(r.pool.QueryRow(ctx, query, id, userID))
}

func (r *TodoRepository) UpdateTitle(ctx context.Context, id, userID int64, title string) (*domain.Todo, error) {
	query := `
		UPDATE todos
		SET title = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, title, created_at, updated_at`

	return scanTodo(r.pool.QueryRow(ctx, query, id, userID, title))
}

func (r *TodoRepository) Delete(ctx context.Context, id, userID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM todos WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTodoNotFound
	}
	return nil
}

func scanTodo(row pgx.Row) (*domain.Todo, error) {
	var t domain.Todo
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, fmt.Errorf("scan todo: %w", err)
	}
	return &t, nil
}
