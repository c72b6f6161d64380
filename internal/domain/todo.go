package domain

import (
	"errors"
	"time"
)

const MaxTitleLength = 200

var (
	ErrTodoNotFound = errors.New("todo not found")
	ErrTitleEmpty   = errors.New("title must not be empty")
	ErrTitleTooLong = errors.New("title must be at most 200 characters")
)

type Todo struct {
	ID        int64
	UserID    int64 // owning user, never exposed over the API
	Title     string
	CreatedAt time.Time // set once on create
	UpdatedAt time.Time // refreshed on every mutation
}
