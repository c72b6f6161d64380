package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dkarimov/todoapp/internal/domain"
	"github.com/dkarimov/todoapp/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

// todoUsecaser is the subset of TodoUsecase the handler needs.
type todoUsecaser interface {
	List(ctx context.Context, userID int64) ([]*domain.Todo, error)
	Create(ctx context.Context, userID int64, title string) (*domain.Todo, error)
	Get(ctx context.Context, userID, id int64) (*domain.Todo, error)
	Update(ctx context.Context, userID, id int64, title string) (*domain.Todo, error)
	Delete(ctx context.Context, userID, id int64) error
}

type TodoHandler struct {
	todoUsecase todoUsecaser
	logger      *slog.Logger
}

func NewTodoHandler(todoUsecase todoUsecaser, logger *slog.Logger) *TodoHandler {
	return &TodoHandler{todoUsecase: todoUsecase, logger: logger.With("component", "todo_handler")}
}

type todoRequest struct {
	Title string `json:"title" binding:"required,max=200"`
}

// The owning user is never serialized.
type todoResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toTodoResponse(t *domain.Todo) todoResponse {
	return todoResponse{
		ID:        t.ID,
		Title:     t.Title,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// GET /api/todos
func (h *TodoHandler) List(c *gin.Context) {
	userID := middleware.UserID(c)

	todos, err := h.todoUsecase.List(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("list todos", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	// Serialize an empty list as [], never null.
	resp := make([]todoResponse, 0, len(todos))
	for _, t := range todos {
		resp = append(resp, toTodoResponse(t))
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/todos
func (h *TodoHandler) Create(c *gin.Context) {
	var req todoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	todo, err := h.todoUsecase.Create(c.Request.Context(), middleware.UserID(c), req.Title)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toTodoResponse(todo))
}

// GET /api/todos/:id
func (h *TodoHandler) GetByID(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}

	todo, err := h.todoUsecase.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTodoResponse(todo))
}

// PUT/PATCH /api/todos/:id
func (h *TodoHandler) Update(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}

	var req todoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	todo, err := h.todoUsecase.Update(c.Request.Context(), middleware.UserID(c), id, req.Title)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTodoResponse(todo))
}

// DELETE /api/todos/:id
func (h *TodoHandler) Delete(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}

	if err := h.todoUsecase.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// todoID parses the :id path param. A non-numeric id can never match a
// row, so it is reported as 404 rather than 400.
func todoID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": errTodoNotFound})
		return 0, false
	}
	return id, true
}

func (h *TodoHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrTodoNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errTodoNotFound})
	case errors.Is(err, domain.ErrTitleEmpty), errors.Is(err, domain.ErrTitleTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("todo operation", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	}
}
