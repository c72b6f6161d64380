package httptransport

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dkarimov/todoapp/internal/transport/http/handler"
	"github.com/dkarimov/todoapp/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(logger *slog.Logger, authHandler *handler.AuthHandler, todoHandler *handler.TodoHandler, jwtKey []byte, staticDir string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	api := r.Group("/api")
	api.POST("/register", authHandler.Register)
	api.POST("/token", authHandler.Login)

	// Protected todo routes
	todos := api.Group("/todos", middleware.Auth(jwtKey))
	todos.GET("", todoHandler.List)
	todos.POST("", todoHandler.Create)
	todos.GET("/:id", todoHandler.GetByID)
	todos.PUT("/:id", todoHandler.Update)
	todos.PATCH("/:id", todoHandler.Update)
	todos.DELETE("/:id", todoHandler.Delete)

	// Unconditional catch-all: every non-/api path gets the SPA shell.
	r.NoRoute(spaFallback(staticDir))

	return r
}

// spaFallback serves files from staticDir with an index.html fallback so
// client-side routes deep-link correctly. Unmatched /api paths stay JSON.
func spaFallback(staticDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") || c.Request.URL.Path == "/api" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		file := filepath.Join(staticDir, filepath.Clean("/"+c.Request.URL.Path))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}

		index := filepath.Join(staticDir, "index.html")
		if _, err := os.Stat(index); err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.File(index)
	}
}
