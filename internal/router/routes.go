package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/supplier-finder/internal/auth"
	"github.com/octobees/supplier-finder/internal/config"
	"github.com/octobees/supplier-finder/internal/handler"
	middlewarepkg "github.com/octobees/supplier-finder/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth      *handler.AuthHandler
	Search    *handler.SearchHandler
	Suppliers *handler.SuppliersHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	e.POST("/auth/login", handlers.Auth.Login)

	secured := e.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager))

	secured.POST("/search", handlers.Search.Search, middlewarepkg.SearchRateLimiter(cfg.RateLimitSearch))
	secured.POST("/prompt-search", handlers.Search.PromptSearch, middlewarepkg.SearchRateLimiter(cfg.RateLimitSearch))
	secured.GET("/suppliers", handlers.Suppliers.List)
	secured.GET("/suppliers/export", handlers.Suppliers.Export)
}
