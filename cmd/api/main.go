package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/octobees/supplier-finder/internal/auth"
	"github.com/octobees/supplier-finder/internal/config"
	"github.com/octobees/supplier-finder/internal/database"
	"github.com/octobees/supplier-finder/internal/enrich"
	"github.com/octobees/supplier-finder/internal/handler"
	"github.com/octobees/supplier-finder/internal/harvest"
	middlewarepkg "github.com/octobees/supplier-finder/internal/middleware"
	"github.com/octobees/supplier-finder/internal/repository"
	"github.com/octobees/supplier-finder/internal/router"
	"github.com/octobees/supplier-finder/internal/search"
	"github.com/octobees/supplier-finder/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer pool.Close()

	suppliersRepo := repository.NewPGXSuppliersRepository(pool)
	if err := suppliersRepo.EnsureSchema(ctx); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	searcher, err := buildSearcher(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to configure search provider: %v", err)
	}

	harvester := harvest.New(harvest.Config{
		RequestTimeout:  cfg.Harvest.RequestTimeout,
		SiteBudget:      cfg.Harvest.SiteBudget,
		MaxContactPages: cfg.Harvest.MaxContactPages,
	}, logger)

	validator := service.NewContactValidator(cfg.DefaultPhoneRegion)

	var enricher enrich.Enricher
	if cfg.HunterAPIKey != "" {
		enricher = enrich.NewHunterClient(cfg.HunterAPIKey)
	}

	finderService := service.NewFinderService(searcher, harvester, enricher, validator, suppliersRepo, logger)
	promptService := service.NewPromptService(cfg.DefaultSearchRegion)
	authService := service.NewAuthService(cfg.OperatorEmail, cfg.OperatorPasswordHash, jwtManager)
	suppliersService := service.NewSuppliersService(suppliersRepo)

	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Search:    handler.NewSearchHandler(finderService, promptService),
		Suppliers: handler.NewSuppliersHandler(suppliersService),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(logger))
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, handlers)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

// buildSearcher prefers SerpAPI when a key is present and falls back to the
// Google Custom Search JSON API.
func buildSearcher(ctx context.Context, cfg *config.Config) (search.Searcher, error) {
	if cfg.SerpAPIKey != "" {
		return search.NewSerpAPIClient(cfg.SerpAPIKey)
	}
	if cfg.GoogleCSEKey != "" && cfg.GoogleCSECX != "" {
		return search.NewGoogleCSEClient(ctx, cfg.GoogleCSEKey, cfg.GoogleCSECX)
	}
	return nil, errors.New("no search provider configured: set SERPAPI_API_KEY or GOOGLE_CSE_KEY and GOOGLE_CSE_CX")
}
