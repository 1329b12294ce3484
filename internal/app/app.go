package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog-api/internal/config"
	"blog-api/internal/database"
	"blog-api/internal/event"
	"blog-api/internal/handler"
	"blog-api/internal/middleware"
	"blog-api/internal/repository"
	"blog-api/internal/repository/memory"
	"blog-api/internal/repository/postgres"
	"blog-api/internal/repository/sqlite"
	"blog-api/internal/router"
	"blog-api/internal/service"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	server     *http.Server
	store      repository.Store
	stopEvents context.CancelFunc
}

// New opens and migrates the configured store and wires the HTTP stack.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return NewWithStore(cfg, store), nil
}

// NewWithStore wires the HTTP stack over an already opened store.
func NewWithStore(cfg *config.Config, store repository.Store) *App {
	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	userService := service.NewUserService(store, hasher)
	authService := service.NewAuthService(store.Users(), hasher, tokenService)
	bus := event.NewBus()
	blogService := service.NewBlogService(store, bus)

	authMiddleware := middleware.NewAuthMiddleware(tokenService, userService)

	appRouter := router.New(cfg, authMiddleware, router.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		Users:  handler.NewUserHandler(userService),
		Posts:  handler.NewPostHandler(blogService),
		Stats:  handler.NewStatsHandler(blogService),
		Health: handler.NewHealthHandler(store),
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	eventsCtx, stopEvents := context.WithCancel(context.Background())
	go event.RunAuditLog(eventsCtx, bus, slog.Default().With("component", "audit"))

	return &App{server: server, store: store, stopEvents: stopEvents}
}

func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		slog.Info("migrating PostgreSQL schema")
		if err := database.MigratePostgres(cfg.DatabaseURL); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}

		slog.Info("connecting to PostgreSQL")
		pool, err := database.OpenPostgres(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return postgres.New(pool), nil

	case config.DriverSQLite:
		slog.Info("opening SQLite database", "path", cfg.SQLitePath)
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := database.MigrateSQLite(db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return sqlite.New(db), nil

	case config.DriverMemory:
		slog.Warn("using in-memory store, data is lost on exit")
		return memory.New(), nil
	}

	return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
}

func (a *App) Handler() http.Handler {
	return a.server.Handler
}

func (a *App) Close() error {
	a.stopEvents()
	return a.store.Close()
}

// Run serves until SIGINT or SIGTERM, then drains in-flight requests and
// closes the store.
func (a *App) Run() error {
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-serveErr:
		if err != nil {
			_ = a.Close()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	shutdownErr := a.server.Shutdown(ctx)
	if err := a.Close(); err != nil {
		slog.Error("failed to close store", "error", err)
	}
	if shutdownErr != nil {
		return fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
	}

	slog.Info("server stopped")
	return nil
}
