package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"tasksAPI/internal/config"
	"tasksAPI/internal/handlers"
	"tasksAPI/internal/logger"
	"tasksAPI/internal/middleware"
	"tasksAPI/internal/migrations"
	"tasksAPI/internal/repository/task/inmemory"
	"tasksAPI/internal/repository/task/postgres"
	"tasksAPI/internal/repository/task/sqlite"
	"tasksAPI/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type store interface {
	service.TaskRepository
	Close()
}

type App struct {
	config     *config.Config
	server     *http.Server
	router     *chi.Mux
	repository store
	service    *service.TaskService
	handler    *handlers.TaskHandler
	shutdowns  []func() // run in reverse order on Close
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) (*App, error) {
	if err := logger.Init(a.config.Logging.Development, a.config.Logging.Level); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("App: flushing logs")
		logger.Sync()
	})

	repo, err := newStore(ctx, a.config)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init repository: %w", err)
	}
	a.repository = repo
	a.shutdowns = append(a.shutdowns, repo.Close)

	a.service = service.NewTaskService(a.repository)
	a.handler = handlers.NewTaskHandler(a.service)
	a.router = a.routes()

	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      otelhttp.NewHandler(a.router, "tasks-api"),
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
		IdleTimeout:  a.config.Server.IdleTimeout,
	}

	logger.Info("App: initialized",
		zap.String("repository", a.config.Repository.Type),
		zap.String("addr", a.server.Addr))
	return a, nil
}

func newStore(ctx context.Context, cfg *config.Config) (store, error) {
	switch cfg.Repository.Type {
	case config.RepositoryPostgres:
		if err := migrations.Up(cfg.Database.URL); err != nil {
			return nil, err
		}
		return postgres.New(ctx, cfg.Database)
	case config.RepositorySQLite:
		return sqlite.New(cfg.SQLite.Path)
	case config.RepositoryInMemory:
		return inmemory.NewTaskStorage(), nil
	default:
		return nil, fmt.Errorf("unknown repository type %q", cfg.Repository.Type)
	}
}

func (a *App) routes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)
	if a.config.Server.RequestTimeout > 0 {
		r.Use(chimw.Timeout(a.config.Server.RequestTimeout))
	}
	r.Use(middleware.RateLimit(a.config.HTTP.RateLimitPerMinute))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.config.HTTP.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIdHeader},
		ExposedHeaders: []string{middleware.RequestIdHeader},
		MaxAge:         300,
	}))

	a.handler.Register(r)
	return r
}

// Handler exposes the routed handler without starting a listener.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run serves until ctx is cancelled, then shuts the server down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("App: server started", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("App: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (a *App) Close() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}
