// Package app wires configuration, services, and HTTP routing for the
// admissions explorer.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"admissions-explorer/internal/api"
	"admissions-explorer/internal/cleaning"
	"admissions-explorer/internal/config"
	"admissions-explorer/internal/middleware"
	"admissions-explorer/internal/service/dataset"
	"admissions-explorer/internal/service/session"
	"admissions-explorer/internal/ui"
	"admissions-explorer/internal/warehouse"
)

const shutdownTimeout = 15 * time.Second

// Deps holds what main() must provide.
type Deps struct {
	Cfg    *config.Config
	Logger *slog.Logger
	// SkipWarehouse leaves the warehouse closed; /healthz then omits the
	// last publish.
	SkipWarehouse bool
}

// App holds the wired services.
type App struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Loader   *cleaning.Loader
	Datasets *dataset.Service
	Sessions *session.Manager
	Store    *warehouse.Store // nil when the warehouse is skipped

	db *sql.DB
}

// New resolves the sources and builds the services.
func New(ctx context.Context, deps Deps) (*App, error) {
	cfg := deps.Cfg
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	sources, err := cfg.Sources()
	if err != nil {
		return nil, fmt.Errorf("resolve sources: %w", err)
	}
	loader := cleaning.NewLoader(sources, logger)

	a := &App{
		Cfg:      cfg,
		Logger:   logger,
		Loader:   loader,
		Datasets: dataset.NewService(loader, logger),
		Sessions: session.NewManager(func() *dataset.Service {
			return dataset.NewService(loader, logger)
		}, cfg.IsProduction(), logger),
	}
	a.Sessions.SetIdleTTL(cfg.SessionIdleTTL)

	if !deps.SkipWarehouse && cfg.WarehouseDBPath != "" {
		db, err := warehouse.Open(ctx, cfg.WarehouseDBPath)
		if err != nil {
			return nil, fmt.Errorf("open warehouse: %w", err)
		}
		a.db = db
		a.Store = warehouse.NewStore(db, logger)
	}
	return a, nil
}

// Close releases the warehouse connection.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Router builds the HTTP handler. ctx bounds background middleware work.
func (a *App) Router(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(a.Logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.Cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))
	r.Use(middleware.RateLimiter(ctx, middleware.RateLimitConfig{
		RequestsPerSecond: a.Cfg.RateLimitRPS,
		Burst:             a.Cfg.RateLimitBurst,
	}))

	go a.Sessions.Run(ctx)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ui", http.StatusFound)
	})
	r.Route("/ui", func(r chi.Router) {
		ui.MountRoutes(r, ui.NewHandler(a.Sessions, a.Cfg.StaticCharts(), a.Logger))
	})

	var history api.PublishHistory
	if a.Store != nil {
		history = a.Store
	}
	api.NewHandler(a.Datasets, history, a.Logger).Mount(r)
	return r
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Cfg.ListenAddr,
		Handler:           a.Router(ctx),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("admissions explorer listening", "addr", a.Cfg.ListenAddr, "charts", a.Cfg.ChartRender)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
