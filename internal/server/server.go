package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/beingshakil/keyword-planner-tool/internal/analysis"
	"github.com/beingshakil/keyword-planner-tool/internal/api"
	"github.com/beingshakil/keyword-planner-tool/internal/config"
	"github.com/beingshakil/keyword-planner-tool/internal/logging"
	"github.com/beingshakil/keyword-planner-tool/internal/service"
	"github.com/beingshakil/keyword-planner-tool/internal/state"
	"github.com/beingshakil/keyword-planner-tool/internal/store"
)

const shutdownTimeout = 10 * time.Second

// Server is the keyword planner HTTP server with its dependencies
type Server struct {
	cfg        *config.Config
	logger     *zap.Logger
	lists      *store.ListStore
	router     http.Handler
	httpServer *http.Server
}

// New opens the saved-list database and builds the router
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := store.Open(ctx, cfg.Storage.Driver, cfg.Storage.DSN)
	if err != nil {
		return nil, err
	}
	lists := store.NewListStore(db, logger)
	if err := lists.Migrate(ctx); err != nil {
		lists.Close()
		return nil, err
	}

	handler := api.NewHandler(
		state.NewWorkspace(analysis.NewImporter(logger)),
		service.NewKeywordSearch(service.SearchLimits{
			BatchSize:       cfg.Search.BatchSize,
			DefaultPageSize: cfg.Search.DefaultPageSize,
			MaxPageSize:     cfg.Search.MaxPageSize,
		}, logger),
		service.NewExportService(),
		lists,
		api.Options{
			DefaultThreshold: cfg.Search.DefaultThreshold,
			MaxUploadBytes:   cfg.Server.MaxUploadBytes,
		},
		logger,
	)

	return &Server{
		cfg:    cfg,
		logger: logger,
		lists:  lists,
		router: NewRouter(cfg.Server.AllowedOrigins, handler, logger),
	}, nil
}

// NewRouter mounts the API routes behind the standard middleware stack
func NewRouter(allowedOrigins []string, handler *api.Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	// CORS - Allow frontend
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Root endpoint
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Keyword Planner API is running"))
	})

	handler.RegisterRoutes(r)
	return r
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully and closes the database
func (s *Server) Run(ctx context.Context) error {
	defer s.Close()

	s.httpServer = &http.Server{
		Addr:              ":" + s.cfg.Server.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	s.logger.Info("server started",
		zap.String("addr", "http://localhost:"+s.cfg.Server.Port),
		zap.Strings("cors_origins", s.cfg.Server.AllowedOrigins),
		zap.String("db_driver", s.cfg.Storage.Driver))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases the database
func (s *Server) Close() error {
	return s.lists.Close()
}
