// Package server hosts the HTTP API over the campus graph, the room
// directory, tags and labels.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/campus-nav/internal/campus"
	"github.com/xkilldash9x/campus-nav/internal/config"
	"github.com/xkilldash9x/campus-nav/internal/labels"
	"github.com/xkilldash9x/campus-nav/internal/navigation"
	"github.com/xkilldash9x/campus-nav/internal/observability"
	"github.com/xkilldash9x/campus-nav/internal/routing"
	"github.com/xkilldash9x/campus-nav/internal/search"
	"github.com/xkilldash9x/campus-nav/internal/tags"
)

// Server wires the campus services behind the HTTP API.
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	graph      *campus.Graph
	directory  *campus.Directory
	calculator *routing.Calculator
	navigator  *navigation.Navigator
	tagManager *tags.Manager
	tagSearch  *tags.SearchService
	labels     *labels.Manager
	search     *search.Service

	handlers   *Handlers
	httpServer *http.Server
	dbPool     *pgxpool.Pool
}

// NewServer initializes every service from the configuration: the static
// campus dataset, the tag and label stores (file or postgres) and the
// handler set.
func NewServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	data := campus.DefaultGraphData()
	if cfg.Campus.DataFile != "" {
		loaded, err := campus.LoadGraphData(cfg.Campus.DataFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load campus dataset: %w", err)
		}
		data = loaded
	}

	graph := campus.NewGraph(data, logger)
	// The dataset file carries nodes and edges only, so room enumeration
	// always uses the built-in block specs.
	directory := campus.NewDefaultDirectory(logger)
	calculator := routing.NewCalculator(graph, logger)
	navigator := navigation.NewNavigator(graph, directory, logger)

	var (
		tagStore tags.Store
		dbPool   *pgxpool.Pool
	)
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.Storage.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create database connection pool: %w", err)
		}
		pgStore, err := tags.NewPostgresStore(ctx, pool, logger)
		if err != nil {
			pool.Close()
			return nil, err
		}
		dbPool = pool
		tagStore = pgStore
		logger.Info("Tag storage backend initialized (postgres).")
	default:
		tagStore = tags.NewFileStore(cfg.Storage.TagsPath(), logger)
		logger.Info("Tag storage backend initialized (file).",
			zap.String("path", cfg.Storage.TagsPath()))
	}

	tagManager, err := tags.NewManager(ctx, tagStore, logger)
	if err != nil {
		if dbPool != nil {
			dbPool.Close()
		}
		return nil, err
	}
	tagSearch := tags.NewSearchService(tagManager, logger)

	labelStore := labels.NewFileStore(cfg.Storage.LabelsPath(), logger)
	labelManager, err := labels.NewManager(ctx, labelStore, logger)
	if err != nil {
		if dbPool != nil {
			dbPool.Close()
		}
		return nil, err
	}

	searchService := search.NewService(graph, directory, labelManager, logger)

	handlers := NewHandlers(logger, graph, directory, calculator, navigator,
		tagManager, tagSearch, labelManager, searchService)

	return &Server{
		cfg:        cfg,
		logger:     logger,
		graph:      graph,
		directory:  directory,
		calculator: calculator,
		navigator:  navigator,
		tagManager: tagManager,
		tagSearch:  tagSearch,
		labels:     labelManager,
		search:     searchService,
		handlers:   handlers,
		dbPool:     dbPool,
	}, nil
}

// Router builds the full HTTP handler, separated from Start so tests can
// exercise routes without opening a listener.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware)
	r.Use(s.rateLimitMiddleware())
	r.Use(s.requestLogger())

	r.Get("/ws/v1/search", s.handleLiveSearch())
	s.handlers.RegisterRoutes(r)

	return r
}

// Start runs the listener until the context is cancelled or a shutdown
// signal arrives.
func (s *Server) Start(ctx context.Context) error {
	defer observability.Sync()

	s.httpServer = &http.Server{
		Addr:    s.cfg.Server.Addr(),
		Handler: s.Router(),
	}

	s.logger.Info("Campus navigation server starting",
		zap.String("address", s.cfg.Server.Addr()),
		zap.String("storage", string(s.cfg.Storage.Backend)))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigint)

		select {
		case <-gctx.Done():
		case <-sigint:
			s.logger.Info("Received shutdown signal, shutting down gracefully...")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("HTTP server shutdown error", zap.Error(err))
		}

		if s.dbPool != nil {
			s.logger.Info("Closing database connections...")
			s.dbPool.Close()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("HTTP server stopped with error", zap.Error(err))
		return err
	}
	s.logger.Info("Campus navigation server stopped.")
	return nil
}

// rateLimitMiddleware applies a server-wide token bucket.
func (s *Server) rateLimitMiddleware() func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(s.cfg.Server.RateLimit), s.cfg.Server.Burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger logs each request through zap instead of chi's stdlib logger.
func (s *Server) requestLogger() func(http.Handler) http.Handler {
	log := s.logger.Named("http")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Debug("Request handled",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)))
		})
	}
}

// corsMiddleware allows cross-origin access for local frontend development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
