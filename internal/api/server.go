package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/amaumene/moviemate/internal/api/handlers"
	"github.com/amaumene/moviemate/internal/api/middleware"
	"github.com/amaumene/moviemate/internal/config"
	"github.com/amaumene/moviemate/internal/controllers"
	"github.com/amaumene/moviemate/internal/metrics"
	"github.com/amaumene/moviemate/internal/navigation"
	"github.com/amaumene/moviemate/internal/progress"
	"github.com/amaumene/moviemate/internal/store"
	"github.com/sirupsen/logrus"
)

// Dependencies are the components served over HTTP
type Dependencies struct {
	Store      *store.Store
	Library    *controllers.LibraryController
	Details    *controllers.DetailsController
	Navigation *navigation.Controller
	Progress   *progress.Service
	Catalog    handlers.Catalog
}

// Server represents the HTTP server
type Server struct {
	server *http.Server
	deps   Dependencies
	nav    *handlers.NavigationHandler
	logger *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, deps Dependencies, logger *logrus.Logger) *Server {
	s := &Server{
		deps:   deps,
		nav:    handlers.NewNavigationHandler(deps.Navigation, logger),
		logger: logger,
	}

	limiter := middleware.NewRateLimiter(float64(cfg.APIRateLimit), cfg.APIRateLimit*2, cfg.TrustedProxies...)

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      middleware.Logging(middleware.RateLimit(s.Routes(), limiter), logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Routes builds the request multiplexer. Every mux shares the navigation
// event log created with the server.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Health and status
	mux.Handle("GET /health", handlers.NewHealthHandler(s.logger))
	mux.Handle("GET /status", handlers.NewStatusHandler(s.deps.Store, s.deps.Navigation, s.logger))
	mux.Handle("GET /metrics", metrics.Handler())

	// Want and watched lists
	library := handlers.NewLibraryHandler(s.deps.Store, s.deps.Library, s.logger)
	mux.HandleFunc("GET /api/library/{list}", library.List)
	mux.HandleFunc("GET /api/library/{mediaType}/{id}", library.Get)
	mux.HandleFunc("POST /api/library/{mediaType}/{id}/{action}", library.Action)

	// Reviews
	reviews := handlers.NewReviewsHandler(s.deps.Store, s.deps.Library, s.logger)
	mux.HandleFunc("GET /api/reviews/{mediaType}/{id}", reviews.Get)
	mux.HandleFunc("PUT /api/reviews/{mediaType}/{id}", reviews.Put)
	mux.HandleFunc("PATCH /api/reviews/{mediaType}/{id}", reviews.Patch)
	mux.HandleFunc("DELETE /api/reviews/{mediaType}/{id}", reviews.Delete)

	// Episode marks and show progress
	episodes := handlers.NewEpisodesHandler(s.deps.Store, s.logger)
	mux.HandleFunc("GET /api/episodes/{showID}", episodes.List)
	mux.HandleFunc("PUT /api/episodes/{showID}/{season}/{episode}", episodes.Mark)
	mux.HandleFunc("DELETE /api/episodes/{showID}/{season}/{episode}", episodes.Unmark)

	progressHandler := handlers.NewProgressHandler(s.deps.Progress, s.logger)
	mux.HandleFunc("GET /api/progress", progressHandler.Batch)
	mux.HandleFunc("GET /api/progress/{showID}", progressHandler.Show)
	mux.HandleFunc("POST /api/progress/{showID}/refresh", progressHandler.Refresh)

	// Navigation
	nav := s.nav
	mux.HandleFunc("GET /api/nav", nav.Snapshot)
	mux.HandleFunc("GET /api/nav/events", nav.Events)
	mux.HandleFunc("POST /api/nav/back", nav.Back)
	mux.HandleFunc("POST /api/nav/forward", nav.Forward)
	mux.HandleFunc("POST /api/nav/{kind}", nav.Navigate)
	mux.HandleFunc("DELETE /api/nav/modal/{element}", nav.CloseModal)

	// Screens
	mux.Handle("GET /api/details", handlers.NewDetailsHandler(s.deps.Details, s.logger))
	mux.Handle("GET /api/activity", handlers.NewActivityHandler(s.deps.Library, s.logger))

	catalog := handlers.NewCatalogHandler(s.deps.Catalog, s.logger)
	mux.HandleFunc("GET /api/catalog/{mediaType}/{list}", catalog.List)
	mux.HandleFunc("GET /api/search", catalog.Search)
	mux.HandleFunc("GET /api/genres/{mediaType}/{name}", catalog.Genre)

	return mux
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	s.nav.Close()
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
