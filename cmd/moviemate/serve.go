package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/amaumene/moviemate/internal/api"
	"github.com/amaumene/moviemate/internal/config"
	"github.com/amaumene/moviemate/internal/controllers"
	"github.com/amaumene/moviemate/internal/metrics"
	"github.com/amaumene/moviemate/internal/models"
	"github.com/amaumene/moviemate/internal/navigation"
	"github.com/amaumene/moviemate/internal/progress"
	"github.com/amaumene/moviemate/internal/scheduler"
	"github.com/amaumene/moviemate/internal/services/tmdb"
	"github.com/amaumene/moviemate/internal/store"
	"github.com/amaumene/moviemate/internal/utils"
)

const initialTab = "movies"

func serve() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)
	logger.Info("Starting Moviemate")
	logger.WithField("config_dir", filepath.Dir(cfg.DatabaseFile)).Info("Configuration loaded")

	// 3. Initialize database
	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	logger.Info("Database initialized")

	// 4. Load user state
	gauges := &libraryGauges{}
	st, err := store.New(db, logger, store.WithListener(gauges.observe))
	if err != nil {
		return fmt.Errorf("failed to load user state: %w", err)
	}
	gauges.attach(st)

	// 5. Initialize services
	tmdbClient, err := tmdb.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize TMDB client: %w", err)
	}
	logger.Info("TMDB client initialized")

	nav, err := navigation.NewController(initialTab, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize navigation: %w", err)
	}
	nav.Subscribe(countNavigation)

	progressSvc := progress.NewService(tmdbClient, st, time.Duration(cfg.ProgressCacheMinutes)*time.Minute, logger)

	// 6. Initialize controllers
	libraryCtrl := controllers.NewLibraryController(st, db, logger)
	detailsCtrl := controllers.NewDetailsController(nav, tmdbClient, st, logger)
	logger.Info("Controllers initialized")

	// 7. Initialize scheduler
	sched := scheduler.NewScheduler(cfg.ProgressRefreshSchedule, st, progressSvc, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// 8. Initialize HTTP server
	server := api.NewServer(cfg, api.Dependencies{
		Store:      st,
		Library:    libraryCtrl,
		Details:    detailsCtrl,
		Navigation: nav,
		Progress:   progressSvc,
		Catalog:    tmdbClient,
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 9. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Moviemate is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("Moviemate stopped")
	return nil
}

// libraryGauges keeps the per-list gauges in line with the store
type libraryGauges struct {
	st *store.Store
}

func (g *libraryGauges) attach(st *store.Store) {
	g.st = st
	g.refresh()
}

func (g *libraryGauges) observe(change store.Change) {
	metrics.StoreChanges.WithLabelValues(string(change.Kind)).Inc()
	if change.Kind == store.ChangeMembership {
		g.refresh()
	}
}

func (g *libraryGauges) refresh() {
	if g.st == nil {
		return
	}
	for membership, count := range g.st.Counts() {
		if membership == models.MembershipNone {
			continue
		}
		metrics.LibraryTitles.WithLabelValues(string(membership)).Set(float64(count))
	}
}

func countNavigation(event navigation.Event) {
	if event.State == nil {
		metrics.NavigationChanges.WithLabelValues("back").Inc()
		return
	}
	metrics.NavigationChanges.WithLabelValues(string(event.State.Type)).Inc()
}
