package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/amaumene/moviemate/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// warmTimeout bounds one progress warm-up run
const warmTimeout = 5 * time.Minute

// Library lists the titles on a user list
type Library interface {
	Entries(membership models.Membership) []models.Entry
}

// ProgressWarmer fetches show episode lists into the progress cache
type ProgressWarmer interface {
	Warm(ctx context.Context, showIDs []int) int
}

// Scheduler manages scheduled tasks
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	library  Library
	progress ProgressWarmer
	logger   *logrus.Logger
}

// NewScheduler creates a new scheduler running the progress warm-up on schedule
func NewScheduler(schedule string, library Library, progress ProgressWarmer, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		schedule: schedule,
		library:  library,
		progress: progress,
		logger:   logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.logger.Info("Starting scheduler")

	_, err := s.cron.AddFunc(s.schedule, func() {
		s.runProgressWarm()
	})
	if err != nil {
		return fmt.Errorf("failed to add progress warm-up job: %w", err)
	}

	s.cron.Start()
	s.logger.WithField("schedule", s.schedule).Info("Scheduler started")

	// Warm immediately so the first progress screen does not wait on TMDB
	go s.runProgressWarm()

	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
}

// trackedShows returns the tv ids on either list, want first
func (s *Scheduler) trackedShows() []int {
	seen := make(map[int]bool)
	var ids []int
	for _, membership := range []models.Membership{models.MembershipWant, models.MembershipWatched} {
		for _, entry := range s.library.Entries(membership) {
			if entry.Ref.MediaType != models.MediaTypeTV || seen[entry.Ref.ID] {
				continue
			}
			seen[entry.Ref.ID] = true
			ids = append(ids, entry.Ref.ID)
		}
	}
	return ids
}

// runProgressWarm executes the progress warm-up job
func (s *Scheduler) runProgressWarm() {
	ids := s.trackedShows()
	if len(ids) == 0 {
		s.logger.Debug("No tracked shows to warm")
		return
	}

	s.logger.WithField("shows", len(ids)).Info("Running scheduled progress warm-up")
	ctx, cancel := context.WithTimeout(context.Background(), warmTimeout)
	defer cancel()

	failed := s.progress.Warm(ctx, ids)
	if failed > 0 {
		s.logger.WithFields(logrus.Fields{
			"shows":  len(ids),
			"failed": failed,
		}).Warn("Progress warm-up completed with failures")
		return
	}
	s.logger.Info("Progress warm-up completed successfully")
}
