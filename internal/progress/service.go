// Package progress derives show watch progress from the episode lists served
// by the metadata API and the user's episode watched marks.
package progress

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/amaumene/moviemate/internal/metrics"
	"github.com/amaumene/moviemate/internal/models"
	"github.com/amaumene/moviemate/internal/services/tmdb"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
)

// defaultMaxFetches bounds concurrent episode list fetches in a batch
const defaultMaxFetches = 4

// SeasonSource serves the regular seasons of a show
type SeasonSource interface {
	GetSeasons(ctx context.Context, tvID int) ([]tmdb.Season, error)
}

// UserState serves the user's episode marks and reviews
type UserState interface {
	WatchedEpisodes(showID int) map[models.EpisodeRef]time.Time
	Review(key models.ReviewKey) (models.Review, bool)
}

// Service computes ShowProgress values. Episode lists are cached; the user's
// marks are always read fresh.
type Service struct {
	seasons    SeasonSource
	state      UserState
	episodes   *cache.Cache
	maxFetches int
	logger     *logrus.Logger
}

// NewService creates a progress service caching episode lists for ttl
func NewService(seasons SeasonSource, state UserState, ttl time.Duration, logger *logrus.Logger) *Service {
	return &Service{
		seasons:    seasons,
		state:      state,
		episodes:   cache.New(ttl, 2*ttl),
		maxFetches: defaultMaxFetches,
		logger:     logger,
	}
}

func cacheKey(showID int) string {
	return strconv.Itoa(showID)
}

// episodeList returns the regular episodes of a show, from cache when possible
func (s *Service) episodeList(ctx context.Context, showID int) ([]models.EpisodeRef, error) {
	if showID <= 0 {
		return nil, fmt.Errorf("invalid show id %d", showID)
	}

	if cached, ok := s.episodes.Get(cacheKey(showID)); ok {
		metrics.ProgressLookups.WithLabelValues("hit").Inc()
		return cached.([]models.EpisodeRef), nil
	}

	seasons, err := s.seasons.GetSeasons(ctx, showID)
	if err != nil {
		metrics.ProgressLookups.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to get episodes of show %d: %w", showID, err)
	}
	metrics.ProgressLookups.WithLabelValues("miss").Inc()

	var episodes []models.EpisodeRef
	for _, season := range seasons {
		if season.SeasonNumber <= 0 {
			continue
		}
		for _, episode := range season.Episodes {
			episodes = append(episodes, models.EpisodeRef{Season: season.SeasonNumber, Episode: episode.EpisodeNumber})
		}
	}

	s.episodes.Set(cacheKey(showID), episodes, cache.DefaultExpiration)
	return episodes, nil
}

// compute intersects an episode list with the user's marks
func (s *Service) compute(showID int, episodes []models.EpisodeRef) models.ShowProgress {
	marks := s.state.WatchedEpisodes(showID)

	watched := 0
	for _, episode := range episodes {
		if _, ok := marks[episode]; ok {
			watched++
		}
	}

	progress := models.ShowProgress{
		ShowID:          showID,
		WatchedEpisodes: watched,
		TotalEpisodes:   len(episodes),
		Available:       true,
	}
	if review, ok := s.state.Review(models.TitleReviewKey(models.MediaRef{ID: showID, MediaType: models.MediaTypeTV})); ok {
		progress.Rating = review.Rating
	}
	return progress
}

// placeholder is the progress reported when a show's episodes are unavailable
func placeholder(showID int) models.ShowProgress {
	return models.ShowProgress{ShowID: showID}
}

// ShowProgress returns the progress of one show. A failed fetch yields the
// placeholder {ShowID, 0, 0, Available: false}.
func (s *Service) ShowProgress(ctx context.Context, showID int) models.ShowProgress {
	episodes, err := s.episodeList(ctx, showID)
	if err != nil {
		s.logger.WithError(err).WithField("show_id", showID).Warn("Show progress unavailable")
		return placeholder(showID)
	}
	return s.compute(showID, episodes)
}

// BatchShowProgress returns one result per id, in input order. Each distinct
// show is fetched once and failures stay isolated to their own entry.
func (s *Service) BatchShowProgress(ctx context.Context, showIDs []int) []models.ShowProgress {
	type fetched struct {
		episodes []models.EpisodeRef
		err      error
	}

	var unique []int
	seen := make(map[int]bool, len(showIDs))
	for _, id := range showIDs {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	lists := make([]fetched, len(unique))
	p := pool.New().WithMaxGoroutines(s.maxFetches)
	for i, id := range unique {
		p.Go(func() {
			episodes, err := s.episodeList(ctx, id)
			lists[i] = fetched{episodes: episodes, err: err}
		})
	}
	p.Wait()

	byID := make(map[int]fetched, len(unique))
	failures := 0
	for i, id := range unique {
		byID[id] = lists[i]
		if lists[i].err != nil {
			failures++
			s.logger.WithError(lists[i].err).WithField("show_id", id).Warn("Show progress unavailable")
		}
	}

	results := make([]models.ShowProgress, len(showIDs))
	for i, id := range showIDs {
		list := byID[id]
		if list.err != nil {
			results[i] = placeholder(id)
			continue
		}
		results[i] = s.compute(id, list.episodes)
	}

	s.logger.WithFields(logrus.Fields{
		"shows":    len(unique),
		"failures": failures,
	}).Debug("Batch show progress computed")

	return results
}

// Invalidate drops the cached episode list of a show
func (s *Service) Invalidate(showID int) {
	s.episodes.Delete(cacheKey(showID))
}

// Warm fetches episode lists into the cache and returns how many failed
func (s *Service) Warm(ctx context.Context, showIDs []int) int {
	failed := 0
	for _, progress := range s.BatchShowProgress(ctx, showIDs) {
		if !progress.Available {
			failed++
		}
	}
	return failed
}
