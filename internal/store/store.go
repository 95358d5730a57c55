// Package store keeps the user's want/watched lists, reviews and episode
// marks in memory and writes every mutation through to the persistence layer
// before it becomes visible.
package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/amaumene/moviemate/internal/models"
	"github.com/sirupsen/logrus"
)

// MaxReviewLength is the longest review text accepted, in characters
const MaxReviewLength = 500

var (
	ErrInvalidRef    = errors.New("invalid media reference")
	ErrInvalidReview = errors.New("invalid review")
)

// Persistence is the key-value layer backing the store
type Persistence interface {
	GetAllMedia() ([]*models.MediaRecord, error)
	GetAllReviews() ([]*models.ReviewRecord, error)
	GetAllEpisodes() ([]*models.EpisodeRecord, error)
	Apply(batch models.Batch) error
}

// Store is the user media state store. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	db       Persistence
	entries  map[models.MediaRef]models.Entry
	reviews  map[models.ReviewKey]models.Review
	episodes map[int]map[models.EpisodeRef]time.Time

	listeners []Listener
	now       func() time.Time
	logger    *logrus.Logger
}

// Option configures a Store
type Option func(*Store)

// WithListener registers a callback invoked after every successful mutation
func WithListener(l Listener) Option {
	return func(s *Store) {
		s.listeners = append(s.listeners, l)
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a store and rebuilds its indices from the persistence layer
func New(db Persistence, logger *logrus.Logger, opts ...Option) (*Store, error) {
	s := &Store{
		db:       db,
		entries:  make(map[models.MediaRef]models.Entry),
		reviews:  make(map[models.ReviewKey]models.Review),
		episodes: make(map[int]map[models.EpisodeRef]time.Time),
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"entries":  len(s.entries),
		"reviews":  len(s.reviews),
		"episodes": len(s.episodes),
	}).Info("User state loaded")

	return s, nil
}

func (s *Store) load() error {
	media, err := s.db.GetAllMedia()
	if err != nil {
		return fmt.Errorf("failed to load media: %w", err)
	}
	for _, record := range media {
		entry := record.Entry()
		if !entry.Ref.Valid() || entry.Membership == models.MembershipNone {
			s.logger.WithField("key", record.Key).Warn("Skipping invalid media record")
			continue
		}
		s.entries[entry.Ref] = entry
	}

	reviews, err := s.db.GetAllReviews()
	if err != nil {
		return fmt.Errorf("failed to load reviews: %w", err)
	}
	for _, record := range reviews {
		s.reviews[record.ReviewKey()] = record.Review()
	}

	episodes, err := s.db.GetAllEpisodes()
	if err != nil {
		return fmt.Errorf("failed to load episodes: %w", err)
	}
	for _, record := range episodes {
		s.episodeSet(record.ShowID)[models.EpisodeRef{Season: record.Season, Episode: record.Episode}] = record.WatchedAt
	}

	return nil
}

// notify delivers changes to listeners; callers must not hold the lock
func (s *Store) notify(changes ...Change) {
	for _, change := range changes {
		for _, l := range s.listeners {
			l(change)
		}
	}
}

// State classifies a title as none, want or watched
func (s *Store) State(ref models.MediaRef) models.Membership {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if entry, ok := s.entries[ref]; ok {
		return entry.Membership
	}
	return models.MembershipNone
}

// Entry returns the list entry of a title
func (s *Store) Entry(ref models.MediaRef) (models.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[ref]
	return entry, ok
}

// Entries lists the titles of one list, most recent first
func (s *Store) Entries(membership models.Membership) []models.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []models.Entry
	for _, entry := range s.entries {
		if entry.Membership == membership {
			entries = append(entries, entry)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		ti, tj := entries[i].AddedAt, entries[j].AddedAt
		if membership == models.MembershipWatched {
			ti, tj = entries[i].WatchedAt, entries[j].WatchedAt
		}
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return entries[i].Ref.Key() < entries[j].Ref.Key()
	})
	return entries
}

// Counts returns the number of titles per list
func (s *Store) Counts() map[models.Membership]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := map[models.Membership]int{
		models.MembershipWant:    0,
		models.MembershipWatched: 0,
	}
	for _, entry := range s.entries {
		counts[entry.Membership]++
	}
	return counts
}
