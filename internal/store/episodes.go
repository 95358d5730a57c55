package store

import (
	"fmt"
	"time"

	"github.com/amaumene/moviemate/internal/models"
)

func episodeKey(showID int, ep models.EpisodeRef) string {
	return fmt.Sprintf("tv:%d:%d:%d", showID, ep.Season, ep.Episode)
}

// episodeSet returns the marks of a show, creating the set; caller holds the lock
func (s *Store) episodeSet(showID int) map[models.EpisodeRef]time.Time {
	set, ok := s.episodes[showID]
	if !ok {
		set = make(map[models.EpisodeRef]time.Time)
		s.episodes[showID] = set
	}
	return set
}

// MarkEpisodeWatched records that an episode was watched. Re-marking keeps
// the first timestamp.
func (s *Store) MarkEpisodeWatched(showID int, ep models.EpisodeRef) error {
	if showID <= 0 || ep.Season <= 0 || ep.Episode <= 0 {
		return fmt.Errorf("%w: episode tv:%d S%dE%d", ErrInvalidRef, showID, ep.Season, ep.Episode)
	}

	s.mu.Lock()
	if _, ok := s.episodes[showID][ep]; ok {
		s.mu.Unlock()
		return nil
	}

	watchedAt := s.now()
	record := &models.EpisodeRecord{
		Key:       episodeKey(showID, ep),
		ShowID:    showID,
		Season:    ep.Season,
		Episode:   ep.Episode,
		WatchedAt: watchedAt,
	}
	if err := s.db.Apply(models.Batch{SaveEpisodes: []*models.EpisodeRecord{record}}); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to mark episode %s: %w", record.Key, err)
	}
	s.episodeSet(showID)[ep] = watchedAt
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeEpisode, Ref: models.MediaRef{ID: showID, MediaType: models.MediaTypeTV}, Episode: &ep, Watched: true})
	return nil
}

// UnmarkEpisode removes an episode watched mark
func (s *Store) UnmarkEpisode(showID int, ep models.EpisodeRef) error {
	s.mu.Lock()
	if _, ok := s.episodes[showID][ep]; !ok {
		s.mu.Unlock()
		return nil
	}

	key := episodeKey(showID, ep)
	if err := s.db.Apply(models.Batch{DeleteEpisodes: []string{key}}); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to unmark episode %s: %w", key, err)
	}
	delete(s.episodes[showID], ep)
	if len(s.episodes[showID]) == 0 {
		delete(s.episodes, showID)
	}
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeEpisode, Ref: models.MediaRef{ID: showID, MediaType: models.MediaTypeTV}, Episode: &ep, Watched: false})
	return nil
}

// IsEpisodeWatched reports whether an episode carries a watched mark
func (s *Store) IsEpisodeWatched(showID int, ep models.EpisodeRef) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.episodes[showID][ep]
	return ok
}

// WatchedEpisodes returns a copy of the watched marks of a show
func (s *Store) WatchedEpisodes(showID int) map[models.EpisodeRef]time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	marks := make(map[models.EpisodeRef]time.Time, len(s.episodes[showID]))
	for ep, at := range s.episodes[showID] {
		marks[ep] = at
	}
	return marks
}
