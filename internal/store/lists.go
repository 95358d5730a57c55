package store

import (
	"fmt"

	"github.com/amaumene/moviemate/internal/models"
	"github.com/sirupsen/logrus"
)

// AddToWant puts a title on the want list. Repeated calls keep the original
// timestamp. A watched title is left untouched; use MoveToWant for that.
func (s *Store) AddToWant(ref models.MediaRef) error {
	if !ref.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidRef, ref)
	}

	s.mu.Lock()
	current, ok := s.entries[ref]
	if ok {
		s.mu.Unlock()
		if current.Membership == models.MembershipWatched {
			s.logger.WithField("ref", ref).Debug("Title already watched, want ignored")
		}
		return nil
	}

	entry := models.Entry{Ref: ref, Membership: models.MembershipWant, AddedAt: s.now()}
	if err := s.db.Apply(models.Batch{SaveMedia: []*models.MediaRecord{models.NewMediaRecord(entry)}}); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to add %s to want: %w", ref, err)
	}
	s.entries[ref] = entry
	s.mu.Unlock()

	s.logger.WithField("ref", ref).Debug("Added to want")
	s.notify(Change{Kind: ChangeMembership, Ref: ref, From: models.MembershipNone, To: models.MembershipWant})
	return nil
}

// RemoveFromWant takes a title off the want list. Titles not in want are ignored.
func (s *Store) RemoveFromWant(ref models.MediaRef) error {
	s.mu.Lock()
	current, ok := s.entries[ref]
	if !ok || current.Membership != models.MembershipWant {
		s.mu.Unlock()
		return nil
	}

	if err := s.db.Apply(models.Batch{DeleteMedia: []string{ref.Key()}}); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to remove %s from want: %w", ref, err)
	}
	delete(s.entries, ref)
	s.mu.Unlock()

	s.logger.WithField("ref", ref).Debug("Removed from want")
	s.notify(Change{Kind: ChangeMembership, Ref: ref, From: models.MembershipWant, To: models.MembershipNone})
	return nil
}

// AddToWatched marks a title watched now. A want membership is replaced in
// the same write and an attached review is kept.
func (s *Store) AddToWatched(ref models.MediaRef) error {
	_, err := s.MoveToWatched(ref)
	return err
}

// MoveToWatched marks a title watched and returns the membership it had before
func (s *Store) MoveToWatched(ref models.MediaRef) (models.Membership, error) {
	if !ref.Valid() {
		return models.MembershipNone, fmt.Errorf("%w: %s", ErrInvalidRef, ref)
	}

	s.mu.Lock()
	previous := models.MembershipNone
	if current, ok := s.entries[ref]; ok {
		previous = current.Membership
	}

	entry := models.Entry{Ref: ref, Membership: models.MembershipWatched, WatchedAt: s.now()}
	if err := s.db.Apply(models.Batch{SaveMedia: []*models.MediaRecord{models.NewMediaRecord(entry)}}); err != nil {
		s.mu.Unlock()
		return previous, fmt.Errorf("failed to mark %s watched: %w", ref, err)
	}
	s.entries[ref] = entry
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"ref":  ref,
		"from": previous,
	}).Debug("Marked watched")
	s.notify(Change{Kind: ChangeMembership, Ref: ref, From: previous, To: models.MembershipWatched})
	return previous, nil
}

// RemoveFromWatched drops a watched title together with its review
func (s *Store) RemoveFromWatched(ref models.MediaRef) error {
	s.mu.Lock()
	current, ok := s.entries[ref]
	if !ok || current.Membership != models.MembershipWatched {
		s.mu.Unlock()
		return nil
	}

	key := models.TitleReviewKey(ref)
	review, hadReview := s.reviews[key]
	batch := models.Batch{
		DeleteMedia:   []string{ref.Key()},
		DeleteReviews: []string{key.String()},
	}
	if err := s.db.Apply(batch); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to remove %s from watched: %w", ref, err)
	}
	delete(s.entries, ref)
	delete(s.reviews, key)
	s.mu.Unlock()

	s.logger.WithField("ref", ref).Debug("Removed from watched")
	changes := []Change{{Kind: ChangeMembership, Ref: ref, From: models.MembershipWatched, To: models.MembershipNone}}
	if hadReview {
		changes = append(changes, Change{Kind: ChangeReviewRemoved, Ref: ref, Review: &review})
	}
	s.notify(changes...)
	return nil
}

// MoveToWant puts a title back on the want list in one write, dropping a
// watched state and its review. It returns the previous membership.
func (s *Store) MoveToWant(ref models.MediaRef) (models.Membership, error) {
	if !ref.Valid() {
		return models.MembershipNone, fmt.Errorf("%w: %s", ErrInvalidRef, ref)
	}

	s.mu.Lock()
	previous := models.MembershipNone
	if current, ok := s.entries[ref]; ok {
		previous = current.Membership
	}
	if previous == models.MembershipWant {
		s.mu.Unlock()
		return previous, nil
	}

	key := models.TitleReviewKey(ref)
	review, hadReview := s.reviews[key]
	entry := models.Entry{Ref: ref, Membership: models.MembershipWant, AddedAt: s.now()}
	batch := models.Batch{
		SaveMedia:     []*models.MediaRecord{models.NewMediaRecord(entry)},
		DeleteReviews: []string{key.String()},
	}
	if err := s.db.Apply(batch); err != nil {
		s.mu.Unlock()
		return previous, fmt.Errorf("failed to move %s to want: %w", ref, err)
	}
	s.entries[ref] = entry
	delete(s.reviews, key)
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"ref":  ref,
		"from": previous,
	}).Debug("Moved to want")
	changes := []Change{{Kind: ChangeMembership, Ref: ref, From: previous, To: models.MembershipWant}}
	if hadReview {
		changes = append(changes, Change{Kind: ChangeReviewRemoved, Ref: ref, Review: &review})
	}
	s.notify(changes...)
	return previous, nil
}
