package store

import (
	"fmt"

	"github.com/amaumene/moviemate/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"
)

// SaveReview creates or replaces the review under key. A zero CreatedAt keeps
// the timestamp of the review being replaced. Rating "X" deletes the review.
// A title review needs the title on the watched list; a season review needs
// the show on either list.
func (s *Store) SaveReview(key models.ReviewKey, review models.Review) error {
	if !key.Valid() {
		return fmt.Errorf("%w: bad key %s", ErrInvalidReview, key)
	}
	if review.Rating == models.RatingDelete {
		return s.RemoveReview(key)
	}
	if !review.Rating.Valid() {
		return fmt.Errorf("%w: rating %q out of range", ErrInvalidReview, review.Rating)
	}
	review.Text = norm.NFC.String(review.Text)
	if n := len([]rune(review.Text)); n > MaxReviewLength {
		return fmt.Errorf("%w: text is %d characters, limit is %d", ErrInvalidReview, n, MaxReviewLength)
	}

	s.mu.Lock()
	if err := s.checkReviewOwner(key); err != nil {
		s.mu.Unlock()
		return err
	}
	existing, edited := s.reviews[key]
	if review.CreatedAt.IsZero() {
		if edited {
			review.CreatedAt = existing.CreatedAt
		} else {
			review.CreatedAt = s.now()
		}
	}

	batch := models.Batch{SaveReviews: []*models.ReviewRecord{models.NewReviewRecord(key, review)}}
	if err := s.db.Apply(batch); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to save review %s: %w", key, err)
	}
	s.reviews[key] = review
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"key":    key.String(),
		"rating": review.Rating,
		"edited": edited,
	}).Debug("Review saved")
	s.notify(Change{Kind: ChangeReviewSaved, Ref: key.Ref, Season: key.Season, Review: &review})
	return nil
}

// checkReviewOwner must be called with s.mu held
func (s *Store) checkReviewOwner(key models.ReviewKey) error {
	entry, tracked := s.entries[key.Ref]
	if key.Season == 0 {
		if !tracked || entry.Membership != models.MembershipWatched {
			return fmt.Errorf("%w: %s is not watched", ErrInvalidReview, key.Ref)
		}
		return nil
	}
	if !tracked {
		return fmt.Errorf("%w: %s is not on a list", ErrInvalidReview, key.Ref)
	}
	return nil
}

// RemoveReview deletes the review under key without touching list membership
func (s *Store) RemoveReview(key models.ReviewKey) error {
	s.mu.Lock()
	review, ok := s.reviews[key]
	if !ok {
		s.mu.Unlock()
		return nil
	}

	if err := s.db.Apply(models.Batch{DeleteReviews: []string{key.String()}}); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to remove review %s: %w", key, err)
	}
	delete(s.reviews, key)
	s.mu.Unlock()

	s.logger.WithField("key", key.String()).Debug("Review removed")
	s.notify(Change{Kind: ChangeReviewRemoved, Ref: key.Ref, Season: key.Season, Review: &review})
	return nil
}

// Review returns the review under key
func (s *Store) Review(key models.ReviewKey) (models.Review, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	review, ok := s.reviews[key]
	return review, ok
}
