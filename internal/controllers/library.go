package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/amaumene/moviemate/internal/models"
	"github.com/amaumene/moviemate/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrNoReview is returned when editing a review that does not exist
var ErrNoReview = errors.New("no review to edit")

// ActivityLog is the append-only activity feed
type ActivityLog interface {
	AddActivity(record *models.ActivityRecord) error
	GetActivities(limit int) ([]*models.ActivityRecord, error)
}

// LibraryController handles the user's list and review actions and records
// each applied action in the activity feed
type LibraryController struct {
	store      *store.Store
	activities ActivityLog
	now        func() time.Time
	logger     *logrus.Logger
}

// NewLibraryController creates a new library controller
func NewLibraryController(st *store.Store, activities ActivityLog, logger *logrus.Logger) *LibraryController {
	return &LibraryController{
		store:      st,
		activities: activities,
		now:        time.Now,
		logger:     logger,
	}
}

// record appends to the activity feed. The user action already happened, so
// a failed write is logged and not returned.
func (c *LibraryController) record(ref models.MediaRef, season int, kind models.ActivityKind) {
	record := &models.ActivityRecord{
		ID:        uuid.NewString(),
		MediaID:   ref.ID,
		MediaType: ref.MediaType,
		Season:    season,
		Kind:      kind,
		CreatedAt: c.now(),
	}
	if err := c.activities.AddActivity(record); err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"ref":  ref.String(),
			"kind": kind,
		}).Error("Failed to record activity")
	}
}

// Want adds a title to the want list
func (c *LibraryController) Want(ref models.MediaRef) (models.Membership, error) {
	before := c.store.State(ref)
	if err := c.store.AddToWant(ref); err != nil {
		return before, err
	}

	after := c.store.State(ref)
	if before == models.MembershipNone && after == models.MembershipWant {
		c.record(ref, 0, models.ActivityWant)
	}
	return after, nil
}

// MarkWatched marks a title watched without touching its review
func (c *LibraryController) MarkWatched(ref models.MediaRef) (models.Membership, error) {
	previous, err := c.store.MoveToWatched(ref)
	if err != nil {
		return previous, err
	}
	if previous != models.MembershipWatched {
		c.record(ref, 0, models.ActivityWatched)
	}
	return models.MembershipWatched, nil
}

// MoveToWatched moves a wanted title to the watched list
func (c *LibraryController) MoveToWatched(ref models.MediaRef) (models.Membership, error) {
	previous, err := c.store.MoveToWatched(ref)
	if err != nil {
		return previous, err
	}
	if previous == models.MembershipWant {
		c.record(ref, 0, models.ActivityRemovedFromWant)
	}
	if previous != models.MembershipWatched {
		c.record(ref, 0, models.ActivityWatched)
	}
	return models.MembershipWatched, nil
}

// MoveToWant moves a watched title back to the want list. Its review is dropped.
func (c *LibraryController) MoveToWant(ref models.MediaRef) (models.Membership, error) {
	previous, err := c.store.MoveToWant(ref)
	if err != nil {
		return previous, err
	}
	if previous == models.MembershipWatched {
		c.record(ref, 0, models.ActivityRemovedFromWatched)
	}
	if previous != models.MembershipWant {
		c.record(ref, 0, models.ActivityWant)
	}
	return models.MembershipWant, nil
}

// RemoveFromWant takes a title off the want list
func (c *LibraryController) RemoveFromWant(ref models.MediaRef) (models.Membership, error) {
	before := c.store.State(ref)
	if err := c.store.RemoveFromWant(ref); err != nil {
		return before, err
	}
	if before == models.MembershipWant {
		c.record(ref, 0, models.ActivityRemovedFromWant)
	}
	return c.store.State(ref), nil
}

// RemoveFromWatched takes a title off the watched list together with its review
func (c *LibraryController) RemoveFromWatched(ref models.MediaRef) (models.Membership, error) {
	before := c.store.State(ref)
	if err := c.store.RemoveFromWatched(ref); err != nil {
		return before, err
	}
	if before == models.MembershipWatched {
		c.record(ref, 0, models.ActivityRemovedFromWatched)
	}
	return c.store.State(ref), nil
}

// SubmitReview saves a review from the review dialog. Rating "X" deletes the
// existing review. It reports whether a review is stored afterwards.
func (c *LibraryController) SubmitReview(key models.ReviewKey, review models.Review) (bool, error) {
	_, existed := c.store.Review(key)

	if review.Rating == models.RatingDelete {
		if err := c.store.RemoveReview(key); err != nil {
			return existed, err
		}
		if existed {
			c.record(key.Ref, key.Season, models.ActivityReviewRemoved)
		}
		return false, nil
	}

	if err := c.store.SaveReview(key, review); err != nil {
		return existed, err
	}

	kind := models.ActivityReview
	if existed {
		kind = models.ActivityEditedReview
	}
	c.record(key.Ref, key.Season, kind)

	c.logger.WithFields(logrus.Fields{
		"key":    key.String(),
		"rating": review.Rating,
		"shared": review.Shared,
	}).Info("Review submitted")
	return true, nil
}

// EditReview changes an existing review, keeping its creation time
func (c *LibraryController) EditReview(key models.ReviewKey, rating models.Rating, text string, shared bool) (bool, error) {
	if _, ok := c.store.Review(key); !ok {
		return false, fmt.Errorf("%w: %s", ErrNoReview, key)
	}
	return c.SubmitReview(key, models.Review{Rating: rating, Text: text, Shared: shared})
}

// Activities returns the activity feed, newest first
func (c *LibraryController) Activities(limit int) ([]models.Activity, error) {
	records, err := c.activities.GetActivities(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get activities: %w", err)
	}

	activities := make([]models.Activity, 0, len(records))
	for _, record := range records {
		activities = append(activities, record.Activity())
	}
	return activities, nil
}
