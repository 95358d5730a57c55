package controllers

import (
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/amaumene/moviemate/internal/models"
	"github.com/amaumene/moviemate/internal/store"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func openTestLibrary(t *testing.T) (*LibraryController, *store.Store) {
	t.Helper()

	db, err := models.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	st, err := store.New(db, testLogger())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	c := NewLibraryController(st, db, testLogger())
	c.now = tickingClock()
	return c, st
}

// tickingClock advances one second per call so activity order is deterministic
func tickingClock() func() time.Time {
	current := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func activityKinds(t *testing.T, c *LibraryController) []models.ActivityKind {
	t.Helper()

	activities, err := c.Activities(0)
	if err != nil {
		t.Fatalf("Activities failed: %v", err)
	}
	kinds := make([]models.ActivityKind, 0, len(activities))
	// oldest first reads easier in assertions
	for i := len(activities) - 1; i >= 0; i-- {
		kinds = append(kinds, activities[i].Kind)
	}
	return kinds
}

func equalKinds(a, b []models.ActivityKind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestWantThenMoveToWatchedRecordsActivity(t *testing.T) {
	c, st := openTestLibrary(t)
	ref := models.MediaRef{ID: 550, MediaType: models.MediaTypeMovie}

	if state, err := c.Want(ref); err != nil || state != models.MembershipWant {
		t.Fatalf("Want returned %s, %v", state, err)
	}
	// repeated want records nothing
	if _, err := c.Want(ref); err != nil {
		t.Fatalf("Want failed: %v", err)
	}
	if state, err := c.MoveToWatched(ref); err != nil || state != models.MembershipWatched {
		t.Fatalf("MoveToWatched returned %s, %v", state, err)
	}
	if st.State(ref) != models.MembershipWatched {
		t.Errorf("Expected watched, got %s", st.State(ref))
	}

	want := []models.ActivityKind{models.ActivityWant, models.ActivityRemovedFromWant, models.ActivityWatched}
	if got := activityKinds(t, c); !equalKinds(got, want) {
		t.Errorf("Expected activities %v, got %v", want, got)
	}
}

func TestMoveToWantDropsReviewAndRecords(t *testing.T) {
	c, st := openTestLibrary(t)
	ref := models.MediaRef{ID: 1399, MediaType: models.MediaTypeTV}
	key := models.TitleReviewKey(ref)

	if _, err := c.MarkWatched(ref); err != nil {
		t.Fatalf("MarkWatched failed: %v", err)
	}
	if _, err := c.SubmitReview(key, models.Review{Rating: "8", Text: "Great"}); err != nil {
		t.Fatalf("SubmitReview failed: %v", err)
	}
	if _, err := c.MoveToWant(ref); err != nil {
		t.Fatalf("MoveToWant failed: %v", err)
	}

	if _, ok := st.Review(key); ok {
		t.Error("Expected review removed when moving back to want")
	}
	want := []models.ActivityKind{
		models.ActivityWatched,
		models.ActivityReview,
		models.ActivityRemovedFromWatched,
		models.ActivityWant,
	}
	if got := activityKinds(t, c); !equalKinds(got, want) {
		t.Errorf("Expected activities %v, got %v", want, got)
	}
}

func TestSubmitReviewEditAndDelete(t *testing.T) {
	c, st := openTestLibrary(t)
	key := models.SeasonReviewKey(1399, 2)

	if err := st.AddToWant(key.Ref); err != nil {
		t.Fatalf("AddToWant failed: %v", err)
	}
	stored, err := c.SubmitReview(key, models.Review{Rating: "7", Text: "Solid"})
	if err != nil || !stored {
		t.Fatalf("SubmitReview returned %v, %v", stored, err)
	}
	first, _ := st.Review(key)

	if _, err := c.EditReview(key, "9", "Better on rewatch", true); err != nil {
		t.Fatalf("EditReview failed: %v", err)
	}
	edited, _ := st.Review(key)
	if edited.Rating != "9" || !edited.Shared {
		t.Errorf("Unexpected edited review %+v", edited)
	}
	if !edited.CreatedAt.Equal(first.CreatedAt) {
		t.Error("Editing must keep the creation time")
	}

	stored, err = c.SubmitReview(key, models.Review{Rating: models.RatingDelete})
	if err != nil || stored {
		t.Fatalf("Delete returned %v, %v", stored, err)
	}
	if _, ok := st.Review(key); ok {
		t.Error("Expected review removed")
	}

	want := []models.ActivityKind{models.ActivityReview, models.ActivityEditedReview, models.ActivityReviewRemoved}
	if got := activityKinds(t, c); !equalKinds(got, want) {
		t.Errorf("Expected activities %v, got %v", want, got)
	}
}

func TestEditReviewRequiresExistingReview(t *testing.T) {
	c, _ := openTestLibrary(t)
	key := models.TitleReviewKey(models.MediaRef{ID: 550, MediaType: models.MediaTypeMovie})

	if _, err := c.EditReview(key, "5", "", false); !errors.Is(err, ErrNoReview) {
		t.Errorf("Expected ErrNoReview, got %v", err)
	}
}

func TestRemovalsOfAbsentTitlesRecordNothing(t *testing.T) {
	c, _ := openTestLibrary(t)
	ref := models.MediaRef{ID: 807, MediaType: models.MediaTypeMovie}

	if state, err := c.RemoveFromWant(ref); err != nil || state != models.MembershipNone {
		t.Fatalf("RemoveFromWant returned %s, %v", state, err)
	}
	if state, err := c.RemoveFromWatched(ref); err != nil || state != models.MembershipNone {
		t.Fatalf("RemoveFromWatched returned %s, %v", state, err)
	}
	if _, err := c.SubmitReview(models.TitleReviewKey(ref), models.Review{Rating: models.RatingDelete}); err != nil {
		t.Fatalf("Deleting a missing review failed: %v", err)
	}

	if got := activityKinds(t, c); len(got) != 0 {
		t.Errorf("Expected no activities, got %v", got)
	}
}

func TestInvalidReviewIsRejected(t *testing.T) {
	c, _ := openTestLibrary(t)
	key := models.TitleReviewKey(models.MediaRef{ID: 550, MediaType: models.MediaTypeMovie})

	if _, err := c.SubmitReview(key, models.Review{Rating: "11"}); !errors.Is(err, store.ErrInvalidReview) {
		t.Errorf("Expected ErrInvalidReview, got %v", err)
	}
	if got := activityKinds(t, c); len(got) != 0 {
		t.Errorf("Expected no activities, got %v", got)
	}
}
