package models

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/timshannon/bolthold"
)

func openTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMediaRecordRoundTrip(t *testing.T) {
	db := openTestDatabase(t)

	ref := MediaRef{ID: 550, MediaType: MediaTypeMovie}
	added := time.Now().Truncate(time.Second)
	if err := db.SaveMedia(NewMediaRecord(Entry{Ref: ref, Membership: MembershipWant, AddedAt: added})); err != nil {
		t.Fatalf("SaveMedia failed: %v", err)
	}

	record, err := db.GetMedia(ref.Key())
	if err != nil {
		t.Fatalf("GetMedia failed: %v", err)
	}
	entry := record.Entry()
	if entry.Ref != ref {
		t.Errorf("Expected ref %v, got %v", ref, entry.Ref)
	}
	if entry.Membership != MembershipWant {
		t.Errorf("Expected want membership, got %s", entry.Membership)
	}
	if !entry.AddedAt.Equal(added) {
		t.Errorf("Expected AddedAt %v, got %v", added, entry.AddedAt)
	}

	wants, err := db.GetMediaByMembership(MembershipWant)
	if err != nil {
		t.Fatalf("GetMediaByMembership failed: %v", err)
	}
	if len(wants) != 1 {
		t.Fatalf("Expected 1 want record, got %d", len(wants))
	}

	if err := db.DeleteMedia(ref.Key()); err != nil {
		t.Fatalf("DeleteMedia failed: %v", err)
	}
	if _, err := db.GetMedia(ref.Key()); !errors.Is(err, bolthold.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestDeleteMissingKeysIsNoop(t *testing.T) {
	db := openTestDatabase(t)

	if err := db.DeleteMedia("movie:1"); err != nil {
		t.Errorf("DeleteMedia on missing key returned %v", err)
	}
	if err := db.DeleteReview("tv:1:s1"); err != nil {
		t.Errorf("DeleteReview on missing key returned %v", err)
	}
	if err := db.DeleteEpisode("tv:1:1:1"); err != nil {
		t.Errorf("DeleteEpisode on missing key returned %v", err)
	}
}

func TestEpisodesByShow(t *testing.T) {
	db := openTestDatabase(t)

	for _, rec := range []*EpisodeRecord{
		{Key: "tv:1:1:1", ShowID: 1, Season: 1, Episode: 1},
		{Key: "tv:1:1:2", ShowID: 1, Season: 1, Episode: 2},
		{Key: "tv:2:1:1", ShowID: 2, Season: 1, Episode: 1},
	} {
		if err := db.SaveEpisode(rec); err != nil {
			t.Fatalf("SaveEpisode failed: %v", err)
		}
	}

	episodes, err := db.GetEpisodesByShow(1)
	if err != nil {
		t.Fatalf("GetEpisodesByShow failed: %v", err)
	}
	if len(episodes) != 2 {
		t.Errorf("Expected 2 episodes for show 1, got %d", len(episodes))
	}
}

func TestActivitiesNewestFirst(t *testing.T) {
	db := openTestDatabase(t)

	base := time.Now()
	for i, id := range []string{"a", "b", "c"} {
		rec := &ActivityRecord{
			ID:        id,
			MediaID:   550,
			MediaType: MediaTypeMovie,
			Kind:      ActivityWant,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.AddActivity(rec); err != nil {
			t.Fatalf("AddActivity failed: %v", err)
		}
	}

	records, err := db.GetActivities(2)
	if err != nil {
		t.Fatalf("GetActivities failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 activities, got %d", len(records))
	}
	if records[0].ID != "c" || records[1].ID != "b" {
		t.Errorf("Expected [c b], got [%s %s]", records[0].ID, records[1].ID)
	}
}

func TestApplyBatchIsAtomicPerCall(t *testing.T) {
	db := openTestDatabase(t)

	ref := MediaRef{ID: 1399, MediaType: MediaTypeTV}
	review := NewReviewRecord(TitleReviewKey(ref), Review{Rating: "9", Text: "great"})
	err := db.Apply(Batch{
		SaveMedia:   []*MediaRecord{NewMediaRecord(Entry{Ref: ref, Membership: MembershipWatched})},
		SaveReviews: []*ReviewRecord{review},
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	reviews, err := db.GetAllReviews()
	if err != nil {
		t.Fatalf("GetAllReviews failed: %v", err)
	}
	if len(reviews) != 1 || reviews[0].Rating != "9" {
		t.Fatalf("Expected one review rated 9, got %+v", reviews)
	}

	// Moving back to want replaces membership and drops the review together
	err = db.Apply(Batch{
		SaveMedia:     []*MediaRecord{NewMediaRecord(Entry{Ref: ref, Membership: MembershipWant})},
		DeleteReviews: []string{review.Key, "tv:1399:s9"},
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	record, err := db.GetMedia(ref.Key())
	if err != nil {
		t.Fatalf("GetMedia failed: %v", err)
	}
	if record.Membership != MembershipWant {
		t.Errorf("Expected want, got %s", record.Membership)
	}
	reviews, _ = db.GetAllReviews()
	if len(reviews) != 0 {
		t.Errorf("Expected review to be deleted, got %d", len(reviews))
	}
}
