package models

import "time"

// MediaRecord persists the list membership of one title
type MediaRecord struct {
	Key        string `boltholdKey:"Key"` // MediaRef.Key()
	ID         int
	MediaType  MediaType
	Membership Membership `boltholdIndex:"Membership"`
	AddedAt    time.Time
	WatchedAt  time.Time
	UpdatedAt  time.Time
}

// Entry converts the record into its in-memory form
func (r *MediaRecord) Entry() Entry {
	return Entry{
		Ref:        MediaRef{ID: r.ID, MediaType: r.MediaType},
		Membership: r.Membership,
		AddedAt:    r.AddedAt,
		WatchedAt:  r.WatchedAt,
	}
}

// NewMediaRecord converts an entry into its persisted form
func NewMediaRecord(e Entry) *MediaRecord {
	return &MediaRecord{
		Key:        e.Ref.Key(),
		ID:         e.Ref.ID,
		MediaType:  e.Ref.MediaType,
		Membership: e.Membership,
		AddedAt:    e.AddedAt,
		WatchedAt:  e.WatchedAt,
	}
}

// ReviewRecord persists a title or season review
type ReviewRecord struct {
	Key       string `boltholdKey:"Key"` // ReviewKey.String()
	ID        int
	MediaType MediaType
	Season    int
	Rating    Rating
	Text      string
	Shared    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReviewKey returns the key the record is stored under
func (r *ReviewRecord) ReviewKey() ReviewKey {
	return ReviewKey{Ref: MediaRef{ID: r.ID, MediaType: r.MediaType}, Season: r.Season}
}

// Review converts the record into its in-memory form
func (r *ReviewRecord) Review() Review {
	return Review{
		Rating:    r.Rating,
		Text:      r.Text,
		CreatedAt: r.CreatedAt,
		Shared:    r.Shared,
	}
}

// NewReviewRecord converts a review into its persisted form
func NewReviewRecord(key ReviewKey, review Review) *ReviewRecord {
	return &ReviewRecord{
		Key:       key.String(),
		ID:        key.Ref.ID,
		MediaType: key.Ref.MediaType,
		Season:    key.Season,
		Rating:    review.Rating,
		Text:      review.Text,
		Shared:    review.Shared,
		CreatedAt: review.CreatedAt,
	}
}

// EpisodeRecord persists a watched mark for one episode
type EpisodeRecord struct {
	Key       string `boltholdKey:"Key"` // "tv:<show>:<season>:<episode>"
	ShowID    int    `boltholdIndex:"ShowID"`
	Season    int
	Episode   int
	WatchedAt time.Time
}

// ActivityRecord persists one activity feed entry
type ActivityRecord struct {
	ID        string `boltholdKey:"ID"`
	MediaID   int
	MediaType MediaType
	Season    int
	Kind      ActivityKind `boltholdIndex:"Kind"`
	CreatedAt time.Time
}

// Activity converts the record into its in-memory form
func (r *ActivityRecord) Activity() Activity {
	return Activity{
		ID:        r.ID,
		Ref:       MediaRef{ID: r.MediaID, MediaType: r.MediaType},
		Season:    r.Season,
		Kind:      r.Kind,
		CreatedAt: r.CreatedAt,
	}
}
