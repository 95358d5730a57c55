package models

import (
	"fmt"
	"time"
)

// MediaRef identifies a title. It is comparable and used as a map key.
type MediaRef struct {
	ID        int       `json:"id"`
	MediaType MediaType `json:"media_type"`
}

// NewMediaRef builds a validated reference
func NewMediaRef(id int, mediaType MediaType) (MediaRef, error) {
	ref := MediaRef{ID: id, MediaType: mediaType}
	if !ref.Valid() {
		return MediaRef{}, fmt.Errorf("invalid media reference %s:%d", mediaType, id)
	}
	return ref, nil
}

// Valid reports whether the reference has a positive id and a known type
func (r MediaRef) Valid() bool {
	return r.ID > 0 && r.MediaType.Valid()
}

// Key returns the stable persistence key, e.g. "movie:550"
func (r MediaRef) Key() string {
	return fmt.Sprintf("%s:%d", r.MediaType, r.ID)
}

func (r MediaRef) String() string {
	return r.Key()
}

// Entry is the user's list state for one title
type Entry struct {
	Ref        MediaRef   `json:"ref"`
	Membership Membership `json:"membership"`
	AddedAt    time.Time  `json:"added_at,omitempty"`   // set while in want
	WatchedAt  time.Time  `json:"watched_at,omitempty"` // set while watched
}

// Review is a user's rating and comment
type Review struct {
	Rating    Rating    `json:"rating"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Shared    bool      `json:"shared"`
}

// ReviewKey addresses a review. Season 0 is the whole title; a positive
// season addresses a single season of a tv show.
type ReviewKey struct {
	Ref    MediaRef `json:"ref"`
	Season int      `json:"season,omitempty"`
}

// TitleReviewKey addresses the review of a whole title
func TitleReviewKey(ref MediaRef) ReviewKey {
	return ReviewKey{Ref: ref}
}

// SeasonReviewKey addresses the review of one season of a show
func SeasonReviewKey(tvID, season int) ReviewKey {
	return ReviewKey{Ref: MediaRef{ID: tvID, MediaType: MediaTypeTV}, Season: season}
}

// Valid reports whether the key can address a review
func (k ReviewKey) Valid() bool {
	if !k.Ref.Valid() || k.Season < 0 {
		return false
	}
	return k.Season == 0 || k.Ref.MediaType == MediaTypeTV
}

// String returns the stable persistence key, e.g. "tv:1399:s2"
func (k ReviewKey) String() string {
	if k.Season == 0 {
		return k.Ref.Key()
	}
	return fmt.Sprintf("%s:s%d", k.Ref.Key(), k.Season)
}

// EpisodeRef addresses one episode of a show
type EpisodeRef struct {
	Season  int `json:"season"`
	Episode int `json:"episode"`
}

// ShowProgress is derived from a show's episode list and the user's marks.
// Available is false when the episode list could not be fetched.
type ShowProgress struct {
	ShowID          int    `json:"show_id"`
	WatchedEpisodes int    `json:"watched_episodes"`
	TotalEpisodes   int    `json:"total_episodes"`
	Rating          Rating `json:"rating,omitempty"`
	Available       bool   `json:"available"`
}

// Activity is one entry of the user's activity feed
type Activity struct {
	ID        string       `json:"id"`
	Ref       MediaRef     `json:"ref"`
	Season    int          `json:"season,omitempty"`
	Kind      ActivityKind `json:"kind"`
	CreatedAt time.Time    `json:"created_at"`
}
