package models

import (
	"fmt"
	"strconv"
	"strings"
)

// MediaType represents the type of media (movie or tv show)
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// Valid reports whether t is one of the known media types
func (t MediaType) Valid() bool {
	return t == MediaTypeMovie || t == MediaTypeTV
}

// ParseMediaType converts a path or query value into a MediaType
func ParseMediaType(s string) (MediaType, error) {
	t := MediaType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown media type %q", s)
	}
	return t, nil
}

// Membership is the list a title currently belongs to. A title has exactly one.
type Membership string

const (
	MembershipNone    Membership = "none"
	MembershipWant    Membership = "want"
	MembershipWatched Membership = "watched"
)

// Rating is a review score from "1" to "10". "X" is only meaningful as input
// and requests deletion of the review.
type Rating string

const RatingDelete Rating = "X"

// Valid reports whether r is a storable score
func (r Rating) Valid() bool {
	n, err := strconv.Atoi(string(r))
	if err != nil {
		return false
	}
	return n >= 1 && n <= 10 && strconv.Itoa(n) == string(r)
}

// ActivityKind describes a user action recorded in the activity feed
type ActivityKind string

const (
	ActivityWant               ActivityKind = "want"
	ActivityRemovedFromWant    ActivityKind = "removed_from_want"
	ActivityWatched            ActivityKind = "watched"
	ActivityRemovedFromWatched ActivityKind = "removed_from_watched"
	ActivityReview             ActivityKind = "review"
	ActivityEditedReview       ActivityKind = "edited_review"
	ActivityReviewRemoved      ActivityKind = "review_removed"
)
