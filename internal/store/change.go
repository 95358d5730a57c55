package store

import "github.com/amaumene/moviemate/internal/models"

// ChangeKind identifies what a mutation touched
type ChangeKind string

const (
	ChangeMembership    ChangeKind = "membership"
	ChangeReviewSaved   ChangeKind = "review_saved"
	ChangeReviewRemoved ChangeKind = "review_removed"
	ChangeEpisode       ChangeKind = "episode"
)

// Change describes one applied mutation
type Change struct {
	Kind ChangeKind
	Ref  models.MediaRef

	// Membership changes
	From models.Membership
	To   models.Membership

	// Review changes
	Season int
	Review *models.Review

	// Episode changes
	Episode *models.EpisodeRef
	Watched bool
}

// Listener receives changes after they are persisted
type Listener func(Change)
