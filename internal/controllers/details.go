package controllers

import (
	"context"
	"errors"
	"fmt"

	"github.com/amaumene/moviemate/internal/metrics"
	"github.com/amaumene/moviemate/internal/models"
	"github.com/amaumene/moviemate/internal/navigation"
	"github.com/amaumene/moviemate/internal/services/tmdb"
	"github.com/amaumene/moviemate/internal/store"
	"github.com/sirupsen/logrus"
)

var (
	// ErrStale is returned when the user navigated away while a screen loaded
	ErrStale = errors.New("navigation changed while loading")
	// ErrNothingToLoad is returned when the active state is a root tab
	ErrNothingToLoad = errors.New("active screen has no remote content")
)

// MetadataSource serves the remote content of detail screens
type MetadataSource interface {
	GetFullInfo(ctx context.Context, mediaType models.MediaType, id int) (*tmdb.FullInfo, error)
	GetPerson(ctx context.Context, personID int) (*tmdb.Person, error)
	GetPersonCredits(ctx context.Context, personID int) (*tmdb.PersonCredits, error)
	DiscoverByGenre(ctx context.Context, mediaType models.MediaType, genreID, page int) (*tmdb.Page, error)
}

// ScreenView is the loaded content of the active screen. Only the fields of
// the screen kind are set.
type ScreenView struct {
	State  navigation.State `json:"state"`
	Ticket string           `json:"ticket"`

	// details
	Info          *tmdb.FullInfo        `json:"info,omitempty"`
	Membership    models.Membership     `json:"membership,omitempty"`
	Review        *models.Review        `json:"review,omitempty"`
	SeasonReviews map[int]models.Review `json:"season_reviews,omitempty"`

	// person
	Person  *tmdb.Person        `json:"person,omitempty"`
	Credits *tmdb.PersonCredits `json:"credits,omitempty"`

	// genre
	Titles *tmdb.Page `json:"titles,omitempty"`
}

// DetailsController loads the content of the active details, person or genre
// screen. Results are tagged with a navigation ticket and dropped when the
// user has moved on.
type DetailsController struct {
	nav    *navigation.Controller
	source MetadataSource
	store  *store.Store
	logger *logrus.Logger
}

// NewDetailsController creates a new details controller
func NewDetailsController(nav *navigation.Controller, source MetadataSource, st *store.Store, logger *logrus.Logger) *DetailsController {
	return &DetailsController{
		nav:    nav,
		source: source,
		store:  st,
		logger: logger,
	}
}

// Load fetches the content of the active screen. page applies to genre listings.
func (c *DetailsController) Load(ctx context.Context, page int) (*ScreenView, error) {
	ticket := c.nav.Ticket()
	view := &ScreenView{State: ticket.State, Ticket: ticket.String()}

	var err error
	switch ticket.State.Type {
	case navigation.KindDetails:
		err = c.loadDetails(ctx, view)
	case navigation.KindPerson:
		err = c.loadPerson(ctx, view)
	case navigation.KindGenre:
		view.Titles, err = c.source.DiscoverByGenre(ctx, ticket.State.MediaType, ticket.State.GenreID, page)
	default:
		return nil, fmt.Errorf("%w: %s", ErrNothingToLoad, ticket.State.Describe())
	}

	if !c.nav.IsCurrent(ticket) {
		metrics.StaleResults.Inc()
		c.logger.WithFields(logrus.Fields{
			"ticket":  ticket.String(),
			"current": c.nav.Current().Describe(),
		}).Debug("Discarding stale screen content")
		return nil, fmt.Errorf("%w: %s", ErrStale, ticket.State.Describe())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", ticket.State.Describe(), err)
	}
	return view, nil
}

func (c *DetailsController) loadDetails(ctx context.Context, view *ScreenView) error {
	state := view.State
	info, err := c.source.GetFullInfo(ctx, state.MediaType, state.MediaID)
	if err != nil {
		return err
	}

	ref := models.MediaRef{ID: state.MediaID, MediaType: state.MediaType}
	view.Info = info
	view.Membership = c.store.State(ref)
	if review, ok := c.store.Review(models.TitleReviewKey(ref)); ok {
		view.Review = &review
	}

	if ref.MediaType == models.MediaTypeTV {
		for _, season := range info.Seasons {
			review, ok := c.store.Review(models.SeasonReviewKey(ref.ID, season.SeasonNumber))
			if !ok {
				continue
			}
			if view.SeasonReviews == nil {
				view.SeasonReviews = make(map[int]models.Review)
			}
			view.SeasonReviews[season.SeasonNumber] = review
		}
	}
	return nil
}

func (c *DetailsController) loadPerson(ctx context.Context, view *ScreenView) error {
	person, err := c.source.GetPerson(ctx, view.State.PersonID)
	if err != nil {
		return err
	}
	credits, err := c.source.GetPersonCredits(ctx, view.State.PersonID)
	if err != nil {
		return err
	}

	view.Person = person
	view.Credits = credits
	return nil
}
