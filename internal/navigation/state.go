package navigation

import (
	"errors"
	"fmt"

	"github.com/amaumene/moviemate/internal/models"
)

// ErrInvalidState is returned when a navigation target is missing required fields
var ErrInvalidState = errors.New("invalid navigation state")

// Kind tags the variant of a State
type Kind string

const (
	KindTab     Kind = "tab"
	KindDetails Kind = "details"
	KindPerson  Kind = "person"
	KindGenre   Kind = "genre"
	KindModal   Kind = "modal"
)

// Tabs are the root screens of the app
var Tabs = []string{"movies", "tv", "search", "activity", "profile"}

func knownTab(name string) bool {
	for _, tab := range Tabs {
		if tab == name {
			return true
		}
	}
	return false
}

// State is one entry of the navigation history
type State struct {
	Type Kind `json:"type"`

	// tab
	Name string `json:"name,omitempty"`

	// details
	MediaID   int              `json:"media_id,omitempty"`
	MediaType models.MediaType `json:"media_type,omitempty"`
	SourceTab string           `json:"source_tab,omitempty"`

	// person
	PersonID int `json:"person_id,omitempty"`

	// genre (MediaType is shared with details)
	GenreID   int    `json:"genre_id,omitempty"`
	GenreName string `json:"genre_name,omitempty"`
	From      string `json:"from,omitempty"`

	// modal
	Element string `json:"element,omitempty"`
}

// TabState builds a tab state
func TabState(name string) State {
	return State{Type: KindTab, Name: name}
}

// DetailsState builds a details state
func DetailsState(mediaID int, mediaType models.MediaType, sourceTab string) State {
	return State{Type: KindDetails, MediaID: mediaID, MediaType: mediaType, SourceTab: sourceTab}
}

// PersonState builds a person state
func PersonState(personID int) State {
	return State{Type: KindPerson, PersonID: personID}
}

// GenreState builds a genre state
func GenreState(genreID int, genreName, from string, mediaType models.MediaType) State {
	return State{Type: KindGenre, GenreID: genreID, GenreName: genreName, From: from, MediaType: mediaType}
}

// Validate checks that the fields required by the state's kind are present
func (s State) Validate() error {
	switch s.Type {
	case KindTab:
		if !knownTab(s.Name) {
			return fmt.Errorf("%w: unknown tab %q", ErrInvalidState, s.Name)
		}
	case KindDetails:
		if s.MediaID <= 0 {
			return fmt.Errorf("%w: details without media id", ErrInvalidState)
		}
		if !s.MediaType.Valid() {
			return fmt.Errorf("%w: details with media type %q", ErrInvalidState, s.MediaType)
		}
		if !knownTab(s.SourceTab) {
			return fmt.Errorf("%w: details from unknown tab %q", ErrInvalidState, s.SourceTab)
		}
	case KindPerson:
		if s.PersonID <= 0 {
			return fmt.Errorf("%w: person without id", ErrInvalidState)
		}
	case KindGenre:
		if s.GenreID <= 0 {
			return fmt.Errorf("%w: genre without id", ErrInvalidState)
		}
		if s.GenreName == "" {
			return fmt.Errorf("%w: genre %d without name", ErrInvalidState, s.GenreID)
		}
		if !s.MediaType.Valid() {
			return fmt.Errorf("%w: genre with media type %q", ErrInvalidState, s.MediaType)
		}
	case KindModal:
		if s.Element == "" {
			return fmt.Errorf("%w: modal without element", ErrInvalidState)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidState, s.Type)
	}
	return nil
}

// Describe returns a short human readable label, used in logs
func (s State) Describe() string {
	switch s.Type {
	case KindTab:
		return "tab:" + s.Name
	case KindDetails:
		return fmt.Sprintf("details:%s:%d", s.MediaType, s.MediaID)
	case KindPerson:
		return fmt.Sprintf("person:%d", s.PersonID)
	case KindGenre:
		return fmt.Sprintf("genre:%s:%d", s.MediaType, s.GenreID)
	case KindModal:
		return "modal:" + s.Element
	}
	return string(s.Type)
}
