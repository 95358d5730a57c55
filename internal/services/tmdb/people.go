package tmdb

import (
	"context"
	"fmt"

	"github.com/amaumene/moviemate/internal/models"
)

// GetPerson fetches person details
func (c *Client) GetPerson(ctx context.Context, personID int) (*Person, error) {
	if personID <= 0 {
		return nil, fmt.Errorf("%w: person id %d", ErrInvalidRequest, personID)
	}

	var person Person
	if err := c.doRequest(ctx, fmt.Sprintf("/person/%d", personID), nil, &person); err != nil {
		return nil, fmt.Errorf("failed to get person %d: %w", personID, err)
	}
	return &person, nil
}

// GetPersonCredits fetches a person's combined credits split into movie and
// tv credits
func (c *Client) GetPersonCredits(ctx context.Context, personID int) (*PersonCredits, error) {
	if personID <= 0 {
		return nil, fmt.Errorf("%w: person id %d", ErrInvalidRequest, personID)
	}

	var combined struct {
		Cast []Media `json:"cast"`
		Crew []Media `json:"crew"`
	}
	if err := c.doRequest(ctx, fmt.Sprintf("/person/%d/combined_credits", personID), nil, &combined); err != nil {
		return nil, fmt.Errorf("failed to get credits of person %d: %w", personID, err)
	}

	credits := &PersonCredits{}
	for _, item := range combined.Cast {
		switch item.MediaType {
		case models.MediaTypeMovie:
			credits.Movie.Cast = append(credits.Movie.Cast, item)
		case models.MediaTypeTV:
			credits.TV.Cast = append(credits.TV.Cast, item)
		}
	}
	for _, item := range combined.Crew {
		switch item.MediaType {
		case models.MediaTypeMovie:
			credits.Movie.Crew = append(credits.Movie.Crew, item)
		case models.MediaTypeTV:
			credits.TV.Crew = append(credits.TV.Crew, item)
		}
	}
	return credits, nil
}
