package tmdb

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/amaumene/moviemate/internal/models"
)

// ListKind names a curated TMDB list
type ListKind string

const (
	ListTrending    ListKind = "trending"
	ListPopular     ListKind = "popular"
	ListTopRated    ListKind = "top_rated"
	ListUpcoming    ListKind = "upcoming"     // movies only
	ListOnTheAir    ListKind = "on_the_air"   // tv only
	ListAiringToday ListKind = "airing_today" // tv only
)

func listPath(kind ListKind, mediaType models.MediaType) (string, error) {
	if !mediaType.Valid() {
		return "", fmt.Errorf("%w: media type %q", ErrInvalidRequest, mediaType)
	}

	switch kind {
	case ListTrending:
		return fmt.Sprintf("/trending/%s/day", mediaType), nil
	case ListPopular, ListTopRated:
		return fmt.Sprintf("/%s/%s", mediaType, kind), nil
	case ListUpcoming:
		if mediaType == models.MediaTypeMovie {
			return "/movie/upcoming", nil
		}
	case ListOnTheAir, ListAiringToday:
		if mediaType == models.MediaTypeTV {
			return fmt.Sprintf("/tv/%s", kind), nil
		}
	default:
		return "", fmt.Errorf("%w: unknown list %q", ErrInvalidRequest, kind)
	}
	return "", fmt.Errorf("%w: list %q is not available for %s", ErrInvalidRequest, kind, mediaType)
}

// CheckList reports whether kind exists for mediaType. Failures wrap
// ErrInvalidRequest.
func CheckList(kind ListKind, mediaType models.MediaType) error {
	_, err := listPath(kind, mediaType)
	return err
}

// GetList fetches one page of a curated list
func (c *Client) GetList(ctx context.Context, kind ListKind, mediaType models.MediaType, page int) (*Page, error) {
	path, err := listPath(kind, mediaType)
	if err != nil {
		return nil, err
	}

	var result Page
	if err := c.doRequest(ctx, path, pageParams(page), &result); err != nil {
		return nil, fmt.Errorf("failed to get %s %s list: %w", kind, mediaType, err)
	}
	result.Results = withMediaType(result.Results, mediaType)
	return &result, nil
}

// DiscoverByGenre lists titles of one genre
func (c *Client) DiscoverByGenre(ctx context.Context, mediaType models.MediaType, genreID, page int) (*Page, error) {
	if !mediaType.Valid() {
		return nil, fmt.Errorf("%w: media type %q", ErrInvalidRequest, mediaType)
	}
	if genreID <= 0 {
		return nil, fmt.Errorf("%w: genre id %d", ErrInvalidRequest, genreID)
	}

	params := pageParams(page)
	params.Set("with_genres", strconv.Itoa(genreID))

	var result Page
	if err := c.doRequest(ctx, "/discover/"+string(mediaType), params, &result); err != nil {
		return nil, fmt.Errorf("failed to discover %s by genre %d: %w", mediaType, genreID, err)
	}
	result.Results = withMediaType(result.Results, mediaType)
	return &result, nil
}

// SearchMulti searches movies, shows and people at once
func (c *Client) SearchMulti(ctx context.Context, query string, page int) (*Page, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &Page{Page: 1}, nil
	}

	params := pageParams(page)
	params.Set("query", query)

	var result Page
	if err := c.doRequest(ctx, "/search/multi", params, &result); err != nil {
		return nil, fmt.Errorf("failed to search %q: %w", query, err)
	}
	return &result, nil
}

// Search searches titles of one media type
func (c *Client) Search(ctx context.Context, mediaType models.MediaType, query string, page int) (*Page, error) {
	if !mediaType.Valid() {
		return nil, fmt.Errorf("%w: media type %q", ErrInvalidRequest, mediaType)
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return &Page{Page: 1}, nil
	}

	params := pageParams(page)
	params.Set("query", query)

	var result Page
	if err := c.doRequest(ctx, "/search/"+string(mediaType), params, &result); err != nil {
		return nil, fmt.Errorf("failed to search %s %q: %w", mediaType, query, err)
	}
	result.Results = withMediaType(result.Results, mediaType)
	return &result, nil
}
