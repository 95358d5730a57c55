package tmdb

import (
	"context"
	"fmt"
	"sort"

	"github.com/amaumene/moviemate/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
)

// maxSeasonFetches bounds concurrent season requests for one show
const maxSeasonFetches = 4

func titlePath(mediaType models.MediaType, id int, suffix string) (string, error) {
	if !mediaType.Valid() || id <= 0 {
		return "", fmt.Errorf("%w: title %s:%d", ErrInvalidRequest, mediaType, id)
	}
	return fmt.Sprintf("/%s/%d%s", mediaType, id, suffix), nil
}

// GetDetails fetches movie or show details
func (c *Client) GetDetails(ctx context.Context, mediaType models.MediaType, id int) (*Details, error) {
	path, err := titlePath(mediaType, id, "")
	if err != nil {
		return nil, err
	}

	var details Details
	if err := c.doRequest(ctx, path, nil, &details); err != nil {
		return nil, fmt.Errorf("failed to get %s details: %w", mediaType, err)
	}
	return &details, nil
}

// GetCredits fetches the cast and crew of a title
func (c *Client) GetCredits(ctx context.Context, mediaType models.MediaType, id int) (*Credits, error) {
	path, err := titlePath(mediaType, id, "/credits")
	if err != nil {
		return nil, err
	}

	var credits Credits
	if err := c.doRequest(ctx, path, nil, &credits); err != nil {
		return nil, fmt.Errorf("failed to get %s credits: %w", mediaType, err)
	}
	return &credits, nil
}

// GetRecommendations fetches titles recommended alongside a title
func (c *Client) GetRecommendations(ctx context.Context, mediaType models.MediaType, id int) ([]Media, error) {
	path, err := titlePath(mediaType, id, "/recommendations")
	if err != nil {
		return nil, err
	}

	var page Page
	if err := c.doRequest(ctx, path, nil, &page); err != nil {
		return nil, fmt.Errorf("failed to get %s recommendations: %w", mediaType, err)
	}
	return withMediaType(page.Results, mediaType), nil
}

// GetSeason fetches one season of a show with its episodes
func (c *Client) GetSeason(ctx context.Context, tvID, seasonNumber int) (*Season, error) {
	path, err := titlePath(models.MediaTypeTV, tvID, fmt.Sprintf("/season/%d", seasonNumber))
	if err != nil {
		return nil, err
	}

	var season Season
	if err := c.doRequest(ctx, path, nil, &season); err != nil {
		return nil, fmt.Errorf("failed to get season %d of show %d: %w", seasonNumber, tvID, err)
	}
	return &season, nil
}

// GetSeasons fetches every regular season of a show. Specials (season 0) are
// skipped. Seasons are returned in season order.
func (c *Client) GetSeasons(ctx context.Context, tvID int) ([]Season, error) {
	details, err := c.GetDetails(ctx, models.MediaTypeTV, tvID)
	if err != nil {
		return nil, err
	}
	return c.fetchSeasons(ctx, tvID, details.Seasons)
}

func (c *Client) fetchSeasons(ctx context.Context, tvID int, summaries []SeasonSummary) ([]Season, error) {
	var numbers []int
	for _, summary := range summaries {
		if summary.SeasonNumber > 0 {
			numbers = append(numbers, summary.SeasonNumber)
		}
	}

	seasons := make([]Season, len(numbers))
	p := pool.New().WithContext(ctx).WithCancelOnError().WithMaxGoroutines(maxSeasonFetches)
	for i, number := range numbers {
		p.Go(func(ctx context.Context) error {
			season, err := c.GetSeason(ctx, tvID, number)
			if err != nil {
				return err
			}
			seasons[i] = *season
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(seasons, func(i, j int) bool {
		return seasons[i].SeasonNumber < seasons[j].SeasonNumber
	})

	c.logger.WithFields(logrus.Fields{
		"tv_id":   tvID,
		"seasons": len(seasons),
	}).Debug("Fetched show seasons")

	return seasons, nil
}

// GetFullInfo fetches details, credits and recommendations concurrently, and
// season episode lists for shows. Directors (movies) or executive producers
// (shows) are placed ahead of the cast.
func (c *Client) GetFullInfo(ctx context.Context, mediaType models.MediaType, id int) (*FullInfo, error) {
	if _, err := titlePath(mediaType, id, ""); err != nil {
		return nil, err
	}

	var (
		details         *Details
		credits         *Credits
		recommendations []Media
	)

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		var err error
		details, err = c.GetDetails(ctx, mediaType, id)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		credits, err = c.GetCredits(ctx, mediaType, id)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		recommendations, err = c.GetRecommendations(ctx, mediaType, id)
		return err
	})
	if err := p.Wait(); err != nil {
		return nil, fmt.Errorf("failed to get full info for %s:%d: %w", mediaType, id, err)
	}

	info := &FullInfo{
		Details:         *details,
		MediaType:       mediaType,
		Cast:            leadCredits(mediaType, credits),
		Crew:            credits.Crew,
		Recommendations: recommendations,
	}

	if mediaType == models.MediaTypeTV {
		seasons, err := c.fetchSeasons(ctx, id, details.Seasons)
		if err != nil {
			return nil, fmt.Errorf("failed to get seasons for tv:%d: %w", id, err)
		}
		info.Seasons = seasons
	}

	return info, nil
}

// leadCredits returns the cast with the directing crew in front
func leadCredits(mediaType models.MediaType, credits *Credits) []Credit {
	leadJob := "Director"
	if mediaType == models.MediaTypeTV {
		leadJob = "Executive Producer"
	}

	var cast []Credit
	for _, member := range credits.Crew {
		if member.Job == leadJob {
			cast = append(cast, member)
		}
	}
	return append(cast, credits.Cast...)
}

func withMediaType(results []Media, mediaType models.MediaType) []Media {
	for i := range results {
		if results[i].MediaType == "" {
			results[i].MediaType = mediaType
		}
	}
	return results
}
