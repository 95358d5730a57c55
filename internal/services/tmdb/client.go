package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/amaumene/moviemate/internal/config"
	"github.com/amaumene/moviemate/internal/metrics"
	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	defaultMaxRetries    = 3
	defaultRetryInterval = 500 * time.Millisecond
	maxErrorBodySize     = 1024
)

// ErrNotFound is returned when TMDB answers 404
var ErrNotFound = errors.New("tmdb resource not found")

// ErrInvalidRequest is returned before any call is made when the arguments
// cannot form a TMDB request
var ErrInvalidRequest = errors.New("invalid tmdb request")

// APIError is a non-2xx answer from TMDB
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("TMDB API returned status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the request may succeed when repeated
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Client handles communication with the TMDB v3 API
type Client struct {
	baseURL    string
	apiKey     string
	language   string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *logrus.Logger

	maxRetries    uint64
	retryInterval time.Duration
}

// NewClient creates a new TMDB API client
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	if cfg.TMDBAPIKey == "" {
		return nil, fmt.Errorf("TMDB API key is required")
	}
	if _, err := url.Parse(cfg.TMDBBaseURL); err != nil || cfg.TMDBBaseURL == "" {
		return nil, fmt.Errorf("invalid TMDB base URL %q", cfg.TMDBBaseURL)
	}

	perSecond := cfg.TMDBRateLimit
	if perSecond <= 0 {
		perSecond = 20
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.TMDBBaseURL, "/"),
		apiKey:   cfg.TMDBAPIKey,
		language: cfg.TMDBLanguage,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter:       rate.NewLimiter(rate.Limit(perSecond), perSecond),
		logger:        logger,
		maxRetries:    defaultMaxRetries,
		retryInterval: defaultRetryInterval,
	}, nil
}

// doRequest performs a GET against TMDB and decodes the JSON answer into
// result. 429 and 5xx answers are retried with exponential backoff.
func (c *Client) doRequest(ctx context.Context, path string, params url.Values, result interface{}) error {
	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	query.Set("api_key", c.apiKey)
	if c.language != "" {
		query.Set("language", c.language)
	}
	fullURL := c.baseURL + path + "?" + query.Encode()

	attempt := 0
	operation := func() error {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(fmt.Errorf("rate limiter wait failed: %w", err))
		}

		c.logger.WithFields(logrus.Fields{
			"path":    path,
			"attempt": attempt,
		}).Debug("Making TMDB API request")

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "moviemate/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			metrics.TMDBRequests.WithLabelValues("error").Inc()
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return fmt.Errorf("TMDB request failed: %w", err)
		}
		defer resp.Body.Close()
		metrics.TMDBRequests.WithLabelValues(metrics.StatusClass(resp.StatusCode)).Inc()

		if resp.StatusCode == http.StatusNotFound {
			return backoff.Permanent(fmt.Errorf("%w: %s", ErrNotFound, path))
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
			apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(body)}
			if apiErr.Retryable() {
				c.logger.WithFields(logrus.Fields{
					"path":        path,
					"status_code": resp.StatusCode,
					"attempt":     attempt,
				}).Warn("TMDB API request failed, retrying")
				return apiErr
			}
			return backoff.Permanent(apiErr)
		}

		if result != nil {
			if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
				return backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
			}
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryInterval
	policy.MaxInterval = 10 * c.retryInterval

	return backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, c.maxRetries), ctx))
}

func pageParams(page int) url.Values {
	params := url.Values{}
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}
	return params
}
