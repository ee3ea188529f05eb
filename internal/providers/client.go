package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/stitts-dev/ffdata/internal/services"
	"github.com/stitts-dev/ffdata/pkg/utils"
)

// FeedClientConfig tunes how published feeds are fetched.
type FeedClientConfig struct {
	Timeout           time.Duration
	Retries           int
	RequestsPerSecond float64
	CacheTTL          time.Duration
	Season            int
	// BaseBackoff is the wait before the first retry; it doubles per attempt.
	BaseBackoff time.Duration
}

// FeedClient fetches JSON feeds with rate limiting, retries, a per-source
// circuit breaker and an optional Redis cache.
type FeedClient struct {
	httpClient *http.Client
	cache      *services.CacheService
	breakers   *services.CircuitBreakerService
	limiter    *rate.Limiter
	cfg        FeedClientConfig
	logger     *logrus.Logger
}

// NewFeedClient creates a feed client. cache may be nil.
func NewFeedClient(cfg FeedClientConfig, cache *services.CacheService, breakers *services.CircuitBreakerService, logger *logrus.Logger) *FeedClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Retries < 1 {
		cfg.Retries = 1
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = time.Second
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &FeedClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cache:      cache,
		breakers:   breakers,
		limiter:    rate.NewLimiter(limit, 1),
		cfg:        cfg,
		logger:     logger,
	}
}

// GetJSON decodes the feed at url into dest. A cached copy is used when one
// exists for the same kind, source, url and season.
func (c *FeedClient) GetJSON(ctx context.Context, kind, source, url string, dest interface{}) error {
	cacheKey := services.SourceCacheKey(kind, source, url, c.cfg.Season)
	if c.cache != nil {
		err := c.cache.Get(ctx, cacheKey, dest)
		if err == nil {
			c.logger.WithField("source", source).Debug("Using cached feed")
			return nil
		}
		if !errors.Is(err, services.ErrCacheMiss) {
			c.logger.WithError(err).WithField("source", source).Warn("Cache read failed")
		}
	}

	body, err := c.breakers.Execute(source, func() (interface{}, error) {
		return c.makeRequest(ctx, source, url)
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %v", utils.ErrSourceUnavailable, source, err)
	}

	if err := json.Unmarshal(body.([]byte), dest); err != nil {
		return fmt.Errorf("failed to decode %s feed: %w", source, err)
	}

	if c.cache != nil && c.cfg.CacheTTL > 0 {
		if err := c.cache.Set(ctx, cacheKey, dest, c.cfg.CacheTTL); err != nil {
			c.logger.WithError(err).WithField("source", source).Warn("Cache write failed")
		}
	}
	return nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}

func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	return !errors.Is(err, context.Canceled)
}

// makeRequest performs the GET with exponential backoff between attempts.
func (c *FeedClient) makeRequest(ctx context.Context, source, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < c.cfg.Retries; attempt++ {
		if attempt > 0 {
			wait := c.cfg.BaseBackoff * time.Duration(math.Pow(2, float64(attempt-1)))
			c.logger.WithFields(logrus.Fields{
				"source":  source,
				"attempt": attempt + 1,
				"wait":    wait.String(),
			}).WithError(lastErr).Warn("Feed request failed, retrying")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		body, err := c.fetchOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable(err) {
			break
		}
	}
	return nil, lastErr
}

func (c *FeedClient) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}
