// Package ratings queries the public instructor ratings GraphQL API and resolves
// instructors to rating profiles.
package ratings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/noah-isme/slugtistics-api/internal/matching"
	"github.com/noah-isme/slugtistics-api/internal/models"
	"github.com/noah-isme/slugtistics-api/pkg/config"
	appErrors "github.com/noah-isme/slugtistics-api/pkg/errors"
	"github.com/noah-isme/slugtistics-api/pkg/httpx"
)

const (
	breakerName = "ratings"
	userAgent   = "Mozilla/5.0 (compatible; slugtistics-api)"
)

// Observer receives upstream call outcomes and breaker transitions.
type Observer interface {
	ObserveUpstream(target, outcome string, duration time.Duration)
	SetBreakerState(name string, state int)
}

// Client searches the ratings service through a rate limiter and a circuit breaker.
type Client struct {
	cfg      config.RatingsConfig
	http     *http.Client
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker[[]models.ProfessorCandidate]
	retry    httpx.RetryConfig
	observer Observer
	logger   *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithObserver records call outcomes and breaker state.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithRetry overrides the retry policy.
func WithRetry(cfg httpx.RetryConfig) Option {
	return func(c *Client) { c.retry = cfg }
}

// NewClient constructs a ratings Client.
func NewClient(cfg config.RatingsConfig, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	c := &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		retry:   httpx.RetryConfig{MaxAttempts: 2, BaseDelay: 300 * time.Millisecond, MaxDelay: 3 * time.Second},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker[[]models.ProfessorCandidate](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		// A caller giving up is not an upstream failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("ratings circuit breaker state changed",
				zap.String("breaker", name), zap.String("from", from.String()), zap.String("to", to.String()))
			if c.observer != nil {
				c.observer.SetBreakerState(name, int(to))
			}
		},
	})
	return c
}

// BreakerState reports the current circuit breaker state.
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// Search returns the candidates the ratings service lists for an instructor name.
// courseFilter narrows the embedded reviews when detailed is set.
func (c *Client) Search(ctx context.Context, instructor, courseFilter string, detailed bool) ([]models.ProfessorCandidate, error) {
	q, ok := matching.NewProfessorQuery(instructor)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "instructor name is required")
	}

	body, err := json.Marshal(c.request(q.SearchText(), courseFilter, detailed))
	if err != nil {
		return nil, fmt.Errorf("encode ratings query: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "ratings search cancelled")
	}

	start := time.Now()
	candidates, err := c.breaker.Execute(func() ([]models.ProfessorCandidate, error) {
		return c.post(ctx, q.SearchText(), body)
	})
	c.observe(start, err)
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "ratings search failed")
	}
	return candidates, nil
}

// FindProfessor resolves an instructor to a summary rating profile, scoring candidates
// against the course. It returns nil without error when no candidate is acceptable.
func (c *Client) FindProfessor(ctx context.Context, instructor, courseCode string) (*models.RatingProfile, error) {
	if !Rateable(instructor) {
		return nil, nil
	}
	candidates, err := c.Search(ctx, instructor, "", false)
	if err != nil {
		return nil, err
	}
	best, ok := matching.BestProfessor(instructor, courseCode, candidates)
	if !ok {
		return nil, nil
	}
	return ToProfile(best, false), nil
}

// DetailedProfile is FindProfessor with up to ten recent reviews for the course attached.
func (c *Client) DetailedProfile(ctx context.Context, instructor, courseCode string) (*models.RatingProfile, error) {
	if !Rateable(instructor) {
		return nil, nil
	}
	candidates, err := c.Search(ctx, instructor, courseFilter(courseCode), true)
	if err != nil {
		return nil, err
	}
	best, ok := matching.BestProfessor(instructor, courseCode, candidates)
	if !ok {
		return nil, nil
	}
	return ToProfile(best, true), nil
}

func (c *Client) post(ctx context.Context, searchText string, body []byte) ([]models.ProfessorCandidate, error) {
	build := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", userAgent)
		if c.cfg.Auth != "" {
			req.Header.Set("Authorization", c.cfg.Auth)
		}
		req.Header.Set("Referer", "https://www.ratemyprofessors.com/search/teachers?q="+url.QueryEscape(searchText))
		return req, nil
	}

	var resp searchResponse
	if err := httpx.DoJSON(ctx, c.http, build, &resp, c.retry); err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return nil, appErrors.Wrap(fmt.Errorf("graphql: %s", resp.Errors[0].Message),
			appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "ratings search failed")
	}
	return resp.candidates(), nil
}

func (c *Client) observe(start time.Time, err error) {
	if c.observer == nil {
		return
	}
	outcome := "success"
	switch {
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		outcome = "rejected"
	case err != nil:
		outcome = "error"
	}
	c.observer.ObserveUpstream("ratings", outcome, time.Since(start))
}

// Rateable reports whether an instructor name can be looked up at all.
func Rateable(instructor string) bool {
	name := strings.TrimSpace(instructor)
	return name != "" && !strings.EqualFold(name, models.StaffInstructor)
}

// courseFilter renders "CSE 101" the way the ratings service spells it ("CSE101").
func courseFilter(courseCode string) string {
	return strings.ReplaceAll(strings.TrimSpace(courseCode), " ", "")
}
