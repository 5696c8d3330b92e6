// Package catalog scrapes live course offerings from the class search site.
package catalog

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/slugtistics-api/internal/models"
	"github.com/noah-isme/slugtistics-api/pkg/config"
	"github.com/noah-isme/slugtistics-api/pkg/httpx"
)

const searchPath = "index.php"

// Observer receives per-request outcomes, typically for metrics.
type Observer interface {
	ObserveUpstream(target, outcome string, duration time.Duration)
}

// Scraper fetches raw course offerings, one search per GE category.
type Scraper struct {
	cfg       config.CatalogConfig
	base      *url.URL
	transport http.RoundTripper
	retry     httpx.RetryConfig
	observer  Observer
	logger    *zap.Logger
}

// Option customizes a Scraper.
type Option func(*Scraper)

// WithTransport overrides the HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(s *Scraper) { s.transport = rt }
}

// WithObserver records upstream call outcomes.
func WithObserver(o Observer) Option {
	return func(s *Scraper) { s.observer = o }
}

// WithRetry overrides the retry policy.
func WithRetry(cfg httpx.RetryConfig) Option {
	return func(s *Scraper) { s.retry = cfg }
}

// NewScraper constructs a Scraper for the configured class search site.
func NewScraper(cfg config.CatalogConfig, logger *zap.Logger, opts ...Option) (*Scraper, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse catalog base url: %w", err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 50
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Scraper{
		cfg:       cfg,
		base:      base,
		transport: http.DefaultTransport,
		retry:     httpx.RetryConfig{MaxAttempts: cfg.MaxAttempts, BaseDelay: 500 * time.Millisecond, MaxDelay: 8 * time.Second},
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// FetchCourses runs one search per category and returns the courses in category
// order. A category that keeps failing is logged and skipped; the call fails only
// when every category fails or ctx ends. No categories means one unfiltered search.
func (s *Scraper) FetchCourses(ctx context.Context, categories []string) ([]models.RawCourse, error) {
	if len(categories) == 0 {
		categories = []string{""}
	}

	results := make([][]models.RawCourse, len(categories))
	failures := make([]error, len(categories))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i, ge := range categories {
		i, ge := i, ge
		g.Go(func() error {
			courses, err := s.searchCategory(gctx, ge)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				failures[i] = err
				s.logger.Warn("catalog category failed", zap.String("ge", ge), zap.Error(err))
				return nil
			}
			results[i] = courses
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var (
		all    []models.RawCourse
		failed int
	)
	for i := range categories {
		if failures[i] != nil {
			failed++
			continue
		}
		all = append(all, results[i]...)
	}
	if failed == len(categories) {
		return nil, fmt.Errorf("all %d catalog searches failed: %w", failed, failures[0])
	}
	return all, nil
}

func (s *Scraper) searchCategory(ctx context.Context, ge string) ([]models.RawCourse, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client := &http.Client{Transport: s.transport, Jar: jar, Timeout: s.cfg.Timeout}

	if _, err := s.get(ctx, client, s.base.String(), "landing"); err != nil {
		return nil, fmt.Errorf("open search session: %w", err)
	}

	form := url.Values{
		"action":               {"results"},
		"binds[:term]":         {s.cfg.Term},
		"binds[:reg_status]":   {"all"},
		"binds[:subject]":      {""},
		"binds[:ge]":           {ge},
		"binds[:crse_units]":   {""},
		"binds[:instrct_mode]": {""},
		"rec_dur":              {strconv.Itoa(s.cfg.PageSize)},
	}
	searchURL := s.base.ResolveReference(&url.URL{Path: searchPath}).String()

	var courses []models.RawCourse
	for page := 1; ; page++ {
		if page > s.cfg.MaxPages {
			s.logger.Warn("catalog page limit reached", zap.String("ge", ge), zap.Int("pages", s.cfg.MaxPages))
			break
		}
		body, err := s.post(ctx, client, searchURL, form)
		if err != nil {
			return nil, fmt.Errorf("search page %d: %w", page, err)
		}
		result, err := parseResults(bytes.NewReader(body), s.base, ge)
		if err != nil {
			return nil, fmt.Errorf("parse page %d: %w", page, err)
		}
		if len(result.courses) == 0 {
			break
		}
		if s.cfg.FetchDetails {
			s.fetchDetails(ctx, client, result.courses)
		}
		courses = append(courses, result.courses...)
		if !result.hasNext {
			break
		}
		form.Set("action", "next")
	}

	s.logger.Debug("catalog category scraped", zap.String("ge", ge), zap.Int("courses", len(courses)))
	return courses, nil
}

// fetchDetails fills in course page data in place. Failed pages keep the panel data.
func (s *Scraper) fetchDetails(ctx context.Context, client *http.Client, courses []models.RawCourse) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i := range courses {
		course := &courses[i]
		g.Go(func() error {
			body, err := s.get(gctx, client, course.Link, "detail")
			if err != nil {
				s.logger.Debug("course detail unavailable", zap.String("code", course.Code), zap.Error(err))
				return nil
			}
			details, err := parseDetails(bytes.NewReader(body))
			if err != nil {
				s.logger.Debug("course detail unparseable", zap.String("code", course.Code), zap.Error(err))
				return nil
			}
			details.apply(course)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *Scraper) get(ctx context.Context, client *http.Client, target, kind string) ([]byte, error) {
	return s.do(ctx, client, kind, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	})
}

func (s *Scraper) post(ctx context.Context, client *http.Client, target string, form url.Values) ([]byte, error) {
	encoded := form.Encode()
	return s.do(ctx, client, "search", func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(encoded))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
}

func (s *Scraper) do(ctx context.Context, client *http.Client, kind string, build httpx.RequestBuilder) ([]byte, error) {
	start := time.Now()
	_, body, err := httpx.DoWithRetry(ctx, client, build, s.retry)
	if s.observer != nil {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		s.observer.ObserveUpstream("catalog_"+kind, outcome, time.Since(start))
	}
	return body, err
}
