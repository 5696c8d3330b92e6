// Package httpx wraps outbound HTTP calls with bounded retries.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// HTTPError carries the status and body of a non-2xx response.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, snippet(e.Body, 300))
}

// RetryConfig controls retry behaviour.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	// OnRetry, when set, observes every failed attempt that will be retried.
	OnRetry func(attempt int, err error)
}

// DefaultRetryConfig retries three times starting at half a second.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{MaxAttempts: 3, BaseDelay: 500 * time.Millisecond, MaxDelay: 10 * time.Second}
}

// RequestBuilder builds a fresh request per attempt.
type RequestBuilder func(ctx context.Context) (*http.Request, error)

// DoWithRetry executes the request built by build, retrying transient network errors,
// 408, 429 and 5xx responses with exponential backoff and jitter. A Retry-After header
// overrides the computed delay. The body is always fully read and closed.
func DoWithRetry(ctx context.Context, client *http.Client, build RequestBuilder, cfg RetryConfig) (*http.Response, []byte, error) {
	def := DefaultRetryConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = def.BaseDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = def.MaxDelay
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		req, err := build(ctx)
		if err != nil {
			return nil, nil, err
		}

		var retryAfter time.Duration
		resp, err := client.Do(req)
		if err == nil {
			var body []byte
			body, err = readAndClose(resp.Body)
			if err == nil {
				if resp.StatusCode >= 200 && resp.StatusCode < 300 {
					return resp, body, nil
				}
				herr := &HTTPError{Method: req.Method, URL: req.URL.String(), StatusCode: resp.StatusCode, Body: body}
				if !retryableStatus(resp.StatusCode) {
					return resp, body, herr
				}
				retryAfter = ParseRetryAfter(resp)
				err = herr
			} else if !retryableNetErr(err) {
				return resp, body, err
			}
		} else if !retryableNetErr(err) {
			return nil, nil, err
		}

		lastErr = err
		if attempt == cfg.MaxAttempts {
			break
		}
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err)
		}
		if err := sleep(ctx, backoff(attempt, cfg, retryAfter)); err != nil {
			return nil, nil, err
		}
	}

	return nil, nil, fmt.Errorf("giving up after %d attempts: %w", cfg.MaxAttempts, lastErr)
}

// DoJSON runs DoWithRetry and decodes a JSON body into out.
func DoJSON(ctx context.Context, client *http.Client, build RequestBuilder, out any, cfg RetryConfig) error {
	_, body, err := DoWithRetry(ctx, client, build, cfg)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode json: %w: %s", err, snippet(body, 300))
	}
	return nil
}

// ParseRetryAfter reads a Retry-After header given in seconds or as an HTTP date.
func ParseRetryAfter(resp *http.Response) time.Duration {
	v := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

func backoff(attempt int, cfg RetryConfig, retryAfter time.Duration) time.Duration {
	if retryAfter > 0 {
		if retryAfter > cfg.MaxDelay {
			return cfg.MaxDelay
		}
		return retryAfter
	}
	d := cfg.BaseDelay << (attempt - 1)
	if d > cfg.MaxDelay || d <= 0 {
		d = cfg.MaxDelay
	}
	return d + time.Duration(rand.Int63n(int64(cfg.BaseDelay/2)+1))
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func retryableStatus(code int) bool {
	return code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || code >= 500
}

func retryableNetErr(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection reset") || strings.Contains(msg, "broken pipe") || strings.Contains(msg, "eof")
}

func readAndClose(rc io.ReadCloser) ([]byte, error) {
	defer rc.Close()
	return io.ReadAll(rc)
}

func snippet(b []byte, max int) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
