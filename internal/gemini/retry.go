package gemini

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"
)

// StatusError is a non-2xx response from upstream.
type StatusError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

// RetryConfig defines retry behavior for upstream calls
type RetryConfig struct {
	MaxRetries      int           `json:"maxRetries"`
	BaseDelay       time.Duration `json:"baseDelay"`
	MaxDelay        time.Duration `json:"maxDelay"`
	BackoffFactor   float64       `json:"backoffFactor"`
	JitterFactor    float64       `json:"jitterFactor"`
	RetryableStatus []int         `json:"retryableStatus"`
}

// DefaultRetryConfig retries rate limits and gateway errors a couple of times.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:    2,
		BaseDelay:     500 * time.Millisecond,
		MaxDelay:      10 * time.Second,
		BackoffFactor: 2.0,
		JitterFactor:  0.1,
		RetryableStatus: []int{
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout,
		},
	}
}

// NoRetry performs a single attempt.
func NoRetry() RetryConfig {
	return RetryConfig{}
}

func (c RetryConfig) retryable(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	for _, code := range c.RetryableStatus {
		if se.StatusCode == code {
			return true
		}
	}
	return false
}

// backoff returns the delay before retry number attempt (0-based).
func (c RetryConfig) backoff(attempt int) time.Duration {
	delay := float64(c.BaseDelay) * math.Pow(c.BackoffFactor, float64(attempt))
	delay += delay * c.JitterFactor * (2*rand.Float64() - 1)

	if delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}
	if delay < float64(c.BaseDelay) {
		delay = float64(c.BaseDelay)
	}
	return time.Duration(delay)
}

// parseRetryAfter reads a Retry-After header given in seconds or as an HTTP date.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(v); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		return time.Until(t)
	}
	return 0
}

// withRetry runs op until it succeeds, returns a non-retryable error, or
// the attempts are exhausted.
func withRetry[T any](ctx context.Context, cfg RetryConfig, op func(ctx context.Context) (T, error)) (T, error) {
	var (
		result T
		err    error
	)
	for attempt := 0; ; attempt++ {
		result, err = op(ctx)
		if err == nil {
			return result, nil
		}
		if attempt >= cfg.MaxRetries || !cfg.retryable(err) {
			if attempt > 0 {
				return result, fmt.Errorf("failed after %d attempts: %w", attempt+1, err)
			}
			return result, err
		}

		delay := cfg.backoff(attempt)
		var se *StatusError
		if errors.As(err, &se) && se.RetryAfter > 0 {
			delay = min(se.RetryAfter, cfg.MaxDelay)
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(delay):
		}
	}
}
