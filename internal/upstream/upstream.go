// Package upstream wraps outbound HTTP calls with retries, exponential
// backoff and a circuit breaker. Both the geocoding and the forecast
// clients go through it.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// Backoff controls retry behaviour
type Backoff struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultBackoff is used by both upstream clients
var DefaultBackoff = Backoff{
	MaxRetries:      2,
	InitialInterval: 500 * time.Millisecond,
	MaxInterval:     5 * time.Second,
}

var (
	ErrRateLimited = errors.New("rate limited")
	ErrServerError = errors.New("server error")
	ErrUnexpected  = errors.New("unexpected status code")
	ErrCircuitOpen = errors.New("circuit breaker open")
)

// NewBreaker creates a circuit breaker with the settings shared by all
// upstream clients.
func NewBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// Do executes the HTTP request through the circuit breaker, retrying
// transient failures with exponential backoff. The caller owns the
// response body on success.
func Do(
	ctx context.Context,
	client *http.Client,
	cb *gobreaker.CircuitBreaker,
	backoff Backoff,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	var attempt int
	var lastErr error

	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := buildRequest()
		if err != nil {
			return nil, err
		}
		req = req.WithContext(ctx)

		result, err := cb.Execute(func() (interface{}, error) {
			resp, execErr := client.Do(req)
			if execErr != nil {
				return nil, execErr
			}

			if resp.StatusCode == http.StatusTooManyRequests {
				resp.Body.Close()
				return nil, ErrRateLimited
			}
			if resp.StatusCode >= 500 {
				resp.Body.Close()
				return nil, ErrServerError
			}
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				resp.Body.Close()
				return nil, fmt.Errorf("%w: %d", ErrUnexpected, resp.StatusCode)
			}

			return resp, nil
		})

		if err == nil {
			return result.(*http.Response), nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}

		lastErr = err
		if attempt >= backoff.MaxRetries {
			return nil, lastErr
		}

		delay := backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if backoff.MaxInterval > 0 && delay > backoff.MaxInterval {
			delay = backoff.MaxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		attempt++
	}
}
