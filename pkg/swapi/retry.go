package swapi

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for retry operations.
var (
	swapiRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swapi_retries_total",
		Help: "Total number of retry attempts by error class",
	}, []string{"error_class"})

	swapiRetryBackoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "swapi_retry_backoff_seconds",
		Help:    "Backoff duration for retries by error class",
		Buckets: []float64{0.5, 1, 2, 5, 10},
	}, []string{"error_class"})

	swapiRetryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swapi_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted by error class",
	}, []string{"error_class"})
)

// retryWithBackoff executes fn up to maxAttempts times with linearly
// growing delays: baseDelay after the first failure, 2*baseDelay after
// the second, and so on. Waits respect context cancellation. Errors with
// a terminal class are returned immediately without further attempts.
func retryWithBackoff(ctx context.Context, maxAttempts int, baseDelay time.Duration, logger zerolog.Logger, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			if attempt > 1 {
				logger.Info().
					Int("attempt", attempt).
					Msg("Request succeeded after retry")
			}
			return nil
		}

		lastErr = err
		class := Classify(err)

		if !shouldRetry(class) {
			return lastErr
		}

		if attempt >= maxAttempts {
			break
		}

		delay := baseDelay * time.Duration(attempt)
		swapiRetriesTotal.WithLabelValues(string(class)).Inc()
		swapiRetryBackoffSeconds.WithLabelValues(string(class)).Observe(delay.Seconds())

		logger.Debug().
			Str("error_class", string(class)).
			Int("attempt", attempt).
			Dur("backoff", delay).
			Msg("Retrying request after backoff")

		select {
		case <-ctx.Done():
			logger.Warn().
				Str("error_class", string(class)).
				Int("attempt", attempt).
				Msg("Context cancelled during retry backoff")
			return fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
		case <-time.After(delay):
		}
	}

	class := Classify(lastErr)
	swapiRetryExhaustedTotal.WithLabelValues(string(class)).Inc()
	logger.Warn().
		Str("error_class", string(class)).
		Int("max_attempts", maxAttempts).
		Msg("Retry attempts exhausted")

	return fmt.Errorf("%w after %d attempts: %v", ErrRetryExhausted, maxAttempts, lastErr)
}
