package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

var (
	// ErrMaxRetriesExceeded is returned when every attempt failed. The
	// last attempt's error is wrapped alongside it.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
	// ErrContextCanceled is returned when the context ended mid-retry.
	ErrContextCanceled = errors.New("context canceled during retry")
)

// Config tunes the exponential backoff.
type Config struct {
	// MaxRetries is the number of retries after the initial attempt.
	MaxRetries int
	// InitialInterval is the first backoff wait.
	InitialInterval time.Duration
	// MaxInterval caps the backoff growth.
	MaxInterval time.Duration
	// Multiplier grows the interval between attempts.
	Multiplier float64
	// JitterFactor (0..1) randomizes each wait by that fraction.
	JitterFactor float64
}

// DefaultConfig is tuned for in-request retries of lost commit races:
// 25ms, 50ms, 100ms with ±20% jitter, well under a request timeout.
func DefaultConfig() *Config {
	return &Config{
		MaxRetries:      3,
		InitialInterval: 25 * time.Millisecond,
		MaxInterval:     500 * time.Millisecond,
		Multiplier:      2.0,
		JitterFactor:    0.2,
	}
}

// Operation is the retried function.
type Operation func(ctx context.Context) error

// PermanentError stops the retry loop immediately.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent marks an error as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// Result reports how a retried operation ended.
type Result struct {
	// Err is nil on success. On exhaustion it wraps both
	// ErrMaxRetriesExceeded and the last attempt's error, so callers can
	// errors.Is against either.
	Err error
	// Attempts counts all attempts including the first.
	Attempts int
	// TotalDuration includes backoff waits.
	TotalDuration time.Duration
	// LastError is the error from the final attempt.
	LastError error
}

// Retrier runs operations with exponential backoff.
type Retrier struct {
	config *Config
}

func New(config *Config) *Retrier {
	if config == nil {
		config = DefaultConfig()
	}
	if config.InitialInterval <= 0 {
		config.InitialInterval = 25 * time.Millisecond
	}
	if config.MaxInterval <= 0 {
		config.MaxInterval = 500 * time.Millisecond
	}
	if config.Multiplier <= 0 {
		config.Multiplier = 2.0
	}
	config.JitterFactor = math.Min(math.Max(config.JitterFactor, 0), 1)

	return &Retrier{config: config}
}

// Do runs op until it succeeds, returns a permanent error, exhausts the
// retry budget, or the context ends.
func (r *Retrier) Do(ctx context.Context, op Operation) *Result {
	start := time.Now()
	result := &Result{}

	finish := func(err, lastErr error) *Result {
		result.Err = err
		result.LastError = lastErr
		result.TotalDuration = time.Since(start)
		return result
	}

	var lastErr error
	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		result.Attempts = attempt + 1

		if ctx.Err() != nil {
			return finish(ErrContextCanceled, lastErr)
		}

		err := op(ctx)
		if err == nil {
			return finish(nil, nil)
		}
		lastErr = err

		var perm *PermanentError
		if errors.As(err, &perm) {
			return finish(perm.Err, perm.Err)
		}

		if attempt == r.config.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return finish(ErrContextCanceled, lastErr)
		case <-time.After(r.backoff(attempt)):
		}
	}

	return finish(fmt.Errorf("%w: %w", ErrMaxRetriesExceeded, lastErr), lastErr)
}

func (r *Retrier) backoff(attempt int) time.Duration {
	interval := float64(r.config.InitialInterval) * math.Pow(r.config.Multiplier, float64(attempt))

	// Jitter keeps racing writers from retrying in lockstep.
	if r.config.JitterFactor > 0 {
		jitter := interval * r.config.JitterFactor
		interval += (rand.Float64()*2 - 1) * jitter
	}

	if interval > float64(r.config.MaxInterval) {
		interval = float64(r.config.MaxInterval)
	}
	if interval < 0 {
		interval = float64(r.config.InitialInterval)
	}
	return time.Duration(interval)
}

// Do runs op with a one-off Retrier.
func Do(ctx context.Context, config *Config, op Operation) *Result {
	return New(config).Do(ctx, op)
}
