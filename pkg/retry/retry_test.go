package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errLostRace = errors.New("booking overlaps existing reservation")

func fastConfig(maxRetries int) *Config {
	return &Config{
		MaxRetries:      maxRetries,
		InitialInterval: time.Millisecond,
		MaxInterval:     10 * time.Millisecond,
		Multiplier:      2.0,
	}
}

func TestNew_AppliesDefaults(t *testing.T) {
	for _, cfg := range []*Config{nil, {}} {
		r := New(cfg)
		if r.config.InitialInterval != 25*time.Millisecond {
			t.Errorf("InitialInterval = %v, want 25ms", r.config.InitialInterval)
		}
		if r.config.MaxInterval != 500*time.Millisecond {
			t.Errorf("MaxInterval = %v, want 500ms", r.config.MaxInterval)
		}
		if r.config.Multiplier != 2.0 {
			t.Errorf("Multiplier = %v, want 2.0", r.config.Multiplier)
		}
	}
}

func TestNew_ClampsJitter(t *testing.T) {
	if got := New(&Config{JitterFactor: 1.5}).config.JitterFactor; got != 1 {
		t.Errorf("JitterFactor = %v, want clamped to 1", got)
	}
	if got := New(&Config{JitterFactor: -0.5}).config.JitterFactor; got != 0 {
		t.Errorf("JitterFactor = %v, want clamped to 0", got)
	}
}

func TestDo_Attempts(t *testing.T) {
	tests := []struct {
		name         string
		maxRetries   int
		failFirst    int // attempts that fail before success; -1 fails forever
		wantAttempts int
		wantErr      error
	}{
		{name: "first attempt succeeds", maxRetries: 3, failFirst: 0, wantAttempts: 1},
		{name: "succeeds after two lost races", maxRetries: 5, failFirst: 2, wantAttempts: 3},
		{name: "budget exhausted", maxRetries: 3, failFirst: -1, wantAttempts: 4, wantErr: ErrMaxRetriesExceeded},
		{name: "zero retries fails on first error", maxRetries: 0, failFirst: -1, wantAttempts: 1, wantErr: ErrMaxRetriesExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			result := New(fastConfig(tt.maxRetries)).Do(context.Background(), func(ctx context.Context) error {
				calls++
				if tt.failFirst < 0 || calls <= tt.failFirst {
					return errLostRace
				}
				return nil
			})

			if result.Attempts != tt.wantAttempts {
				t.Errorf("Attempts = %d, want %d", result.Attempts, tt.wantAttempts)
			}
			if calls != tt.wantAttempts {
				t.Errorf("operation ran %d times, want %d", calls, tt.wantAttempts)
			}
			if tt.wantErr == nil {
				if result.Err != nil {
					t.Errorf("Err = %v, want nil", result.Err)
				}
			} else if !errors.Is(result.Err, tt.wantErr) {
				t.Errorf("Err = %v, want %v", result.Err, tt.wantErr)
			}
		})
	}
}

func TestDo_ExhaustionWrapsLastError(t *testing.T) {
	result := New(fastConfig(2)).Do(context.Background(), func(ctx context.Context) error {
		return errLostRace
	})

	// Callers match on the underlying cause, not the retry sentinel.
	if !errors.Is(result.Err, errLostRace) {
		t.Errorf("Err = %v, want to wrap %v", result.Err, errLostRace)
	}
	if !errors.Is(result.Err, ErrMaxRetriesExceeded) {
		t.Errorf("Err = %v, want to wrap ErrMaxRetriesExceeded", result.Err)
	}
	if !errors.Is(result.LastError, errLostRace) {
		t.Errorf("LastError = %v, want %v", result.LastError, errLostRace)
	}
}

func TestDo_PermanentErrorStopsImmediately(t *testing.T) {
	notFound := errors.New("room not found")
	calls := 0
	result := New(fastConfig(5)).Do(context.Background(), func(ctx context.Context) error {
		calls++
		return Permanent(notFound)
	})

	if !errors.Is(result.Err, notFound) {
		t.Errorf("Err = %v, want %v", result.Err, notFound)
	}
	if calls != 1 {
		t.Errorf("operation ran %d times, want 1", calls)
	}
}

func TestDo_ContextCanceledBetweenAttempts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	result := New(fastConfig(10)).Do(ctx, func(ctx context.Context) error {
		calls++
		if calls == 2 {
			cancel()
		}
		return errLostRace
	})

	if !errors.Is(result.Err, ErrContextCanceled) {
		t.Errorf("Err = %v, want ErrContextCanceled", result.Err)
	}
	if calls < 2 {
		t.Errorf("operation ran %d times, want at least 2", calls)
	}
}

func TestDo_ContextDeadline(t *testing.T) {
	cfg := &Config{
		MaxRetries:      10,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     time.Second,
		Multiplier:      2.0,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	result := New(cfg).Do(ctx, func(ctx context.Context) error {
		return errLostRace
	})

	if !errors.Is(result.Err, ErrContextCanceled) {
		t.Errorf("Err = %v, want ErrContextCanceled", result.Err)
	}
}

func TestBackoff_Growth(t *testing.T) {
	r := New(&Config{
		MaxRetries:      5,
		InitialInterval: 10 * time.Millisecond,
		MaxInterval:     100 * time.Millisecond,
		Multiplier:      2.0,
	})

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 10 * time.Millisecond},
		{1, 20 * time.Millisecond},
		{2, 40 * time.Millisecond},
		{3, 80 * time.Millisecond},
		{4, 100 * time.Millisecond}, // 160ms capped
		{5, 100 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := r.backoff(tt.attempt); got != tt.want {
			t.Errorf("backoff(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestBackoff_JitterStaysInBounds(t *testing.T) {
	r := New(&Config{
		MaxRetries:      3,
		InitialInterval: time.Second,
		MaxInterval:     30 * time.Second,
		Multiplier:      2.0,
		JitterFactor:    0.1,
	})

	seen := make(map[time.Duration]bool)
	lo := time.Duration(float64(time.Second) * 0.9)
	hi := time.Duration(float64(time.Second) * 1.1)
	for i := 0; i < 100; i++ {
		d := r.backoff(0)
		seen[d] = true
		if d < lo || d > hi {
			t.Fatalf("backoff(0) = %v, want within [%v, %v]", d, lo, hi)
		}
	}
	if len(seen) < 3 {
		t.Errorf("jitter produced only %d distinct values", len(seen))
	}
}

func TestPermanent(t *testing.T) {
	cause := errors.New("validation failed")

	var pe *PermanentError
	if !errors.As(Permanent(cause), &pe) {
		t.Fatal("Permanent should wrap in *PermanentError")
	}
	if !errors.Is(pe, cause) {
		t.Error("PermanentError should unwrap to the cause")
	}
	if Permanent(nil) != nil {
		t.Error("Permanent(nil) should be nil")
	}
}

func TestDo_PackageLevel(t *testing.T) {
	calls := 0
	result := Do(context.Background(), fastConfig(2), func(ctx context.Context) error {
		calls++
		return nil
	})
	if result.Err != nil || calls != 1 {
		t.Errorf("Do: err=%v calls=%d, want nil err and 1 call", result.Err, calls)
	}
}
