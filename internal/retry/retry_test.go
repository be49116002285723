package retry

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"
)

// instantTimer fires immediately and records every requested wait.
type instantTimer struct {
	c     chan time.Time
	waits []time.Duration
}

func newInstantTimer() *instantTimer {
	return &instantTimer{c: make(chan time.Time, 1)}
}

func (t *instantTimer) Start(d time.Duration) {
	t.waits = append(t.waits, d)
	t.c <- time.Now()
}

func (t *instantTimer) Stop() {}

func (t *instantTimer) C() <-chan time.Time { return t.c }

var errFlaky = errors.New("network request failed")

func TestDoSucceedsAfterTwoFailures(t *testing.T) {
	timer := newInstantTimer()
	calls := 0
	got, err := Do(context.Background(), func(context.Context) (string, error) {
		calls++
		if calls <= 2 {
			return "", errFlaky
		}
		return "ok", nil
	}, WithTimer(timer))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Fatalf("got %q, want ok", got)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
	want := []time.Duration{time.Second, 2 * time.Second}
	if !slices.Equal(timer.waits, want) {
		t.Fatalf("waits = %v, want %v", timer.waits, want)
	}
}

func TestDoExhaustsBudget(t *testing.T) {
	timer := newInstantTimer()
	calls := 0
	original := fmt.Errorf("connection refused by %s", "backend")
	_, err := Do(context.Background(), func(context.Context) (int, error) {
		calls++
		return 0, original
	}, WithTimer(timer))

	if err != original {
		t.Fatalf("err = %v, want the original error unchanged", err)
	}
	if calls != 4 {
		t.Fatalf("calls = %d, want 4 (1 + 3 retries)", calls)
	}
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	if !slices.Equal(timer.waits, want) {
		t.Fatalf("waits = %v, want %v", timer.waits, want)
	}
}

func TestDoConstantInterval(t *testing.T) {
	timer := newInstantTimer()
	_ = Run(context.Background(), func(context.Context) error {
		return errFlaky
	}, WithTimer(timer), WithInterval(500*time.Millisecond), Constant(), WithRetries(2))

	want := []time.Duration{500 * time.Millisecond, 500 * time.Millisecond}
	if !slices.Equal(timer.waits, want) {
		t.Fatalf("waits = %v, want %v", timer.waits, want)
	}
}

func TestDoDoesNotRetryPermanentErrors(t *testing.T) {
	timer := newInstantTimer()
	calls := 0
	bad := errors.New("bad request: name is required")
	err := Run(context.Background(), func(context.Context) error {
		calls++
		return bad
	}, WithTimer(timer))

	if !errors.Is(err, bad) {
		t.Fatalf("err = %v, want %v", err, bad)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if len(timer.waits) != 0 {
		t.Fatalf("waited %v for a permanent error", timer.waits)
	}
}

func TestRetryAll(t *testing.T) {
	timer := newInstantTimer()
	calls := 0
	_ = Run(context.Background(), func(context.Context) error {
		calls++
		return errors.New("row violates check constraint")
	}, WithTimer(timer), RetryAll())

	if calls != 4 {
		t.Fatalf("calls = %d, want 4", calls)
	}
}

func TestZeroRetries(t *testing.T) {
	calls := 0
	err := Run(context.Background(), func(context.Context) error {
		calls++
		return errFlaky
	}, WithRetries(0))
	if !errors.Is(err, errFlaky) || calls != 1 {
		t.Fatalf("err = %v calls = %d", err, calls)
	}
}

func TestDoStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Run(ctx, func(context.Context) error {
		calls++
		cancel()
		return errFlaky
	}, WithInterval(time.Hour))

	if err == nil {
		t.Fatal("expected an error")
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestNotify(t *testing.T) {
	var seen []error
	calls := 0
	_ = Run(context.Background(), func(context.Context) error {
		calls++
		if calls == 1 {
			return errFlaky
		}
		return nil
	}, WithTimer(newInstantTimer()), WithNotify(func(err error, _ time.Duration) {
		seen = append(seen, err)
	}))
	if len(seen) != 1 || !errors.Is(seen[0], errFlaky) {
		t.Fatalf("notify saw %v", seen)
	}
}
