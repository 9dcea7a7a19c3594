package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestIngestLimiter_Slots(t *testing.T) {
	l := NewIngestLimiter(2, time.Second)
	ctx := context.Background()

	steps := []struct {
		name          string
		op            func() error
		wantActive    int
		wantAvailable int
	}{
		{"initial", func() error { return nil }, 0, 2},
		{"acquire one", func() error { return l.Acquire(ctx) }, 1, 1},
		{"acquire two", func() error { return l.Acquire(ctx) }, 2, 0},
		{"release one", func() error { l.Release(); return nil }, 1, 1},
		{"release two", func() error { l.Release(); return nil }, 0, 2},
	}

	for _, s := range steps {
		if err := s.op(); err != nil {
			t.Fatalf("%s: unexpected error: %v", s.name, err)
		}
		if got := l.ActiveCount(); got != s.wantActive {
			t.Errorf("%s: ActiveCount = %d, want %d", s.name, got, s.wantActive)
		}
		if got := l.Available(); got != s.wantAvailable {
			t.Errorf("%s: Available = %d, want %d", s.name, got, s.wantAvailable)
		}
	}
}

func TestIngestLimiter_WaitExpires(t *testing.T) {
	l := NewIngestLimiter(1, 50*time.Millisecond)
	ctx := context.Background()

	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer l.Release()

	start := time.Now()
	err := l.Acquire(ctx)
	if !errors.Is(err, ErrTooManyIngests) {
		t.Fatalf("Acquire error = %v, want ErrTooManyIngests", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("gave up after %v, want about 50ms", elapsed)
	}
}

func TestIngestLimiter_ContextCancelled(t *testing.T) {
	l := NewIngestLimiter(1, 5*time.Second)
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer l.Release()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- l.Acquire(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Acquire error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Acquire did not return after cancellation")
	}
}

func TestIngestLimiter_CancelledBeforeAcquire(t *testing.T) {
	l := NewIngestLimiter(2, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for range 20 {
		if err := l.Acquire(ctx); !errors.Is(err, context.Canceled) {
			t.Fatalf("Acquire error = %v, want context.Canceled", err)
		}
	}
	if got := l.ActiveCount(); got != 0 {
		t.Errorf("ActiveCount = %d, want 0 with free slots left untouched", got)
	}
}

func TestIngestLimiter_TryAcquire(t *testing.T) {
	l := NewIngestLimiter(1, time.Second)

	if !l.TryAcquire() {
		t.Fatal("first TryAcquire should succeed")
	}
	if l.TryAcquire() {
		t.Error("TryAcquire on a full limiter should fail")
	}
	l.Release()
	if !l.TryAcquire() {
		t.Error("TryAcquire after Release should succeed")
	}
	l.Release()
}

func TestIngestLimiter_NeverExceedsMax(t *testing.T) {
	const maxConcurrent = 3
	l := NewIngestLimiter(maxConcurrent, time.Second)

	var (
		wg      sync.WaitGroup
		current atomic.Int64
		peak    atomic.Int64
	)
	for range 12 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Acquire(context.Background()); err != nil {
				t.Errorf("Acquire failed: %v", err)
				return
			}
			defer l.Release()

			n := current.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			current.Add(-1)
		}()
	}
	wg.Wait()

	if got := peak.Load(); got > maxConcurrent {
		t.Errorf("peak concurrency = %d, want <= %d", got, maxConcurrent)
	}
	if got := l.ActiveCount(); got != 0 {
		t.Errorf("ActiveCount after all done = %d, want 0", got)
	}
}

func TestIngestLimiter_WaitForDrain(t *testing.T) {
	l := NewIngestLimiter(2, time.Second)
	_ = l.Acquire(context.Background())

	done := make(chan error, 1)
	go func() { done <- l.WaitForDrain(context.Background()) }()

	select {
	case <-done:
		t.Fatal("WaitForDrain returned while an ingest was active")
	case <-time.After(30 * time.Millisecond):
	}

	l.Release()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("WaitForDrain error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitForDrain did not return after release")
	}
}

func TestIngestLimiter_WaitForDrainCancelled(t *testing.T) {
	l := NewIngestLimiter(1, time.Second)
	_ = l.Acquire(context.Background())
	defer l.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.WaitForDrain(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("WaitForDrain error = %v, want context.DeadlineExceeded", err)
	}
}

func TestIngestLimiter_Defaults(t *testing.T) {
	st := NewIngestLimiter(0, 0).Status()
	if st.MaxConcurrent != DefaultMaxConcurrentIngests {
		t.Errorf("MaxConcurrent = %d, want %d", st.MaxConcurrent, DefaultMaxConcurrentIngests)
	}
	if st.Active != 0 || st.Available != DefaultMaxConcurrentIngests {
		t.Errorf("Status = %+v", st)
	}
}
