package rstpost

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"
)

// Compile-time interface check.
var _ interface {
	Acquire(context.Context) (*Reader, error)
	Release(*Reader)
	Size() int
	Close() error
} = (*ReaderPool)(nil)

func newTestPool(t *testing.T, n int, opts ...Option) *ReaderPool {
	t.Helper()
	pool, err := NewReaderPool(n, opts...)
	if err != nil {
		t.Fatalf("NewReaderPool(%d) error = %v", n, err)
	}
	t.Cleanup(func() { _ = pool.Close() })
	return pool
}

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{
			name:    "explicit takes priority",
			workers: 4,
			want:    4,
		},
		{
			name:    "explicit=1 for sequential",
			workers: 1,
			want:    1,
		},
		{
			name:    "explicit can exceed max",
			workers: 100,
			want:    100,
		},
		{
			name:    "zero uses auto calculation",
			workers: 0,
			want:    min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize),
		},
		{
			name:    "negative uses auto calculation",
			workers: -5,
			want:    min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ResolvePoolSize(tt.workers)
			if got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

func TestNewReaderPool_InvalidOptions(t *testing.T) {
	t.Parallel()

	_, err := NewReaderPool(2, WithHighlightStyle("no-such-style"))
	if !errors.Is(err, ErrStyleNotFound) {
		t.Fatalf("NewReaderPool() error = %v, want ErrStyleNotFound", err)
	}
}

func TestReaderPool_Size(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		size int
		want int
	}{
		{"size 1", 1, 1},
		{"size 4", 4, 4},
		{"size 0 becomes 1", 0, 1},
		{"negative becomes 1", -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pool := newTestPool(t, tt.size)
			if got := pool.Size(); got != tt.want {
				t.Errorf("Size() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestReaderPool_AcquireRelease(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pool := newTestPool(t, 2)

	r1, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	r2, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if r1 == r2 {
		t.Error("expected different reader instances")
	}

	pool.Release(r1)
	r3, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if r3 != r1 {
		t.Error("expected to get back released reader")
	}

	pool.Release(r2)
	pool.Release(r3)
}

func TestReaderPool_AcquireHonorsContext(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, 1)

	r, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer pool.Release(r)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := pool.Acquire(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Acquire() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestReaderPool_Close(t *testing.T) {
	t.Parallel()

	pool, err := NewReaderPool(2)
	if err != nil {
		t.Fatalf("NewReaderPool() error = %v", err)
	}

	r, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	if err := pool.Close(); err != nil {
		t.Errorf("first Close() error = %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	// Release after close is a no-op.
	pool.Release(r)
	pool.Release(nil)

	if _, err := pool.Acquire(context.Background()); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Acquire() after Close error = %v, want ErrPoolClosed", err)
	}
}

func TestReaderPool_CloseUnblocksWaiters(t *testing.T) {
	t.Parallel()

	pool, err := NewReaderPool(1)
	if err != nil {
		t.Fatalf("NewReaderPool() error = %v", err)
	}
	if _, err := pool.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	errc := make(chan error, 1)
	go func() {
		_, err := pool.Acquire(context.Background())
		errc <- err
	}()

	time.Sleep(10 * time.Millisecond)
	_ = pool.Close()

	select {
	case err := <-errc:
		if !errors.Is(err, ErrPoolClosed) {
			t.Errorf("blocked Acquire() error = %v, want ErrPoolClosed", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not unblock a waiting Acquire")
	}
}

// TestReaderPool_HighContention verifies a small pool stays deadlock-free
// with many goroutines cycling through it.
func TestReaderPool_HighContention(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, 2)

	var wg sync.WaitGroup
	goroutines := 50
	iterations := 10

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				r, err := pool.Acquire(context.Background())
				if err != nil {
					t.Errorf("Acquire() error = %v", err)
					return
				}
				time.Sleep(time.Duration(j%3) * time.Millisecond)
				pool.Release(r)
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(30 * time.Second)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
		t.Fatal("high contention test timed out - possible deadlock")
	}
}

func TestReaderPool_SharedOptions(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, 2, WithDefaultAuthor("pool author"))
	ctx := context.Background()

	r1, _ := pool.Acquire(ctx)
	r2, _ := pool.Acquire(ctx)
	defer pool.Release(r1)
	defer pool.Release(r2)

	for i, r := range []*Reader{r1, r2} {
		post, err := r.Render(ctx, Input{Source: "Title\n=====\n\nbody\n"})
		if err != nil {
			t.Fatalf("reader %d Render() error = %v", i, err)
		}
		if post.Author != "pool author" {
			t.Errorf("reader %d Author = %q, want %q", i, post.Author, "pool author")
		}
	}
}
