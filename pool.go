package rstpost

import (
	"context"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps automatic sizing; explicit sizes may exceed it.
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for file IO and output encoding.
	cpuDivisor = 2
)

// ReaderPool hands out Readers built from the same options to parallel
// workers. Readers past the first are created lazily on acquire.
type ReaderPool struct {
	size    int
	opts    []Option
	sem     chan *Reader
	mu      sync.Mutex
	created int
	closed  bool
}

// NewReaderPool creates a pool with capacity for n Readers.
// The first Reader is built eagerly so invalid options fail here.
func NewReaderPool(n int, opts ...Option) (*ReaderPool, error) {
	if n < MinPoolSize {
		n = MinPoolSize
	}

	first, err := NewReader(opts...)
	if err != nil {
		return nil, err
	}

	p := &ReaderPool{
		size:    n,
		opts:    opts,
		sem:     make(chan *Reader, n),
		created: 1,
	}
	p.sem <- first
	return p, nil
}

// Acquire gets a Reader from the pool, creating one if capacity allows.
// Blocks until a Reader is released, ctx is done, or the pool closes.
func (p *ReaderPool) Acquire(ctx context.Context) (*Reader, error) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return nil, ErrPoolClosed
	}

	select {
	case r, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return r, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		r, err := NewReader(p.opts...)
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}
		return r, nil
	}
	p.mu.Unlock()

	select {
	case r, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return r, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a Reader to the pool. Releasing after Close is a no-op.
func (p *ReaderPool) Release(r *Reader) {
	if r == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	// Never blocks: at most size readers exist.
	p.sem <- r
}

// Close stops the pool. Pending and later Acquire calls fail with
// ErrPoolClosed.
func (p *ReaderPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	close(p.sem)
	return nil
}

// Size returns the pool capacity.
func (p *ReaderPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs in containers.
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
