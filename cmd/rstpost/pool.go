package main

import (
	"context"

	"github.com/alnah/go-rstpost"
)

// PostReader converts one post source.
type PostReader interface {
	Read(ctx context.Context, path string) (*rstpost.Post, error)
}

// Compile-time interface implementation check.
var _ PostReader = (*rstpost.Reader)(nil)

// Pool abstracts reader pool operations for testability.
type Pool interface {
	Acquire(ctx context.Context) (PostReader, error)
	Release(PostReader)
	Size() int
}

// readerPool adapts rstpost.ReaderPool to Pool.
type readerPool struct {
	pool *rstpost.ReaderPool
}

// Compile-time check that readerPool implements Pool.
var _ Pool = (*readerPool)(nil)

// newReaderPool creates a pool of n readers sharing opts.
func newReaderPool(n int, opts []rstpost.Option) (*readerPool, error) {
	p, err := rstpost.NewReaderPool(n, opts...)
	if err != nil {
		return nil, err
	}
	return &readerPool{pool: p}, nil
}

func (p *readerPool) Acquire(ctx context.Context) (PostReader, error) {
	r, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (p *readerPool) Release(r PostReader) {
	if reader, ok := r.(*rstpost.Reader); ok {
		p.pool.Release(reader)
	}
}

func (p *readerPool) Size() int {
	return p.pool.Size()
}

func (p *readerPool) Close() error {
	return p.pool.Close()
}
