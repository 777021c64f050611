package service

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// FitPool bounds how many model fits run at once.
type FitPool struct {
	sem  *semaphore.Weighted
	size int
}

func NewFitPool(size int) *FitPool {
	if size < 1 {
		size = 1
	}
	return &FitPool{sem: semaphore.NewWeighted(int64(size)), size: size}
}

func (p *FitPool) Size() int {
	return p.size
}

// Run waits for a free slot and calls fn in the caller's goroutine. It returns ctx.Err() if
// the context ends before a slot frees up.
func (p *FitPool) Run(ctx context.Context, fn func() error) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer p.sem.Release(1)
	return fn()
}
