package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// defaultMapParallelism bounds the goroutines used by Map.
const defaultMapParallelism = 8

// Map applies fn to every item concurrently. The result keeps the order of
// items and is never nil. The first error cancels the remaining work and is
// returned.
func Map[In, Out any](ctx context.Context, items []In, fn func(ctx context.Context, item In) (Out, error)) ([]Out, error) {
	out := make([]Out, len(items))
	if len(items) == 0 {
		return out, nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(defaultMapParallelism)
	for i := range items {
		i := i
		g.Go(func() error {
			v, err := fn(gctx, items[i])
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Filter returns the items kept by keep, in order. The result is never nil.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
