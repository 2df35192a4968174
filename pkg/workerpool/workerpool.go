// Package workerpool runs a function over a slice with bounded concurrency.
package workerpool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Map calls fn for every item using at most size concurrent workers and returns the results in
// input order. Workers pull the next unprocessed item until the queue is empty.
//
// fn reports per-item failures through its result; a non-nil error from fn is treated as fatal,
// cancels the context passed to the remaining calls and is returned once all workers stop.
func Map[In, Out any](ctx context.Context, size int, items []In, fn func(ctx context.Context, index int, item In) (Out, error)) ([]Out, error) {
	if size < 1 {
		size = 1
	}
	results := make([]Out, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(size)
	for i, item := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			out, err := fn(gctx, i, item)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}
