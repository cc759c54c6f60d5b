package concurrency

import (
	"context"
	"sync"
)

// ParallelOptions configures the worker pool.
type ParallelOptions struct {
	// MaxWorkers caps the number of goroutines; <= 0 means 10.
	MaxWorkers int
}

func DefaultOptions() ParallelOptions {
	return ParallelOptions{
		MaxWorkers: 10,
	}
}

func (o ParallelOptions) workers(n int) int {
	w := o.MaxWorkers
	if w <= 0 {
		w = 10
	}
	if w > n {
		w = n
	}
	return w
}

type indexed[R any] struct {
	index  int
	result R
	err    error
}

// ProcessParallel runs itemFunc for every item on a bounded pool.
// Results come back in input order; errors are collected in completion order.
// Items not started before ctx is cancelled keep their zero value and
// contribute ctx.Err() once.
func ProcessParallel[T any, R any](
	ctx context.Context,
	items []T,
	opts ParallelOptions,
	itemFunc func(ctx context.Context, index int, item T) (R, error),
) ([]R, []error) {
	if len(items) == 0 {
		return []R{}, nil
	}

	jobs := make(chan int, len(items))
	results := make(chan indexed[R], len(items))

	var wg sync.WaitGroup
	for w := 0; w < opts.workers(len(items)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					return
				}
				r, err := itemFunc(ctx, i, items[i])
				results <- indexed[R]{index: i, result: r, err: err}
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]R, len(items))
	var errs []error
	done := 0
	for res := range results {
		done++
		if res.err != nil {
			errs = append(errs, res.err)
		}
		out[res.index] = res.result
	}
	if done < len(items) {
		errs = append(errs, ctx.Err())
	}

	return out, errs
}

// ForEach is ProcessParallel for side effects only.
func ForEach[T any](
	ctx context.Context,
	items []T,
	opts ParallelOptions,
	itemFunc func(ctx context.Context, index int, item T) error,
) []error {
	if len(items) == 0 {
		return nil
	}
	_, errs := ProcessParallel(ctx, items, opts, func(ctx context.Context, i int, item T) (struct{}, error) {
		return struct{}{}, itemFunc(ctx, i, item)
	})
	return errs
}
