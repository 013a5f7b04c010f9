// Package fanout runs one function across a slice of items with a fixed
// number of worker goroutines, preserving input order in the results. The
// notification service uses it to notify followers concurrently.
package fanout

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrPanic wraps a panic raised by fn for one item.
var ErrPanic = errors.New("fanout: item panicked")

// Result holds the outcome of processing a single item.
// Either Value is populated (on success) or Err is non-nil (on failure).
type Result[R any] struct {
	Value R
	Err   error
}

// Run executes fn for each item in items using at most maxWorkers concurrent
// goroutines. Results are returned in the same order as the input items.
// A maxWorkers below 1 is treated as 1.
//
// If ctx is canceled while a goroutine is waiting for a worker slot, that
// item records ctx.Err() and fn is not called. Items already running finish;
// fn is responsible for honoring ctx itself.
//
// A panic in fn is recovered and recorded as an error wrapping ErrPanic for
// that item only.
//
// Run blocks until all items complete. If items is empty, it returns an
// empty non-nil slice immediately.
func Run[T, R any](ctx context.Context, maxWorkers int, items []T, fn func(context.Context, T) (R, error)) []Result[R] {
	if len(items) == 0 {
		return []Result[R]{}
	}
	maxWorkers = max(maxWorkers, 1)

	results := make([]Result[R], len(items))
	sem := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Add(1)
		go func(idx int, it T) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[idx] = Result[R]{Err: ctx.Err()}
				return
			}

			results[idx] = call(ctx, it, fn)
		}(i, item)
	}

	wg.Wait()
	return results
}

func call[T, R any](ctx context.Context, it T, fn func(context.Context, T) (R, error)) (res Result[R]) {
	defer func() {
		if r := recover(); r != nil {
			res = Result[R]{Err: fmt.Errorf("%w: %v", ErrPanic, r)}
		}
	}()
	val, err := fn(ctx, it)
	return Result[R]{Value: val, Err: err}
}

// Split separates results into the successful values and the indexes of the
// failed items, both in input order.
func Split[R any](results []Result[R]) (values []R, failed []int) {
	for i, r := range results {
		if r.Err != nil {
			failed = append(failed, i)
			continue
		}
		values = append(values, r.Value)
	}
	return values, failed
}
