// Package batch runs units of work over item sequences in bounded, retried batches.
package batch

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/errs"
)

const (
	DefaultBatchSize   = 100
	DefaultConcurrency = 4
)

type Options struct {
	BatchSize   int
	Concurrency int
	// RetryAttempts is the number of retries after the first attempt.
	RetryAttempts int
	RetryDelay    time.Duration
	// BackoffFactor multiplies the delay after every retry. Values <= 1 keep it fixed.
	BackoffFactor float64
	// ShouldRetry decides whether a failure is worth retrying. By default everything
	// except permanent errors (validation, configuration, dependency) is retried.
	ShouldRetry func(error) bool
	// Progress is called after every batch (or item) completes. Calls are serialised.
	Progress func(Progress)
	// Label prefixes log lines.
	Label string
}

func (o Options) withDefaults() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.RetryAttempts < 0 {
		o.RetryAttempts = 0
	}
	if o.ShouldRetry == nil {
		o.ShouldRetry = func(err error) bool { return !errs.Permanent(err) }
	}
	if o.Label == "" {
		o.Label = "batch"
	}
	return o
}

type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Processed int `json:"processed"`
	Items     int `json:"items"`
	Failed    int `json:"failed"`
}

// ItemError records an item that could not be processed after every retry.
type ItemError[T any] struct {
	Index    int
	Item     T
	Err      error
	Attempts int
}

type Result[T, R any] struct {
	// Results holds successful outputs. ProcessBatch appends them in batch completion
	// order; ProcessParallel keeps input order.
	Results        []R
	Errors         []ItemError[T]
	ProcessedCount int
	SuccessCount   int
	Duration       time.Duration
}

// Partition splits items into consecutive chunks of at most size.
func Partition[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = DefaultBatchSize
	}
	out := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end])
	}
	return out
}

// ProcessBatch runs fn over batches of items with at most Concurrency batches in
// flight. A failing batch is retried as a whole; when retries run out every item in it
// is recorded as an error and the remaining batches carry on.
func ProcessBatch[T, R any](ctx context.Context, items []T, fn func(ctx context.Context, batch []T) ([]R, error), opts Options) *Result[T, R] {
	opts = opts.withDefaults()
	start := time.Now()
	batches := Partition(items, opts.BatchSize)
	res := &Result[T, R]{}

	var (
		mu        sync.Mutex
		completed int
	)
	record := func(offset int, b []T, out []R, attempts int, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			for j, it := range b {
				res.Errors = append(res.Errors, ItemError[T]{Index: offset + j, Item: it, Err: err, Attempts: attempts})
			}
		} else {
			res.Results = append(res.Results, out...)
			res.SuccessCount += len(b)
		}
		res.ProcessedCount += len(b)
		completed++
		if opts.Progress != nil {
			opts.Progress(Progress{
				Completed: completed,
				Total:     len(batches),
				Processed: res.ProcessedCount,
				Items:     len(items),
				Failed:    len(res.Errors),
			})
		}
	}

	var g errgroup.Group
	g.SetLimit(opts.Concurrency)
	for bi, b := range batches {
		offset := bi * opts.BatchSize
		if err := ctx.Err(); err != nil {
			record(offset, b, nil, 0, err)
			continue
		}
		g.Go(func() error {
			out, attempts, err := withRetry(ctx, opts, func() ([]R, error) { return fn(ctx, b) })
			if err != nil {
				log.Printf("[%s] batch %d/%d failed after %d attempts: %v", opts.Label, bi+1, len(batches), attempts, err)
			}
			record(offset, b, out, attempts, err)
			return nil
		})
	}
	_ = g.Wait()
	sortErrors(res.Errors)
	res.Duration = time.Since(start)
	return res
}

// ProcessParallel runs fn per item with the same retry policy, at most Concurrency at
// a time. Results keep input order with failed items left out.
func ProcessParallel[T, R any](ctx context.Context, items []T, fn func(ctx context.Context, item T) (R, error), opts Options) *Result[T, R] {
	opts = opts.withDefaults()
	start := time.Now()
	res := &Result[T, R]{}

	slots := make([]R, len(items))
	ok := make([]bool, len(items))
	var (
		mu        sync.Mutex
		completed int
	)
	record := func(i int, out R, attempts int, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			res.Errors = append(res.Errors, ItemError[T]{Index: i, Item: items[i], Err: err, Attempts: attempts})
		} else {
			slots[i], ok[i] = out, true
			res.SuccessCount++
		}
		res.ProcessedCount++
		completed++
		if opts.Progress != nil {
			opts.Progress(Progress{
				Completed: completed,
				Total:     len(items),
				Processed: res.ProcessedCount,
				Items:     len(items),
				Failed:    len(res.Errors),
			})
		}
	}

	var g errgroup.Group
	g.SetLimit(opts.Concurrency)
	for i, it := range items {
		if err := ctx.Err(); err != nil {
			var zero R
			record(i, zero, 0, err)
			continue
		}
		g.Go(func() error {
			out, attempts, err := withRetry(ctx, opts, func() (R, error) { return fn(ctx, it) })
			record(i, out, attempts, err)
			return nil
		})
	}
	_ = g.Wait()

	res.Results = make([]R, 0, res.SuccessCount)
	for i := range slots {
		if ok[i] {
			res.Results = append(res.Results, slots[i])
		}
	}
	sortErrors(res.Errors)
	res.Duration = time.Since(start)
	return res
}

func sortErrors[T any](es []ItemError[T]) {
	sort.Slice(es, func(a, b int) bool { return es[a].Index < es[b].Index })
}

// withRetry calls op until it succeeds, the error is not retryable, retries run out or
// ctx is done. It returns the number of attempts made.
func withRetry[R any](ctx context.Context, opts Options, op func() (R, error)) (R, int, error) {
	var zero R
	delay := opts.RetryDelay
	for attempt := 1; ; attempt++ {
		out, err := op()
		if err == nil {
			return out, attempt, nil
		}
		if attempt > opts.RetryAttempts || !opts.ShouldRetry(err) {
			return zero, attempt, err
		}
		log.Printf("[%s] attempt %d failed, retrying in %s: %v", opts.Label, attempt, delay, err)
		if delay > 0 {
			t := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return zero, attempt, err
			case <-t.C:
			}
		}
		if opts.BackoffFactor > 1 {
			delay = time.Duration(float64(delay) * opts.BackoffFactor)
		}
	}
}
