package batch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/errs"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/models"
)

var errFlaky = errors.New("flaky")

// failing fails items 3 and 7 for the first failures attempts of each.
type failing struct {
	mu       sync.Mutex
	attempts map[int]int
	failures int
}

func newFailing(failures int) *failing {
	return &failing{attempts: map[int]int{}, failures: failures}
}

func (f *failing) batch(_ context.Context, b []int) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range b {
		if it == 3 || it == 7 {
			f.attempts[it]++
			if f.attempts[it] <= f.failures {
				return nil, errFlaky
			}
		}
	}
	out := make([]int, len(b))
	for i, it := range b {
		out[i] = it * 10
	}
	return out, nil
}

func items(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func opts(size int) Options {
	return Options{BatchSize: size, Concurrency: 3, RetryAttempts: 2, RetryDelay: time.Millisecond}
}

func TestPartition(t *testing.T) {
	assert.Equal(t, [][]int{{0, 1, 2}, {3, 4, 5}, {6}}, Partition(items(7), 3))
	assert.Empty(t, Partition([]int{}, 3))
}

func TestProcessBatchRecoversOnRetry(t *testing.T) {
	f := newFailing(1)
	res := ProcessBatch(context.Background(), items(10), f.batch, opts(1))

	assert.Equal(t, 10, res.ProcessedCount)
	assert.Equal(t, 10, res.SuccessCount)
	assert.Empty(t, res.Errors)
	assert.ElementsMatch(t, []int{0, 10, 20, 30, 40, 50, 60, 70, 80, 90}, res.Results)
	assert.Equal(t, 2, f.attempts[3])
}

func TestProcessBatchPermanentFailures(t *testing.T) {
	f := newFailing(100)
	res := ProcessBatch(context.Background(), items(10), f.batch, opts(1))

	assert.Equal(t, 10, res.ProcessedCount)
	assert.Equal(t, 8, res.SuccessCount)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, 3, res.Errors[0].Index)
	assert.Equal(t, 7, res.Errors[1].Index)
	assert.Equal(t, 3, res.Errors[0].Attempts)
	assert.ErrorIs(t, res.Errors[0].Err, errFlaky)
	assert.Equal(t, 3, f.attempts[3])
}

func TestProcessBatchFailsWholeBatch(t *testing.T) {
	f := newFailing(100)
	res := ProcessBatch(context.Background(), items(10), f.batch, opts(5))

	assert.Equal(t, 10, res.ProcessedCount)
	assert.Len(t, res.Errors, 10)
	assert.Empty(t, res.Results)
}

func TestProcessBatchDoesNotRetryPermanentErrors(t *testing.T) {
	var calls atomic.Int32
	fn := func(_ context.Context, b []int) ([]int, error) {
		calls.Add(1)
		return nil, errs.ValidationError("insert", errors.New("bad row"))
	}
	res := ProcessBatch(context.Background(), items(4), fn, opts(4))
	assert.Equal(t, int32(1), calls.Load())
	assert.Len(t, res.Errors, 4)
	assert.Equal(t, 1, res.Errors[0].Attempts)
}

func TestProcessBatchConcurrencyLimit(t *testing.T) {
	var active, peak atomic.Int32
	fn := func(_ context.Context, b []int) ([]int, error) {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		active.Add(-1)
		return b, nil
	}
	o := opts(2)
	o.Concurrency = 2
	res := ProcessBatch(context.Background(), items(20), fn, o)
	assert.Equal(t, 20, res.SuccessCount)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestProcessBatchProgress(t *testing.T) {
	var events []Progress
	o := opts(3)
	o.Progress = func(p Progress) { events = append(events, p) }
	ProcessBatch(context.Background(), items(10), newFailing(0).batch, o)

	require.Len(t, events, 4)
	last := events[len(events)-1]
	assert.Equal(t, Progress{Completed: 4, Total: 4, Processed: 10, Items: 10}, last)
}

func TestProcessBatchBackoff(t *testing.T) {
	var stamps []time.Time
	fn := func(_ context.Context, b []int) ([]int, error) {
		stamps = append(stamps, time.Now())
		return nil, errFlaky
	}
	o := Options{BatchSize: 1, Concurrency: 1, RetryAttempts: 2, RetryDelay: 10 * time.Millisecond, BackoffFactor: 3}
	res := ProcessBatch(context.Background(), []int{1}, fn, o)

	require.Len(t, stamps, 3)
	assert.Len(t, res.Errors, 1)
	assert.GreaterOrEqual(t, stamps[2].Sub(stamps[1]), 30*time.Millisecond)
}

func TestProcessBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := ProcessBatch(ctx, items(6), newFailing(0).batch, opts(2))
	assert.Equal(t, 6, res.ProcessedCount)
	assert.Len(t, res.Errors, 6)
	assert.ErrorIs(t, res.Errors[0].Err, context.Canceled)
}

func TestProcessParallelKeepsOrder(t *testing.T) {
	var mu sync.Mutex
	attempts := map[int]int{}
	fn := func(_ context.Context, it int) (int, error) {
		mu.Lock()
		attempts[it]++
		n := attempts[it]
		mu.Unlock()
		if it == 7 || (it == 3 && n == 1) {
			return 0, errFlaky
		}
		time.Sleep(time.Duration(10-it) * time.Millisecond)
		return it * 10, nil
	}
	res := ProcessParallel(context.Background(), items(10), fn, opts(0))

	assert.Equal(t, []int{0, 10, 20, 30, 40, 50, 60, 80, 90}, res.Results)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 7, res.Errors[0].Index)
	assert.Equal(t, 10, res.ProcessedCount)
	assert.Equal(t, 2, attempts[3])
	assert.Equal(t, 3, attempts[7])
}

func TestRecommendBatchSize(t *testing.T) {
	assert.Equal(t, 100, RecommendBatchSize(models.KindUser, 1000))
	assert.Equal(t, 16, RecommendBatchSize(models.KindUser, 16))
	assert.Equal(t, 1000, RecommendBatchSize(models.KindReview, 10000))
	assert.Equal(t, 800, RecommendBatchSize(models.KindProject, 60000))
}

func TestEstimateDuration(t *testing.T) {
	o := Options{BatchSize: 100, Concurrency: 2}
	// 1000 users: 10 batches in 5 waves of 100 x 800us + 15ms
	assert.Equal(t, 5*(80*time.Millisecond+batchOverhead), EstimateDuration(models.KindUser, 1000, o))
	assert.Zero(t, EstimateDuration(models.KindUser, 0, o))
}
