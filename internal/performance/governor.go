// Package performance tracks how long seeding operations take and checks the run
// against time, memory and throughput thresholds.
package performance

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/config"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

const (
	ThresholdSeedingTime   = "max_seeding_time"
	ThresholdOperationTime = "max_operation_time"
	ThresholdMemory        = "max_memory"
	ThresholdThroughput    = "min_throughput"
)

// Operation is one tracked unit of work, e.g. generating or persisting a module.
type Operation struct {
	Name      string        `json:"name"`
	Start     time.Time     `json:"start"`
	End       time.Time     `json:"end"`
	Items     int           `json:"items"`
	Duration  time.Duration `json:"duration"`
	HeapStart uint64        `json:"heap_start"`
	HeapEnd   uint64        `json:"heap_end"`
}

type Violation struct {
	Threshold string   `json:"threshold"`
	Severity  Severity `json:"severity"`
	Message   string   `json:"message"`
	Operation string   `json:"operation,omitempty"`
}

type Report struct {
	Duration        time.Duration `json:"duration"`
	Items           int           `json:"items"`
	Throughput      float64       `json:"throughput"`
	PeakHeapMB      float64       `json:"peak_heap_mb"`
	Operations      []Operation   `json:"operations"`
	Violations      []Violation   `json:"violations,omitempty"`
	Recommendations []string      `json:"recommendations,omitempty"`
}

// Passed reports whether no error-severity threshold was breached.
func (r Report) Passed() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityError {
			return false
		}
	}
	return true
}

// MemoryReader returns the current heap size in bytes.
type MemoryReader func() uint64

func heapAlloc() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.HeapAlloc
}

// Governor records operations for one run. It is safe for concurrent use.
type Governor struct {
	mu         sync.Mutex
	thresholds config.PerformanceThresholds
	now        func() time.Time
	memory     MemoryReader

	started  time.Time
	finished time.Time
	open     map[string]*Operation
	done     []Operation
	peak     uint64
}

type Option func(*Governor)

func WithClock(now func() time.Time) Option  { return func(g *Governor) { g.now = now } }
func WithMemoryReader(m MemoryReader) Option { return func(g *Governor) { g.memory = m } }

func NewGovernor(t config.PerformanceThresholds, opts ...Option) *Governor {
	g := &Governor{
		thresholds: t,
		now:        time.Now,
		memory:     heapAlloc,
		open:       make(map[string]*Operation),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Start marks the beginning of the run.
func (g *Governor) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.started = g.now()
	g.sample()
}

// Finish marks the end of the run.
func (g *Governor) Finish() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.finished = g.now()
	g.sample()
}

func (g *Governor) sample() uint64 {
	h := g.memory()
	if h > g.peak {
		g.peak = h
	}
	return h
}

// Begin opens an operation. Beginning a name that is already open restarts it.
func (g *Governor) Begin(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.open[name] = &Operation{Name: name, Start: g.now(), HeapStart: g.sample()}
}

// End closes an operation and records how many items it handled.
func (g *Governor) End(name string, items int) Operation {
	g.mu.Lock()
	defer g.mu.Unlock()
	op, ok := g.open[name]
	if !ok {
		op = &Operation{Name: name, Start: g.now()}
	}
	delete(g.open, name)
	op.End = g.now()
	op.Duration = op.End.Sub(op.Start)
	op.Items = items
	op.HeapEnd = g.sample()
	g.done = append(g.done, *op)
	return *op
}

// Track runs fn as an operation. fn returns the number of items it handled.
func (g *Governor) Track(name string, fn func() (int, error)) error {
	g.Begin(name)
	n, err := fn()
	g.End(name, n)
	return err
}

// Validate checks the recorded run against the thresholds. Exceeding the total or
// per-operation time is an error; memory and throughput only warn.
func (g *Governor) Validate() Report {
	g.mu.Lock()
	defer g.mu.Unlock()

	end := g.finished
	if end.IsZero() {
		end = g.now()
	}
	r := Report{
		Duration:   end.Sub(g.started),
		PeakHeapMB: float64(g.peak) / (1 << 20),
		Operations: append([]Operation(nil), g.done...),
	}
	sort.SliceStable(r.Operations, func(i, j int) bool { return r.Operations[i].Start.Before(r.Operations[j].Start) })
	for _, op := range r.Operations {
		r.Items += op.Items
	}
	if secs := r.Duration.Seconds(); secs > 0 {
		r.Throughput = float64(r.Items) / secs
	}

	t := g.thresholds
	if t.MaxSeedingTime > 0 && r.Duration > t.MaxSeedingTime {
		r.Violations = append(r.Violations, Violation{
			Threshold: ThresholdSeedingTime,
			Severity:  SeverityError,
			Message:   fmt.Sprintf("seeding took %s, limit is %s", r.Duration.Round(time.Millisecond), t.MaxSeedingTime),
		})
	}
	if t.MaxOperationTime > 0 {
		for _, op := range r.Operations {
			if op.Duration > t.MaxOperationTime {
				r.Violations = append(r.Violations, Violation{
					Threshold: ThresholdOperationTime,
					Severity:  SeverityError,
					Message:   fmt.Sprintf("%s took %s, limit is %s", op.Name, op.Duration.Round(time.Millisecond), t.MaxOperationTime),
					Operation: op.Name,
				})
			}
		}
	}
	if t.MaxMemoryMB > 0 && r.PeakHeapMB > float64(t.MaxMemoryMB) {
		r.Violations = append(r.Violations, Violation{
			Threshold: ThresholdMemory,
			Severity:  SeverityWarning,
			Message:   fmt.Sprintf("peak heap %.1f MB, limit is %d MB", r.PeakHeapMB, t.MaxMemoryMB),
		})
	}
	if t.MinThroughput > 0 && r.Items > 0 && r.Throughput < t.MinThroughput {
		r.Violations = append(r.Violations, Violation{
			Threshold: ThresholdThroughput,
			Severity:  SeverityWarning,
			Message:   fmt.Sprintf("throughput %.1f items/s, minimum is %.1f", r.Throughput, t.MinThroughput),
		})
	}
	r.Recommendations = recommend(r.Violations)
	return r
}

var advice = map[string][]string{
	ThresholdSeedingTime: {
		"increase batch size to cut per-batch overhead",
		"raise concurrency if the database has spare connections",
		"disable modules that are not needed for this environment",
	},
	ThresholdOperationTime: {
		"split the slow module into smaller batches",
	},
	ThresholdMemory: {
		"reduce batch size so fewer entities are held at once",
		"lower entity counts or seed in several runs",
	},
	ThresholdThroughput: {
		"increase batch size",
		"raise concurrency",
	},
}

func recommend(vs []Violation) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range vs {
		for _, a := range advice[v.Threshold] {
			if !seen[a] {
				seen[a] = true
				out = append(out, a)
			}
		}
	}
	return out
}
