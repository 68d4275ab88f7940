package generators

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/models"
)

// Env is the source of randomness and time for one generator call.
type Env struct {
	Rand  *rand.Rand
	Faker *gofakeit.Faker
	Now   time.Time
}

// NewEnv seeds a stream for kind. Seed 0 draws a random seed. A non-zero salt shifts
// the stream so runs appending to stored data do not repeat earlier ids.
func NewEnv(seed, salt uint64, kind models.Kind, now time.Time) *Env {
	if seed == 0 {
		seed = rand.Uint64()
	}
	if salt != 0 {
		seed ^= salt * 0x9e3779b97f4a7c15
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(kind))
	s := seed ^ h.Sum64()
	return &Env{
		Rand:  rand.New(rand.NewPCG(s, seed)),
		Faker: gofakeit.New(s),
		Now:   now,
	}
}

type weighted[T any] struct {
	value  T
	weight float64
}

// pick draws one value with probability proportional to its weight.
func pick[T any](r *rand.Rand, items []weighted[T]) T {
	var total float64
	for _, it := range items {
		total += it.weight
	}
	x := r.Float64() * total
	for _, it := range items {
		if x < it.weight {
			return it.value
		}
		x -= it.weight
	}
	return items[len(items)-1].value
}

func oneOf[T any](r *rand.Rand, items []T) T {
	return items[r.IntN(len(items))]
}

// uniform returns a float in [lo, hi).
func uniform(r *rand.Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// between returns an int in [lo, hi].
func between(r *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

func chance(r *rand.Rand, p float64) bool {
	return r.Float64() < p
}

// sample returns up to n distinct items in random order.
func sample[T any](r *rand.Rand, items []T, n int) []T {
	if n > len(items) {
		n = len(items)
	}
	idx := r.Perm(len(items))[:n]
	out := make([]T, n)
	for i, j := range idx {
		out[i] = items[j]
	}
	return out
}

// daysAgo returns a time between lo and hi days before now.
func daysAgo(r *rand.Rand, now time.Time, lo, hi int) time.Time {
	return now.Add(-time.Duration(uniform(r, float64(lo), float64(hi)) * float64(24*time.Hour)))
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// distribute scales the configured bucket sizes so they sum to count, using the largest
// remainder method. When count already equals the configured total the buckets are unchanged.
func distribute(count int, buckets []int) []int {
	total := 0
	for _, b := range buckets {
		total += b
	}
	out := make([]int, len(buckets))
	if count <= 0 || total == 0 {
		return out
	}
	if count == total {
		copy(out, buckets)
		return out
	}
	type rem struct {
		i int
		f float64
	}
	rems := make([]rem, len(buckets))
	assigned := 0
	for i, b := range buckets {
		exact := float64(b) * float64(count) / float64(total)
		out[i] = int(exact)
		assigned += out[i]
		rems[i] = rem{i, exact - float64(out[i])}
	}
	for assigned < count {
		best := 0
		for j := range rems {
			if rems[j].f > rems[best].f {
				best = j
			}
		}
		out[rems[best].i]++
		rems[best].f = -1
		assigned++
	}
	return out
}

// randReader exposes r as an io.Reader. It never fails.
type randReader struct{ r *rand.Rand }

func (rr randReader) Read(p []byte) (int, error) {
	var buf [8]byte
	for i := 0; i < len(p); i += 8 {
		binary.BigEndian.PutUint64(buf[:], rr.r.Uint64())
		copy(p[i:], buf[:])
	}
	return len(p), nil
}

// newID draws a version 4 UUID from r so ids are reproducible for a given seed.
func newID(r *rand.Rand) uuid.UUID {
	return uuid.Must(uuid.NewRandomFromReader(randReader{r}))
}
