package generators

import (
	"context"
	"time"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/models"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/slug"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/validation"
)

// Generator produces one kind of entity. Generate must only read kinds listed in
// Dependencies and must not modify anything already in the store.
type Generator interface {
	Kind() models.Kind
	Dependencies() []models.Kind
	Generate(ctx context.Context, store *Store, count int) (Entities, error)
	Validate(e Entities) validation.Report
}

// Options are shared by every built-in generator.
type Options struct {
	// Seed makes output reproducible. Each generator derives its own stream from it.
	Seed uint64
	// Now anchors every generated timestamp.
	Now func() time.Time
	// Slugs hands out profile slugs. A fresh in-memory reservation set is used when nil.
	Slugs *slug.Generator
	// Hasher hashes the shared seed password. Bcrypt when nil.
	Hasher PasswordHasher
	// Salt distinguishes runs that add to data already in storage. Zero keeps the
	// plain seeded streams.
	Salt uint64
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// Defaults returns the five built-in generators in dependency order.
func Defaults(opts Options) []Generator {
	return []Generator{
		NewUserGenerator(opts),
		NewProjectGenerator(opts),
		NewProposalGenerator(opts),
		NewContractGenerator(opts),
		NewReviewGenerator(opts),
	}
}

// base carries what every built-in generator shares.
type base struct {
	kind models.Kind
	deps []models.Kind
	opts Options
}

func (b base) Kind() models.Kind          { return b.kind }
func (b base) Dependencies() []models.Kind { return append([]models.Kind(nil), b.deps...) }
func (b base) Validate(e Entities) validation.Report {
	if e == nil || e.Kind() != b.kind {
		got := "nothing"
		if e != nil {
			got = string(e.Kind())
		}
		return validation.Mismatch(b.kind, got)
	}
	return ValidateEntities(e)
}

// env derives a deterministic random environment for one Generate call.
func (b base) env(store *Store) *Env {
	seed := b.opts.Seed
	if store != nil && store.Config() != nil && store.Config().Seed != 0 {
		seed = store.Config().Seed
	}
	return NewEnv(seed, b.opts.Salt, b.kind, b.opts.now())
}
