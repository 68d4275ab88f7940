// Package generators produces the synthetic marketplace entities. Generators never call
// each other; they read earlier output from a Store and return their own batch.
package generators

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/config"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/models"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/validation"
)

// Entities is a batch of one kind. The implementations below are the only ones.
type Entities interface {
	Kind() models.Kind
	Len() int
	sealed()
}

type (
	Users     []*models.User
	Projects  []*models.Project
	Proposals []*models.Proposal
	Contracts []*models.Contract
	Reviews   []*models.Review
)

func (Users) Kind() models.Kind     { return models.KindUser }
func (Projects) Kind() models.Kind  { return models.KindProject }
func (Proposals) Kind() models.Kind { return models.KindProposal }
func (Contracts) Kind() models.Kind { return models.KindContract }
func (Reviews) Kind() models.Kind   { return models.KindReview }

func (e Users) Len() int     { return len(e) }
func (e Projects) Len() int  { return len(e) }
func (e Proposals) Len() int { return len(e) }
func (e Contracts) Len() int { return len(e) }
func (e Reviews) Len() int   { return len(e) }

func (Users) sealed()     {}
func (Projects) sealed()  {}
func (Proposals) sealed() {}
func (Contracts) sealed() {}
func (Reviews) sealed()   {}

var ErrDependencyNotSatisfied = errors.New("generators: dependency not satisfied")

// DependencyNotSatisfiedError is returned when a generator reads a kind nobody published.
type DependencyNotSatisfiedError struct {
	Missing []models.Kind
}

func (e *DependencyNotSatisfiedError) Error() string {
	names := make([]string, len(e.Missing))
	for i, k := range e.Missing {
		names[i] = k.Module()
	}
	return fmt.Sprintf("generators: dependency not satisfied: %s not published", strings.Join(names, ", "))
}

func (e *DependencyNotSatisfiedError) Is(target error) bool {
	return target == ErrDependencyNotSatisfied
}

// Store is the generation context: one typed slot per kind plus the run configuration.
type Store struct {
	mu    sync.RWMutex
	cfg   *config.SeedConfiguration
	slots map[models.Kind]Entities
}

func NewStore(cfg *config.SeedConfiguration) *Store {
	return &Store{cfg: cfg, slots: make(map[models.Kind]Entities, len(models.AllKinds))}
}

func (s *Store) Config() *config.SeedConfiguration { return s.cfg }

// Publish sets the slot for the batch's kind, replacing anything published before.
func (s *Store) Publish(e Entities) {
	if e == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[e.Kind()] = e
}

// Read returns the published batch of kind k, or nil.
func (s *Store) Read(k models.Kind) Entities {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slots[k]
}

func (s *Store) Published(k models.Kind) bool {
	return s.Read(k) != nil
}

// Require fails unless every kind has been published.
func (s *Store) Require(kinds ...models.Kind) error {
	var missing []models.Kind
	for _, k := range kinds {
		if !s.Published(k) {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return &DependencyNotSatisfiedError{Missing: missing}
	}
	return nil
}

func (s *Store) Users() Users {
	u, _ := s.Read(models.KindUser).(Users)
	return u
}

func (s *Store) Projects() Projects {
	p, _ := s.Read(models.KindProject).(Projects)
	return p
}

func (s *Store) Proposals() Proposals {
	p, _ := s.Read(models.KindProposal).(Proposals)
	return p
}

func (s *Store) Contracts() Contracts {
	c, _ := s.Read(models.KindContract).(Contracts)
	return c
}

func (s *Store) Reviews() Reviews {
	r, _ := s.Read(models.KindReview).(Reviews)
	return r
}

// Counts returns the size of every published slot.
func (s *Store) Counts() map[models.Kind]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[models.Kind]int, len(s.slots))
	for k, e := range s.slots {
		out[k] = e.Len()
	}
	return out
}

// Dataset exposes the published entities for validation.
func (s *Store) Dataset() validation.Dataset {
	return validation.Dataset{
		Users:     s.Users(),
		Projects:  s.Projects(),
		Proposals: s.Proposals(),
		Contracts: s.Contracts(),
		Reviews:   s.Reviews(),
	}
}

// ValidateEntities runs the structural rule set matching the batch's kind.
func ValidateEntities(e Entities) validation.Report {
	switch v := e.(type) {
	case Users:
		return validation.UserRules().Validate(v)
	case Projects:
		return validation.ProjectRules().Validate(v)
	case Proposals:
		return validation.ProposalRules().Validate(v)
	case Contracts:
		return validation.ContractRules().Validate(v)
	case Reviews:
		return validation.ReviewRules().Validate(v)
	}
	return validation.Report{}
}
