package repository

import (
	"context"
	"log"

	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/models"
)

// Store groups the seeded collections.
type Store struct {
	db        *gorm.DB
	Users     *Collection[models.User]
	Profiles  *Collection[models.FreelancerProfile]
	Projects  *Collection[models.Project]
	Proposals *Collection[models.Proposal]
	Contracts *Collection[models.Contract]
	Reviews   *Collection[models.Review]
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:        db,
		Users:     NewCollection[models.User](db, models.KindUser.Module()),
		Profiles:  NewCollection[models.FreelancerProfile](db, "freelancer_profiles"),
		Projects:  NewCollection[models.Project](db, models.KindProject.Module()),
		Proposals: NewCollection[models.Proposal](db, models.KindProposal.Module()),
		Contracts: NewCollection[models.Contract](db, models.KindContract.Module()),
		Reviews:   NewCollection[models.Review](db, models.KindReview.Module()),
	}
}

func (s *Store) DB() *gorm.DB { return s.db }

type counter interface {
	Name() string
	Count(ctx context.Context) (int64, error)
	Clear(ctx context.Context) (int64, error)
}

// ordered lists the collections children first.
func (s *Store) ordered() []counter {
	return []counter{s.Reviews, s.Contracts, s.Proposals, s.Projects, s.Profiles, s.Users}
}

// ClearAll empties every collection, children before parents.
func (s *Store) ClearAll(ctx context.Context) error {
	for _, c := range s.ordered() {
		n, err := c.Clear(ctx)
		if err != nil {
			return err
		}
		log.Printf("[repository] cleared %d rows from %s", n, c.Name())
	}
	return nil
}

// Counts returns the stored row count per entity kind.
func (s *Store) Counts(ctx context.Context) (map[models.Kind]int64, error) {
	kinds := map[string]models.Kind{
		s.Users.Name():     models.KindUser,
		s.Projects.Name():  models.KindProject,
		s.Proposals.Name(): models.KindProposal,
		s.Contracts.Name(): models.KindContract,
		s.Reviews.Name():   models.KindReview,
	}
	out := make(map[models.Kind]int64, len(kinds))
	for _, c := range s.ordered() {
		k, ok := kinds[c.Name()]
		if !ok {
			continue
		}
		n, err := c.Count(ctx)
		if err != nil {
			return nil, err
		}
		out[k] = n
	}
	return out, nil
}

// HasData reports whether any users are stored.
func (s *Store) HasData(ctx context.Context) (bool, error) {
	n, err := s.Users.Count(ctx)
	return n > 0, err
}

// Slugs returns every stored profile slug.
func (s *Store) Slugs(ctx context.Context) ([]string, error) {
	var slugs []string
	if err := s.db.WithContext(ctx).Model(&models.User{}).Pluck("profile_slug", &slugs).Error; err != nil {
		return nil, err
	}
	return slugs, nil
}
