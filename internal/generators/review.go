package generators

import (
	"context"
	"time"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/errs"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/models"
)

const (
	clientReviewChance     = 0.9
	freelancerReviewChance = 0.7
)

// Clients rate freelancers a little harder than freelancers rate clients.
var ratingWeights = map[models.ReviewDirection][]weighted[int]{
	models.ClientToFreelancer: {{5, 45}, {4, 35}, {3, 12}, {2, 5}, {1, 3}},
	models.FreelancerToClient: {{5, 55}, {4, 30}, {3, 10}, {2, 3}, {1, 2}},
}

type ReviewGenerator struct {
	base
}

func NewReviewGenerator(opts Options) *ReviewGenerator {
	return &ReviewGenerator{base{kind: models.KindReview, deps: []models.Kind{models.KindContract}, opts: opts}}
}

// Generate reviews completed contracts from either side. A positive count caps the
// output. User ratings are not touched here; see RecomputeRatings.
func (g *ReviewGenerator) Generate(ctx context.Context, store *Store, count int) (Entities, error) {
	if err := store.Require(g.deps...); err != nil {
		return nil, errs.DependencyError("generate reviews", err)
	}
	env := g.env(store)
	reviews := make(Reviews, 0)
	full := func() bool { return count > 0 && len(reviews) >= count }

	for _, c := range store.Contracts() {
		if full() {
			break
		}
		if c.Status != models.ContractCompleted {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if chance(env.Rand, clientReviewChance) {
			reviews = append(reviews, g.review(env, c, models.ClientToFreelancer))
		}
		if !full() && chance(env.Rand, freelancerReviewChance) {
			reviews = append(reviews, g.review(env, c, models.FreelancerToClient))
		}
	}
	return reviews, nil
}

func ratingBucket(rating int) string {
	switch {
	case rating >= 4:
		return "positive"
	case rating == 3:
		return "neutral"
	default:
		return "negative"
	}
}

func (g *ReviewGenerator) review(env *Env, c *models.Contract, dir models.ReviewDirection) *models.Review {
	r := env.Rand
	rating := pick(r, ratingWeights[dir])
	content := reviewCatalog[dir][ratingBucket(rating)]

	reviewer, reviewee := c.ClientID, c.FreelancerID
	if dir == models.FreelancerToClient {
		reviewer, reviewee = c.FreelancerID, c.ClientID
	}

	written := c.StartDate
	if c.EndDate != nil {
		written = *c.EndDate
	}
	written = written.Add(time.Duration(uniform(r, 0, 14) * float64(24*time.Hour)))
	if written.After(env.Now) {
		written = env.Now
	}

	return &models.Review{
		Base:       models.Base{ID: newID(r)},
		ContractID: c.ID,
		ProjectID:  c.ProjectID,
		ReviewerID: reviewer,
		RevieweeID: reviewee,
		Direction:  dir,
		Rating:     rating,
		Title:      oneOf(r, content.titles),
		Comment:    oneOf(r, content.comments),
		IsPublic:   chance(r, 0.9),
		CreatedAt:  written,
		UpdatedAt:  written,
	}
}
