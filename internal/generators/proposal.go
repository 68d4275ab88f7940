package generators

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/errs"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/models"
)

var proposalStatusWeights = []weighted[models.ProposalStatus]{
	{models.ProposalSubmitted, 60},
	{models.ProposalAccepted, 15},
	{models.ProposalRejected, 20},
	{models.ProposalWithdrawn, 5},
}

// milestoneRange is the inclusive milestone count per complexity.
var milestoneRange = map[models.Complexity][2]int{
	models.ComplexitySimple:     {1, 2},
	models.ComplexityModerate:   {2, 3},
	models.ComplexityComplex:    {3, 4},
	models.ComplexityEnterprise: {4, 5},
}

// ProposalGenerator pairs freelancers with open projects.
type ProposalGenerator struct {
	base
}

func NewProposalGenerator(opts Options) *ProposalGenerator {
	return &ProposalGenerator{base{
		kind: models.KindProposal,
		deps: []models.Kind{models.KindUser, models.KindProject},
		opts: opts,
	}}
}

func (g *ProposalGenerator) Generate(ctx context.Context, store *Store, count int) (Entities, error) {
	if err := store.Require(g.deps...); err != nil {
		return nil, errs.DependencyError("generate proposals", err)
	}
	var freelancers []*models.User
	for _, u := range store.Users() {
		if u.IsFreelancer() {
			freelancers = append(freelancers, u)
		}
	}
	var open []*models.Project
	for _, p := range store.Projects() {
		if p.Status == models.ProjectOpen {
			open = append(open, p)
		}
	}
	proposals := make(Proposals, 0, count)
	if len(freelancers) == 0 || len(open) == 0 {
		return proposals, nil
	}

	env := g.env(store)
	// a freelancer bids on a project at most once
	pairs := make(map[[2]uuid.UUID]struct{}, count)
	limit := len(freelancers) * len(open)
	for len(proposals) < count && len(pairs) < limit {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		project := oneOf(env.Rand, open)
		freelancer := pickFreelancer(env.Rand, freelancers, project, pairs)
		if freelancer == nil {
			continue
		}
		pairs[[2]uuid.UUID{project.ID, freelancer.ID}] = struct{}{}
		proposals = append(proposals, g.proposal(env, project, freelancer))
	}
	return proposals, nil
}

// pickFreelancer prefers freelancers sharing a skill with the project and falls back
// to any freelancer. Freelancers who already bid on the project are skipped.
func pickFreelancer(r *rand.Rand, freelancers []*models.User, project *models.Project, taken map[[2]uuid.UUID]struct{}) *models.User {
	var matching, free []*models.User
	for _, f := range freelancers {
		if _, ok := taken[[2]uuid.UUID{project.ID, f.ID}]; ok {
			continue
		}
		free = append(free, f)
		for _, s := range project.Skills {
			if f.FreelancerProfile.HasSkill(s) {
				matching = append(matching, f)
				break
			}
		}
	}
	switch {
	case len(matching) > 0:
		return oneOf(r, matching)
	case len(free) > 0:
		return oneOf(r, free)
	}
	return nil
}

// CalculateBid prices a bid. Hourly projects get a rate near the freelancer's own,
// inside the budget range. Fixed projects get hours x rate, held between 80% of that
// and the budget midpoint, and never above the budget maximum.
func CalculateBid(r *rand.Rand, project *models.Project, rate float64) float64 {
	b := project.Budget
	if b.Type == models.BudgetHourly {
		return roundTo(clamp(rate*uniform(r, 0.9, 1.1), b.Min, b.Max), 2)
	}
	cost := float64(project.EstimatedHours) * rate
	bid := max(cost*0.8, min(cost, b.Midpoint()))
	return roundTo(min(bid, b.Max), 2)
}

// SplitAmount divides total into n parts with random weights. Parts are rounded to
// cents and the last absorbs the rounding so the parts sum to total exactly.
func SplitAmount(r *rand.Rand, total float64, n int) []float64 {
	if n < 1 {
		n = 1
	}
	weights := make([]decimal.Decimal, n)
	sum := decimal.Zero
	for i := range weights {
		weights[i] = decimal.NewFromFloat(uniform(r, 0.8, 1.2))
		sum = sum.Add(weights[i])
	}
	whole := decimal.NewFromFloat(total).Round(2)
	out := make([]float64, n)
	assigned := decimal.Zero
	for i := 0; i < n-1; i++ {
		part := whole.Mul(weights[i]).Div(sum).Round(2)
		assigned = assigned.Add(part)
		out[i] = part.InexactFloat64()
	}
	out[n-1] = whole.Sub(assigned).InexactFloat64()
	return out
}

func milestoneCount(r *rand.Rand, complexity models.Complexity, amount float64) int {
	if amount < 500 {
		return 1
	}
	mr, ok := milestoneRange[complexity]
	if !ok {
		mr = [2]int{1, 2}
	}
	return between(r, mr[0], mr[1])
}

func (g *ProposalGenerator) proposal(env *Env, project *models.Project, freelancer *models.User) *models.Proposal {
	r := env.Rand
	profile := freelancer.FreelancerProfile

	bid := CalculateBid(r, project, profile.HourlyRate)

	// freelancers quote within 20% of the client's timeline
	days := max(1, int(float64(project.Timeline.Days())*uniform(r, 0.8, 1.2)))
	timeline := NormalizeTimeline(days)

	submitted := timeBetween(r, project.CreatedAt, env.Now)
	n := milestoneCount(r, project.Complexity, bid)
	amounts := SplitAmount(r, bid, n)
	milestones := make([]models.Milestone, n)
	for i := range milestones {
		offset := time.Duration(float64(days) * float64(i+1) / float64(n) * float64(24*time.Hour))
		milestones[i] = models.Milestone{
			Title:   milestoneTitle(i, n),
			Amount:  amounts[i],
			DueDate: submitted.Add(offset),
			Status:  models.MilestonePending,
		}
	}

	status := pick(r, proposalStatusWeights)
	p := &models.Proposal{
		Base:         models.Base{ID: newID(r)},
		ProjectID:    project.ID,
		FreelancerID: freelancer.ID,
		ClientID:     project.ClientID,
		CoverLetter:  fmt.Sprintf(oneOf(r, coverLetters), project.Title, between(r, 3, 60)),
		BidAmount:    bid,
		BidType:      project.Budget.Type,
		Timeline:     timeline,
		Milestones:   milestones,
		Status:       status,
		SubmittedAt:  submitted,
		CreatedAt:    submitted,
		UpdatedAt:    submitted,
	}
	if status == models.ProposalAccepted || status == models.ProposalRejected {
		responded := submitted.Add(time.Duration(uniform(r, 1, 7) * float64(24*time.Hour)))
		if responded.After(env.Now) {
			responded = env.Now
		}
		p.RespondedAt = &responded
		p.UpdatedAt = responded
	}
	return p
}

func milestoneTitle(i, n int) string {
	if n == 1 {
		return "Full delivery"
	}
	if n <= len(milestoneNames) {
		// spread n milestones over the named phases, always ending on the last one
		idx := i * (len(milestoneNames) - 1) / (n - 1)
		return milestoneNames[idx]
	}
	return fmt.Sprintf("Milestone %d", i+1)
}

// timeBetween returns a time in [lo, hi]; hi is returned when the range is empty.
func timeBetween(r *rand.Rand, lo, hi time.Time) time.Time {
	if !hi.After(lo) {
		return hi
	}
	return lo.Add(time.Duration(r.Int64N(int64(hi.Sub(lo)))))
}
