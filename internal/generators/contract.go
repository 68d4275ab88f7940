package generators

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/errs"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/models"
)

const (
	// DefaultMilestoneHorizon is the span contract milestones are spread over when the
	// configuration does not set one. It does not follow the contract's own timeline.
	DefaultMilestoneHorizon = 30 * 24 * time.Hour
	onTimeProbability       = 0.8
)

var finishedContractWeights = []weighted[models.ContractStatus]{
	{models.ContractCompleted, 85},
	{models.ContractCancelled, 10},
	{models.ContractDisputed, 5},
}

// ContractGenerator turns accepted proposals into contracts.
type ContractGenerator struct {
	base
}

func NewContractGenerator(opts Options) *ContractGenerator {
	return &ContractGenerator{base{
		kind: models.KindContract,
		deps: []models.Kind{models.KindProposal, models.KindProject},
		opts: opts,
	}}
}

// Generate creates one contract per accepted proposal. A positive count caps the output.
func (g *ContractGenerator) Generate(ctx context.Context, store *Store, count int) (Entities, error) {
	if err := store.Require(g.deps...); err != nil {
		return nil, errs.DependencyError("generate contracts", err)
	}
	projects := make(map[uuid.UUID]*models.Project)
	for _, p := range store.Projects() {
		projects[p.ID] = p
	}

	horizon := DefaultMilestoneHorizon
	if cfg := store.Config(); cfg != nil && cfg.MilestoneHorizon > 0 {
		horizon = cfg.MilestoneHorizon
	}

	env := g.env(store)
	contracts := make(Contracts, 0)
	for _, p := range store.Proposals() {
		if count > 0 && len(contracts) >= count {
			break
		}
		if p.Status != models.ProposalAccepted {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		contracts = append(contracts, g.contract(env, p, projects[p.ProjectID], horizon))
	}
	return contracts, nil
}

// ContractStatusAt derives a contract's status from its dates: not started or still
// running means active, past the end date is mostly completed.
func ContractStatusAt(r *rand.Rand, start, end, now time.Time) models.ContractStatus {
	switch {
	case start.After(now):
		return models.ContractActive
	case end.Before(now):
		return pick(r, finishedContractWeights)
	default:
		return models.ContractActive
	}
}

func (g *ContractGenerator) contract(env *Env, p *models.Proposal, project *models.Project, horizon time.Duration) *models.Contract {
	r := env.Rand
	start := daysAgo(r, env.Now, 0, 90)
	end := start.AddDate(0, 0, p.Timeline.Days())
	status := ContractStatusAt(r, start, end, env.Now)

	title := "Contract"
	if project != nil {
		title = project.Title
	}
	c := &models.Contract{
		Base:         models.Base{ID: newID(r)},
		ProposalID:   p.ID,
		ClientID:     p.ClientID,
		FreelancerID: p.FreelancerID,
		ProjectID:    p.ProjectID,
		Title:        title,
		TotalAmount:  p.BidAmount,
		PaymentType:  p.BidType,
		Currency:     "USD",
		StartDate:    start,
		EndDate:      &end,
		Status:       status,
		CreatedAt:    start,
		UpdatedAt:    start,
	}
	if project != nil && project.Budget.Currency != "" {
		c.Currency = project.Budget.Currency
	}

	n := len(p.Milestones)
	c.Milestones = make([]models.ContractMilestone, n)
	for i, m := range p.Milestones {
		due := start.Add(time.Duration(float64(horizon) * float64(i+1) / float64(n)))
		c.Milestones[i] = contractMilestone(r, env.Now, m, due, status)
	}
	markDisputed(c)
	return c
}

// contractMilestone derives a milestone's progress from the contract status and
// whether its due date has passed.
func contractMilestone(r *rand.Rand, now time.Time, m models.Milestone, due time.Time, status models.ContractStatus) models.ContractMilestone {
	cm := models.ContractMilestone{Title: m.Title, Amount: m.Amount, DueDate: due, Status: models.MilestonePending}
	passed := due.Before(now)

	switch {
	case status == models.ContractCompleted:
		finish(r, now, &cm)
	case !passed:
		// future milestones stay pending
	case status == models.ContractActive && !chance(r, onTimeProbability):
		cm.Status = models.MilestoneOverdue
	case status == models.ContractCancelled && !chance(r, onTimeProbability):
		cm.Status = models.MilestoneCancelled
	default:
		finish(r, now, &cm)
	}
	return cm
}

// finish completes and approves a milestone, on time with onTimeProbability. Both
// timestamps are clamped to now and approval never precedes completion.
func finish(r *rand.Rand, now time.Time, cm *models.ContractMilestone) {
	var completed time.Time
	if chance(r, onTimeProbability) {
		completed = cm.DueDate.Add(-time.Duration(uniform(r, 0, 3) * float64(24*time.Hour)))
	} else {
		completed = cm.DueDate.Add(time.Duration(uniform(r, 1, 5) * float64(24*time.Hour)))
	}
	approved := completed.Add(time.Duration(uniform(r, 0, 3) * float64(24*time.Hour)))
	if completed.After(now) {
		completed = now
	}
	if approved.After(now) {
		approved = now
	}
	cm.Status = models.MilestoneApproved
	cm.CompletedAt = &completed
	cm.ApprovedAt = &approved
}

// markDisputed flags the first unapproved milestone of a disputed contract, or the
// last one when everything was approved.
func markDisputed(c *models.Contract) {
	if c.Status != models.ContractDisputed || len(c.Milestones) == 0 {
		return
	}
	for i := range c.Milestones {
		if c.Milestones[i].Status != models.MilestoneApproved {
			c.Milestones[i].Status = models.MilestoneDisputed
			return
		}
	}
	last := &c.Milestones[len(c.Milestones)-1]
	last.Status = models.MilestoneDisputed
	last.ApprovedAt = nil
}
