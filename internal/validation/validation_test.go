package validation

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/models"
)

func ptr[T any](v T) *T { return &v }

func fixture() Dataset {
	now := time.Now().Add(-time.Hour)
	client := &models.User{
		Base:     models.Base{ID: uuid.New()},
		Name:     "Ada Client",
		Email:    "ada.client@example.com",
		Phone:    "+1 555 0100 200",
		Password: "$2a$10$hash",
		Role:     models.RoleClient,
		Profile:  models.UserProfile{FirstName: "Ada", LastName: "Client", Slug: "ada-client"},
	}
	freelancerID := uuid.New()
	freelancer := &models.User{
		Base:     models.Base{ID: freelancerID},
		Name:     "Bo Lancer",
		Email:    "bo.lancer@example.com",
		Password: "$2a$10$hash",
		Role:     models.RoleFreelancer,
		Profile:  models.UserProfile{FirstName: "Bo", LastName: "Lancer", Slug: "bo-lancer", Website: "https://bo.dev"},
		FreelancerProfile: &models.FreelancerProfile{
			UserID:          freelancerID,
			ExperienceLevel: models.LevelMid,
			HourlyRate:      55,
			Skills:          []string{"Go", "PostgreSQL"},
		},
	}
	project := &models.Project{
		Base:           models.Base{ID: uuid.New()},
		Title:          "Billing API",
		Description:    "Build a billing API",
		Category:       "Web Development",
		Budget:         models.Budget{Type: models.BudgetFixed, Min: 2000, Max: 4000, Currency: "USD"},
		Timeline:       models.Timeline{Duration: 3, Unit: models.UnitWeeks},
		Skills:         []string{"Go"},
		ClientID:       client.ID,
		Status:         models.ProjectOpen,
		Complexity:     models.ComplexityModerate,
		EstimatedHours: 40,
	}
	proposal := &models.Proposal{
		Base:         models.Base{ID: uuid.New()},
		ProjectID:    project.ID,
		FreelancerID: freelancer.ID,
		ClientID:     client.ID,
		CoverLetter:  "I have built several billing systems.",
		BidAmount:    3000,
		BidType:      models.BudgetFixed,
		Timeline:     models.Timeline{Duration: 3, Unit: models.UnitWeeks},
		Milestones: []models.Milestone{
			{Title: "Design", Amount: 1000, DueDate: now.Add(24 * time.Hour), Status: models.MilestonePending},
			{Title: "Build", Amount: 2000, DueDate: now.Add(48 * time.Hour), Status: models.MilestonePending},
		},
		Status:      models.ProposalAccepted,
		SubmittedAt: now.Add(-48 * time.Hour),
		RespondedAt: ptr(now.Add(-24 * time.Hour)),
	}
	start := now.Add(-30 * 24 * time.Hour)
	contract := &models.Contract{
		Base:         models.Base{ID: uuid.New()},
		ProposalID:   proposal.ID,
		ClientID:     client.ID,
		FreelancerID: freelancer.ID,
		ProjectID:    project.ID,
		Title:        project.Title,
		TotalAmount:  3000,
		PaymentType:  models.BudgetFixed,
		Currency:     "USD",
		StartDate:    start,
		EndDate:      ptr(now.Add(-24 * time.Hour)),
		Status:       models.ContractCompleted,
		Milestones: []models.ContractMilestone{
			{Title: "Design", Amount: 1000, DueDate: start.Add(10 * 24 * time.Hour), Status: models.MilestoneApproved,
				CompletedAt: ptr(start.Add(9 * 24 * time.Hour)), ApprovedAt: ptr(start.Add(10 * 24 * time.Hour))},
			{Title: "Build", Amount: 2000.5, DueDate: start.Add(20 * 24 * time.Hour), Status: models.MilestoneApproved},
		},
	}
	review := &models.Review{
		Base:       models.Base{ID: uuid.New()},
		ContractID: contract.ID,
		ProjectID:  project.ID,
		ReviewerID: client.ID,
		RevieweeID: freelancer.ID,
		Direction:  models.ClientToFreelancer,
		Rating:     5,
		Title:      "Excellent",
		Comment:    "Delivered ahead of schedule.",
		IsPublic:   true,
	}
	return Dataset{
		Users:     []*models.User{client, freelancer},
		Projects:  []*models.Project{project},
		Proposals: []*models.Proposal{proposal},
		Contracts: []*models.Contract{contract},
		Reviews:   []*models.Review{review},
	}
}

func TestFixtureIsValid(t *testing.T) {
	d := fixture()
	for kind, report := range ValidateDataset(d) {
		assert.Empty(t, report.Errors(), "kind %s", kind)
		assert.True(t, report.IsValid(), "kind %s", kind)
	}
	assert.Empty(t, CheckReferences(d))
}

func TestUserRules(t *testing.T) {
	d := fixture()
	d.Users[1].FreelancerProfile = nil
	d.Users[0].Email = "not-an-email"
	d.Users[0].Profile.Slug = "12345"

	report := UserRules().Validate(d.Users)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 0, report.Valid)

	var rules []string
	for _, i := range report.Errors() {
		rules = append(rules, i.RuleName)
	}
	assert.Equal(t, []string{"email_format", "slug_format", "freelancer_profile_present"}, rules)
	assert.Equal(t, 0, report.Errors()[0].EntityIndex)
	assert.Equal(t, 1, report.Errors()[2].EntityIndex)
}

func TestHourlyRateFloor(t *testing.T) {
	d := fixture()
	d.Users[1].FreelancerProfile.HourlyRate = 14.99
	report := UserRules().Validate(d.Users)
	require.Len(t, report.Errors(), 1)
	assert.Equal(t, "hourly_rate_floor", report.Errors()[0].RuleName)
	assert.Equal(t, CategoryRange, report.Errors()[0].Category)
}

func TestProjectDraftConsistency(t *testing.T) {
	d := fixture()
	d.Projects[0].Status = models.ProjectDraft
	report := ProjectRules().Validate(d.Projects)
	require.NotEmpty(t, report.Errors())
	assert.Equal(t, "draft_flag_consistent", report.Errors()[0].RuleName)

	d.Projects[0].IsDraft = true
	d.Projects[0].DraftSavedAt = ptr(time.Now().Add(-time.Hour))
	assert.True(t, ProjectRules().Validate(d.Projects).IsValid())
}

func TestProposalMilestoneTolerance(t *testing.T) {
	d := fixture()
	p := d.Proposals[0]

	p.Milestones[1].Amount = 2029 // within 1% of 3000
	assert.True(t, ProposalRules().Validate(d.Proposals).IsValid())

	p.Milestones[1].Amount = 2031
	report := ProposalRules().Validate(d.Proposals)
	require.Len(t, report.Errors(), 1)
	assert.Equal(t, "milestone_total_matches_bid", report.Errors()[0].RuleName)
}

func TestContractRules(t *testing.T) {
	d := fixture()
	c := d.Contracts[0]
	c.Milestones[0].ApprovedAt = ptr(c.Milestones[0].CompletedAt.Add(-time.Hour))
	c.Milestones[1].Amount = 2002

	report := ContractRules().Validate(d.Contracts)
	var rules []string
	for _, i := range report.Errors() {
		rules = append(rules, i.RuleName)
	}
	assert.Equal(t, []string{"milestone_total_matches", "milestone_approval_order"}, rules)
}

func TestReviewRules(t *testing.T) {
	d := fixture()
	r := d.Reviews[0]
	r.Rating = 6
	r.RevieweeID = r.ReviewerID

	report := ReviewRules().Validate(d.Reviews)
	assert.False(t, report.IsValid())
	assert.Len(t, report.Errors(), 2)
}

func TestValidateIsIdempotent(t *testing.T) {
	d := fixture()
	d.Users[0].Email = "broken"
	d.Proposals[0].BidAmount = 10
	d.Contracts[0].EndDate = ptr(d.Contracts[0].StartDate.Add(-time.Hour))

	first, err := json.Marshal(ValidateDataset(d))
	require.NoError(t, err)
	second, err := json.Marshal(ValidateDataset(d))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCheckReferences(t *testing.T) {
	t.Run("duplicate email and slug", func(t *testing.T) {
		d := fixture()
		d.Users[1].Email = "ADA.client@example.com"
		d.Users[1].Profile.Slug = "ada-client"
		issues := CheckReferences(d)
		require.Len(t, issues, 2)
		assert.Equal(t, "email_unique", issues[0].RuleName)
		assert.Equal(t, "slug_unique", issues[1].RuleName)
		assert.Equal(t, CategoryUniqueness, issues[0].Category)
	})

	t.Run("proposal on closed project", func(t *testing.T) {
		d := fixture()
		d.Projects[0].Status = models.ProjectInProgress
		issues := CheckReferences(d)
		require.Len(t, issues, 1)
		assert.Equal(t, "project_open", issues[0].RuleName)
		assert.Equal(t, models.KindProposal, issues[0].Kind)
	})

	t.Run("contract from unaccepted proposal", func(t *testing.T) {
		d := fixture()
		d.Proposals[0].Status = models.ProposalRejected
		issues := CheckReferences(d)
		require.Len(t, issues, 1)
		assert.Equal(t, "proposal_accepted", issues[0].RuleName)
	})

	t.Run("review on active contract", func(t *testing.T) {
		d := fixture()
		d.Contracts[0].Status = models.ContractActive
		issues := CheckReferences(d)
		require.Len(t, issues, 1)
		assert.Equal(t, "contract_completed", issues[0].RuleName)
	})

	t.Run("freelancer without profile", func(t *testing.T) {
		d := fixture()
		d.Users[1].FreelancerProfile = nil
		issues := CheckReferences(d)
		require.Len(t, issues, 1)
		assert.Equal(t, "freelancer_exists", issues[0].RuleName)
	})

	t.Run("missing parent", func(t *testing.T) {
		d := fixture()
		d.Contracts = nil
		issues := CheckReferences(d)
		require.Len(t, issues, 1)
		assert.Equal(t, "contract_exists", issues[0].RuleName)
	})
}

func TestQualityScore(t *testing.T) {
	d := fixture()
	report := NewQualityScorer(0).Evaluate(d, nil)

	assert.Equal(t, float64(DefaultMinScore), report.Threshold)
	require.Len(t, report.Kinds, 5)
	assert.GreaterOrEqual(t, report.OverallScore, 0.0)
	assert.LessOrEqual(t, report.OverallScore, 100.0)

	users := report.Kinds[0]
	assert.Equal(t, models.KindUser, users.Kind)
	assert.Equal(t, 100.0, users.Validity)
	assert.Equal(t, 100.0, users.Format)
	assert.Equal(t, 100.0, users.Completeness)
	// one mid freelancer against 20/40/30/10
	assert.Equal(t, 30.0, users.Deviation)
	assert.False(t, users.Realistic)
	assert.Equal(t, 94.0, users.Score)

	// one moderate project against 30/40/25/5 deviates 30pp on average
	projects := report.Kinds[1]
	assert.Equal(t, 30.0, projects.Deviation)
	assert.False(t, projects.Realistic)
	assert.Equal(t, 40.0, projects.Distribution)
	assert.Equal(t, 94.0, projects.Score)
	assert.True(t, report.Passed())
}

func TestQualityUsesScorerClock(t *testing.T) {
	d := fixture()
	d.Projects[0].DraftSavedAt = ptr(time.Now().Add(365 * 24 * time.Hour))

	report := NewQualityScorer(0).Evaluate(d, nil)
	assert.Equal(t, 0.0, report.Kinds[1].Format)

	scorer := NewQualityScorer(0)
	scorer.Now = func() time.Time { return time.Now().Add(2 * 365 * 24 * time.Hour) }
	report = scorer.Evaluate(d, nil)
	assert.Equal(t, 100.0, report.Kinds[1].Format)
}

func TestQualityCritical(t *testing.T) {
	d := fixture()
	for _, u := range d.Users {
		u.Email = "nope"
	}
	report := NewQualityScorer(70).Evaluate(d, nil)
	require.NotEmpty(t, report.Kinds)
	assert.Equal(t, models.KindUser, report.Kinds[0].Kind)
	assert.Equal(t, 0.0, report.Kinds[0].Validity)
	assert.Contains(t, report.Critical, models.KindUser)
	assert.False(t, report.Passed())
}

func TestQualityEmptyDataset(t *testing.T) {
	report := NewQualityScorer(70).Evaluate(Dataset{}, nil)
	assert.Equal(t, 0.0, report.OverallScore)
	assert.Empty(t, report.Kinds)
}

func TestDeviation(t *testing.T) {
	dev, ok := deviation([]string{"a", "a", "b", "b"}, map[string]float64{"a": 50, "b": 50})
	assert.Equal(t, 0.0, dev)
	assert.True(t, ok)

	dev, ok = deviation([]string{"a", "c"}, map[string]float64{"a": 100})
	assert.Equal(t, 50.0, dev)
	assert.False(t, ok)
}
