package validation

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/models"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/slug"
)

const (
	MinHourlyRate          = 15
	MaxSkills              = 12
	MaxMilestones          = 5
	ProposalTotalTolerance = 0.01 // relative
	ContractTotalTolerance = 1.0  // absolute
)

var validate = validator.New()

func validEmail(s string) bool { return validate.Var(s, "required,email") == nil }
func validURL(s string) bool   { return validate.Var(s, "required,url") == nil }

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func requiredID(field string, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func oneOf[T comparable](field string, v T, allowed ...T) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return fmt.Errorf("%s %v is not one of %v", field, v, allowed)
}

// UserRules validates generated accounts.
func UserRules() *RuleSet[*models.User] {
	return NewRuleSet(models.KindUser, func(u *models.User) string { return u.ID.String() },
		Rule[*models.User]{Name: "email_required", Severity: SeverityError, Category: CategoryRequired,
			Check: func(u *models.User) error { return required("email", u.Email) }},
		Rule[*models.User]{Name: "email_format", Severity: SeverityError, Category: CategoryFormat,
			Check: func(u *models.User) error {
				if !validEmail(u.Email) {
					return fmt.Errorf("email %q is malformed", u.Email)
				}
				return nil
			}},
		Rule[*models.User]{Name: "name_required", Severity: SeverityError, Category: CategoryRequired,
			Check: func(u *models.User) error { return required("name", u.Name) }},
		Rule[*models.User]{Name: "password_required", Severity: SeverityError, Category: CategoryRequired,
			Check: func(u *models.User) error { return required("password hash", u.Password) }},
		Rule[*models.User]{Name: "role_valid", Severity: SeverityError, Category: CategoryBusiness,
			Check: func(u *models.User) error {
				return oneOf("role", u.Role, models.RoleAdmin, models.RoleClient, models.RoleFreelancer)
			}},
		Rule[*models.User]{Name: "slug_format", Severity: SeverityError, Category: CategoryFormat,
			Check: func(u *models.User) error {
				if !slug.Valid(u.Profile.Slug) {
					return fmt.Errorf("slug %q is malformed", u.Profile.Slug)
				}
				return nil
			}},
		Rule[*models.User]{Name: "freelancer_profile_present", Severity: SeverityError, Category: CategoryBusiness,
			Check: func(u *models.User) error {
				if u.Role == models.RoleFreelancer && u.FreelancerProfile == nil {
					return errors.New("freelancer has no freelancer profile")
				}
				return nil
			}},
		Rule[*models.User]{Name: "profile_only_for_freelancers", Severity: SeverityWarning, Category: CategoryBusiness,
			Check: func(u *models.User) error {
				if u.Role != models.RoleFreelancer && u.FreelancerProfile != nil {
					return fmt.Errorf("%s carries a freelancer profile", u.Role)
				}
				return nil
			}},
		Rule[*models.User]{Name: "hourly_rate_floor", Severity: SeverityError, Category: CategoryRange,
			Check: func(u *models.User) error {
				if p := u.FreelancerProfile; p != nil && p.HourlyRate < MinHourlyRate {
					return fmt.Errorf("hourly rate %.2f below %d", p.HourlyRate, MinHourlyRate)
				}
				return nil
			}},
		Rule[*models.User]{Name: "skill_count", Severity: SeverityWarning, Category: CategoryRange,
			Check: func(u *models.User) error {
				if p := u.FreelancerProfile; p != nil && (len(p.Skills) == 0 || len(p.Skills) > MaxSkills) {
					return fmt.Errorf("%d skills, want 1..%d", len(p.Skills), MaxSkills)
				}
				return nil
			}},
		Rule[*models.User]{Name: "rating_range", Severity: SeverityError, Category: CategoryRange,
			Check: func(u *models.User) error {
				r := u.Rating
				if r.Count < 0 || r.Average < 0 || r.Average > 5 {
					return fmt.Errorf("rating %.1f/%d out of range", r.Average, r.Count)
				}
				if r.Count == 0 && r.Average != 0 {
					return errors.New("rating average without reviews")
				}
				return nil
			}},
		Rule[*models.User]{Name: "website_format", Severity: SeverityInfo, Category: CategoryFormat,
			Check: func(u *models.User) error {
				if w := u.Profile.Website; w != "" && !validURL(w) {
					return fmt.Errorf("website %q is malformed", w)
				}
				return nil
			}},
	)
}

// ProjectRules validates generated projects.
func ProjectRules() *RuleSet[*models.Project] {
	return NewRuleSet(models.KindProject, func(p *models.Project) string { return p.ID.String() },
		Rule[*models.Project]{Name: "title_required", Severity: SeverityError, Category: CategoryRequired,
			Check: func(p *models.Project) error { return required("title", p.Title) }},
		Rule[*models.Project]{Name: "client_required", Severity: SeverityError, Category: CategoryRequired,
			Check: func(p *models.Project) error { return requiredID("client", p.ClientID) }},
		Rule[*models.Project]{Name: "status_valid", Severity: SeverityError, Category: CategoryBusiness,
			Check: func(p *models.Project) error {
				return oneOf("status", p.Status, models.ProjectDraft, models.ProjectOpen,
					models.ProjectInProgress, models.ProjectCompleted, models.ProjectCancelled)
			}},
		Rule[*models.Project]{Name: "complexity_valid", Severity: SeverityError, Category: CategoryBusiness,
			Check: func(p *models.Project) error {
				return oneOf("complexity", p.Complexity, models.ComplexitySimple, models.ComplexityModerate,
					models.ComplexityComplex, models.ComplexityEnterprise)
			}},
		Rule[*models.Project]{Name: "budget_type_valid", Severity: SeverityError, Category: CategoryBusiness,
			Check: func(p *models.Project) error {
				return oneOf("budget type", p.Budget.Type, models.BudgetFixed, models.BudgetHourly)
			}},
		Rule[*models.Project]{Name: "budget_range", Severity: SeverityError, Category: CategoryRange,
			Check: func(p *models.Project) error {
				if p.Budget.Min <= 0 || p.Budget.Min > p.Budget.Max {
					return fmt.Errorf("budget %.2f..%.2f is not a valid range", p.Budget.Min, p.Budget.Max)
				}
				return nil
			}},
		Rule[*models.Project]{Name: "estimated_hours_positive", Severity: SeverityError, Category: CategoryRange,
			Check: func(p *models.Project) error {
				if p.EstimatedHours <= 0 {
					return fmt.Errorf("estimated hours %d must be positive", p.EstimatedHours)
				}
				return nil
			}},
		Rule[*models.Project]{Name: "timeline_positive", Severity: SeverityError, Category: CategoryRange,
			Check: func(p *models.Project) error {
				if p.Timeline.Duration <= 0 {
					return fmt.Errorf("timeline %d %s must be positive", p.Timeline.Duration, p.Timeline.Unit)
				}
				return oneOf("timeline unit", p.Timeline.Unit, models.UnitDays, models.UnitWeeks, models.UnitMonths)
			}},
		Rule[*models.Project]{Name: "draft_flag_consistent", Severity: SeverityError, Category: CategoryBusiness,
			Check: func(p *models.Project) error {
				if (p.Status == models.ProjectDraft) != p.IsDraft {
					return fmt.Errorf("status %s with isDraft=%t", p.Status, p.IsDraft)
				}
				return nil
			}},
		Rule[*models.Project]{Name: "draft_saved_at", Severity: SeverityWarning, Category: CategoryTemporal,
			Check: func(p *models.Project) error {
				if p.IsDraft && p.DraftSavedAt == nil {
					return errors.New("draft without draftSavedAt")
				}
				return nil
			}},
		Rule[*models.Project]{Name: "skills_present", Severity: SeverityWarning, Category: CategoryRequired,
			Check: func(p *models.Project) error {
				if len(p.Skills) == 0 {
					return errors.New("no required skills")
				}
				return nil
			}},
	)
}

// ProposalRules validates generated bids.
func ProposalRules() *RuleSet[*models.Proposal] {
	return NewRuleSet(models.KindProposal, func(p *models.Proposal) string { return p.ID.String() },
		Rule[*models.Proposal]{Name: "references_required", Severity: SeverityError, Category: CategoryRequired,
			Check: func(p *models.Proposal) error {
				return errors.Join(requiredID("project", p.ProjectID), requiredID("freelancer", p.FreelancerID))
			}},
		Rule[*models.Proposal]{Name: "bid_positive", Severity: SeverityError, Category: CategoryRange,
			Check: func(p *models.Proposal) error {
				if p.BidAmount <= 0 {
					return fmt.Errorf("bid amount %.2f must be positive", p.BidAmount)
				}
				return nil
			}},
		Rule[*models.Proposal]{Name: "status_valid", Severity: SeverityError, Category: CategoryBusiness,
			Check: func(p *models.Proposal) error {
				return oneOf("status", p.Status, models.ProposalSubmitted, models.ProposalAccepted,
					models.ProposalRejected, models.ProposalWithdrawn)
			}},
		Rule[*models.Proposal]{Name: "timeline_positive", Severity: SeverityError, Category: CategoryRange,
			Check: func(p *models.Proposal) error {
				if p.Timeline.Duration <= 0 {
					return fmt.Errorf("timeline %d must be positive", p.Timeline.Duration)
				}
				return nil
			}},
		Rule[*models.Proposal]{Name: "milestone_count", Severity: SeverityError, Category: CategoryRange,
			Check: func(p *models.Proposal) error {
				if n := len(p.Milestones); n == 0 || n > MaxMilestones {
					return fmt.Errorf("%d milestones, want 1..%d", n, MaxMilestones)
				}
				return nil
			}},
		Rule[*models.Proposal]{Name: "milestone_total_matches_bid", Severity: SeverityError, Category: CategoryBusiness,
			Check: func(p *models.Proposal) error {
				sum := p.MilestoneTotal()
				if math.Abs(sum-p.BidAmount) > p.BidAmount*ProposalTotalTolerance {
					return fmt.Errorf("milestones total %.2f, bid is %.2f", sum, p.BidAmount)
				}
				return nil
			}},
		Rule[*models.Proposal]{Name: "milestone_due_order", Severity: SeverityWarning, Category: CategoryTemporal,
			Check: func(p *models.Proposal) error {
				for i := 1; i < len(p.Milestones); i++ {
					if p.Milestones[i].DueDate.Before(p.Milestones[i-1].DueDate) {
						return fmt.Errorf("milestone %d due before milestone %d", i+1, i)
					}
				}
				return nil
			}},
		Rule[*models.Proposal]{Name: "responded_after_submitted", Severity: SeverityError, Category: CategoryTemporal,
			Check: func(p *models.Proposal) error {
				if p.RespondedAt != nil && p.RespondedAt.Before(p.SubmittedAt) {
					return errors.New("responded before submission")
				}
				return nil
			}},
	)
}

// ContractRules validates generated contracts.
func ContractRules() *RuleSet[*models.Contract] {
	return NewRuleSet(models.KindContract, func(c *models.Contract) string { return c.ID.String() },
		Rule[*models.Contract]{Name: "references_required", Severity: SeverityError, Category: CategoryRequired,
			Check: func(c *models.Contract) error {
				return errors.Join(
					requiredID("proposal", c.ProposalID),
					requiredID("client", c.ClientID),
					requiredID("freelancer", c.FreelancerID),
					requiredID("project", c.ProjectID),
				)
			}},
		Rule[*models.Contract]{Name: "total_positive", Severity: SeverityError, Category: CategoryRange,
			Check: func(c *models.Contract) error {
				if c.TotalAmount <= 0 {
					return fmt.Errorf("total amount %.2f must be positive", c.TotalAmount)
				}
				return nil
			}},
		Rule[*models.Contract]{Name: "status_valid", Severity: SeverityError, Category: CategoryBusiness,
			Check: func(c *models.Contract) error {
				return oneOf("status", c.Status, models.ContractActive, models.ContractCompleted,
					models.ContractCancelled, models.ContractDisputed)
			}},
		Rule[*models.Contract]{Name: "date_order", Severity: SeverityError, Category: CategoryTemporal,
			Check: func(c *models.Contract) error {
				if c.EndDate != nil && c.EndDate.Before(c.StartDate) {
					return errors.New("end date before start date")
				}
				return nil
			}},
		Rule[*models.Contract]{Name: "milestone_total_matches", Severity: SeverityError, Category: CategoryBusiness,
			Check: func(c *models.Contract) error {
				if len(c.Milestones) == 0 {
					return errors.New("no milestones")
				}
				sum := c.MilestoneTotal()
				if math.Abs(sum-c.TotalAmount) > ContractTotalTolerance {
					return fmt.Errorf("milestones total %.2f, contract is %.2f", sum, c.TotalAmount)
				}
				return nil
			}},
		Rule[*models.Contract]{Name: "milestone_approval_order", Severity: SeverityError, Category: CategoryTemporal,
			Check: func(c *models.Contract) error {
				for i, m := range c.Milestones {
					if m.CompletedAt != nil && m.ApprovedAt != nil && m.ApprovedAt.Before(*m.CompletedAt) {
						return fmt.Errorf("milestone %d approved before completion", i+1)
					}
				}
				return nil
			}},
		Rule[*models.Contract]{Name: "completed_has_end_date", Severity: SeverityWarning, Category: CategoryTemporal,
			Check: func(c *models.Contract) error {
				if c.Status == models.ContractCompleted && c.EndDate == nil {
					return errors.New("completed contract without end date")
				}
				return nil
			}},
	)
}

// ReviewRules validates generated reviews.
func ReviewRules() *RuleSet[*models.Review] {
	return NewRuleSet(models.KindReview, func(r *models.Review) string { return r.ID.String() },
		Rule[*models.Review]{Name: "references_required", Severity: SeverityError, Category: CategoryRequired,
			Check: func(r *models.Review) error {
				return errors.Join(
					requiredID("contract", r.ContractID),
					requiredID("reviewer", r.ReviewerID),
					requiredID("reviewee", r.RevieweeID),
				)
			}},
		Rule[*models.Review]{Name: "rating_range", Severity: SeverityError, Category: CategoryRange,
			Check: func(r *models.Review) error {
				if r.Rating < 1 || r.Rating > 5 {
					return fmt.Errorf("rating %d outside 1..5", r.Rating)
				}
				return nil
			}},
		Rule[*models.Review]{Name: "reviewer_not_reviewee", Severity: SeverityError, Category: CategoryBusiness,
			Check: func(r *models.Review) error {
				if r.ReviewerID == r.RevieweeID {
					return errors.New("reviewer reviews themselves")
				}
				return nil
			}},
		Rule[*models.Review]{Name: "direction_valid", Severity: SeverityError, Category: CategoryBusiness,
			Check: func(r *models.Review) error {
				return oneOf("direction", r.Direction, models.ClientToFreelancer, models.FreelancerToClient)
			}},
		Rule[*models.Review]{Name: "comment_present", Severity: SeverityWarning, Category: CategoryRequired,
			Check: func(r *models.Review) error { return required("comment", r.Comment) }},
	)
}
