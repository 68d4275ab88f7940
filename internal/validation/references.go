package validation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/models"
)

// Dataset is every entity produced by one run, grouped by kind.
type Dataset struct {
	Users     []*models.User
	Projects  []*models.Project
	Proposals []*models.Proposal
	Contracts []*models.Contract
	Reviews   []*models.Review
}

// Count returns the number of entities of a kind.
func (d Dataset) Count(k models.Kind) int {
	switch k {
	case models.KindUser:
		return len(d.Users)
	case models.KindProject:
		return len(d.Projects)
	case models.KindProposal:
		return len(d.Proposals)
	case models.KindContract:
		return len(d.Contracts)
	case models.KindReview:
		return len(d.Reviews)
	}
	return 0
}

// ValidateDataset runs the structural rule set of every kind over the dataset.
func ValidateDataset(d Dataset) map[models.Kind]Report {
	return map[models.Kind]Report{
		models.KindUser:     UserRules().Validate(d.Users),
		models.KindProject:  ProjectRules().Validate(d.Projects),
		models.KindProposal: ProposalRules().Validate(d.Proposals),
		models.KindContract: ContractRules().Validate(d.Contracts),
		models.KindReview:   ReviewRules().Validate(d.Reviews),
	}
}

type refIssues struct {
	issues []Issue
}

func (r *refIssues) add(kind models.Kind, index int, id uuid.UUID, rule string, cat Category, format string, args ...any) {
	r.issues = append(r.issues, Issue{
		Kind:        kind,
		EntityIndex: index,
		EntityID:    id.String(),
		RuleName:    rule,
		Message:     fmt.Sprintf(format, args...),
		Severity:    SeverityError,
		Category:    cat,
	})
}

// CheckReferences verifies uniqueness of user emails and slugs and that every foreign key
// resolves to a published entity in the state its relationship requires.
func CheckReferences(d Dataset) []Issue {
	var r refIssues

	users := models.UserIDs(d.Users)
	emails := make(map[string]int, len(d.Users))
	slugs := make(map[string]int, len(d.Users))
	for i, u := range d.Users {
		email := strings.ToLower(u.Email)
		if first, ok := emails[email]; ok {
			r.add(models.KindUser, i, u.ID, "email_unique", CategoryUniqueness, "email %q already used by user %d", u.Email, first)
		} else {
			emails[email] = i
		}
		if first, ok := slugs[u.Profile.Slug]; ok {
			r.add(models.KindUser, i, u.ID, "slug_unique", CategoryUniqueness, "slug %q already used by user %d", u.Profile.Slug, first)
		} else {
			slugs[u.Profile.Slug] = i
		}
	}

	projects := make(map[uuid.UUID]*models.Project, len(d.Projects))
	for i, p := range d.Projects {
		projects[p.ID] = p
		if _, ok := users[p.ClientID]; !ok {
			r.add(models.KindProject, i, p.ID, "client_exists", CategoryReference, "client %s not found", p.ClientID)
		}
	}

	proposals := make(map[uuid.UUID]*models.Proposal, len(d.Proposals))
	for i, p := range d.Proposals {
		proposals[p.ID] = p
		project, ok := projects[p.ProjectID]
		switch {
		case !ok:
			r.add(models.KindProposal, i, p.ID, "project_exists", CategoryReference, "project %s not found", p.ProjectID)
		case project.Status != models.ProjectOpen:
			r.add(models.KindProposal, i, p.ID, "project_open", CategoryReference, "project %s is %s, not open", p.ProjectID, project.Status)
		}
		if !users[p.FreelancerID].IsFreelancer() {
			r.add(models.KindProposal, i, p.ID, "freelancer_exists", CategoryReference, "freelancer %s not found or has no profile", p.FreelancerID)
		}
	}

	contracts := make(map[uuid.UUID]*models.Contract, len(d.Contracts))
	for i, c := range d.Contracts {
		contracts[c.ID] = c
		proposal, ok := proposals[c.ProposalID]
		switch {
		case !ok:
			r.add(models.KindContract, i, c.ID, "proposal_exists", CategoryReference, "proposal %s not found", c.ProposalID)
			continue
		case proposal.Status != models.ProposalAccepted:
			r.add(models.KindContract, i, c.ID, "proposal_accepted", CategoryReference, "proposal %s is %s, not accepted", c.ProposalID, proposal.Status)
		}
		if c.FreelancerID != proposal.FreelancerID || c.ProjectID != proposal.ProjectID {
			r.add(models.KindContract, i, c.ID, "parties_match_proposal", CategoryReference, "contract parties differ from proposal %s", c.ProposalID)
		}
		if _, ok := users[c.ClientID]; !ok {
			r.add(models.KindContract, i, c.ID, "client_exists", CategoryReference, "client %s not found", c.ClientID)
		}
	}

	for i, rv := range d.Reviews {
		contract, ok := contracts[rv.ContractID]
		switch {
		case !ok:
			r.add(models.KindReview, i, rv.ID, "contract_exists", CategoryReference, "contract %s not found", rv.ContractID)
			continue
		case contract.Status != models.ContractCompleted:
			r.add(models.KindReview, i, rv.ID, "contract_completed", CategoryReference, "contract %s is %s, not completed", rv.ContractID, contract.Status)
		}
		parties := map[uuid.UUID]bool{contract.ClientID: true, contract.FreelancerID: true}
		if !parties[rv.ReviewerID] || !parties[rv.RevieweeID] {
			r.add(models.KindReview, i, rv.ID, "parties_match_contract", CategoryReference, "reviewer or reviewee is not a party of contract %s", rv.ContractID)
		}
	}
	return r.issues
}
