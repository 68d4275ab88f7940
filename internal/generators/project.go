package generators

import (
	"context"
	"fmt"
	"strings"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/errs"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/models"
)

var complexityWeights = []weighted[models.Complexity]{
	{models.ComplexitySimple, 30},
	{models.ComplexityModerate, 40},
	{models.ComplexityComplex, 25},
	{models.ComplexityEnterprise, 5},
}

// projectStatuses matches the field order of config.ProjectCounts.
var projectStatuses = []models.ProjectStatus{
	models.ProjectDraft,
	models.ProjectOpen,
	models.ProjectInProgress,
	models.ProjectCompleted,
	models.ProjectCancelled,
}

type ProjectGenerator struct {
	base
}

func NewProjectGenerator(opts Options) *ProjectGenerator {
	return &ProjectGenerator{base{kind: models.KindProject, deps: []models.Kind{models.KindUser}, opts: opts}}
}

// Generate fills each configured status bucket with projects owned by client users.
func (g *ProjectGenerator) Generate(ctx context.Context, store *Store, count int) (Entities, error) {
	if err := store.Require(g.deps...); err != nil {
		return nil, errs.DependencyError("generate projects", err)
	}
	var clients []*models.User
	for _, u := range store.Users() {
		if u.Role == models.RoleClient {
			clients = append(clients, u)
		}
	}
	if len(clients) == 0 && count > 0 {
		return nil, errs.Newf(errs.Dependency, "generate projects", "no client users published")
	}

	split := distribute(count, []int{0, 1, 0, 0, 0})
	if cfg := store.Config(); cfg != nil {
		c := cfg.ProjectCounts
		split = distribute(count, []int{c.Draft, c.Open, c.InProgress, c.Completed, c.Cancelled})
	}

	env := g.env(store)
	projects := make(Projects, 0, count)
	for si, status := range projectStatuses {
		for i := 0; i < split[si]; i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			projects = append(projects, g.project(env, oneOf(env.Rand, clients), status))
		}
	}
	return projects, nil
}

func (g *ProjectGenerator) project(env *Env, client *models.User, status models.ProjectStatus) *models.Project {
	r := env.Rand
	cat := pick(r, categoryWeights())
	complexity := pick(r, complexityWeights)
	hr := estimatedHours[complexity]
	hours := between(r, hr[0], hr[1])
	skills := sample(r, cat.skills, between(r, 2, 7))
	name := oneOf(r, cat.projects)

	created := daysAgo(r, env.Now, 1, 30)
	switch status {
	case models.ProjectInProgress:
		created = daysAgo(r, env.Now, 20, 120)
	case models.ProjectCompleted, models.ProjectCancelled:
		created = daysAgo(r, env.Now, 60, 365)
	}

	p := &models.Project{
		Base:           models.Base{ID: newID(r)},
		Title:          fmt.Sprintf("%s for %s", name, env.Faker.Company()),
		Description:    fmt.Sprintf(oneOf(r, projectDescriptions), strings.ToLower(name)),
		Category:       cat.name,
		Budget:         CalculateBudget(hours, complexity, skills),
		Timeline:       CalculateTimeline(hours, complexity),
		Skills:         skills,
		ClientID:       client.ID,
		Status:         status,
		Complexity:     complexity,
		EstimatedHours: hours,
		CreatedAt:      created,
		UpdatedAt:      created,
	}
	if status == models.ProjectDraft {
		saved := daysAgo(r, env.Now, 0, 30)
		p.IsDraft = true
		p.DraftSavedAt = &saved
		p.CreatedAt, p.UpdatedAt = saved, saved
	}
	return p
}
