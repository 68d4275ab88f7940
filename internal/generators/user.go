package generators

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/errs"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/models"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/slug"
)

const (
	MinHourlyRate = 15.0
	MaxSkills     = 12

	specializationChance = 0.2
	specializationBonus  = 1.2
	emailDomain          = "seed.jokiku.test"
)

// ClassifyRate maps an hourly rate onto the experience band it is typical for.
func ClassifyRate(rate float64) models.ExperienceLevel {
	switch {
	case rate < 40:
		return models.LevelJunior
	case rate < 75:
		return models.LevelMid
	case rate < 120:
		return models.LevelSenior
	default:
		return models.LevelExpert
	}
}

// SkillCap is the largest skill set a freelancer with the given years may list.
func SkillCap(years int) int {
	return min(MaxSkills, 4+years/2)
}

type UserGenerator struct {
	base
	hasher *onceHasher
}

func NewUserGenerator(opts Options) *UserGenerator {
	return &UserGenerator{
		base:   base{kind: models.KindUser, opts: opts},
		hasher: newOnceHasher(opts.Hasher),
	}
}

// Generate creates admins, clients and freelancers in the configured proportions.
func (g *UserGenerator) Generate(ctx context.Context, store *Store, count int) (Entities, error) {
	cfg := store.Config()
	env := g.env(store)

	password := "password123"
	if cfg != nil && cfg.Password != "" {
		password = cfg.Password
	}
	hash, err := g.hasher.Hash(password)
	if err != nil {
		return nil, errs.New(errs.System, "hash seed password", err)
	}

	slugs := g.opts.Slugs
	if slugs == nil {
		slugs = slug.NewGenerator(slug.NewMemoryReserver())
	}

	var split []int
	if cfg != nil {
		c := cfg.UserCounts
		split = distribute(count, []int{c.Admins, c.Clients, c.Freelancers})
	} else {
		split = distribute(count, []int{0, 1, 1})
	}
	roles := []models.Role{models.RoleAdmin, models.RoleClient, models.RoleFreelancer}

	users := make(Users, 0, count)
	emails := make(map[string]struct{}, count)
	for ri, role := range roles {
		for i := 0; i < split[ri]; i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			u, err := g.user(ctx, env, slugs, role, emails)
			if err != nil {
				return nil, err
			}
			u.Password = hash
			users = append(users, u)
		}
	}
	return users, nil
}

func (g *UserGenerator) user(ctx context.Context, env *Env, slugs *slug.Generator, role models.Role, emails map[string]struct{}) (*models.User, error) {
	first, last := env.Faker.FirstName(), env.Faker.LastName()
	s, err := slugs.Generate(ctx, first, last)
	if err != nil {
		return nil, errs.New(errs.System, "generate slug", err)
	}

	// slugs are unique across stored users, so emails built from them are too
	email := s + "@" + emailDomain
	if _, dup := emails[email]; dup {
		return nil, fmt.Errorf("generators: duplicate email %s", email)
	}
	emails[email] = struct{}{}

	created := daysAgo(env.Rand, env.Now, 1, 365)
	loc := oneOf(env.Rand, locations)
	u := &models.User{
		Base:     models.Base{ID: newID(env.Rand)},
		Name:     first + " " + last,
		Email:    email,
		Phone:    env.Faker.Phone(),
		Role:     role,
		IsActive: role == models.RoleAdmin || chance(env.Rand, 0.95),
		Profile: models.UserProfile{
			FirstName: first,
			LastName:  last,
			Slug:      s,
			Location:  loc.name,
			AvatarURL: fmt.Sprintf("https://i.pravatar.cc/300?u=%s", s),
		},
		CreatedAt: created,
		UpdatedAt: created,
	}

	switch role {
	case models.RoleAdmin:
		u.Profile.Bio = "Platform administrator."
	case models.RoleClient:
		company := env.Faker.Company()
		u.Profile.Bio = fmt.Sprintf("Hiring for %s.", company)
		if chance(env.Rand, 0.6) {
			u.Profile.Website = env.Faker.URL()
		}
	case models.RoleFreelancer:
		u.FreelancerProfile = freelancerProfile(env, u.ID, loc, created)
		p := u.FreelancerProfile
		u.Profile.Bio = fmt.Sprintf(oneOf(env.Rand, bios), p.Title, p.ExperienceYears)
		if chance(env.Rand, 0.4) {
			u.Profile.Website = fmt.Sprintf("https://%s.dev", s)
		}
	}
	return u, nil
}

func freelancerProfile(env *Env, userID uuid.UUID, loc location, created time.Time) *models.FreelancerProfile {
	r := env.Rand
	cat := pick(r, categoryWeights())
	t := oneOf(r, cat.titles)
	level := pick(r, experienceWeights)
	yr := experienceYears[level]
	years := between(r, yr[0], yr[1])

	specialized := chance(r, specializationChance)
	bonus := 1.0
	if specialized {
		bonus = specializationBonus
	}
	rate := cat.rates[level] * loc.multiplier * bonus * uniform(r, 0.85, 1.15)
	rate = roundTo(max(rate, MinHourlyRate), 2)

	skills := freelancerSkills(r, cat, t, years)
	p := &models.FreelancerProfile{
		Base:            models.Base{ID: newID(r)},
		UserID:          userID,
		Title:           t.name,
		Category:        cat.name,
		ExperienceLevel: level,
		ExperienceYears: years,
		HourlyRate:      rate,
		Specialized:     specialized,
		Skills:          skills,
		Availability:    pick(r, availabilityWeights),
		HoursPerWeek:    oneOf(r, []int{10, 20, 30, 40}),
		Languages:       freelancerLanguages(r),
		Education:       freelancerEducation(r, created, years),
		CreatedAt:       created,
		UpdatedAt:       created,
	}
	p.Portfolio = portfolio(env, cat, skills, years)
	p.WorkHistory = workHistory(env, t.name, created, years)
	if certs := certifications[cat.name]; len(certs) > 0 && years >= 2 && chance(r, 0.5) {
		p.Certifications = append(p.Certifications, models.Certification{
			Name:     oneOf(r, certs),
			Issuer:   cat.name + " Institute",
			IssuedAt: daysAgo(r, created, 30, 365*max(years, 1)),
		})
	}
	return p
}

// freelancerSkills always includes the title's core skills, adds category skills with
// experience and general skills from five years on, capped at SkillCap(years).
func freelancerSkills(r *rand.Rand, cat *category, t title, years int) []string {
	limit := SkillCap(years)
	seen := make(map[string]struct{}, limit)
	out := make([]string, 0, limit)
	add := func(s string) {
		if len(out) >= limit {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, s := range t.core {
		add(s)
	}
	for _, s := range sample(r, cat.skills, 2+years/2) {
		add(s)
	}
	if years >= 5 {
		for _, s := range sample(r, generalSkills, 1+years/5) {
			add(s)
		}
	}
	return out
}

func freelancerLanguages(r *rand.Rand) []models.Language {
	out := []models.Language{{Name: "English", Proficiency: oneOf(r, proficiencies[:3])}}
	if chance(r, 0.5) {
		other := oneOf(r, languages[1:])
		out = append(out, models.Language{Name: other, Proficiency: oneOf(r, proficiencies)})
	}
	return out
}

func freelancerEducation(r *rand.Rand, created time.Time, years int) []models.Education {
	if !chance(r, 0.75) {
		return nil
	}
	return []models.Education{{
		Institution: oneOf(r, universities),
		Degree:      oneOf(r, degrees),
		Field:       oneOf(r, []string{"Computer Science", "Information Systems", "Design", "Communications", "Statistics"}),
		Year:        created.Year() - years - between(r, 0, 3),
	}}
}

func portfolio(env *Env, cat *category, skills []string, years int) []models.PortfolioItem {
	n := min(1+years/3, 4)
	out := make([]models.PortfolioItem, 0, n)
	for i := 0; i < n; i++ {
		name := oneOf(env.Rand, cat.projects)
		out = append(out, models.PortfolioItem{
			Title:       name,
			Description: fmt.Sprintf("%s for a %s client.", name, strings.ToLower(env.Faker.BuzzWord())),
			URL:         fmt.Sprintf("https://portfolio.example.com/%s/%d", env.Faker.Username(), i+1),
			Skills:      sample(env.Rand, skills, min(3, len(skills))),
		})
	}
	return out
}

func workHistory(env *Env, position string, created time.Time, years int) []models.WorkExperience {
	if years == 0 {
		return nil
	}
	start := created.AddDate(-years, 0, 0)
	jobs := min(1+years/4, 3)
	span := years * 12 / jobs
	out := make([]models.WorkExperience, 0, jobs)
	for i := 0; i < jobs; i++ {
		w := models.WorkExperience{
			Company:   env.Faker.Company(),
			Position:  position,
			StartDate: start.AddDate(0, i*span, 0),
		}
		if i < jobs-1 {
			end := start.AddDate(0, (i+1)*span, 0)
			w.EndDate = &end
		}
		out = append(out, w)
	}
	return out
}
