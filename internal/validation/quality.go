package validation

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/models"
)

const (
	DefaultMinScore = 70
	// RealisticDeviation is the average absolute deviation, in percentage points,
	// below which a distribution counts as realistic.
	RealisticDeviation = 15

	weightValidity     = 0.40
	weightFormat       = 0.25
	weightCompleteness = 0.25
	weightDistribution = 0.10
)

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ().\-x]{6,}$`)

// DefaultTargets are the declared proportions (percent) generators aim for.
func DefaultTargets() map[models.Kind]map[string]float64 {
	return map[models.Kind]map[string]float64{
		models.KindUser: {
			string(models.LevelJunior): 20,
			string(models.LevelMid):    40,
			string(models.LevelSenior): 30,
			string(models.LevelExpert): 10,
		},
		models.KindProject: {
			string(models.ComplexitySimple):     30,
			string(models.ComplexityModerate):   40,
			string(models.ComplexityComplex):    25,
			string(models.ComplexityEnterprise): 5,
		},
		models.KindProposal: {
			string(models.ProposalSubmitted): 60,
			string(models.ProposalAccepted):  15,
			string(models.ProposalRejected):  20,
			string(models.ProposalWithdrawn): 5,
		},
	}
}

// KindQuality is the score breakdown for one entity kind. Components are 0-100.
type KindQuality struct {
	Kind         models.Kind `json:"kind"`
	Count        int         `json:"count"`
	Score        float64     `json:"score"`
	Validity     float64     `json:"validity"`
	Format       float64     `json:"format"`
	Completeness float64     `json:"completeness"`
	Distribution float64     `json:"distribution"`
	Deviation    float64     `json:"deviation"`
	Realistic    bool        `json:"realistic"`
	Critical     bool        `json:"critical"`
}

type QualityReport struct {
	OverallScore float64       `json:"overall_score"`
	Threshold    float64       `json:"threshold"`
	Kinds        []KindQuality `json:"kinds"`
	Critical     []models.Kind `json:"critical,omitempty"`
}

// Passed reports whether no kind scored below the threshold.
func (r QualityReport) Passed() bool { return len(r.Critical) == 0 }

// QualityScorer rolls structural validity, format consistency, field completeness and
// distribution realism into one score per kind.
type QualityScorer struct {
	MinScore float64
	Targets  map[models.Kind]map[string]float64
	// Now bounds timestamps that must lie in the past. Nil means time.Now.
	Now func() time.Time
}

func NewQualityScorer(minScore float64) *QualityScorer {
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	return &QualityScorer{MinScore: minScore, Targets: DefaultTargets()}
}

// Evaluate scores every non-empty kind in the dataset. The overall score is the mean of
// the per-kind scores, or 0 when nothing was generated.
func (q *QualityScorer) Evaluate(d Dataset, reports map[models.Kind]Report) QualityReport {
	if reports == nil {
		reports = ValidateDataset(d)
	}
	out := QualityReport{Threshold: q.MinScore}
	now := time.Now()
	if q.Now != nil {
		now = q.Now()
	}
	var sum float64
	for _, kind := range models.AllKinds {
		n := d.Count(kind)
		if n == 0 {
			continue
		}
		checks := qualityChecks(d, kind, now)
		kq := KindQuality{
			Kind:         kind,
			Count:        n,
			Validity:     reports[kind].ValidRatio() * 100,
			Format:       checks.format.percent(),
			Completeness: checks.complete.percent(),
		}
		kq.Deviation, kq.Realistic = deviation(checks.values, q.Targets[kind])
		kq.Distribution = math.Max(0, 100-2*kq.Deviation)
		kq.Score = round1(kq.Validity*weightValidity + kq.Format*weightFormat +
			kq.Completeness*weightCompleteness + kq.Distribution*weightDistribution)
		kq.Critical = kq.Score < q.MinScore
		if kq.Critical {
			out.Critical = append(out.Critical, kind)
		}
		out.Kinds = append(out.Kinds, kq)
		sum += kq.Score
	}
	if len(out.Kinds) > 0 {
		out.OverallScore = round1(sum / float64(len(out.Kinds)))
	}
	return out
}

type tally struct{ passed, total int }

func (t *tally) check(ok bool) {
	t.total++
	if ok {
		t.passed++
	}
}

func (t tally) percent() float64 {
	if t.total == 0 {
		return 100
	}
	return float64(t.passed) / float64(t.total) * 100
}

type kindChecks struct {
	format   tally
	complete tally
	values   []string
}

func filled(s string) bool { return strings.TrimSpace(s) != "" }

func qualityChecks(d Dataset, kind models.Kind, now time.Time) kindChecks {
	var c kindChecks
	switch kind {
	case models.KindUser:
		for _, u := range d.Users {
			c.format.check(validEmail(u.Email))
			if u.Phone != "" {
				c.format.check(phonePattern.MatchString(u.Phone))
			}
			if u.Profile.Website != "" {
				c.format.check(validURL(u.Profile.Website))
			}
			for _, s := range []string{u.Email, u.Name, u.Password, string(u.Role), u.Profile.Slug, u.Profile.FirstName, u.Profile.LastName} {
				c.complete.check(filled(s))
			}
			if u.FreelancerProfile != nil {
				c.values = append(c.values, string(u.FreelancerProfile.ExperienceLevel))
			}
		}
	case models.KindProject:
		for _, p := range d.Projects {
			if p.DraftSavedAt != nil {
				c.format.check(!p.DraftSavedAt.After(now))
			}
			for _, s := range []string{p.Title, p.Description, p.Category, string(p.Status), string(p.Complexity)} {
				c.complete.check(filled(s))
			}
			c.complete.check(len(p.Skills) > 0)
			c.values = append(c.values, string(p.Complexity))
		}
	case models.KindProposal:
		for _, p := range d.Proposals {
			c.format.check(!p.SubmittedAt.IsZero() && !p.SubmittedAt.After(now))
			for _, m := range p.Milestones {
				c.format.check(!m.DueDate.IsZero())
			}
			c.complete.check(filled(p.CoverLetter))
			c.complete.check(len(p.Milestones) > 0)
			c.values = append(c.values, string(p.Status))
		}
	case models.KindContract:
		for _, ct := range d.Contracts {
			c.format.check(!ct.StartDate.IsZero())
			if ct.EndDate != nil {
				c.format.check(!ct.EndDate.Before(ct.StartDate))
			}
			for _, s := range []string{ct.Title, ct.Currency, string(ct.Status), string(ct.PaymentType)} {
				c.complete.check(filled(s))
			}
			c.values = append(c.values, string(ct.Status))
		}
	case models.KindReview:
		for _, r := range d.Reviews {
			c.format.check(r.Rating >= 1 && r.Rating <= 5)
			c.complete.check(filled(r.Title))
			c.complete.check(filled(r.Comment))
			c.values = append(c.values, string(r.Direction))
		}
	}
	return c
}

// deviation returns the mean absolute difference in percentage points between the
// observed shares of values and the target shares. Kinds without targets are realistic.
func deviation(values []string, target map[string]float64) (float64, bool) {
	if len(target) == 0 || len(values) == 0 {
		return 0, true
	}
	counts := make(map[string]int, len(target))
	for _, v := range values {
		counts[v]++
	}
	keys := make([]string, 0, len(target)+len(counts))
	for k := range target {
		keys = append(keys, k)
	}
	for k := range counts {
		if _, ok := target[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var sum float64
	for _, k := range keys {
		actual := float64(counts[k]) / float64(len(values)) * 100
		sum += math.Abs(actual - target[k])
	}
	dev := round1(sum / float64(len(keys)))
	return dev, dev < RealisticDeviation
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
