package generators

import (
	"math"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/models"
)

const (
	// AverageHourlyRate anchors every budget, USD.
	AverageHourlyRate = 65.0
	// FixedBudgetMaxHours is the size below which non-enterprise work is priced fixed.
	FixedBudgetMaxHours = 100
	HoursPerDay         = 8
)

var complexityMultiplier = map[models.Complexity]float64{
	models.ComplexitySimple:     1.0,
	models.ComplexityModerate:   1.2,
	models.ComplexityComplex:    1.5,
	models.ComplexityEnterprise: 2.0,
}

var timelineBuffer = map[models.Complexity]float64{
	models.ComplexitySimple:     1.2,
	models.ComplexityModerate:   1.4,
	models.ComplexityComplex:    1.6,
	models.ComplexityEnterprise: 2.0,
}

// estimatedHours is the inclusive hour range per complexity.
var estimatedHours = map[models.Complexity][2]int{
	models.ComplexitySimple:     {10, 40},
	models.ComplexityModerate:   {40, 120},
	models.ComplexityComplex:    {120, 400},
	models.ComplexityEnterprise: {400, 1200},
}

// CalculateBudget prices a project. Small non-enterprise work gets a fixed range around
// hours x rate; everything else is priced hourly at 70%-150% of the average rate.
// Projects and proposals both go through this so bids stay plausible against budgets.
func CalculateBudget(hours int, complexity models.Complexity, skills []string) models.Budget {
	if hours < FixedBudgetMaxHours && complexity != models.ComplexityEnterprise {
		mult, ok := complexityMultiplier[complexity]
		if !ok {
			mult = 1
		}
		t := float64(hours) * AverageHourlyRate * mult
		if len(skills) > 5 {
			t *= 1.2
		}
		return models.Budget{
			Type:     models.BudgetFixed,
			Min:      roundTo(t*0.8, 2),
			Max:      roundTo(t*1.3, 2),
			Currency: "USD",
		}
	}
	return models.Budget{
		Type:     models.BudgetHourly,
		Min:      AverageHourlyRate * 0.7,
		Max:      AverageHourlyRate * 1.5,
		Currency: "USD",
	}
}

// CalculateTimeline converts hours into a buffered calendar timeline in the coarsest
// sensible unit: up to 14 days in days, up to 90 in weeks, otherwise months.
func CalculateTimeline(hours int, complexity models.Complexity) models.Timeline {
	buffer, ok := timelineBuffer[complexity]
	if !ok {
		buffer = 1.2
	}
	days := int(math.Ceil(float64(hours) / HoursPerDay * buffer))
	return NormalizeTimeline(days)
}

// NormalizeTimeline expresses a number of days in days, weeks or months.
func NormalizeTimeline(days int) models.Timeline {
	if days < 1 {
		days = 1
	}
	switch {
	case days <= 14:
		return models.Timeline{Duration: days, Unit: models.UnitDays}
	case days <= 90:
		return models.Timeline{Duration: int(math.Ceil(float64(days) / 7)), Unit: models.UnitWeeks}
	default:
		return models.Timeline{Duration: int(math.Ceil(float64(days) / 30)), Unit: models.UnitMonths}
	}
}
