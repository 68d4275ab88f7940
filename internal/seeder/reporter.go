package seeder

import (
	"log"
	"math"
)

// ProgressEvent is sent to reporters after every step of a run.
type ProgressEvent struct {
	CurrentStep       string  `json:"current_step"`
	CompletedSteps    int     `json:"completed_steps"`
	TotalSteps        int     `json:"total_steps"`
	Percentage        float64 `json:"percentage"`
	EntitiesProcessed int     `json:"entities_processed"`
}

func newEvent(step string, completed, total, entities int) ProgressEvent {
	pct := 0.0
	if total > 0 {
		pct = math.Round(float64(completed)/float64(total)*1000) / 10
	}
	return ProgressEvent{
		CurrentStep:       step,
		CompletedSteps:    completed,
		TotalSteps:        total,
		Percentage:        pct,
		EntitiesProcessed: entities,
	}
}

// Reporter receives progress events and the final summary of a run.
type Reporter interface {
	Progress(ev ProgressEvent)
	Summary(res *Result)
}

// LogReporter writes progress and summaries to the standard logger.
type LogReporter struct{}

func (LogReporter) Progress(ev ProgressEvent) {
	log.Printf("[seeder] %5.1f%% (%d/%d) %s, %d entities",
		ev.Percentage, ev.CompletedSteps, ev.TotalSteps, ev.CurrentStep, ev.EntitiesProcessed)
}

func (LogReporter) Summary(res *Result) {
	if res.Skipped {
		log.Printf("[seeder] skipped: storage already holds data")
		return
	}
	log.Printf("[seeder] finished in %s, success=%t", res.Duration, res.Success)
	for _, m := range res.Order {
		k := res.kindOf(m)
		log.Printf("[seeder]   %-10s generated=%d persisted=%d", m, res.Generated[k], res.Persisted[k])
	}
	if res.Quality != nil {
		log.Printf("[seeder] quality score %.1f (threshold %.1f)", res.Quality.OverallScore, res.Quality.Threshold)
	}
	if res.Performance != nil {
		for _, r := range res.Performance.Recommendations {
			log.Printf("[seeder] recommendation: %s", r)
		}
	}
	for _, e := range res.Errors {
		log.Printf("[seeder] error: %s", e.Error())
	}
}

type multiReporter []Reporter

func (m multiReporter) Progress(ev ProgressEvent) {
	for _, r := range m {
		r.Progress(ev)
	}
}

func (m multiReporter) Summary(res *Result) {
	for _, r := range m {
		r.Summary(res)
	}
}

// Reporters fans events out to every non-nil reporter.
func Reporters(rs ...Reporter) Reporter {
	out := make(multiReporter, 0, len(rs))
	for _, r := range rs {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}
