package batch

import (
	"time"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/models"
)

// Approximate per-item insert costs, used for planning only.
var itemCost = map[models.Kind]time.Duration{
	models.KindUser:     800 * time.Microsecond,
	models.KindProject:  400 * time.Microsecond,
	models.KindProposal: 500 * time.Microsecond,
	models.KindContract: 500 * time.Microsecond,
	models.KindReview:   200 * time.Microsecond,
}

var baseBatchSize = map[models.Kind]int{
	models.KindUser:     100,
	models.KindProject:  200,
	models.KindProposal: 250,
	models.KindContract: 250,
	models.KindReview:   500,
}

const batchOverhead = 15 * time.Millisecond

// RecommendBatchSize suggests a batch size for inserting total entities of a kind.
func RecommendBatchSize(kind models.Kind, total int) int {
	size, ok := baseBatchSize[kind]
	if !ok {
		size = DefaultBatchSize
	}
	switch {
	case total >= 50000:
		size *= 4
	case total >= 10000:
		size *= 2
	}
	if total > 0 && size > total {
		size = total
	}
	return max(size, 1)
}

// EstimateDuration predicts how long processing total entities takes with opts.
func EstimateDuration(kind models.Kind, total int, opts Options) time.Duration {
	if total <= 0 {
		return 0
	}
	opts = opts.withDefaults()
	cost, ok := itemCost[kind]
	if !ok {
		cost = time.Millisecond
	}
	batches := (total + opts.BatchSize - 1) / opts.BatchSize
	waves := (batches + opts.Concurrency - 1) / opts.Concurrency
	perBatch := time.Duration(min(opts.BatchSize, total))*cost + batchOverhead
	return time.Duration(waves) * perBatch
}
