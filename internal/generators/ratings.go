package generators

import (
	"math"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/models"
)

// RecomputeRatings sets each reviewed user's rating to the mean (one decimal) and count
// of every review they received. Users without reviews are left alone. It returns the
// number of users updated.
func RecomputeRatings(users []*models.User, reviews []*models.Review) int {
	type agg struct{ sum, n int }
	received := make(map[uuid.UUID]*agg)
	for _, r := range reviews {
		a, ok := received[r.RevieweeID]
		if !ok {
			a = &agg{}
			received[r.RevieweeID] = a
		}
		a.sum += r.Rating
		a.n++
	}
	updated := 0
	for _, u := range users {
		a, ok := received[u.ID]
		if !ok {
			continue
		}
		u.Rating = models.UserRating{
			Average: math.Round(float64(a.sum)/float64(a.n)*10) / 10,
			Count:   a.n,
		}
		updated++
	}
	return updated
}
