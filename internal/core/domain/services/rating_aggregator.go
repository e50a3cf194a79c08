package services

import (
	"fooddelivery/internal/core/domain/model/restaurant"

	"github.com/shopspring/decimal"
)

// RatingAggregator recomputes a restaurant's public rating from scratch.
// Every recompute walks the full set of per-order overall scores instead of
// nudging a running average, so a lost or replayed rating can never skew the
// stored value.
type RatingAggregator struct{}

// NewRatingAggregator creates a new RatingAggregator instance.
func NewRatingAggregator() RatingAggregator {
	return RatingAggregator{}
}

// Recompute replaces the restaurant's rating pair with the mean of all
// overall scores, rounded to one decimal place. An empty slice resets the
// restaurant to unrated.
func (g RatingAggregator) Recompute(r *restaurant.Restaurant, overalls []decimal.Decimal) error {
	if err := r.Validate(); err != nil {
		return err
	}

	if len(overalls) == 0 {
		return r.SetRating(decimal.Zero, 0)
	}

	sum := decimal.Zero
	for _, overall := range overalls {
		sum = sum.Add(overall)
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(overalls)))).Round(1)

	return r.SetRating(avg, len(overalls))
}
