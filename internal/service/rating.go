package service

import "math"

// Rating bounds accepted from referees, inclusive.
const (
	RatingMin = 0.0
	RatingMax = 5.0
)

// AggregateRatings computes the overall score for a set of per-criterion
// ratings: the arithmetic mean rounded half-up to one decimal place.
// Half-up is the documented rounding rule and is observable in stored data;
// do not change it without migrating existing references.
// Returns 0 for an empty set. Pure and independent of map iteration order.
func AggregateRatings(ratings map[string]float64) float64 {
	if len(ratings) == 0 {
		return 0
	}
	var sum float64
	for _, v := range ratings {
		sum += v
	}
	mean := sum / float64(len(ratings))
	return math.Floor(mean*10+0.5) / 10
}
