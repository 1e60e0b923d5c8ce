package services

// MeanRating returns the arithmetic mean of every prior rating value plus the new one.
// It is recomputed from the full set, so a lost update of a previous aggregate is
// repaired by the next rating. With no prior ratings the result is next itself
func MeanRating(prior []float64, next float64) float64 {
	sum := next
	for _, value := range prior {
		sum += value
	}
	return sum / float64(len(prior)+1)
}

// RatingScale bounds the value of a single rating event
type RatingScale struct {
	Min int
	Max int
}

// Contains reports whether value is inside the scale, bounds included
func (s RatingScale) Contains(value int) bool {
	return value >= s.Min && value <= s.Max
}
