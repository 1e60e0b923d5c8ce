package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeanRating(t *testing.T) {
	testCases := []struct {
		name     string
		prior    []float64
		next     float64
		expected float64
	}{
		{"no prior ratings", nil, 7, 7},
		{"one prior rating", []float64{4}, 2, 3},
		{"duplicates count twice", []float64{5, 5}, 2, 4},
		{"order does not matter", []float64{1, 9, 5}, 5, 5},
		{"fractional mean", []float64{1, 2}, 2, 5.0 / 3.0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, MeanRating(tc.prior, tc.next), 1e-9)
		})
	}
}

func TestMeanRatingRecomputesFromFullSet(t *testing.T) {
	values := []float64{3, 8, 1, 10, 6}

	var prior []float64
	for _, v := range values {
		aggregate := MeanRating(prior, v)
		prior = append(prior, v)

		var sum float64
		for _, p := range prior {
			sum += p
		}
		assert.InDelta(t, sum/float64(len(prior)), aggregate, 1e-9)
	}
}

func TestRatingScaleContains(t *testing.T) {
	scale := RatingScale{Min: 1, Max: 5}

	assert.True(t, scale.Contains(1))
	assert.True(t, scale.Contains(5))
	assert.False(t, scale.Contains(0))
	assert.False(t, scale.Contains(6))
}
