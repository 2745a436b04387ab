package scoring

import (
	"fmt"
	"math"
)

// weightSumTolerance is the permitted deviation of the weight sum from 1.0.
const weightSumTolerance = 1e-6

// Weights defines the relative importance of each compatibility dimension.
// All seven weights must lie in [0,1] and sum to 1.0 (±1e-6). Validate is
// called once at configuration time; a failing weight set is a startup
// error, never a per-request one.
type Weights struct {
	Language    float64
	Level       float64
	Semantic    float64
	Schedule    float64
	Goals       float64
	Personality float64
	Topics      float64
}

// DefaultWeights returns the product-default weight distribution.
func DefaultWeights() Weights {
	return Weights{
		Language:    0.25,
		Level:       0.15,
		Semantic:    0.15,
		Schedule:    0.15,
		Goals:       0.10,
		Personality: 0.10,
		Topics:      0.10,
	}
}

// Sum returns the total of all seven weights.
func (w Weights) Sum() float64 {
	return w.Language + w.Level + w.Semantic + w.Schedule +
		w.Goals + w.Personality + w.Topics
}

// Validate checks that every weight is within [0,1] and the sum is 1.0.
func (w Weights) Validate() error {
	for _, nv := range []struct {
		name string
		val  float64
	}{
		{"language", w.Language},
		{"level", w.Level},
		{"semantic", w.Semantic},
		{"schedule", w.Schedule},
		{"goals", w.Goals},
		{"personality", w.Personality},
		{"topics", w.Topics},
	} {
		if nv.val < 0 || nv.val > 1 {
			return fmt.Errorf("weight %s = %g, must be within [0,1]", nv.name, nv.val)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("weights sum to %.6f, must sum to 1.0", sum)
	}
	return nil
}
