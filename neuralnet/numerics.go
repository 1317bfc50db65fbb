package neuralnet

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

const DefaultDropoutRate = 0.2

// uniform returns a value drawn uniformly from [-limit, limit).
func uniform(limit float64) float64 {
	return rand.Float64()*2*limit - limit
}

// Lerp interpolates between a and b. t is not clamped.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// NormalizeFeature min-max scales a column to [0, 1].
//
// A constant column divides by zero and yields NaN for every element;
// callers that may see constant columns must check for it themselves.
func NormalizeFeature(values []float64) []float64 {
	if len(values) == 0 {
		return []float64{}
	}
	min, max := floats.Min(values), floats.Max(values)
	scaled := make([]float64, len(values))
	for i, v := range values {
		scaled[i] = (v - min) / (max - min)
	}
	return scaled
}

// UnnormalizeFeature maps a value scaled by NormalizeFeature(reference)
// back to the units of reference.
func UnnormalizeFeature(reference []float64, value float64) float64 {
	if len(reference) == 0 {
		return math.NaN()
	}
	min, max := floats.Min(reference), floats.Max(reference)
	return value*(max-min) + min
}

// ApplyDropout drops each element independently with probability rate and
// returns the survivors in their original order. The result length varies
// from call to call. Apply it to whole records, never to a single feature
// column, so that columns extracted afterwards stay aligned.
func ApplyDropout[T any](values []T, rate float64) []T {
	kept := make([]T, 0, len(values))
	for _, v := range values {
		if rand.Float64() < rate {
			continue
		}
		kept = append(kept, v)
	}
	return kept
}

// Softmax normalizes scores into a distribution summing to 1. The row
// maximum is subtracted before exponentiating.
func Softmax(scores []float64) []float64 {
	if len(scores) == 0 {
		return []float64{}
	}
	maxScore := floats.Max(scores)
	exps := make([]float64, len(scores))
	for i, s := range scores {
		exps[i] = math.Exp(s - maxScore)
	}
	sum := floats.Sum(exps)
	for i := range exps {
		exps[i] /= sum
	}
	return exps
}
