package neuralnet

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// MeanAbsolutePercentageError returns mean(|yTrue_i - yPred_i| / |yTrue_i|).
//
// Samples whose true value is zero add nothing to the sum but still count
// towards n, so a dataset with zero targets reports a lower error than the
// non-zero samples alone would.
func MeanAbsolutePercentageError(yTrue, yPred []float64) (float64, error) {
	if len(yTrue) != len(yPred) {
		return 0, shapeError("mape", len(yTrue), len(yPred))
	}
	terms := make([]float64, len(yTrue))
	for i := range yTrue {
		if yTrue[i] != 0 {
			terms[i] = math.Abs((yTrue[i] - yPred[i]) / yTrue[i])
		}
	}
	return stat.Mean(terms, nil), nil
}
