package neuralnet

import (
	"gonum.org/v1/gonum/diff/fd"
)

// FeatureImpact returns prediction(input) - prediction(input with
// input[feature] replaced by neutral). input is left untouched.
func (nn *NeuralNetwork) FeatureImpact(input []float64, feature int, neutral float64) ([]float64, error) {
	if feature < 0 || feature >= len(input) {
		return nil, shapeError("feature impact", len(input), feature)
	}
	with, err := nn.FeedForward(input)
	if err != nil {
		return nil, err
	}
	ablated := append([]float64(nil), input...)
	ablated[feature] = neutral
	without, err := nn.FeedForward(ablated)
	if err != nil {
		return nil, err
	}
	impact := make([]float64, len(with))
	for i := range with {
		impact[i] = with[i] - without[i]
	}
	return impact, nil
}

// InputGradient estimates d output[output] / d input with central finite
// differences. It runs many forward passes, so the level caches hold the
// last probe afterwards, not input.
func (nn *NeuralNetwork) InputGradient(input []float64, output int) ([]float64, error) {
	probe, err := nn.FeedForward(input)
	if err != nil {
		return nil, err
	}
	if output < 0 || output >= len(probe) {
		return nil, shapeError("input gradient", len(probe), output)
	}

	var forwardErr error
	f := func(x []float64) float64 {
		out, err := nn.FeedForward(x)
		if err != nil {
			if forwardErr == nil {
				forwardErr = err
			}
			return 0
		}
		return out[output]
	}
	grad := fd.Gradient(nil, f, input, &fd.Settings{
		Formula:    fd.Central,
		Concurrent: false,
	})
	if forwardErr != nil {
		return nil, forwardErr
	}
	return grad, nil
}
