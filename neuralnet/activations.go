package neuralnet

import "math"

type ActivationFunction interface {
	Activate(x float64) float64
}

// ReLU is the activation every Level applies.
type ReLU struct{}

func (r ReLU) Activate(x float64) float64 {
	return math.Max(0, x)
}

type Sigmoid struct{}

func (s Sigmoid) Activate(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Step fires 1 strictly above Limit and 0 otherwise.
type Step struct {
	Limit float64
}

func (s Step) Activate(x float64) float64 {
	if x > s.Limit {
		return 1
	}
	return 0
}
