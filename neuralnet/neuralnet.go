// Package neuralnet is a small feedforward network engine: dense ReLU
// levels trained with a per-sample delta rule, a mutation operator for
// evolutionary search and a single-head self-attention block that can
// pre-transform the inputs of a network.
package neuralnet

import (
	"fmt"
	"math"
	"strings"
)

const (
	DefaultLearningRate   = 0.1
	DefaultMutationAmount = 1.0
)

// NeuralNetwork is an ordered chain of levels where every level's output
// count equals the next level's input count.
//
// A network is not safe for concurrent use: FeedForward rewrites the
// per-level caches that Train reads back.
type NeuralNetwork struct {
	Levels []*Level
}

// NewNeuralNetwork builds one level per consecutive pair of sizes. Fewer
// than two sizes give a network with no levels, which returns its input
// unchanged.
func NewNeuralNetwork(sizes ...int) *NeuralNetwork {
	nn := &NeuralNetwork{Levels: make([]*Level, 0, len(sizes))}
	for i := 0; i+1 < len(sizes); i++ {
		nn.Levels = append(nn.Levels, NewLevel(sizes[i], sizes[i+1]))
	}
	return nn
}

// Sizes returns the layer sizes the network was built from.
func (nn *NeuralNetwork) Sizes() []int {
	if len(nn.Levels) == 0 {
		return nil
	}
	sizes := []int{nn.Levels[0].InputCount()}
	for _, level := range nn.Levels {
		sizes = append(sizes, level.OutputCount())
	}
	return sizes
}

func (nn *NeuralNetwork) Clone() *NeuralNetwork {
	c := &NeuralNetwork{Levels: make([]*Level, len(nn.Levels))}
	for i, level := range nn.Levels {
		c.Levels[i] = level.clone()
	}
	return c
}

// FeedForward runs input through every level and returns a copy of the
// last level's output.
func (nn *NeuralNetwork) FeedForward(input []float64) ([]float64, error) {
	outputs := input
	for k, level := range nn.Levels {
		out, err := level.FeedForward(outputs)
		if err != nil {
			return nil, fmt.Errorf("level %d: %w", k, err)
		}
		outputs = out
	}
	return append([]float64(nil), outputs...), nil
}

// TrainScalar is Train for networks with a single output.
func (nn *NeuralNetwork) TrainScalar(inputs [][]float64, outputs []float64, learningRate float64) error {
	targets := make([][]float64, len(outputs))
	for i, y := range outputs {
		targets[i] = []float64{y}
	}
	return nn.Train(inputs, targets, learningRate)
}

// Train fits the network one sample at a time, in order.
//
// For every level, from last to first, each output neuron o with error e
// moves its bias by e*rate and each weight w[i][o] by input[i]*e*rate, where
// input is the level's cached forward input. The error handed to the
// previous level is Σ_o e_o*w[i][o] taken before the update.
//
// This is a local delta rule and not gradient backpropagation: the ReLU
// derivative is never applied, so neurons whose pre-activation was negative
// are updated at full strength too.
//
// A sample that fails leaves the network as it was before that sample.
// Earlier samples stay applied.
func (nn *NeuralNetwork) Train(inputs, outputs [][]float64, learningRate float64) error {
	if len(inputs) != len(outputs) {
		return shapeError("train", len(inputs), len(outputs))
	}
	for i := range inputs {
		if err := nn.trainSample(inputs[i], outputs[i], learningRate); err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}
	}
	return nil
}

func (nn *NeuralNetwork) trainSample(input, target []float64, learningRate float64) error {
	predicted, err := nn.FeedForward(input)
	if err != nil {
		return err
	}
	for j, p := range predicted {
		if math.IsNaN(p) {
			return numericError("train", "predicted output[%d] is NaN for input %v", j, input)
		}
	}
	if len(target) != len(predicted) {
		return shapeError("train target", len(predicted), len(target))
	}

	errs := make([]float64, len(target))
	for o := range target {
		errs[o] = target[o] - predicted[o]
	}

	// Every level's error signal only depends on weights of the level after
	// it, so all signals can be computed before anything is written.
	signals := make([][]float64, len(nn.Levels))
	for k := len(nn.Levels) - 1; k >= 0; k-- {
		level := nn.Levels[k]
		signals[k] = errs
		next := make([]float64, level.InputCount())
		for o := 0; o < level.OutputCount(); o++ {
			e := errs[o]
			if math.IsNaN(e) {
				return numericError("train", "error at level %d, neuron %d is NaN", k, o)
			}
			for i := range next {
				next[i] += e * level.Weights[i][o]
			}
		}
		errs = next
	}

	for k := len(nn.Levels) - 1; k >= 0; k-- {
		level := nn.Levels[k]
		for o, e := range signals[k] {
			level.Biases[o] += e * learningRate
			for i := range level.Weights {
				level.Weights[i][o] += level.Inputs[i] * e * learningRate
			}
		}
	}
	return nil
}

// Mutate moves every bias and weight towards a fresh uniform value in
// [-1, 1] by amount. amount 0 keeps the network, amount 1 replaces it.
// Nothing is written when any mutated value is NaN.
func (nn *NeuralNetwork) Mutate(amount float64) error {
	biases := make([][]float64, len(nn.Levels))
	weights := make([][][]float64, len(nn.Levels))
	for k, level := range nn.Levels {
		biases[k] = make([]float64, len(level.Biases))
		for i, b := range level.Biases {
			v := Lerp(b, uniform(1), amount)
			if math.IsNaN(v) {
				return numericError("mutate", "bias %d of level %d", i, k)
			}
			biases[k][i] = v
		}
		weights[k] = make([][]float64, len(level.Weights))
		for i, row := range level.Weights {
			weights[k][i] = make([]float64, len(row))
			for j, w := range row {
				v := Lerp(w, uniform(1), amount)
				if math.IsNaN(v) {
					return numericError("mutate", "weight [%d][%d] of level %d", i, j, k)
				}
				weights[k][i][j] = v
			}
		}
	}

	for k, level := range nn.Levels {
		level.Biases = biases[k]
		level.Weights = weights[k]
	}
	return nil
}

// Define the String() method for the NeuralNetwork type
func (nn *NeuralNetwork) String() string {
	var sb strings.Builder
	for i, level := range nn.Levels {
		sb.WriteString(fmt.Sprintf("Level %d:\n%s\n", i, level.String()))
	}
	return sb.String()
}
