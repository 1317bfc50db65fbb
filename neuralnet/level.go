package neuralnet

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Level is one affine transform followed by ReLU.
//
// Inputs and Outputs are a cache of the last forward pass. They are
// overwritten by every FeedForward call and read back by Train, so a Level
// must not be fed from more than one goroutine at a time.
type Level struct {
	Inputs  []float64
	Outputs []float64
	Biases  []float64
	// Weights[i][o] connects input i to output o.
	Weights [][]float64
}

var levelActivation ActivationFunction = ReLU{}

func NewLevel(inputCount, outputCount int) *Level {
	level := newZeroLevel(inputCount, outputCount)
	level.randomize()
	return level
}

func newZeroLevel(inputCount, outputCount int) *Level {
	level := &Level{
		Inputs:  make([]float64, inputCount),
		Outputs: make([]float64, outputCount),
		Biases:  make([]float64, outputCount),
		Weights: make([][]float64, inputCount),
	}
	for i := range level.Weights {
		level.Weights[i] = make([]float64, outputCount)
	}
	return level
}

func (l *Level) randomize() {
	for i := range l.Weights {
		for j := range l.Weights[i] {
			l.Weights[i][j] = uniform(1)
		}
	}
	for i := range l.Biases {
		l.Biases[i] = uniform(1)
	}
}

func (l *Level) InputCount() int  { return len(l.Weights) }
func (l *Level) OutputCount() int { return len(l.Biases) }

// FeedForward computes ReLU(input·W + b). The returned slice is the
// level's Outputs cache and is overwritten by the next call.
func (l *Level) FeedForward(input []float64) ([]float64, error) {
	if len(input) != l.InputCount() {
		return nil, shapeError("level feed forward", l.InputCount(), len(input))
	}
	outputs := make([]float64, l.OutputCount())
	for o := range outputs {
		sum := 0.0
		for j, x := range input {
			w := l.Weights[j][o]
			if math.IsNaN(x) || math.IsNaN(w) {
				return nil, numericError("level feed forward", "input[%d] or weight[%d][%d] is NaN", j, j, o)
			}
			sum += x * w
		}
		sum += l.Biases[o]
		if math.IsNaN(sum) {
			return nil, numericError("level feed forward", "sum for output[%d] is NaN", o)
		}
		outputs[o] = levelActivation.Activate(sum)
	}

	l.Inputs = append(l.Inputs[:0], input...)
	l.Outputs = append(l.Outputs[:0], outputs...)
	return l.Outputs, nil
}

type levelJSON struct {
	Inputs  []float64   `json:"inputs"`
	Outputs []float64   `json:"outputs"`
	Biases  []float64   `json:"biases"`
	Weights [][]float64 `json:"weights"`
}

func (l *Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(levelJSON{
		Inputs:  l.Inputs,
		Outputs: l.Outputs,
		Biases:  l.Biases,
		Weights: l.Weights,
	})
}

// UnmarshalJSON sizes the level from the lengths of inputs and outputs and
// copies every array, so l never aliases the decoded record.
func (l *Level) UnmarshalJSON(data []byte) error {
	var record levelJSON
	if err := json.Unmarshal(data, &record); err != nil {
		return err
	}
	inputCount, outputCount := len(record.Inputs), len(record.Outputs)
	if len(record.Biases) != outputCount {
		return shapeError("level biases", outputCount, len(record.Biases))
	}
	if len(record.Weights) != inputCount {
		return shapeError("level weight rows", inputCount, len(record.Weights))
	}
	for _, row := range record.Weights {
		if len(row) != outputCount {
			return shapeError("level weight columns", outputCount, len(row))
		}
	}

	restored := newZeroLevel(inputCount, outputCount)
	copy(restored.Inputs, record.Inputs)
	copy(restored.Outputs, record.Outputs)
	copy(restored.Biases, record.Biases)
	for i, row := range record.Weights {
		copy(restored.Weights[i], row)
	}
	*l = *restored
	return nil
}

func (l *Level) clone() *Level {
	c := newZeroLevel(l.InputCount(), l.OutputCount())
	copy(c.Inputs, l.Inputs)
	copy(c.Outputs, l.Outputs)
	copy(c.Biases, l.Biases)
	for i := range l.Weights {
		copy(c.Weights[i], l.Weights[i])
	}
	return c
}

// Debug
func (l *Level) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Level %d -> %d\n", l.InputCount(), l.OutputCount()))
	for o, b := range l.Biases {
		sb.WriteString(fmt.Sprintf("Neuron %d: bias=%.4f output=%.4f\n", o, b, l.Outputs[o]))
	}
	return sb.String()
}
