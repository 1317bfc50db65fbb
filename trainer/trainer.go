// Package trainer repeatedly trains a network on a dataset table until its
// mean absolute percentage error drops below a bound.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"nna/dataset"
	"nna/neuralnet"
)

// maxDraws bounds how often a round redraws its dropout sample when fewer
// than two records survive.
const maxDraws = 16

type Config struct {
	// Hidden layer sizes. The network is [len(features), Hidden..., 1].
	Hidden      []int
	DropoutRate float64
	MinMAPE     float64
	MaxRounds   int
	// UseAttention feeds the network attention context vectors instead of
	// the raw normalized features.
	UseAttention bool
	Schedule     neuralnet.Schedule
}

func DefaultConfig() Config {
	return Config{
		Hidden:      []int{8},
		DropoutRate: 0.4,
		MinMAPE:     0.03,
		MaxRounds:   1000,
		Schedule:    neuralnet.MAPEProportional{Divisor: 100},
	}
}

type Option func(*Trainer)

func WithReporter(r Reporter) Option {
	return func(t *Trainer) { t.reporter = r }
}

// WithNetwork continues training an existing network, for example one
// retrieved with neuralnet.Fetch.
func WithNetwork(nn *neuralnet.NeuralNetwork) Option {
	return func(t *Trainer) { t.network = nn }
}

// WithAttention uses a fixed attention block; implies UseAttention.
func WithAttention(a *neuralnet.Attention) Option {
	return func(t *Trainer) { t.attention = a }
}

// Trainer owns one network and trains it from a single goroutine.
type Trainer struct {
	cfg       Config
	table     *dataset.Table
	features  []string
	target    string
	network   *neuralnet.NeuralNetwork
	attention *neuralnet.Attention
	reporter  Reporter
	runID     string
}

func New(cfg Config, table *dataset.Table, features []string, target string, opts ...Option) (*Trainer, error) {
	if table == nil {
		return nil, dataset.ErrEmpty
	}
	if len(features) == 0 {
		return nil, errors.New("no feature columns")
	}
	for _, name := range append(append([]string(nil), features...), target) {
		if _, err := table.Column(name); err != nil {
			return nil, err
		}
	}
	if cfg.MaxRounds < 1 {
		return nil, fmt.Errorf("max rounds must be positive, got %d", cfg.MaxRounds)
	}
	if cfg.Schedule == nil {
		cfg.Schedule = neuralnet.MAPEProportional{Divisor: 100}
	}

	t := &Trainer{
		cfg:      cfg,
		table:    table,
		features: append([]string(nil), features...),
		target:   target,
		reporter: nopReporter{},
		runID:    uuid.NewString(),
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.network == nil {
		sizes := append([]int{len(features)}, cfg.Hidden...)
		t.network = neuralnet.NewNeuralNetwork(append(sizes, 1)...)
	}
	sizes := t.network.Sizes()
	if len(sizes) < 2 || sizes[0] != len(features) || sizes[len(sizes)-1] != 1 {
		return nil, fmt.Errorf("network %v does not map %d features to one output: %w", sizes, len(features), neuralnet.ErrShape)
	}
	if t.attention == nil && cfg.UseAttention {
		t.attention = neuralnet.NewAttention(len(features))
	}
	return t, nil
}

func (t *Trainer) RunID() string { return t.runID }

func (t *Trainer) Network() *neuralnet.NeuralNetwork { return t.network }

func (t *Trainer) Attention() *neuralnet.Attention { return t.attention }

// Result is the state after the last round.
type Result struct {
	RunID        string
	Rounds       int
	LearningRate float64
	Evaluation
	Samples *dataset.Samples
	// Scores are the attention scores of the last round, nil without attention.
	Scores [][]float64
}

// Run trains round after round. Each round drops whole records, normalizes
// what is left, trains once over it with the scheduled learning rate and
// measures MAPE on the same records. Run stops once MAPE <= MinMAPE or
// after MaxRounds rounds. ctx is checked between rounds.
func (t *Trainer) Run(ctx context.Context) (*Result, error) {
	lastMAPE := 1.0
	var result *Result
	for round := 1; round <= t.cfg.MaxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		r, err := t.round(lastMAPE)
		if err != nil {
			return result, fmt.Errorf("round %d: %w", round, err)
		}
		r.Rounds = round
		result = r
		lastMAPE = r.MAPE

		done := r.MAPE <= t.cfg.MinMAPE || round == t.cfg.MaxRounds
		t.reporter.Report(Event{
			RunID:        t.runID,
			Round:        round,
			Records:      len(r.Samples.Inputs),
			LearningRate: r.LearningRate,
			MAPE:         r.MAPE,
			Done:         done,
			Time:         time.Now(),
		})
		if done {
			break
		}
	}
	return result, nil
}

func (t *Trainer) round(lastMAPE float64) (*Result, error) {
	data, err := t.draw()
	if err != nil {
		return nil, err
	}
	samples, err := data.Samples(t.features, t.target)
	if err != nil {
		return nil, err
	}

	inputs, scores, err := t.transform(samples.Inputs)
	if err != nil {
		return nil, err
	}

	lr := t.cfg.Schedule.Rate(lastMAPE)
	if err := t.network.TrainScalar(inputs, samples.Outputs, lr); err != nil {
		return nil, err
	}

	eval, err := Evaluate(t.network, inputs, samples.Outputs)
	if err != nil {
		return nil, err
	}
	return &Result{
		RunID:        t.runID,
		LearningRate: lr,
		Evaluation:   *eval,
		Samples:      samples,
		Scores:       scores,
	}, nil
}

func (t *Trainer) draw() (*dataset.Table, error) {
	for i := 0; i < maxDraws; i++ {
		data, err := t.table.Dropout(t.cfg.DropoutRate)
		if err != nil && !errors.Is(err, dataset.ErrEmpty) {
			return nil, err
		}
		if data != nil && data.Len() >= 2 {
			return data, nil
		}
	}
	return nil, fmt.Errorf("dropout %.2f left fewer than 2 of %d records in %d draws: %w",
		t.cfg.DropoutRate, t.table.Len(), maxDraws, dataset.ErrEmpty)
}

func (t *Trainer) transform(inputs [][]float64) ([][]float64, [][]float64, error) {
	if t.attention == nil {
		return inputs, nil, nil
	}
	res, err := t.attention.ComputeAttention(inputs)
	if err != nil {
		return nil, nil, err
	}
	return res.ContextVectors, res.Scores, nil
}

// Evaluation holds predictions of a single-output network and their MAPE
// against the expected outputs.
type Evaluation struct {
	Predictions []float64
	MAPE        float64
}

func Evaluate(nn *neuralnet.NeuralNetwork, inputs [][]float64, outputs []float64) (*Evaluation, error) {
	predictions := make([]float64, len(inputs))
	for i, x := range inputs {
		out, err := nn.FeedForward(x)
		if err != nil {
			return nil, fmt.Errorf("predict %d: %w", i, err)
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("predict %d: %w", i, neuralnet.ErrShape)
		}
		predictions[i] = out[0]
	}
	mape, err := neuralnet.MeanAbsolutePercentageError(outputs, predictions)
	if err != nil {
		return nil, err
	}
	return &Evaluation{Predictions: predictions, MAPE: mape}, nil
}

// Transform maps inputs the way Run does before they reach the network.
func (t *Trainer) Transform(inputs [][]float64) ([][]float64, error) {
	out, _, err := t.transform(inputs)
	return out, err
}
