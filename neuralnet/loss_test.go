package neuralnet

import (
	"errors"
	"math"
	"testing"
)

func TestMeanAbsolutePercentageError(t *testing.T) {
	tests := []struct {
		description string
		yTrue       []float64
		yPred       []float64
		want        float64
	}{
		{"perfect prediction", []float64{1, 2, 4}, []float64{1, 2, 4}, 0},
		{"ten percent off", []float64{10, 20}, []float64{11, 18}, 0.1},
		{"zero true value is skipped but counted", []float64{0, 10}, []float64{5, 12}, 0.1},
		{"negative true value uses magnitude", []float64{-10}, []float64{-12}, 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			got, err := MeanAbsolutePercentageError(tt.yTrue, tt.yPred)
			if err != nil {
				t.Fatalf("MeanAbsolutePercentageError returned %v", err)
			}
			if !floatEquals(got, tt.want, 1e-9) {
				t.Errorf("MeanAbsolutePercentageError = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestMeanAbsolutePercentageErrorLengthMismatch(t *testing.T) {
	_, err := MeanAbsolutePercentageError([]float64{1, 2}, []float64{1})
	if !errors.Is(err, ErrShape) {
		t.Errorf("MeanAbsolutePercentageError with mismatched lengths = %v; want ErrShape", err)
	}
}

func TestMeanAbsolutePercentageErrorEmpty(t *testing.T) {
	got, err := MeanAbsolutePercentageError(nil, nil)
	if err != nil {
		t.Fatalf("MeanAbsolutePercentageError returned %v", err)
	}
	if !math.IsNaN(got) {
		t.Errorf("MeanAbsolutePercentageError(empty) = %v; want NaN", got)
	}
}
