package neuralnet

import "testing"

func TestScheduleRate(t *testing.T) {
	tests := []struct {
		description string
		schedule    Schedule
		lastMAPE    float64
		expectedLr  float64
	}{
		{"constant ignores error", ConstantRate(0.1), 0.7, 0.1},
		{"proportional first round", MAPEProportional{Divisor: 100}, 1, 0.01},
		{"proportional shrinks with error", MAPEProportional{Divisor: 100}, 0.05, 0.0005},
		{"proportional zero divisor falls back to 100", MAPEProportional{}, 0.5, 0.005},
		{"proportional custom divisor", MAPEProportional{Divisor: 10}, 0.5, 0.05},
	}

	tolerance := 1e-12
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			actualLr := tt.schedule.Rate(tt.lastMAPE)
			if !floatEquals(actualLr, tt.expectedLr, tolerance) {
				t.Errorf("Rate() got = %v, want %v for case '%s'", actualLr, tt.expectedLr, tt.description)
			}
		})
	}
}
