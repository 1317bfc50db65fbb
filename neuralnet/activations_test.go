package neuralnet

import "testing"

func TestReLUActivate(t *testing.T) {
	r := ReLU{}
	if got := r.Activate(-1); got != 0 {
		t.Errorf("ReLU.Activate(-1) = %v; want 0", got)
	}
	if got := r.Activate(2); got != 2 {
		t.Errorf("ReLU.Activate(2) = %v; want 2", got)
	}
}

func TestSigmoidActivate(t *testing.T) {
	s := Sigmoid{}
	got := s.Activate(0)
	want := 0.5
	if !floatEquals(got, want, 1e-9) {
		t.Errorf("Sigmoid.Activate(0) = %v; want approx %v", got, want)
	}
}

func TestStepActivate(t *testing.T) {
	s := Step{Limit: 0.5}
	if got := s.Activate(0.5); got != 0 {
		t.Errorf("Step.Activate(0.5) = %v; want 0", got)
	}
	if got := s.Activate(0.51); got != 1 {
		t.Errorf("Step.Activate(0.51) = %v; want 1", got)
	}
}
