package neuralnet

// Schedule picks the learning rate of the next training round from the
// error measured after the previous one.
type Schedule interface {
	Rate(lastMAPE float64) float64
}

// ConstantRate ignores the measured error.
type ConstantRate float64

func (r ConstantRate) Rate(float64) float64 { return float64(r) }

// MAPEProportional shrinks the rate as the error drops: lastMAPE / Divisor.
type MAPEProportional struct {
	Divisor float64
}

func (m MAPEProportional) Rate(lastMAPE float64) float64 {
	if m.Divisor == 0 {
		return lastMAPE / 100
	}
	return lastMAPE / m.Divisor
}
