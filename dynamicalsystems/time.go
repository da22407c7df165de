package dynamicalsystems

import (
	"gonum.org/v1/gonum/mat"
)

// TimeSystem is the canonical phase: a one-dimensional state moving with
// constant velocity 1/tau from 0 to 1, where it stops. With count_down set
// it moves from 1 down to 0 instead.
type TimeSystem struct {
	tau       float64
	countDown bool
}

var _ DynamicalSystem = (*TimeSystem)(nil)

// NewTimeSystem builds a phase system over the time constant tau.
func NewTimeSystem(tau float64, countDown bool) (*TimeSystem, error) {
	if err := checkTau(tau); err != nil {
		return nil, err
	}

	return &TimeSystem{tau: tau, countDown: countDown}, nil
}

func (s *TimeSystem) Name() string {
	return "TimeSystem"
}

func (s *TimeSystem) Dim() int {
	return 1
}

func (s *TimeSystem) Tau() float64 {
	return s.tau
}

func (s *TimeSystem) SetTau(tau float64) error {
	if err := checkTau(tau); err != nil {
		return err
	}

	s.tau = tau
	return nil
}

// CountDown reports whether the phase runs from 1 down to 0.
func (s *TimeSystem) CountDown() bool {
	return s.countDown
}

func (s *TimeSystem) InitialState() *mat.VecDense {
	if s.countDown {
		return mat.NewVecDense(1, []float64{1})
	}

	return mat.NewVecDense(1, []float64{0})
}

func (s *TimeSystem) DifferentialEquation(x, xd *mat.VecDense) error {
	if err := checkState(s, x, xd); err != nil {
		return err
	}

	switch {
	case s.countDown && x.AtVec(0) > 0:
		xd.SetVec(0, -1/s.tau)

	case !s.countDown && x.AtVec(0) < 1:
		xd.SetVec(0, 1/s.tau)

	default:
		xd.SetVec(0, 0)
	}

	return nil
}
