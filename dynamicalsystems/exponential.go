package dynamicalsystems

import (
	"fmt"
	"gonum.org/v1/gonum/mat"
)

// ExponentialSystem decays exponentially from its initial state towards an
// attractor: xd = alpha * (x_attr - x) / tau.
type ExponentialSystem struct {
	tau   float64
	xInit *mat.VecDense
	xAttr *mat.VecDense
	alpha float64
}

var _ DynamicalSystem = (*ExponentialSystem)(nil)

// NewExponentialSystem builds an exponential system with decay constant
// alpha.
func NewExponentialSystem(tau float64, xInit, xAttr *mat.VecDense, alpha float64) (*ExponentialSystem, error) {
	if err := checkTau(tau); err != nil {
		return nil, err
	}

	if xInit == nil || xAttr == nil {
		return nil, construction(fmt.Errorf("initial state and attractor are required"))
	}

	if xInit.Len() != xAttr.Len() {
		err := fmt.Errorf("initial state has dimension %d, attractor %d", xInit.Len(), xAttr.Len())
		return nil, construction(err)
	}

	if alpha <= 0 {
		return nil, construction(fmt.Errorf("decay constant %v is not strictly positive", alpha))
	}

	return &ExponentialSystem{
		tau:   tau,
		xInit: mat.VecDenseCopyOf(xInit),
		xAttr: mat.VecDenseCopyOf(xAttr),
		alpha: alpha,
	}, nil
}

func (s *ExponentialSystem) Name() string {
	return "ExponentialSystem"
}

func (s *ExponentialSystem) Dim() int {
	return s.xInit.Len()
}

func (s *ExponentialSystem) Tau() float64 {
	return s.tau
}

func (s *ExponentialSystem) SetTau(tau float64) error {
	if err := checkTau(tau); err != nil {
		return err
	}

	s.tau = tau
	return nil
}

func (s *ExponentialSystem) InitialState() *mat.VecDense {
	return mat.VecDenseCopyOf(s.xInit)
}

func (s *ExponentialSystem) DifferentialEquation(x, xd *mat.VecDense) error {
	if err := checkState(s, x, xd); err != nil {
		return err
	}

	xd.SubVec(s.xAttr, x)
	xd.ScaleVec(s.alpha/s.tau, xd)

	return nil
}
