package dynamicalsystems

import (
	"fmt"
	"gonum.org/v1/gonum/mat"
	"math"
)

// SigmoidSystem follows a logistic curve: xd = max_rate * x * (1 - x/Ks).
// The carrying capacity Ks is chosen so that the inflection point of the
// sigmoid lies at time inflection_ratio * tau. A negative max_rate yields
// the decaying gate a movement primitive multiplies its forcing term with.
type SigmoidSystem struct {
	tau             float64
	xInit           *mat.VecDense
	maxRate         float64
	inflectionRatio float64
	ks              *mat.VecDense
}

var _ DynamicalSystem = (*SigmoidSystem)(nil)

// NewSigmoidSystem builds a sigmoid system. Every component of the initial
// state must be non-zero; zero is a fixed point of the logistic equation.
func NewSigmoidSystem(tau float64, xInit *mat.VecDense, maxRate, inflectionRatio float64) (*SigmoidSystem, error) {
	if err := checkTau(tau); err != nil {
		return nil, err
	}

	if xInit == nil {
		return nil, construction(fmt.Errorf("an initial state is required"))
	}

	if maxRate == 0 {
		return nil, construction(fmt.Errorf("max rate must not be zero"))
	}

	for dim := range xInit.Len() {
		if xInit.AtVec(dim) == 0 {
			return nil, construction(fmt.Errorf("initial state [%d] is zero, the sigmoid would never leave it", dim))
		}
	}

	system := &SigmoidSystem{
		tau:             tau,
		xInit:           mat.VecDenseCopyOf(xInit),
		maxRate:         maxRate,
		inflectionRatio: inflectionRatio,
	}
	system.computeKs()

	return system, nil
}

// computeKs places the inflection point at inflection_ratio * tau. For the
// logistic solution x(t) = Ks / (1 + (Ks/x0 - 1) e^(-rt)) that requires
// Ks = x0 * (1 + e^(r * t_infl)).
func (s *SigmoidSystem) computeKs() {
	inflectionTime := s.inflectionRatio * s.tau

	ks := mat.NewVecDense(s.xInit.Len(), nil)
	for dim := range s.xInit.Len() {
		ks.SetVec(dim, s.xInit.AtVec(dim)*(1+math.Exp(s.maxRate*inflectionTime)))
	}

	s.ks = ks
}

func (s *SigmoidSystem) Name() string {
	return "SigmoidSystem"
}

func (s *SigmoidSystem) Dim() int {
	return s.xInit.Len()
}

func (s *SigmoidSystem) Tau() float64 {
	return s.tau
}

// SetTau rescales the system, moving the inflection point with it.
func (s *SigmoidSystem) SetTau(tau float64) error {
	if err := checkTau(tau); err != nil {
		return err
	}

	s.tau = tau
	s.computeKs()

	return nil
}

func (s *SigmoidSystem) InitialState() *mat.VecDense {
	return mat.VecDenseCopyOf(s.xInit)
}

func (s *SigmoidSystem) DifferentialEquation(x, xd *mat.VecDense) error {
	if err := checkState(s, x, xd); err != nil {
		return err
	}

	for dim := range x.Len() {
		value := x.AtVec(dim)
		xd.SetVec(dim, s.maxRate*value*(1-value/s.ks.AtVec(dim)))
	}

	return nil
}
