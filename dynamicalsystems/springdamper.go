package dynamicalsystems

import (
	"fmt"
	"gonum.org/v1/gonum/mat"
)

// SpringDamperSystem is a second-order system converging on an attractor.
// Its state stacks position y and scaled velocity z:
//
//	yd = z / tau
//	zd = (-spring * (y - y_attr) - damping * z) / (mass * tau)
type SpringDamperSystem struct {
	tau     float64
	yInit   *mat.VecDense
	yAttr   *mat.VecDense
	damping float64
	spring  float64
	mass    float64
}

var _ DynamicalSystem = (*SpringDamperSystem)(nil)

// NewSpringDamperSystem builds a spring-damper system starting at rest in
// yInit. Choosing spring = damping^2 / 4 (for unit mass) makes it
// critically damped.
func NewSpringDamperSystem(tau float64, yInit, yAttr *mat.VecDense, damping, spring, mass float64) (*SpringDamperSystem, error) {
	if err := checkTau(tau); err != nil {
		return nil, err
	}

	if yInit == nil || yAttr == nil {
		return nil, construction(fmt.Errorf("initial state and attractor are required"))
	}

	if yInit.Len() != yAttr.Len() {
		err := fmt.Errorf("initial state has dimension %d, attractor %d", yInit.Len(), yAttr.Len())
		return nil, construction(err)
	}

	if damping < 0 {
		return nil, construction(fmt.Errorf("damping coefficient %v is negative", damping))
	}

	if spring <= 0 {
		return nil, construction(fmt.Errorf("spring constant %v is not strictly positive", spring))
	}

	if mass <= 0 {
		return nil, construction(fmt.Errorf("mass %v is not strictly positive", mass))
	}

	return &SpringDamperSystem{
		tau:     tau,
		yInit:   mat.VecDenseCopyOf(yInit),
		yAttr:   mat.VecDenseCopyOf(yAttr),
		damping: damping,
		spring:  spring,
		mass:    mass,
	}, nil
}

func (s *SpringDamperSystem) Name() string {
	return "SpringDamperSystem"
}

// Dim returns the state dimension: position and velocity per output
// dimension.
func (s *SpringDamperSystem) Dim() int {
	return 2 * s.yInit.Len()
}

// DimY returns the dimensionality of the position part of the state.
func (s *SpringDamperSystem) DimY() int {
	return s.yInit.Len()
}

func (s *SpringDamperSystem) Tau() float64 {
	return s.tau
}

func (s *SpringDamperSystem) SetTau(tau float64) error {
	if err := checkTau(tau); err != nil {
		return err
	}

	s.tau = tau
	return nil
}

// Attractor returns a fresh copy of the attractor position.
func (s *SpringDamperSystem) Attractor() *mat.VecDense {
	return mat.VecDenseCopyOf(s.yAttr)
}

// SetAttractor moves the attractor position.
func (s *SpringDamperSystem) SetAttractor(yAttr *mat.VecDense) error {
	if yAttr == nil || yAttr.Len() != s.yInit.Len() {
		return fmt.Errorf("attractor must have dimension %d", s.yInit.Len())
	}

	s.yAttr.CopyVec(yAttr)
	return nil
}

// InitialState returns the initial position at rest: [y_init, zeros].
func (s *SpringDamperSystem) InitialState() *mat.VecDense {
	state := mat.NewVecDense(s.Dim(), nil)
	for dim := range s.yInit.Len() {
		state.SetVec(dim, s.yInit.AtVec(dim))
	}

	return state
}

func (s *SpringDamperSystem) DifferentialEquation(x, xd *mat.VecDense) error {
	if err := checkState(s, x, xd); err != nil {
		return err
	}

	dimY := s.yInit.Len()
	for dim := range dimY {
		y := x.AtVec(dim)
		z := x.AtVec(dimY + dim)

		xd.SetVec(dim, z/s.tau)
		xd.SetVec(dimY+dim, (-s.spring*(y-s.yAttr.AtVec(dim))-s.damping*z)/(s.mass*s.tau))
	}

	return nil
}
