package dynamicalsystems

import (
	"errors"
	"fmt"
	"github.com/edgarwelteKIT/dmpbbo/jsonpickle"
	"gonum.org/v1/gonum/mat"
)

// DynamicalSystem is one system of the family: a state vector with a
// differential equation describing how it changes over time.
type DynamicalSystem interface {
	// Name returns the short family name of the system, e.g. "TimeSystem".
	Name() string

	// Dim returns the dimensionality of the state vector.
	Dim() int

	// Tau returns the time constant of the system in seconds.
	Tau() float64

	// SetTau rescales the system to a new time constant.
	SetTau(tau float64) error

	// InitialState returns a fresh copy of the state the system starts in.
	InitialState() *mat.VecDense

	// DifferentialEquation computes the rate of change of state x into xd.
	// Both vectors must have the state dimension.
	DifferentialEquation(x, xd *mat.VecDense) error
}

// IntegrateStart returns the initial state and its rates of change.
func IntegrateStart(system DynamicalSystem) (*mat.VecDense, *mat.VecDense, error) {
	x := system.InitialState()

	xd := mat.NewVecDense(x.Len(), nil)
	if err := system.DifferentialEquation(x, xd); err != nil {
		return nil, nil, err
	}

	return x, xd, nil
}

// EulerStep advances state x by dt with one forward Euler step. It returns
// the updated state and the rates of change at the updated state.
func EulerStep(system DynamicalSystem, dt float64, x *mat.VecDense) (*mat.VecDense, *mat.VecDense, error) {
	xd := mat.NewVecDense(x.Len(), nil)
	if err := system.DifferentialEquation(x, xd); err != nil {
		return nil, nil, err
	}

	next := mat.VecDenseCopyOf(x)
	next.AddScaledVec(next, dt, xd)

	xdNext := mat.NewVecDense(x.Len(), nil)
	if err := system.DifferentialEquation(next, xdNext); err != nil {
		return nil, nil, err
	}

	return next, xdNext, nil
}

// RungeKuttaStep advances state x by dt with one 4th-order Runge-Kutta
// step. It returns the updated state and the rates of change at the updated
// state.
func RungeKuttaStep(system DynamicalSystem, dt float64, x *mat.VecDense) (*mat.VecDense, *mat.VecDense, error) {
	dim := x.Len()

	k1 := mat.NewVecDense(dim, nil)
	if err := system.DifferentialEquation(x, k1); err != nil {
		return nil, nil, err
	}

	input := mat.NewVecDense(dim, nil)

	k2 := mat.NewVecDense(dim, nil)
	input.AddScaledVec(x, dt/2, k1)
	if err := system.DifferentialEquation(input, k2); err != nil {
		return nil, nil, err
	}

	k3 := mat.NewVecDense(dim, nil)
	input.AddScaledVec(x, dt/2, k2)
	if err := system.DifferentialEquation(input, k3); err != nil {
		return nil, nil, err
	}

	k4 := mat.NewVecDense(dim, nil)
	input.AddScaledVec(x, dt, k3)
	if err := system.DifferentialEquation(input, k4); err != nil {
		return nil, nil, err
	}

	// x + dt/6 * (k1 + 2*k2 + 2*k3 + k4)
	next := mat.VecDenseCopyOf(x)
	next.AddScaledVec(next, dt/6, k1)
	next.AddScaledVec(next, dt/3, k2)
	next.AddScaledVec(next, dt/3, k3)
	next.AddScaledVec(next, dt/6, k4)

	xdNext := mat.NewVecDense(dim, nil)
	if err := system.DifferentialEquation(next, xdNext); err != nil {
		return nil, nil, err
	}

	return next, xdNext, nil
}

// checkState verifies that x and xd hold exactly the system's state
// dimension.
func checkState(system DynamicalSystem, x, xd *mat.VecDense) error {
	if x == nil || xd == nil {
		return fmt.Errorf("%s wants state vectors of dimension %d", system.Name(), system.Dim())
	}

	if x.Len() != system.Dim() || xd.Len() != system.Dim() {
		return fmt.Errorf("%s wants state dimension %d, have x[%d] and xd[%d]",
			system.Name(), system.Dim(), x.Len(), xd.Len())
	}

	return nil
}

// checkTau verifies the time constant is usable.
func checkTau(tau float64) error {
	if tau <= 0 {
		return construction(fmt.Errorf("time constant %v is not strictly positive", tau))
	}

	return nil
}

// construction marks err as a violated system precondition.
func construction(err error) error {
	return errors.Join(err, jsonpickle.ErrConstruction)
}
