package dynamicalsystems

import (
	"github.com/edgarwelteKIT/dmpbbo/jsonpickle"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"math"
	"testing"
)

func vec(values ...float64) *mat.VecDense {
	return mat.NewVecDense(len(values), values)
}

func rates(t *testing.T, system DynamicalSystem, x *mat.VecDense) *mat.VecDense {
	t.Helper()

	xd := mat.NewVecDense(system.Dim(), nil)
	require.NoError(t, system.DifferentialEquation(x, xd))

	return xd
}

func TestExponentialSystem(t *testing.T) {
	system, err := NewExponentialSystem(1, vec(1), vec(0), 2)
	require.NoError(t, err)
	require.Equal(t, system.Name(), "ExponentialSystem")
	require.Equal(t, system.Dim(), 1)
	require.Equal(t, system.Tau(), 1.0)

	x := system.InitialState()
	require.Equal(t, x.AtVec(0), 1.0)

	xd := rates(t, system, x)
	require.Equal(t, xd.AtVec(0), -2.0)

	// doubling tau halves the rate
	require.NoError(t, system.SetTau(2))
	xd = rates(t, system, x)
	require.Equal(t, xd.AtVec(0), -1.0)
}

func TestExponentialSystemConverges(t *testing.T) {
	system, err := NewExponentialSystem(1, vec(1, -2), vec(0, 3), 6)
	require.NoError(t, err)

	x := system.InitialState()
	for range 200 {
		var err error
		x, _, err = RungeKuttaStep(system, 0.01, x)
		require.NoError(t, err)
	}

	require.InDelta(t, x.AtVec(0), 0, 1e-4)
	require.InDelta(t, x.AtVec(1), 3, 1e-4)
}

func TestTimeSystem(t *testing.T) {
	system, err := NewTimeSystem(2, false)
	require.NoError(t, err)
	require.Equal(t, system.Dim(), 1)
	require.False(t, system.CountDown())
	require.Equal(t, system.InitialState().AtVec(0), 0.0)

	xd := rates(t, system, vec(0))
	require.Equal(t, xd.AtVec(0), 0.5)

	// the phase stops once it reaches 1
	xd = rates(t, system, vec(1))
	require.Equal(t, xd.AtVec(0), 0.0)

	xd = rates(t, system, vec(1.5))
	require.Equal(t, xd.AtVec(0), 0.0)
}

func TestTimeSystemCountDown(t *testing.T) {
	system, err := NewTimeSystem(2, true)
	require.NoError(t, err)
	require.True(t, system.CountDown())
	require.Equal(t, system.InitialState().AtVec(0), 1.0)

	xd := rates(t, system, vec(1))
	require.Equal(t, xd.AtVec(0), -0.5)

	xd = rates(t, system, vec(0))
	require.Equal(t, xd.AtVec(0), 0.0)
}

func TestSigmoidSystem(t *testing.T) {
	system, err := NewSigmoidSystem(1, vec(1), -4, 0.5)
	require.NoError(t, err)
	require.Equal(t, system.Dim(), 1)

	// carrying capacity puts the inflection point at 0.5 * tau
	ks := 1 + math.Exp(-4*0.5)
	xd := rates(t, system, vec(1))
	require.InDelta(t, xd.AtVec(0), -4*(1-1/ks), 1e-15)
}

func TestSigmoidSystemGateDecays(t *testing.T) {
	system, err := NewSigmoidSystem(1, vec(1), -10, 0.9)
	require.NoError(t, err)

	x := system.InitialState()

	steps := 0
	for range 200 {
		var err error
		x, _, err = RungeKuttaStep(system, 0.01, x)
		require.NoError(t, err)
		steps++

		if steps == 50 {
			// well before the inflection point the gate stays open
			require.Greater(t, x.AtVec(0), 0.9)
		}
	}

	// at the inflection point (t = 0.9) the gate was half closed; by
	// t = 2.0 it is shut
	require.InDelta(t, x.AtVec(0), 0, 1e-3)
}

func TestSigmoidSystemSetTau(t *testing.T) {
	system, err := NewSigmoidSystem(1, vec(1), -4, 0.5)
	require.NoError(t, err)

	before := rates(t, system, vec(0.8)).AtVec(0)

	// rescaling moves the inflection point, which changes the dynamics
	require.NoError(t, system.SetTau(3))
	after := rates(t, system, vec(0.8)).AtVec(0)
	require.NotEqual(t, after, before)
}

func TestSpringDamperSystem(t *testing.T) {
	system, err := NewSpringDamperSystem(0.5, vec(0), vec(1), 20, 100, 1)
	require.NoError(t, err)
	require.Equal(t, system.Dim(), 2)
	require.Equal(t, system.DimY(), 1)

	x := system.InitialState()
	require.Equal(t, x.AtVec(0), 0.0)
	require.Equal(t, x.AtVec(1), 0.0)

	// from rest, the spring accelerates straight towards the attractor
	xd := rates(t, system, x)
	require.Equal(t, xd.AtVec(0), 0.0)
	require.Equal(t, xd.AtVec(1), 200.0)
}

func TestSpringDamperSystemEquilibrium(t *testing.T) {
	system, err := NewSpringDamperSystem(1, vec(0, 0), vec(1, -1), 20, 100, 1)
	require.NoError(t, err)

	xd := rates(t, system, vec(1, -1, 0, 0))
	for dim := range 4 {
		require.Equal(t, xd.AtVec(dim), 0.0)
	}
}

func TestSpringDamperSystemConverges(t *testing.T) {
	// critically damped: spring = damping^2 / 4
	system, err := NewSpringDamperSystem(1, vec(0), vec(1), 20, 100, 1)
	require.NoError(t, err)

	x := system.InitialState()
	for range 300 {
		var err error
		x, _, err = RungeKuttaStep(system, 0.01, x)
		require.NoError(t, err)
	}

	require.InDelta(t, x.AtVec(0), 1, 1e-3)
	require.InDelta(t, x.AtVec(1), 0, 1e-3)
}

func TestSpringDamperSystemAttractor(t *testing.T) {
	system, err := NewSpringDamperSystem(1, vec(0), vec(1), 20, 100, 1)
	require.NoError(t, err)

	require.Equal(t, system.Attractor().AtVec(0), 1.0)
	require.NoError(t, system.SetAttractor(vec(2)))
	require.Equal(t, system.Attractor().AtVec(0), 2.0)

	require.Error(t, system.SetAttractor(vec(1, 2)))
}

func TestConstructorValidation(t *testing.T) {
	_, err := NewExponentialSystem(0, vec(1), vec(0), 2)
	require.ErrorIs(t, err, jsonpickle.ErrConstruction)

	_, err = NewExponentialSystem(1, vec(1, 2), vec(0), 2)
	require.ErrorIs(t, err, jsonpickle.ErrConstruction)

	_, err = NewExponentialSystem(1, vec(1), vec(0), -2)
	require.ErrorIs(t, err, jsonpickle.ErrConstruction)

	_, err = NewTimeSystem(-1, false)
	require.ErrorIs(t, err, jsonpickle.ErrConstruction)

	_, err = NewSigmoidSystem(1, vec(0), -4, 0.5)
	require.ErrorIs(t, err, jsonpickle.ErrConstruction)
	require.ErrorContains(t, err, "zero")

	_, err = NewSigmoidSystem(1, vec(1), 0, 0.5)
	require.ErrorIs(t, err, jsonpickle.ErrConstruction)

	_, err = NewSpringDamperSystem(1, vec(0), vec(1), 20, 0, 1)
	require.ErrorIs(t, err, jsonpickle.ErrConstruction)

	_, err = NewSpringDamperSystem(1, vec(0), vec(1), 20, 100, 0)
	require.ErrorIs(t, err, jsonpickle.ErrConstruction)

	_, err = NewSpringDamperSystem(1, vec(0), vec(1), -1, 100, 1)
	require.ErrorIs(t, err, jsonpickle.ErrConstruction)
}

func TestStateDimensionChecked(t *testing.T) {
	system, err := NewExponentialSystem(1, vec(1, 2), vec(0, 0), 2)
	require.NoError(t, err)

	err = system.DifferentialEquation(vec(1), vec(0, 0))
	require.ErrorContains(t, err, "dimension 2")

	err = system.DifferentialEquation(nil, vec(0, 0))
	require.Error(t, err)
}

func TestInitialStateIsFresh(t *testing.T) {
	system, err := NewExponentialSystem(1, vec(1), vec(0), 2)
	require.NoError(t, err)

	state := system.InitialState()
	state.SetVec(0, 42)

	require.Equal(t, system.InitialState().AtVec(0), 1.0)
}
