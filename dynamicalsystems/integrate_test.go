package dynamicalsystems

import (
	"github.com/stretchr/testify/require"
	"math"
	"testing"
)

func TestIntegrateStart(t *testing.T) {
	system, err := NewExponentialSystem(1, vec(1), vec(0), 2)
	require.NoError(t, err)

	x, xd, err := IntegrateStart(system)
	require.NoError(t, err)
	require.Equal(t, x.AtVec(0), 1.0)
	require.Equal(t, xd.AtVec(0), -2.0)
}

func TestEulerStep(t *testing.T) {
	system, err := NewExponentialSystem(1, vec(1), vec(0), 2)
	require.NoError(t, err)

	next, xdNext, err := EulerStep(system, 0.1, vec(1))
	require.NoError(t, err)

	// x + dt * xd = 1 - 0.1 * 2, and the rates are those of the new state
	require.InDelta(t, next.AtVec(0), 0.8, 1e-15)
	require.InDelta(t, xdNext.AtVec(0), -1.6, 1e-15)
}

func TestRungeKuttaBeatsEuler(t *testing.T) {
	system, err := NewExponentialSystem(1, vec(1), vec(0), 2)
	require.NoError(t, err)

	analytic := math.Exp(-0.2)

	euler, _, err := EulerStep(system, 0.1, vec(1))
	require.NoError(t, err)

	rungeKutta, _, err := RungeKuttaStep(system, 0.1, vec(1))
	require.NoError(t, err)

	require.InDelta(t, rungeKutta.AtVec(0), analytic, 1e-6)
	require.Less(t,
		math.Abs(rungeKutta.AtVec(0)-analytic),
		math.Abs(euler.AtVec(0)-analytic))
}

func TestStepsLeaveInputUntouched(t *testing.T) {
	system, err := NewTimeSystem(1, false)
	require.NoError(t, err)

	x := vec(0.25)

	_, _, err = EulerStep(system, 0.1, x)
	require.NoError(t, err)
	require.Equal(t, x.AtVec(0), 0.25)

	_, _, err = RungeKuttaStep(system, 0.1, x)
	require.NoError(t, err)
	require.Equal(t, x.AtVec(0), 0.25)
}
