package dmps

import (
	"errors"
	"fmt"
	"github.com/edgarwelteKIT/dmpbbo/dynamicalsystems"
	"github.com/edgarwelteKIT/dmpbbo/functionapproximators"
	"github.com/edgarwelteKIT/dmpbbo/jsonpickle"
	"gonum.org/v1/gonum/mat"
)

// ForcingTermScaling selects how the forcing term output is scaled per
// output dimension before it enters the transformation system.
type ForcingTermScaling string

const (
	// NoScaling applies the forcing term as predicted.
	NoScaling ForcingTermScaling = "NO_SCALING"
	// GMinusY0Scaling multiplies by the distance between attractor and
	// initial state, making the movement shape invariant under goal changes.
	GMinusY0Scaling ForcingTermScaling = "G_MINUS_Y0_SCALING"
	// AmplitudeScaling multiplies by per-dimension amplitudes, usually the
	// amplitudes of the trajectory the primitive was trained on.
	AmplitudeScaling ForcingTermScaling = "AMPLITUDE_SCALING"
)

// Defaults for the subsystems a Dmp builds itself when the caller does not
// provide them.
const (
	defaultGoalAlpha        = 15.0
	defaultDamping          = 20.0
	defaultGatingMaxRate    = -20.0
	defaultGatingInflection = 0.9
)

// Dmp is a dynamical movement primitive: a spring-damper system pulled
// towards a (possibly delayed) goal and perturbed by a learned forcing term
// that fades out as the phase evolves.
//
// It implements [dynamicalsystems.DynamicalSystem] over the stacked state
// [y, z, goal, phase, gating], so that the generic Euler and Runge-Kutta
// steppers integrate a full movement.
type Dmp struct {
	tau   float64
	yInit *mat.VecDense
	yAttr *mat.VecDense

	fas []functionapproximators.FunctionApproximator

	phaseSystem  dynamicalsystems.DynamicalSystem
	gatingSystem dynamicalsystems.DynamicalSystem
	goalSystem   dynamicalsystems.DynamicalSystem
	goalSet      bool
	springSystem *dynamicalsystems.SpringDamperSystem

	scaling    ForcingTermScaling
	amplitudes *mat.VecDense
}

// Option configures optional parts of a Dmp during construction.
type Option func(*Dmp) error

// WithPhaseSystem replaces the default countdown phase system. The system
// must be one-dimensional.
func WithPhaseSystem(system dynamicalsystems.DynamicalSystem) Option {
	return func(d *Dmp) error {
		if system == nil {
			return construction(errors.New("phase system is nil"))
		}
		d.phaseSystem = system
		return nil
	}
}

// WithGatingSystem replaces the default sigmoid gating system. The system
// must be one-dimensional.
func WithGatingSystem(system dynamicalsystems.DynamicalSystem) Option {
	return func(d *Dmp) error {
		if system == nil {
			return construction(errors.New("gating system is nil"))
		}
		d.gatingSystem = system
		return nil
	}
}

// WithGoalSystem replaces the default exponential goal system. Passing nil
// disables the delayed goal: the attractor then acts on the spring-damper
// system immediately.
func WithGoalSystem(system dynamicalsystems.DynamicalSystem) Option {
	return func(d *Dmp) error {
		d.goalSystem = system
		d.goalSet = true
		return nil
	}
}

// WithSpringSystem replaces the default critically damped spring-damper
// system.
func WithSpringSystem(system *dynamicalsystems.SpringDamperSystem) Option {
	return func(d *Dmp) error {
		if system == nil {
			return construction(errors.New("spring-damper system is nil"))
		}
		d.springSystem = system
		return nil
	}
}

// WithScaling selects NoScaling or GMinusY0Scaling for the forcing term.
// Use [WithAmplitudeScaling] for AmplitudeScaling, which needs amplitudes.
func WithScaling(scaling ForcingTermScaling) Option {
	return func(d *Dmp) error {
		switch scaling {
		case NoScaling, GMinusY0Scaling:
			d.scaling = scaling
			return nil
		case AmplitudeScaling:
			return construction(errors.New("amplitude scaling needs amplitudes"))
		}
		return construction(fmt.Errorf("unknown forcing term scaling %q", scaling))
	}
}

// WithAmplitudeScaling scales the forcing term with the given per-dimension
// amplitudes.
func WithAmplitudeScaling(amplitudes *mat.VecDense) Option {
	return func(d *Dmp) error {
		if amplitudes == nil {
			return construction(errors.New("scaling amplitudes are nil"))
		}
		d.scaling = AmplitudeScaling
		d.amplitudes = mat.VecDenseCopyOf(amplitudes)
		return nil
	}
}

// NewDmp assembles a movement primitive with one function approximator per
// output dimension. Subsystems not supplied through options are built with
// the conventional defaults: a countdown phase, a decaying sigmoid gate, an
// exponential delayed goal and a critically damped spring-damper system.
func NewDmp(tau float64, yInit, yAttr *mat.VecDense, fas []functionapproximators.FunctionApproximator, options ...Option) (*Dmp, error) {
	if tau <= 0 {
		return nil, construction(fmt.Errorf("time constant %g is not positive", tau))
	}
	if yInit == nil || yInit.Len() == 0 {
		return nil, construction(errors.New("initial state is empty"))
	}
	if yAttr == nil || yAttr.Len() != yInit.Len() {
		return nil, construction(errors.New("initial state and attractor differ in dimension"))
	}
	if len(fas) != yInit.Len() {
		return nil, construction(fmt.Errorf("%d function approximators for %d dimensions", len(fas), yInit.Len()))
	}
	for idx, fa := range fas {
		if fa == nil {
			return nil, construction(fmt.Errorf("function approximator %d is nil", idx))
		}
		if fa.DimInput() != 1 {
			return nil, construction(fmt.Errorf("function approximator %d wants %d inputs, the phase is one value", idx, fa.DimInput()))
		}
	}

	dmp := &Dmp{
		tau:     tau,
		yInit:   mat.VecDenseCopyOf(yInit),
		yAttr:   mat.VecDenseCopyOf(yAttr),
		fas:     append([]functionapproximators.FunctionApproximator(nil), fas...),
		scaling: NoScaling,
	}
	for _, option := range options {
		if err := option(dmp); err != nil {
			return nil, err
		}
	}
	if err := dmp.fillDefaults(); err != nil {
		return nil, err
	}
	if err := dmp.checkSubsystems(); err != nil {
		return nil, err
	}
	return dmp, nil
}

func (d *Dmp) fillDefaults() error {
	var err error
	if d.phaseSystem == nil {
		d.phaseSystem, err = dynamicalsystems.NewTimeSystem(d.tau, true)
		if err != nil {
			return err
		}
	}
	if d.gatingSystem == nil {
		one := mat.NewVecDense(1, []float64{1})
		d.gatingSystem, err = dynamicalsystems.NewSigmoidSystem(d.tau, one, defaultGatingMaxRate, defaultGatingInflection)
		if err != nil {
			return err
		}
	}
	if d.goalSystem == nil && !d.goalSet {
		d.goalSystem, err = dynamicalsystems.NewExponentialSystem(d.tau, d.yInit, d.yAttr, defaultGoalAlpha)
		if err != nil {
			return err
		}
	}
	if d.springSystem == nil {
		spring := defaultDamping * defaultDamping / 4
		d.springSystem, err = dynamicalsystems.NewSpringDamperSystem(d.tau, d.yInit, d.yAttr, defaultDamping, spring, 1)
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *Dmp) checkSubsystems() error {
	dimY := d.yInit.Len()
	if dim := d.phaseSystem.Dim(); dim != 1 {
		return construction(fmt.Errorf("phase system has dimension %d, want 1", dim))
	}
	if dim := d.gatingSystem.Dim(); dim != 1 {
		return construction(fmt.Errorf("gating system has dimension %d, want 1", dim))
	}
	if d.goalSystem != nil {
		if dim := d.goalSystem.Dim(); dim != dimY {
			return construction(fmt.Errorf("goal system has dimension %d, want %d", dim, dimY))
		}
	}
	if dim := d.springSystem.DimY(); dim != dimY {
		return construction(fmt.Errorf("spring-damper system has %d dimensions, want %d", dim, dimY))
	}
	if d.scaling == AmplitudeScaling && d.amplitudes.Len() != dimY {
		return construction(fmt.Errorf("%d scaling amplitudes for %d dimensions", d.amplitudes.Len(), dimY))
	}
	return nil
}

// construction marks err as a violated construction precondition.
func construction(err error) error {
	return errors.Join(err, jsonpickle.ErrConstruction)
}

// Name implements [dynamicalsystems.DynamicalSystem].
func (d *Dmp) Name() string { return "Dmp" }

// DimDmp reports the number of output dimensions, that is the dimension of
// the movement the primitive generates.
func (d *Dmp) DimDmp() int { return d.yInit.Len() }

// Dim reports the dimension of the full state vector [y, z, goal, phase,
// gating].
func (d *Dmp) Dim() int { return 3*d.DimDmp() + 2 }

// Tau reports the movement duration.
func (d *Dmp) Tau() float64 { return d.tau }

// SetTau rescales the movement duration and propagates it to all
// subsystems.
func (d *Dmp) SetTau(tau float64) error {
	if tau <= 0 {
		return construction(fmt.Errorf("time constant %g is not positive", tau))
	}
	systems := []dynamicalsystems.DynamicalSystem{d.phaseSystem, d.gatingSystem, d.goalSystem, d.springSystem}
	for _, system := range systems {
		if system == nil {
			continue
		}
		if err := system.SetTau(tau); err != nil {
			return err
		}
	}
	d.tau = tau
	return nil
}

// Scaling reports how the forcing term is scaled.
func (d *Dmp) Scaling() ForcingTermScaling { return d.scaling }

// YInit returns a copy of the initial position.
func (d *Dmp) YInit() *mat.VecDense { return mat.VecDenseCopyOf(d.yInit) }

// YAttr returns a copy of the attractor position.
func (d *Dmp) YAttr() *mat.VecDense { return mat.VecDenseCopyOf(d.yAttr) }

func (d *Dmp) phaseIndex() int  { return 3 * d.DimDmp() }
func (d *Dmp) gatingIndex() int { return 3*d.DimDmp() + 1 }

// InitialState implements [dynamicalsystems.DynamicalSystem]. The position
// starts at the initial state with zero velocity, the goal at the goal
// system's own initial state, and phase and gating at theirs.
func (d *Dmp) InitialState() *mat.VecDense {
	dimY := d.DimDmp()
	x := mat.NewVecDense(d.Dim(), nil)
	for dim := range dimY {
		x.SetVec(dim, d.yInit.AtVec(dim))
	}
	goal := d.yAttr
	if d.goalSystem != nil {
		goal = d.goalSystem.InitialState()
	}
	for dim := range dimY {
		x.SetVec(2*dimY+dim, goal.AtVec(dim))
	}
	x.SetVec(d.phaseIndex(), d.phaseSystem.InitialState().AtVec(0))
	x.SetVec(d.gatingIndex(), d.gatingSystem.InitialState().AtVec(0))
	return x
}

// DifferentialEquation implements [dynamicalsystems.DynamicalSystem]. It
// composes the subsystem dynamics and adds the gated, scaled forcing term
// to the velocity part of the spring-damper system.
func (d *Dmp) DifferentialEquation(x, xd *mat.VecDense) error {
	if err := d.checkState(x, xd); err != nil {
		return err
	}
	dimY := d.DimDmp()

	// The goal moves towards the attractor, or stays put without a goal
	// system.
	goal := mat.NewVecDense(dimY, nil)
	for dim := range dimY {
		goal.SetVec(dim, x.AtVec(2*dimY+dim))
	}
	goalRates := mat.NewVecDense(dimY, nil)
	if d.goalSystem != nil {
		if err := d.goalSystem.DifferentialEquation(goal, goalRates); err != nil {
			return err
		}
	}
	for dim := range dimY {
		xd.SetVec(2*dimY+dim, goalRates.AtVec(dim))
	}

	if err := d.scalarRate(d.phaseSystem, x, xd, d.phaseIndex()); err != nil {
		return err
	}
	if err := d.scalarRate(d.gatingSystem, x, xd, d.gatingIndex()); err != nil {
		return err
	}

	// The spring-damper system tracks the current goal.
	if err := d.springSystem.SetAttractor(goal); err != nil {
		return err
	}
	springState := mat.NewVecDense(2*dimY, nil)
	for idx := range 2 * dimY {
		springState.SetVec(idx, x.AtVec(idx))
	}
	springRates := mat.NewVecDense(2*dimY, nil)
	if err := d.springSystem.DifferentialEquation(springState, springRates); err != nil {
		return err
	}
	for idx := range 2 * dimY {
		xd.SetVec(idx, springRates.AtVec(idx))
	}

	forcing, err := d.forcingTerm(x.AtVec(d.phaseIndex()))
	if err != nil {
		return err
	}
	gating := x.AtVec(d.gatingIndex())
	for dim := range dimY {
		perturbation := gating * forcing.AtVec(dim) * d.scale(dim) / d.tau
		xd.SetVec(dimY+dim, xd.AtVec(dimY+dim)+perturbation)
	}
	return nil
}

// scalarRate evaluates a one-dimensional subsystem at index idx of the full
// state and stores its rate at the same index.
func (d *Dmp) scalarRate(system dynamicalsystems.DynamicalSystem, x, xd *mat.VecDense, idx int) error {
	state := mat.NewVecDense(1, []float64{x.AtVec(idx)})
	rate := mat.NewVecDense(1, nil)
	if err := system.DifferentialEquation(state, rate); err != nil {
		return err
	}
	xd.SetVec(idx, rate.AtVec(0))
	return nil
}

// forcingTerm evaluates the function approximators at the given phase.
func (d *Dmp) forcingTerm(phase float64) (*mat.VecDense, error) {
	outputs := mat.NewVecDense(d.DimDmp(), nil)
	for dim, fa := range d.fas {
		value, err := functionapproximators.PredictScalar(fa, phase)
		if err != nil {
			return nil, fmt.Errorf("function approximator %d: %w", dim, err)
		}
		outputs.SetVec(dim, value)
	}
	return outputs, nil
}

func (d *Dmp) scale(dim int) float64 {
	switch d.scaling {
	case GMinusY0Scaling:
		return d.yAttr.AtVec(dim) - d.yInit.AtVec(dim)
	case AmplitudeScaling:
		return d.amplitudes.AtVec(dim)
	}
	return 1
}

func (d *Dmp) checkState(x, xd *mat.VecDense) error {
	if x == nil || xd == nil || x.Len() != d.Dim() || xd.Len() != d.Dim() {
		return fmt.Errorf("Dmp wants state vectors of dimension %d", d.Dim())
	}
	return nil
}

// PositionsFromState extracts the position part y of a full state vector.
func (d *Dmp) PositionsFromState(x *mat.VecDense) (*mat.VecDense, error) {
	if err := d.checkFullState(x); err != nil {
		return nil, err
	}
	dimY := d.DimDmp()
	y := mat.NewVecDense(dimY, nil)
	for dim := range dimY {
		y.SetVec(dim, x.AtVec(dim))
	}
	return y, nil
}

// VelocitiesFromState recovers the velocities yd = z/tau from a full state
// vector.
func (d *Dmp) VelocitiesFromState(x *mat.VecDense) (*mat.VecDense, error) {
	if err := d.checkFullState(x); err != nil {
		return nil, err
	}
	dimY := d.DimDmp()
	yd := mat.NewVecDense(dimY, nil)
	for dim := range dimY {
		yd.SetVec(dim, x.AtVec(dimY+dim)/d.tau)
	}
	return yd, nil
}

// PhaseFromState extracts the phase value of a full state vector.
func (d *Dmp) PhaseFromState(x *mat.VecDense) (float64, error) {
	if err := d.checkFullState(x); err != nil {
		return 0, err
	}
	return x.AtVec(d.phaseIndex()), nil
}

func (d *Dmp) checkFullState(x *mat.VecDense) error {
	if x == nil || x.Len() != d.Dim() {
		return fmt.Errorf("Dmp wants a state vector of dimension %d", d.Dim())
	}
	return nil
}
