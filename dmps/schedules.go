package dmps

import (
	"errors"
	"fmt"
	"github.com/edgarwelteKIT/dmpbbo/functionapproximators"
	"gonum.org/v1/gonum/mat"
)

// DmpWithSchedules extends a movement primitive with extra function
// approximators that predict schedules alongside the movement, for example
// gain or force profiles. The schedules are driven by the same phase as the
// forcing term.
type DmpWithSchedules struct {
	*Dmp
	schedules []functionapproximators.FunctionApproximator
}

// NewDmpWithSchedules attaches schedule approximators to a movement
// primitive.
func NewDmpWithSchedules(dmp *Dmp, schedules []functionapproximators.FunctionApproximator) (*DmpWithSchedules, error) {
	if dmp == nil {
		return nil, construction(errors.New("movement primitive is nil"))
	}
	if len(schedules) == 0 {
		return nil, construction(errors.New("no schedule approximators"))
	}
	for idx, fa := range schedules {
		if fa == nil {
			return nil, construction(fmt.Errorf("schedule approximator %d is nil", idx))
		}
		if fa.DimInput() != 1 {
			return nil, construction(fmt.Errorf("schedule approximator %d wants %d inputs, the phase is one value", idx, fa.DimInput()))
		}
	}
	return &DmpWithSchedules{
		Dmp:       dmp,
		schedules: append([]functionapproximators.FunctionApproximator(nil), schedules...),
	}, nil
}

// Name implements [dynamicalsystems.DynamicalSystem].
func (d *DmpWithSchedules) Name() string { return "DmpWithSchedules" }

// DimSchedules reports the number of schedule values predicted per state.
func (d *DmpWithSchedules) DimSchedules() int { return len(d.schedules) }

// Schedules predicts the schedule values for a full state vector, one value
// per schedule approximator, all evaluated at the state's phase.
func (d *DmpWithSchedules) Schedules(x *mat.VecDense) (*mat.VecDense, error) {
	phase, err := d.PhaseFromState(x)
	if err != nil {
		return nil, err
	}
	values := mat.NewVecDense(len(d.schedules), nil)
	for idx, fa := range d.schedules {
		value, err := functionapproximators.PredictScalar(fa, phase)
		if err != nil {
			return nil, fmt.Errorf("schedule approximator %d: %w", idx, err)
		}
		values.SetVec(idx, value)
	}
	return values, nil
}
