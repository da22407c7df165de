package dmps

import (
	"fmt"
	"github.com/edgarwelteKIT/dmpbbo/dynamicalsystems"
	"github.com/edgarwelteKIT/dmpbbo/functionapproximators"
	"github.com/edgarwelteKIT/dmpbbo/jsonpickle"
)

// Class tags of the family. Documents written by dmpbbo v2 carry the
// dmpbbo.-prefixed spelling, v1 documents drop the prefix; both decode the
// same way.
const (
	TagDmp              = "dmpbbo.dmps.Dmp.Dmp"
	TagDmpWithSchedules = "dmpbbo.dmps.DmpWithSchedules.DmpWithSchedules"

	tagLegacyDmp              = "dmps.Dmp.Dmp"
	tagLegacyDmpWithSchedules = "dmps.DmpWithSchedules.DmpWithSchedules"
)

var registry = newRegistry()

func newRegistry() *jsonpickle.Registry[dynamicalsystems.DynamicalSystem] {
	registry := jsonpickle.NewRegistry[dynamicalsystems.DynamicalSystem]("movement primitive")

	for _, tag := range []string{TagDmp, tagLegacyDmp} {
		registry.Register(tag, decodeDmp)
	}

	for _, tag := range []string{TagDmpWithSchedules, tagLegacyDmpWithSchedules} {
		registry.Register(tag, decodeDmpWithSchedules)
	}

	return registry
}

// FromJSONPickle reconstructs a movement primitive from a jsonpickle
// document. Every nested subsystem and function approximator is dispatched
// through its own family registry.
func FromJSONPickle(source jsonpickle.Source) (dynamicalsystems.DynamicalSystem, error) {
	return registry.Decode(source)
}

// Decode reconstructs a movement primitive from an object nested in a
// larger document.
func Decode(obj *jsonpickle.Object) (dynamicalsystems.DynamicalSystem, error) {
	return registry.DecodeObject(obj)
}

// Tags returns the registered class tags of the family, sorted.
func Tags() []string {
	return registry.Tags()
}

func decodeDmp(obj *jsonpickle.Object) (dynamicalsystems.DynamicalSystem, error) {
	return decodeDmpMembers(obj)
}

func decodeDmpWithSchedules(obj *jsonpickle.Object) (dynamicalsystems.DynamicalSystem, error) {
	dmp, err := decodeDmpMembers(obj)
	if err != nil {
		return nil, err
	}

	objs, err := obj.Objects("_func_apps_schedules")
	if err != nil {
		return nil, err
	}

	schedules, err := decodeApproximators(objs)
	if err != nil {
		return nil, err
	}

	return NewDmpWithSchedules(dmp, schedules)
}

func decodeDmpMembers(obj *jsonpickle.Object) (*Dmp, error) {
	tau, err := obj.Float("_tau")
	if err != nil {
		return nil, err
	}

	yInit, err := obj.Vector("_y_init")
	if err != nil {
		return nil, err
	}

	yAttr, err := obj.Vector("_y_attr")
	if err != nil {
		return nil, err
	}

	objs, err := obj.Objects("_function_approximators")
	if err != nil {
		return nil, err
	}

	fas, err := decodeApproximators(objs)
	if err != nil {
		return nil, err
	}

	options, err := decodeSubsystems(obj)
	if err != nil {
		return nil, err
	}

	scaling, err := decodeScaling(obj)
	if err != nil {
		return nil, err
	}

	return NewDmp(tau, yInit, yAttr, fas, append(options, scaling...)...)
}

// decodeSubsystems reads the nested dynamical systems. Phase and gating
// systems are required. A missing or null goal system disables the delayed
// goal, and a missing spring system falls back to the critically damped
// default.
func decodeSubsystems(obj *jsonpickle.Object) ([]Option, error) {
	phase, err := subsystem(obj, "_phase_system")
	if err != nil {
		return nil, err
	}

	gating, err := subsystem(obj, "_gating_system")
	if err != nil {
		return nil, err
	}

	options := []Option{WithPhaseSystem(phase), WithGatingSystem(gating)}

	var goal dynamicalsystems.DynamicalSystem
	if obj.Has("_goal_system") {
		if goal, err = subsystem(obj, "_goal_system"); err != nil {
			return nil, err
		}
	}
	options = append(options, WithGoalSystem(goal))

	if obj.Has("_spring_system") {
		system, err := subsystem(obj, "_spring_system")
		if err != nil {
			return nil, err
		}

		spring, ok := system.(*dynamicalsystems.SpringDamperSystem)
		if !ok {
			return nil, construction(fmt.Errorf("a %s cannot serve as the transformation system", system.Name()))
		}
		options = append(options, WithSpringSystem(spring))
	}

	return options, nil
}

func subsystem(obj *jsonpickle.Object, name string) (dynamicalsystems.DynamicalSystem, error) {
	nested, err := obj.Object(name)
	if err != nil {
		return nil, err
	}

	return dynamicalsystems.Decode(nested)
}

// decodeScaling reads the forcing term scaling mode, NO_SCALING when the
// document does not name one. Amplitude scaling needs the amplitudes of the
// training trajectory next to it.
func decodeScaling(obj *jsonpickle.Object) ([]Option, error) {
	if !obj.Has("_forcing_term_scaling") {
		return nil, nil
	}

	name, err := obj.String("_forcing_term_scaling")
	if err != nil {
		return nil, err
	}

	if ForcingTermScaling(name) == AmplitudeScaling {
		amplitudes, err := obj.Vector("_scaling_amplitudes")
		if err != nil {
			return nil, err
		}

		return []Option{WithAmplitudeScaling(amplitudes)}, nil
	}

	return []Option{WithScaling(ForcingTermScaling(name))}, nil
}

// decodeApproximators dispatches each element of a list of tagged function
// approximator objects.
func decodeApproximators(objs []*jsonpickle.Object) ([]functionapproximators.FunctionApproximator, error) {
	fas := make([]functionapproximators.FunctionApproximator, len(objs))
	for idx, nested := range objs {
		fa, err := functionapproximators.Decode(nested)
		if err != nil {
			return nil, err
		}

		fas[idx] = fa
	}

	return fas, nil
}
