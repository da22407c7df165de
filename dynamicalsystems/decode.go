package dynamicalsystems

import (
	"github.com/edgarwelteKIT/dmpbbo/jsonpickle"
	"gonum.org/v1/gonum/mat"
)

// Class tags of the family. Documents written by dmpbbo v2 carry the
// dmpbbo.-prefixed spelling, v1 documents drop the prefix; both decode the
// same way.
const (
	TagExponentialSystem  = "dmpbbo.dynamicalsystems.ExponentialSystem.ExponentialSystem"
	TagTimeSystem         = "dmpbbo.dynamicalsystems.TimeSystem.TimeSystem"
	TagSigmoidSystem      = "dmpbbo.dynamicalsystems.SigmoidSystem.SigmoidSystem"
	TagSpringDamperSystem = "dmpbbo.dynamicalsystems.SpringDamperSystem.SpringDamperSystem"

	tagLegacyExponentialSystem  = "dynamicalsystems.ExponentialSystem.ExponentialSystem"
	tagLegacyTimeSystem         = "dynamicalsystems.TimeSystem.TimeSystem"
	tagLegacySigmoidSystem      = "dynamicalsystems.SigmoidSystem.SigmoidSystem"
	tagLegacySpringDamperSystem = "dynamicalsystems.SpringDamperSystem.SpringDamperSystem"
)

var registry = newRegistry()

func newRegistry() *jsonpickle.Registry[DynamicalSystem] {
	registry := jsonpickle.NewRegistry[DynamicalSystem]("dynamical system")

	for _, tag := range []string{TagExponentialSystem, tagLegacyExponentialSystem} {
		registry.Register(tag, decodeExponentialSystem)
	}

	for _, tag := range []string{TagTimeSystem, tagLegacyTimeSystem} {
		registry.Register(tag, decodeTimeSystem)
	}

	for _, tag := range []string{TagSigmoidSystem, tagLegacySigmoidSystem} {
		registry.Register(tag, decodeSigmoidSystem)
	}

	for _, tag := range []string{TagSpringDamperSystem, tagLegacySpringDamperSystem} {
		registry.Register(tag, decodeSpringDamperSystem)
	}

	return registry
}

// FromJSONPickle reconstructs a dynamical system from a jsonpickle
// document.
func FromJSONPickle(source jsonpickle.Source) (DynamicalSystem, error) {
	return registry.Decode(source)
}

// Decode reconstructs a dynamical system from an object nested in a larger
// document.
func Decode(obj *jsonpickle.Object) (DynamicalSystem, error) {
	return registry.DecodeObject(obj)
}

// Tags returns the registered class tags of the family, sorted.
func Tags() []string {
	return registry.Tags()
}

// vectorMember reads a vector member by its v2 name, falling back to the
// x_-prefixed spelling of v1 documents.
func vectorMember(obj *jsonpickle.Object, name, legacy string) (*mat.VecDense, error) {
	if !obj.Has(name) && obj.Has(legacy) {
		return obj.Vector(legacy)
	}

	return obj.Vector(name)
}

func decodeExponentialSystem(obj *jsonpickle.Object) (DynamicalSystem, error) {
	tau, err := obj.Float("_tau")
	if err != nil {
		return nil, err
	}

	xInit, err := vectorMember(obj, "_y_init", "_x_init")
	if err != nil {
		return nil, err
	}

	xAttr, err := vectorMember(obj, "_y_attr", "_x_attr")
	if err != nil {
		return nil, err
	}

	alpha, err := obj.Float("_alpha")
	if err != nil {
		return nil, err
	}

	return NewExponentialSystem(tau, xInit, xAttr, alpha)
}

func decodeTimeSystem(obj *jsonpickle.Object) (DynamicalSystem, error) {
	tau, err := obj.Float("_tau")
	if err != nil {
		return nil, err
	}

	countDown := false
	if obj.Has("_count_down") {
		if countDown, err = obj.Bool("_count_down"); err != nil {
			return nil, err
		}
	}

	return NewTimeSystem(tau, countDown)
}

func decodeSigmoidSystem(obj *jsonpickle.Object) (DynamicalSystem, error) {
	tau, err := obj.Float("_tau")
	if err != nil {
		return nil, err
	}

	xInit, err := vectorMember(obj, "_y_init", "_x_init")
	if err != nil {
		return nil, err
	}

	maxRate, err := obj.Float("_max_rate")
	if err != nil {
		return nil, err
	}

	inflectionRatio, err := obj.Float("_inflection_ratio")
	if err != nil {
		return nil, err
	}

	return NewSigmoidSystem(tau, xInit, maxRate, inflectionRatio)
}

func decodeSpringDamperSystem(obj *jsonpickle.Object) (DynamicalSystem, error) {
	tau, err := obj.Float("_tau")
	if err != nil {
		return nil, err
	}

	yInit, err := vectorMember(obj, "_y_init", "_x_init")
	if err != nil {
		return nil, err
	}

	yAttr, err := vectorMember(obj, "_y_attr", "_x_attr")
	if err != nil {
		return nil, err
	}

	damping, err := obj.Float("_damping_coefficient")
	if err != nil {
		return nil, err
	}

	spring, err := obj.Float("_spring_constant")
	if err != nil {
		return nil, err
	}

	mass := 1.0
	if obj.Has("_mass") {
		if mass, err = obj.Float("_mass"); err != nil {
			return nil, err
		}
	}

	return NewSpringDamperSystem(tau, yInit, yAttr, damping, spring, mass)
}
