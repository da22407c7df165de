package functionapproximators

import (
	"github.com/edgarwelteKIT/dmpbbo/jsonpickle"
)

// Class tags of the family. Documents written by dmpbbo v2 carry the
// dmpbbo.-prefixed spelling, v1 documents drop the prefix; both decode the
// same way.
const (
	TagRBFN     = "dmpbbo.functionapproximators.FunctionApproximatorRBFN.FunctionApproximatorRBFN"
	TagLWR      = "dmpbbo.functionapproximators.FunctionApproximatorLWR.FunctionApproximatorLWR"
	TagGaussian = "dmpbbo.functionapproximators.BasisFunction.Gaussian"

	tagLegacyRBFN     = "functionapproximators.FunctionApproximatorRBFN.FunctionApproximatorRBFN"
	tagLegacyLWR      = "functionapproximators.FunctionApproximatorLWR.FunctionApproximatorLWR"
	tagLegacyGaussian = "functionapproximators.BasisFunction.Gaussian"
)

var registry = newRegistry()

var basisRegistry = newBasisRegistry()

func newRegistry() *jsonpickle.Registry[FunctionApproximator] {
	registry := jsonpickle.NewRegistry[FunctionApproximator]("function approximator")

	for _, tag := range []string{TagRBFN, tagLegacyRBFN} {
		registry.Register(tag, decodeRBFN)
	}

	for _, tag := range []string{TagLWR, tagLegacyLWR} {
		registry.Register(tag, decodeLWR)
	}

	return registry
}

func newBasisRegistry() *jsonpickle.Registry[BasisFunction] {
	registry := jsonpickle.NewRegistry[BasisFunction]("basis function")

	for _, tag := range []string{TagGaussian, tagLegacyGaussian} {
		registry.Register(tag, decodeGaussian)
	}

	return registry
}

// FromJSONPickle reconstructs a function approximator from a jsonpickle
// document.
func FromJSONPickle(source jsonpickle.Source) (FunctionApproximator, error) {
	return registry.Decode(source)
}

// Decode reconstructs a function approximator from an object nested in a
// larger document.
func Decode(obj *jsonpickle.Object) (FunctionApproximator, error) {
	return registry.DecodeObject(obj)
}

// DecodeBasisFunction reconstructs a basis function from an object nested
// in a larger document.
func DecodeBasisFunction(obj *jsonpickle.Object) (BasisFunction, error) {
	return basisRegistry.DecodeObject(obj)
}

// Tags returns the registered class tags of the family, sorted.
func Tags() []string {
	return registry.Tags()
}

func decodeRBFN(obj *jsonpickle.Object) (FunctionApproximator, error) {
	params, err := obj.Object("_model_params")
	if err != nil {
		return nil, err
	}

	basis, err := decodeBasis(params)
	if err != nil {
		return nil, err
	}

	weights, err := params.Vector("weights")
	if err != nil {
		return nil, err
	}

	return NewRBFN(basis, weights)
}

func decodeLWR(obj *jsonpickle.Object) (FunctionApproximator, error) {
	params, err := obj.Object("_model_params")
	if err != nil {
		return nil, err
	}

	basis, err := decodeBasis(params)
	if err != nil {
		return nil, err
	}

	slopes, err := params.Matrix("slopes")
	if err != nil {
		return nil, err
	}

	offsets, err := params.Vector("offsets")
	if err != nil {
		return nil, err
	}

	return NewLWR(basis, slopes, offsets)
}

// decodeBasis reads the kernel parameters of a model: either centers and
// widths directly among the model parameters, or a tagged basis_function
// object dispatched through the basis function registry.
func decodeBasis(params *jsonpickle.Object) (BasisFunction, error) {
	if params.Has("basis_function") {
		obj, err := params.Object("basis_function")
		if err != nil {
			return nil, err
		}

		return basisRegistry.DecodeObject(obj)
	}

	return decodeGaussianMembers(params)
}

func decodeGaussian(obj *jsonpickle.Object) (BasisFunction, error) {
	return decodeGaussianMembers(obj)
}

func decodeGaussianMembers(obj *jsonpickle.Object) (BasisFunction, error) {
	centers, err := obj.Matrix("centers")
	if err != nil {
		return nil, err
	}

	widths, err := obj.Matrix("widths")
	if err != nil {
		return nil, err
	}

	return NewGaussian(centers, widths)
}
