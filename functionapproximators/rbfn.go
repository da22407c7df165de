package functionapproximators

import (
	"errors"
	"fmt"
	"gonum.org/v1/gonum/mat"
)

// RBFN is a radial basis function network: a weighted sum of unnormalized
// Gaussian kernel activations.
type RBFN struct {
	basis   BasisFunction
	weights *mat.VecDense
}

var _ FunctionApproximator = (*RBFN)(nil)

// NewRBFN builds a radial basis function network with one weight per kernel.
func NewRBFN(basis BasisFunction, weights *mat.VecDense) (*RBFN, error) {
	if basis == nil {
		return nil, construction(errors.New("a basis function is required"))
	}

	if weights == nil {
		return nil, construction(errors.New("weights are required"))
	}

	if weights.Len() != basis.NumBasis() {
		err := fmt.Errorf("have %d weights for %d basis functions", weights.Len(), basis.NumBasis())
		return nil, construction(err)
	}

	return &RBFN{basis: basis, weights: mat.VecDenseCopyOf(weights)}, nil
}

func (f *RBFN) Name() string {
	return "RBFN"
}

func (f *RBFN) DimInput() int {
	return f.basis.DimInput()
}

// Basis returns the kernel set of the network.
func (f *RBFN) Basis() BasisFunction {
	return f.basis
}

func (f *RBFN) Predict(inputs *mat.Dense) (*mat.VecDense, error) {
	activations, err := f.basis.Activations(inputs, false)
	if err != nil {
		return nil, err
	}

	samples, _ := activations.Dims()

	outputs := mat.NewVecDense(samples, nil)
	outputs.MulVec(activations, f.weights)

	return outputs, nil
}
