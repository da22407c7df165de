package functionapproximators

import (
	"errors"
	"fmt"
	"gonum.org/v1/gonum/mat"
)

// LWR is locally weighted regression: local linear models blended by
// normalized Gaussian kernel activations.
type LWR struct {
	basis   BasisFunction
	slopes  *mat.Dense    // one row per kernel
	offsets *mat.VecDense // one per kernel
}

var _ FunctionApproximator = (*LWR)(nil)

// NewLWR builds a locally weighted regression model with one line per
// kernel.
func NewLWR(basis BasisFunction, slopes *mat.Dense, offsets *mat.VecDense) (*LWR, error) {
	if basis == nil {
		return nil, construction(errors.New("a basis function is required"))
	}

	if slopes == nil || offsets == nil {
		return nil, construction(errors.New("slopes and offsets are required"))
	}

	slopeRows, slopeCols := slopes.Dims()
	if slopeRows != basis.NumBasis() || slopeCols != basis.DimInput() {
		err := fmt.Errorf("slopes are %dx%d for %d basis functions over %d input dimensions",
			slopeRows, slopeCols, basis.NumBasis(), basis.DimInput())
		return nil, construction(err)
	}

	if offsets.Len() != basis.NumBasis() {
		err := fmt.Errorf("have %d offsets for %d basis functions", offsets.Len(), basis.NumBasis())
		return nil, construction(err)
	}

	return &LWR{
		basis:   basis,
		slopes:  mat.DenseCopyOf(slopes),
		offsets: mat.VecDenseCopyOf(offsets),
	}, nil
}

func (f *LWR) Name() string {
	return "LWR"
}

func (f *LWR) DimInput() int {
	return f.basis.DimInput()
}

// Basis returns the kernel set of the model.
func (f *LWR) Basis() BasisFunction {
	return f.basis
}

func (f *LWR) Predict(inputs *mat.Dense) (*mat.VecDense, error) {
	activations, err := f.basis.Activations(inputs, true)
	if err != nil {
		return nil, err
	}

	samples, dimInput := inputs.Dims()

	outputs := mat.NewVecDense(samples, nil)
	for sample := range samples {
		prediction := 0.0

		for basis := range f.basis.NumBasis() {
			line := f.offsets.AtVec(basis)
			for axis := range dimInput {
				line += f.slopes.At(basis, axis) * inputs.At(sample, axis)
			}

			prediction += activations.At(sample, basis) * line
		}

		outputs.SetVec(sample, prediction)
	}

	return outputs, nil
}
