package functionapproximators

import (
	"errors"
	"github.com/edgarwelteKIT/dmpbbo/jsonpickle"
	"gonum.org/v1/gonum/mat"
)

// FunctionApproximator evaluates a trained regression model.
type FunctionApproximator interface {
	// Name returns the short family name of the model, e.g. "RBFN".
	Name() string

	// DimInput returns the dimensionality of one input sample.
	DimInput() int

	// Predict evaluates the model on inputs, one sample per row. The
	// result holds one predicted value per sample.
	Predict(inputs *mat.Dense) (*mat.VecDense, error)
}

// PredictScalar evaluates the model on a single one-dimensional input.
func PredictScalar(fa FunctionApproximator, input float64) (float64, error) {
	outputs, err := fa.Predict(mat.NewDense(1, 1, []float64{input}))
	if err != nil {
		return 0, err
	}

	return outputs.AtVec(0), nil
}

// construction marks err as a violated model precondition.
func construction(err error) error {
	return errors.Join(err, jsonpickle.ErrConstruction)
}
