package functionapproximators

import (
	"errors"
	"fmt"
	"gonum.org/v1/gonum/mat"
	"math"
)

// minActivationSum guards activation normalization. Samples where every
// kernel activation vanishes blend uniformly instead of dividing by zero.
const minActivationSum = 1e-30

// BasisFunction computes kernel activations for input samples.
type BasisFunction interface {
	// NumBasis returns the number of kernels.
	NumBasis() int

	// DimInput returns the dimensionality of one input sample.
	DimInput() int

	// Activations returns the kernel activations, one row per input
	// sample and one column per kernel. With normalized set, every row
	// is scaled to sum to one.
	Activations(inputs *mat.Dense, normalized bool) (*mat.Dense, error)
}

// Gaussian is the standard kernel of the family: one center and one width
// vector per kernel, spanning the input space.
type Gaussian struct {
	centers *mat.Dense // one row per kernel
	widths  *mat.Dense // one row per kernel, strictly positive
}

var _ BasisFunction = (*Gaussian)(nil)

// NewGaussian builds a Gaussian kernel set. Centers and widths must agree
// in shape and all widths must be strictly positive.
func NewGaussian(centers, widths *mat.Dense) (*Gaussian, error) {
	if centers == nil || widths == nil {
		return nil, construction(errors.New("centers and widths are required"))
	}

	numBasis, dimInput := centers.Dims()

	widthRows, widthCols := widths.Dims()
	if widthRows != numBasis || widthCols != dimInput {
		err := fmt.Errorf("centers are %dx%d, widths are %dx%d", numBasis, dimInput, widthRows, widthCols)
		return nil, construction(err)
	}

	for basis := range numBasis {
		for axis := range dimInput {
			if width := widths.At(basis, axis); width <= 0 || math.IsNaN(width) {
				err := fmt.Errorf("width[%d,%d] = %v is not strictly positive", basis, axis, width)
				return nil, construction(err)
			}
		}
	}

	return &Gaussian{
		centers: mat.DenseCopyOf(centers),
		widths:  mat.DenseCopyOf(widths),
	}, nil
}

func (g *Gaussian) NumBasis() int {
	numBasis, _ := g.centers.Dims()
	return numBasis
}

func (g *Gaussian) DimInput() int {
	_, dimInput := g.centers.Dims()
	return dimInput
}

// Activations evaluates exp(-0.5 * sum(((x-c)/w)^2)) per sample and kernel.
func (g *Gaussian) Activations(inputs *mat.Dense, normalized bool) (*mat.Dense, error) {
	samples, dimInput := inputs.Dims()
	if dimInput != g.DimInput() {
		return nil, fmt.Errorf("inputs have %d columns, kernels expect %d", dimInput, g.DimInput())
	}

	activations := mat.NewDense(samples, g.NumBasis(), nil)

	for sample := range samples {
		for basis := range g.NumBasis() {
			sum := 0.0
			for axis := range dimInput {
				z := (inputs.At(sample, axis) - g.centers.At(basis, axis)) / g.widths.At(basis, axis)
				sum += z * z
			}

			activations.Set(sample, basis, math.Exp(-0.5*sum))
		}

		if normalized {
			normalizeRow(activations, sample)
		}
	}

	return activations, nil
}

func normalizeRow(activations *mat.Dense, row int) {
	_, cols := activations.Dims()

	sum := 0.0
	for col := range cols {
		sum += activations.At(row, col)
	}

	if sum < minActivationSum {
		uniform := 1.0 / float64(cols)
		for col := range cols {
			activations.Set(row, col, uniform)
		}

		return
	}

	for col := range cols {
		activations.Set(row, col, activations.At(row, col)/sum)
	}
}
