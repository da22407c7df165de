package jsonpickle

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/mat"
	"iter"
	"math"
	"slices"
	"strconv"
)

// b64Key wraps base64 payloads in jsonpickle documents.
const b64Key = "py/b64"

// DType names the element type of an encoded numeric array, using numpy's
// spelling.
type DType string

const (
	Float64 DType = "float64"
	Float32 DType = "float32"
	Int64   DType = "int64"
	Int32   DType = "int32"
	Int16   DType = "int16"
	Int8    DType = "int8"
)

func parseDType(name string) (DType, error) {
	switch DType(name) {
	case Float64, Float32, Int64, Int32, Int16, Int8:
		return DType(name), nil
	}

	return "", fmt.Errorf("dtype %q is not supported: %w", name, ErrUnsupportedDType)
}

// Size returns the width of one element in bytes.
func (d DType) Size() int {
	switch d {
	case Float64, Int64:
		return 8
	case Float32, Int32:
		return 4
	case Int16:
		return 2
	case Int8:
		return 1
	}

	return 0
}

// Integer reports whether the dtype holds integer elements.
func (d DType) Integer() bool {
	switch d {
	case Int64, Int32, Int16, Int8:
		return true
	}

	return false
}

// NDArray is a decoded numeric array: an element type, a shape and the
// elements flattened in row-major order. Integer dtypes keep their exact
// values and are only widened to float64 when a consumer asks for floats.
type NDArray struct {
	dtype  DType
	shape  []int
	floats []float64
	ints   []int64
}

// DecodeArray decodes a standalone numeric array document. Three encodings
// are recognized:
//   - the ndarray object convention {"dtype": ..., "shape": [...],
//     "values": [...]}, where dtype defaults to float64, a missing shape
//     means rank one, and values holds the flattened elements either as a
//     JSON array or as base64-encoded little-endian bytes;
//   - a plain JSON array of numbers, read as a rank-one float64 array;
//   - a plain number, read as a rank-zero float64 array.
func DecodeArray(source Source) (*NDArray, error) {
	return decodeArray(source, nil, 0)
}

func (a *NDArray) DType() DType {
	return a.dtype
}

// Rank returns the number of dimensions.
func (a *NDArray) Rank() int {
	return len(a.shape)
}

// Shape returns a copy of the dimension extents.
func (a *NDArray) Shape() []int {
	return slices.Clone(a.shape)
}

// Len returns the number of elements.
func (a *NDArray) Len() int {
	if a.dtype.Integer() {
		return len(a.ints)
	}

	return len(a.floats)
}

// Float64s returns the elements in row-major order, widened to float64.
func (a *NDArray) Float64s() []float64 {
	if !a.dtype.Integer() {
		return slices.Clone(a.floats)
	}

	values := make([]float64, len(a.ints))
	for idx, value := range a.ints {
		values[idx] = float64(value)
	}

	return values
}

// Int64s returns the exact elements of an integer array.
func (a *NDArray) Int64s() ([]int64, error) {
	if !a.dtype.Integer() {
		return nil, fmt.Errorf("dtype %s holds no integer elements", a.dtype)
	}

	return slices.Clone(a.ints), nil
}

// AsScalar returns the element of a one-element array of any rank.
func (a *NDArray) AsScalar() (float64, error) {
	if a.Len() != 1 {
		return 0, fmt.Errorf("expected a scalar, have shape %v", a.shape)
	}

	return a.Float64s()[0], nil
}

// AsVector returns the elements as a dense vector. The array must have rank
// one, or rank two with a single row or column.
func (a *NDArray) AsVector() (*mat.VecDense, error) {
	values := a.Float64s()
	if len(values) == 0 {
		return nil, errors.New("expected a vector, array is empty")
	}

	switch {
	case a.Rank() <= 1:
		return mat.NewVecDense(len(values), values), nil

	case a.Rank() == 2 && (a.shape[0] == 1 || a.shape[1] == 1):
		return mat.NewVecDense(len(values), values), nil
	}

	return nil, fmt.Errorf("expected a vector, have shape %v", a.shape)
}

// AsMatrix returns the elements as a dense matrix. A rank-one array becomes
// a single column, matching how numpy collapses one-dimensional parameters.
func (a *NDArray) AsMatrix() (*mat.Dense, error) {
	values := a.Float64s()
	if len(values) == 0 {
		return nil, errors.New("expected a matrix, array is empty")
	}

	switch a.Rank() {
	case 0:
		return mat.NewDense(1, 1, values), nil

	case 1:
		return mat.NewDense(len(values), 1, values), nil

	case 2:
		return mat.NewDense(a.shape[0], a.shape[1], values), nil
	}

	return nil, fmt.Errorf("expected a matrix, have shape %v", a.shape)
}

func decodeArray(source Source, path []string, depth int) (*NDArray, error) {
	if depth > MaxDepth {
		return nil, withPath(path, fmt.Errorf("objects nested deeper than %d levels: %w", MaxDepth, ErrTooDeep))
	}

	valuesSource, err := source.Get("values")
	switch {
	case errors.Is(err, ErrNotSupported):
		// no object at all, try the degenerate encodings
		return decodePlainArray(source, path)

	case errors.Is(err, ErrNoValue):
		if _, err := source.Get(referenceKey); err == nil {
			return nil, withPath(path, fmt.Errorf("%s object reference: %w", referenceKey, ErrSharedReference))
		}

		return nil, withPath(path, fmt.Errorf(`array object has no "values" member: %w`, ErrMalformedArray))

	case err != nil:
		return nil, withPath(path, err)
	}

	dtype := Float64
	dtypeSource, err := source.Get("dtype")
	switch {
	case err == nil:
		name, err := dtypeSource.String()
		if err != nil {
			err = fmt.Errorf(`member "dtype": expected string, found %s: %w`, kindOf(dtypeSource), errors.Join(err, ErrTypeMismatch))
			return nil, withPath(path, err)
		}

		if dtype, err = parseDType(name); err != nil {
			return nil, withPath(path, err)
		}

	case !errors.Is(err, ErrNoValue):
		return nil, withPath(path, err)
	}

	shape, haveShape, err := decodeShape(source)
	if err != nil {
		return nil, withPath(path, err)
	}

	array, err := decodeValues(valuesSource, dtype)
	if err != nil {
		return nil, withPath(path, err)
	}

	if !haveShape {
		array.shape = []int{array.Len()}
		return array, nil
	}

	count, err := elementCount(shape)
	if err != nil {
		return nil, withPath(path, err)
	}

	if array.Len() != count {
		err = fmt.Errorf("shape %v wants %d elements, have %d: %w", shape, count, array.Len(), ErrMalformedArray)
		return nil, withPath(path, err)
	}

	array.shape = shape
	return array, nil
}

func decodePlainArray(source Source, path []string) (*NDArray, error) {
	if elements, err := source.Iter(); err == nil {
		array, err := decodeElements(elements, Float64)
		if err != nil {
			return nil, withPath(path, err)
		}

		array.shape = []int{array.Len()}
		return array, nil
	}

	if value, err := source.Float(); err == nil {
		return &NDArray{dtype: Float64, shape: []int{}, floats: []float64{value}}, nil
	}

	return nil, withPath(path, fmt.Errorf("expected a numeric array, found %s: %w", kindOf(source), ErrTypeMismatch))
}

func decodeShape(source Source) (shape []int, present bool, err error) {
	shapeSource, err := source.Get("shape")
	switch {
	case errors.Is(err, ErrNoValue):
		return nil, false, nil

	case err != nil:
		return nil, false, err
	}

	extents, err := shapeSource.Iter()
	if err != nil {
		err = fmt.Errorf(`member "shape": expected array, found %s: %w`, kindOf(shapeSource), errors.Join(err, ErrTypeMismatch))
		return nil, false, err
	}

	shape = []int{}

	idx := 0
	for extentSource := range extents {
		extent, err := extentSource.Int()
		if err != nil {
			return nil, false, fmt.Errorf("shape[%d]: expected integer: %w", idx, errors.Join(err, ErrMalformedArray))
		}

		if extent < 0 {
			return nil, false, fmt.Errorf("shape[%d] = %d is negative: %w", idx, extent, ErrMalformedArray)
		}

		shape = append(shape, int(extent))
		idx++
	}

	return shape, true, nil
}

func elementCount(shape []int) (int, error) {
	count := 1
	for _, extent := range shape {
		if extent > 0 && count > math.MaxInt/extent {
			return 0, fmt.Errorf("shape %v is too large: %w", shape, ErrMalformedArray)
		}

		count *= extent
	}

	return count, nil
}

func decodeValues(source Source, dtype DType) (*NDArray, error) {
	if elements, err := source.Iter(); err == nil {
		return decodeElements(elements, dtype)
	}

	// base64 little-endian bytes, either directly or wrapped in py/b64
	text, textErr := source.String()
	if textErr != nil {
		b64Source, err := source.Get(b64Key)
		if err != nil {
			err = fmt.Errorf(`member "values": expected array or base64 data, found %s: %w`, kindOf(source), ErrMalformedArray)
			return nil, err
		}

		if text, textErr = b64Source.String(); textErr != nil {
			err = fmt.Errorf("member %q: expected base64 string, found %s: %w", b64Key, kindOf(b64Source), errors.Join(textErr, ErrMalformedArray))
			return nil, err
		}
	}

	data, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("decode base64 values: %w", errors.Join(err, ErrMalformedArray))
	}

	return decodeRaw(data, dtype)
}

func decodeElements(elements iter.Seq[Source], dtype DType) (*NDArray, error) {
	array := &NDArray{dtype: dtype}

	idx := 0
	for element := range elements {
		if dtype.Integer() {
			value, err := decodeIntElement(element, dtype)
			if err != nil {
				return nil, fmt.Errorf("values[%d]: %w", idx, err)
			}

			array.ints = append(array.ints, value)
		} else {
			value, err := element.Float()
			if err != nil {
				return nil, fmt.Errorf("values[%d]: expected number, found %s: %w", idx, kindOf(element), errors.Join(err, ErrMalformedArray))
			}

			if dtype == Float32 {
				value = float64(float32(value))
			}

			array.floats = append(array.floats, value)
		}

		idx++
	}

	return array, nil
}

func decodeIntElement(element Source, dtype DType) (int64, error) {
	value, err := element.Int()
	if err != nil {
		return 0, fmt.Errorf("expected %s integer, found %s: %w", dtype, kindOf(element), errors.Join(err, ErrMalformedArray))
	}

	switch dtype {
	case Int32:
		return fitInt[int32](value, dtype)
	case Int16:
		return fitInt[int16](value, dtype)
	case Int8:
		return fitInt[int8](value, dtype)
	}

	return value, nil
}

// fitInt verifies that value is representable in the sized integer type T.
func fitInt[T constraints.Signed](value int64, dtype DType) (int64, error) {
	if int64(T(value)) != value {
		return 0, fmt.Errorf("value %d overflows %s: %w", value, dtype, errors.Join(strconv.ErrRange, ErrMalformedArray))
	}

	return value, nil
}

func decodeRaw(data []byte, dtype DType) (*NDArray, error) {
	size := dtype.Size()
	if len(data)%size != 0 {
		return nil, fmt.Errorf("have %d bytes of %s data, element size is %d: %w", len(data), dtype, size, ErrMalformedArray)
	}

	count := len(data) / size
	array := &NDArray{dtype: dtype}

	if dtype.Integer() {
		array.ints = make([]int64, 0, count)
	} else {
		array.floats = make([]float64, 0, count)
	}

	for idx := range count {
		chunk := data[idx*size:]

		switch dtype {
		case Float64:
			array.floats = append(array.floats, math.Float64frombits(binary.LittleEndian.Uint64(chunk)))
		case Float32:
			array.floats = append(array.floats, float64(math.Float32frombits(binary.LittleEndian.Uint32(chunk))))
		case Int64:
			array.ints = append(array.ints, int64(binary.LittleEndian.Uint64(chunk)))
		case Int32:
			array.ints = append(array.ints, int64(int32(binary.LittleEndian.Uint32(chunk))))
		case Int16:
			array.ints = append(array.ints, int64(int16(binary.LittleEndian.Uint16(chunk))))
		case Int8:
			array.ints = append(array.ints, int64(int8(chunk[0])))
		}
	}

	return array, nil
}
