package jsonpickle

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"github.com/stretchr/testify/require"
	"math"
	"strconv"
	"testing"
)

func TestDecodeArrayObject(t *testing.T) {
	array := decodeArrayDocument(t, `{
		"py/object": "numpy.ndarray",
		"dtype": "float64",
		"shape": [2, 3],
		"values": [0.0, 1.0, 2.0, 3.0, 4.0, 5.0]
	}`)

	require.Equal(t, array.DType(), Float64)
	require.Equal(t, array.Rank(), 2)
	require.Equal(t, array.Shape(), []int{2, 3})
	require.Equal(t, array.Len(), 6)
	require.Equal(t, array.Float64s(), []float64{0, 1, 2, 3, 4, 5})
}

func TestDecodeArrayDefaults(t *testing.T) {
	// dtype defaults to float64, a missing shape means rank one
	array := decodeArrayDocument(t, `{"values": [1.5, 2.5, 3.5]}`)

	require.Equal(t, array.DType(), Float64)
	require.Equal(t, array.Shape(), []int{3})
}

func TestDecodeArrayRankZero(t *testing.T) {
	array := decodeArrayDocument(t, `{"shape": [], "values": [7.5]}`)

	require.Equal(t, array.Rank(), 0)
	require.Len(t, array.Shape(), 0)

	value, err := array.AsScalar()
	require.NoError(t, err)
	require.Equal(t, value, 7.5)

	matrix, err := array.AsMatrix()
	require.NoError(t, err)
	require.Equal(t, matrix.At(0, 0), 7.5)
}

func TestDecodeArrayPlain(t *testing.T) {
	array := decodeArrayDocument(t, `[1.5, 2.5]`)
	require.Equal(t, array.Shape(), []int{2})

	vector, err := array.AsVector()
	require.NoError(t, err)
	require.Equal(t, vector.AtVec(1), 2.5)

	array = decodeArrayDocument(t, `3.25`)
	require.Equal(t, array.Rank(), 0)

	value, err := array.AsScalar()
	require.NoError(t, err)
	require.Equal(t, value, 3.25)
}

func TestDecodeArrayEmpty(t *testing.T) {
	array := decodeArrayDocument(t, `[]`)
	require.Equal(t, array.Len(), 0)
	require.Equal(t, array.Shape(), []int{0})

	_, err := array.AsVector()
	require.Error(t, err)

	array = decodeArrayDocument(t, `{"shape": [0], "values": []}`)
	require.Equal(t, array.Len(), 0)
}

func TestDecodeArrayCountMismatch(t *testing.T) {
	source, err := Parse([]byte(`{"shape": [2], "dtype": "float64", "values": [0.0, 1.0, 2.0]}`))
	require.NoError(t, err)

	_, err = DecodeArray(source)
	require.ErrorIs(t, err, ErrMalformedArray)
	require.ErrorContains(t, err, "shape [2] wants 2 elements, have 3")
}

func TestDecodeArrayBadShape(t *testing.T) {
	source, err := Parse([]byte(`{"shape": [-1], "values": []}`))
	require.NoError(t, err)

	_, err = DecodeArray(source)
	require.ErrorIs(t, err, ErrMalformedArray)
	require.ErrorContains(t, err, "negative")

	source, err = Parse([]byte(`{"shape": [1.5], "values": [1.0]}`))
	require.NoError(t, err)

	_, err = DecodeArray(source)
	require.ErrorIs(t, err, ErrMalformedArray)
	require.ErrorContains(t, err, "shape[0]")

	source, err = Parse([]byte(`{"shape": 3, "values": [1.0]}`))
	require.NoError(t, err)

	_, err = DecodeArray(source)
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestDecodeArrayUnsupportedDType(t *testing.T) {
	for _, dtype := range []string{"float16", "complex128", "uint64", "object"} {
		source, err := Parse([]byte(fmt.Sprintf(`{"dtype": %q, "values": []}`, dtype)))
		require.NoError(t, err)

		_, err = DecodeArray(source)
		require.ErrorIs(t, err, ErrUnsupportedDType)
		require.ErrorContains(t, err, dtype)
	}
}

func TestDecodeArrayMissingValues(t *testing.T) {
	source, err := Parse([]byte(`{"dtype": "float64", "shape": [2]}`))
	require.NoError(t, err)

	_, err = DecodeArray(source)
	require.ErrorIs(t, err, ErrMalformedArray)
	require.ErrorContains(t, err, `"values"`)
}

func TestDecodeArraySharedReference(t *testing.T) {
	source, err := Parse([]byte(`{"py/id": 7}`))
	require.NoError(t, err)

	_, err = DecodeArray(source)
	require.ErrorIs(t, err, ErrSharedReference)
}

func TestDecodeArrayNotNumeric(t *testing.T) {
	source, err := Parse([]byte(`true`))
	require.NoError(t, err)

	_, err = DecodeArray(source)
	require.ErrorIs(t, err, ErrTypeMismatch)
	require.ErrorContains(t, err, "found bool")

	source, err = Parse([]byte(`{"values": [0.5, {"nested": 1}]}`))
	require.NoError(t, err)

	_, err = DecodeArray(source)
	require.ErrorIs(t, err, ErrMalformedArray)
	require.ErrorContains(t, err, "values[1]: expected number, found object")
}

func TestDecodeArrayIntegerExact(t *testing.T) {
	// 2^53+1 would be rounded by a float64 round trip
	array := decodeArrayDocument(t, `{"dtype": "int64", "values": [9007199254740993, -5]}`)

	require.Equal(t, array.DType(), Int64)

	values, err := array.Int64s()
	require.NoError(t, err)
	require.Equal(t, values, []int64{9007199254740993, -5})

	floats := decodeArrayDocument(t, `{"values": [1.5]}`)
	_, err = floats.Int64s()
	require.Error(t, err)
}

func TestDecodeArrayIntegerRange(t *testing.T) {
	source, err := Parse([]byte(`{"dtype": "int8", "values": [300]}`))
	require.NoError(t, err)

	_, err = DecodeArray(source)
	require.ErrorIs(t, err, ErrMalformedArray)
	require.ErrorIs(t, err, strconv.ErrRange)
	require.ErrorContains(t, err, "values[0]")
	require.ErrorContains(t, err, "overflows int8")
}

func TestDecodeArrayIntegerFraction(t *testing.T) {
	source, err := Parse([]byte(`{"dtype": "int32", "values": [1.5]}`))
	require.NoError(t, err)

	_, err = DecodeArray(source)
	require.ErrorIs(t, err, ErrMalformedArray)
	require.ErrorContains(t, err, "expected int32 integer")
}

func TestDecodeArrayFloat32Rounding(t *testing.T) {
	array := decodeArrayDocument(t, `{"dtype": "float32", "values": [0.1]}`)

	require.Equal(t, array.DType(), Float32)
	require.Equal(t, array.Float64s(), []float64{float64(float32(0.1))})
}

func TestDecodeArrayBase64(t *testing.T) {
	document := fmt.Sprintf(`{"dtype": "float64", "shape": [3], "values": {"py/b64": %q}}`,
		packFloat64(0.5, -1.25, 3000))

	array := decodeArrayDocument(t, document)
	require.Equal(t, array.Float64s(), []float64{0.5, -1.25, 3000})

	// the base64 text may also sit in the values member directly
	document = fmt.Sprintf(`{"dtype": "int16", "values": %q}`, packInt16(-2, 512))

	array = decodeArrayDocument(t, document)
	require.Equal(t, array.Shape(), []int{2})

	values, err := array.Int64s()
	require.NoError(t, err)
	require.Equal(t, values, []int64{-2, 512})
}

func TestDecodeArrayBase64BadLength(t *testing.T) {
	document := fmt.Sprintf(`{"dtype": "float64", "values": %q}`,
		base64.StdEncoding.EncodeToString(make([]byte, 7)))

	source, err := Parse([]byte(document))
	require.NoError(t, err)

	_, err = DecodeArray(source)
	require.ErrorIs(t, err, ErrMalformedArray)
	require.ErrorContains(t, err, "element size")
}

func TestDecodeArrayBase64BadText(t *testing.T) {
	source, err := Parse([]byte(`{"values": "!!!"}`))
	require.NoError(t, err)

	_, err = DecodeArray(source)
	require.ErrorIs(t, err, ErrMalformedArray)
}

func TestAsVectorRankTwo(t *testing.T) {
	array := decodeArrayDocument(t, `{"shape": [1, 3], "values": [1.0, 2.0, 3.0]}`)

	vector, err := array.AsVector()
	require.NoError(t, err)
	require.Equal(t, vector.Len(), 3)

	array = decodeArrayDocument(t, `{"shape": [3, 1], "values": [1.0, 2.0, 3.0]}`)

	vector, err = array.AsVector()
	require.NoError(t, err)
	require.Equal(t, vector.Len(), 3)

	array = decodeArrayDocument(t, `{"shape": [2, 2], "values": [1.0, 2.0, 3.0, 4.0]}`)

	_, err = array.AsVector()
	require.ErrorContains(t, err, "have shape [2 2]")
}

func TestAsMatrixFromRankOne(t *testing.T) {
	array := decodeArrayDocument(t, `[1.5, 2.5]`)

	matrix, err := array.AsMatrix()
	require.NoError(t, err)

	rows, cols := matrix.Dims()
	require.Equal(t, rows, 2)
	require.Equal(t, cols, 1)
	require.Equal(t, matrix.At(1, 0), 2.5)
}

func decodeArrayDocument(t *testing.T, document string) *NDArray {
	t.Helper()

	source, err := Parse([]byte(document))
	require.NoError(t, err)

	array, err := DecodeArray(source)
	require.NoError(t, err)

	return array
}

func packFloat64(values ...float64) string {
	data := make([]byte, 0, 8*len(values))
	for _, value := range values {
		data = binary.LittleEndian.AppendUint64(data, math.Float64bits(value))
	}

	return base64.StdEncoding.EncodeToString(data)
}

func packInt16(values ...int16) string {
	data := make([]byte, 0, 2*len(values))
	for _, value := range values {
		data = binary.LittleEndian.AppendUint16(data, uint16(value))
	}

	return base64.StdEncoding.EncodeToString(data)
}
