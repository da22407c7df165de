package jsonpickle

import (
	"bytes"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestParsePrimitives(t *testing.T) {
	source, err := Parse([]byte(`{"name": "rbfn", "count": 3, "rate": 0.25, "trained": true, "cache": null}`))
	require.NoError(t, err)

	name, err := member(t, source, "name").String()
	require.NoError(t, err)
	require.Equal(t, name, "rbfn")

	count, err := member(t, source, "count").Int()
	require.NoError(t, err)
	require.Equal(t, count, int64(3))

	rate, err := member(t, source, "rate").Float()
	require.NoError(t, err)
	require.Equal(t, rate, 0.25)

	trained, err := member(t, source, "trained").Bool()
	require.NoError(t, err)
	require.Equal(t, trained, true)
}

func TestParseNullMemberIsAbsent(t *testing.T) {
	source, err := Parse([]byte(`{"cache": null}`))
	require.NoError(t, err)

	_, err = source.Get("cache")
	require.ErrorIs(t, err, ErrNoValue)

	_, err = source.Get("missing")
	require.ErrorIs(t, err, ErrNoValue)
}

func TestParseLargeIntegersStayExact(t *testing.T) {
	// 2^53+1 is not representable as float64
	source, err := Parse([]byte(`{"id": 9007199254740993}`))
	require.NoError(t, err)

	id, err := member(t, source, "id").Int()
	require.NoError(t, err)
	require.Equal(t, id, int64(9007199254740993))
}

func TestParseStringifiedScalars(t *testing.T) {
	source, err := Parse([]byte(`{"rate": "1e-3", "special": "nan"}`))
	require.NoError(t, err)

	rate, err := member(t, source, "rate").Float()
	require.NoError(t, err)
	require.Equal(t, rate, 0.001)

	special, err := member(t, source, "special").Float()
	require.NoError(t, err)
	require.True(t, math.IsNaN(special))
}

func TestParseWrongShape(t *testing.T) {
	source, err := Parse([]byte(`{"name": "rbfn", "count": 1.5}`))
	require.NoError(t, err)

	_, err = member(t, source, "name").Int()
	require.ErrorIs(t, err, ErrNotSupported)

	_, err = member(t, source, "name").Bool()
	require.ErrorIs(t, err, ErrNotSupported)

	// fractional numbers do not convert to int
	_, err = member(t, source, "count").Int()
	require.ErrorIs(t, err, ErrNotSupported)

	_, err = member(t, source, "name").Get("child")
	require.ErrorIs(t, err, ErrNotSupported)

	_, err = source.Float()
	require.ErrorIs(t, err, ErrNotSupported)
}

func TestParseKinds(t *testing.T) {
	source, err := Parse([]byte(`{"a": 1, "b": "x", "c": [1], "d": {}, "e": true}`))
	require.NoError(t, err)

	require.Equal(t, source.(KindSource).Kind(), KindObject)
	require.Equal(t, member(t, source, "a").(KindSource).Kind(), KindNumber)
	require.Equal(t, member(t, source, "b").(KindSource).Kind(), KindString)
	require.Equal(t, member(t, source, "c").(KindSource).Kind(), KindArray)
	require.Equal(t, member(t, source, "d").(KindSource).Kind(), KindObject)
	require.Equal(t, member(t, source, "e").(KindSource).Kind(), KindBool)
}

func TestParseComments(t *testing.T) {
	data := []byte(`{
		// touched up by hand
		"tau": 3.0, /* seconds */
		"dims": [1, 2,],
	}`)

	source, err := Parse(data)
	require.NoError(t, err)

	tau, err := member(t, source, "tau").Float()
	require.NoError(t, err)
	require.Equal(t, tau, 3.0)
}

func TestParseTrailingData(t *testing.T) {
	_, err := Parse([]byte(`{"a": 1} {"b": 2}`))
	require.ErrorContains(t, err, "trailing data")
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte(`{"a": `))
	require.Error(t, err)
}

func TestKeyValuesSorted(t *testing.T) {
	source, err := Parse([]byte(`{"b": 1, "z": 2, "a": 3}`))
	require.NoError(t, err)

	keyValues, err := source.KeyValues()
	require.NoError(t, err)

	var keys []string
	for key := range keyValues {
		name, err := key.String()
		require.NoError(t, err)
		keys = append(keys, name)
	}

	require.Equal(t, keys, []string{"a", "b", "z"})
}

func TestIterKeepsOrder(t *testing.T) {
	source, err := Parse([]byte(`[3, 1, 2]`))
	require.NoError(t, err)

	elements, err := source.Iter()
	require.NoError(t, err)

	var values []int64
	for element := range elements {
		value, err := element.Int()
		require.NoError(t, err)
		values = append(values, value)
	}

	require.Equal(t, values, []int64{3, 1, 2})
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tau": 2.5}`), 0o644))

	source, err := ReadFile(path)
	require.NoError(t, err)

	tau, err := member(t, source, "tau").Float()
	require.NoError(t, err)
	require.Equal(t, tau, 2.5)
}

func TestReadFileGzip(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(`{"tau": 2.5}`))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	path := filepath.Join(t.TempDir(), "model.json.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	source, err := ReadFile(path)
	require.NoError(t, err)

	tau, err := member(t, source, "tau").Float()
	require.NoError(t, err)
	require.Equal(t, tau, 2.5)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.json"))
	require.ErrorContains(t, err, "nope.json")
}

func member(t *testing.T, source Source, key string) Source {
	t.Helper()

	value, err := source.Get(key)
	require.NoError(t, err)

	return value
}
