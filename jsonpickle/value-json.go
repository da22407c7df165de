package jsonpickle

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/klauspost/compress/gzip"
	"github.com/tidwall/jsonc"
	"io"
	"iter"
	"maps"
	"os"
	"slices"
)

// Parse decodes a JSON document into a [Source] over its value tree.
//
// Numbers are kept in their textual form until a consumer asks for them, so
// large integers do not lose precision by an intermediate float64. Comments
// and trailing commas are tolerated, documents touched up by hand while
// debugging stay readable.
func Parse(data []byte) (Source, error) {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	if err := dec.Decode(new(any)); !errors.Is(err, io.EOF) {
		return nil, errors.New("parse document: trailing data after top-level value")
	}

	return jsonValue{value: root}, nil
}

// ReadFile reads and parses the document at path. Gzipped files, as written
// by Python tooling that dumps models with `gzip.open`, are transparently
// decompressed.
func ReadFile(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}

	if isGzip(data) {
		if data, err = gunzip(data); err != nil {
			return nil, fmt.Errorf("decompress %q: %w", path, err)
		}
	}

	source, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("file %q: %w", path, err)
	}

	return source, nil
}

func isGzip(data []byte) bool {
	return len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b
}

func gunzip(data []byte) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	defer gz.Close()

	return io.ReadAll(gz)
}

// jsonValue adapts one value of a decoded JSON tree to the [Source]
// interface. Values are one of nil, bool, json.Number, string, []any or
// map[string]any.
type jsonValue struct {
	value any
}

var _ Source = jsonValue{}
var _ KindSource = jsonValue{}

func (j jsonValue) Kind() Kind {
	switch j.value.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case json.Number:
		return KindNumber
	case string:
		return KindString
	case []any:
		return KindArray
	case map[string]any:
		return KindObject
	default:
		return KindInvalid
	}
}

func (j jsonValue) Bool() (bool, error) {
	if boolValue, ok := j.value.(bool); ok {
		return boolValue, nil
	}

	return false, ErrNotSupported
}

func (j jsonValue) Int() (int64, error) {
	switch value := j.value.(type) {
	case json.Number:
		intValue, err := value.Int64()
		return handleSyntaxErr(value.String(), intValue, err)

	case string:
		return StringSource(value).Int()
	}

	return 0, ErrNotSupported
}

func (j jsonValue) Uint() (uint64, error) {
	switch value := j.value.(type) {
	case json.Number:
		return StringSource(value.String()).Uint()

	case string:
		return StringSource(value).Uint()
	}

	return 0, ErrNotSupported
}

func (j jsonValue) Float() (float64, error) {
	switch value := j.value.(type) {
	case json.Number:
		floatValue, err := value.Float64()
		return handleSyntaxErr(value.String(), floatValue, err)

	case string:
		// numpy scalars sometimes arrive as strings, including "nan"
		// and "inf" which plain JSON can not hold as numbers
		return StringSource(value).Float()
	}

	return 0, ErrNotSupported
}

func (j jsonValue) String() (string, error) {
	if stringValue, ok := j.value.(string); ok {
		return stringValue, nil
	}

	return "", ErrNotSupported
}

func (j jsonValue) Get(key string) (Source, error) {
	object, ok := j.value.(map[string]any)
	if !ok {
		return nil, ErrNotSupported
	}

	child, ok := object[key]
	if !ok {
		return nil, ErrNoValue
	}

	// Python None pickles to null. A null member is treated as absent.
	if child == nil {
		return nil, ErrNoValue
	}

	return jsonValue{value: child}, nil
}

func (j jsonValue) KeyValues() (iter.Seq2[Source, Source], error) {
	object, ok := j.value.(map[string]any)
	if !ok {
		return nil, ErrNotSupported
	}

	keys := slices.Sorted(maps.Keys(object))

	seq := func(yield func(Source, Source) bool) {
		for _, key := range keys {
			if !yield(StringSource(key), jsonValue{value: object[key]}) {
				return
			}
		}
	}

	return seq, nil
}

func (j jsonValue) Iter() (iter.Seq[Source], error) {
	list, ok := j.value.([]any)
	if !ok {
		return nil, ErrNotSupported
	}

	seq := func(yield func(Source) bool) {
		for _, element := range list {
			if !yield(jsonValue{value: element}) {
				return
			}
		}
	}

	return seq, nil
}
