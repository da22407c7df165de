package jsonpickle

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
)

// StringSource adapts a `string` to a Source. It parses primitive values
// using strconv.ParseInt, strconv.ParseFloat and strconv.ParseBool. string
// values are returned as is.
//
// jsonpickle documents occasionally hold stringified scalars, such as the
// repr of a numpy float. StringSource recovers those.
type StringSource string

var _ Source = StringSource("")
var _ KindSource = StringSource("")

func (s StringSource) Bool() (bool, error) {
	parsedValue, err := strconv.ParseBool(string(s))
	return handleSyntaxErr(string(s), parsedValue, err)
}

func (s StringSource) Int() (int64, error) {
	parsedValue, err := strconv.ParseInt(string(s), 10, 64)
	return handleSyntaxErr(string(s), parsedValue, err)
}

func (s StringSource) Uint() (uint64, error) {
	parsedValue, err := strconv.ParseUint(string(s), 10, 64)
	return handleSyntaxErr(string(s), parsedValue, err)
}

func (s StringSource) Float() (float64, error) {
	parsedValue, err := strconv.ParseFloat(string(s), 64)
	return handleSyntaxErr(string(s), parsedValue, err)
}

func (s StringSource) String() (string, error) {
	return string(s), nil
}

func (s StringSource) Get(key string) (Source, error) {
	return nil, ErrNotSupported
}

func (s StringSource) KeyValues() (iter.Seq2[Source, Source], error) {
	return nil, ErrNotSupported
}

func (s StringSource) Iter() (iter.Seq[Source], error) {
	return nil, ErrNotSupported
}

func (s StringSource) Kind() Kind {
	return KindString
}

// handleSyntaxErr maps strconv syntax errors to ErrNotSupported while keeping
// range errors intact.
func handleSyntaxErr[T any](inputValue string, value T, err error) (T, error) {
	var zeroValue T
	if errors.Is(err, strconv.ErrSyntax) {
		err := fmt.Errorf("parse number %q: %w", inputValue, err)
		return zeroValue, errors.Join(err, ErrNotSupported)
	}

	if err != nil {
		return zeroValue, err
	}

	return value, nil
}
