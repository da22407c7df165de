package jsonpickle

import (
	"errors"
	"iter"
)

// ErrNoValue is returned by [Source.Get] when a container does not hold the
// requested member.
var ErrNoValue = errors.New("no value")

// ErrNotSupported is returned by [Source] methods when the underlying value
// can not be represented as the requested type.
var ErrNotSupported = errors.New("not supported")

// Source represents the abstract interface to one value of a parsed document.
// It defines a flexible data model for interpreting and accessing the
// serialized data without committing to a concrete parser.
//
// A [Source] provides methods to interpret the value in different forms:
//   - **Primitive types**: Supports conversion to basic Go types such as
//     `bool`, `int`, `uint`, `float`, and `string`.
//   - **Objects**: Accesses nested data structures using [Source.Get], which
//     retrieves a value corresponding to a specified key.
//   - **Slices**: Iterates over list-like structures using [Source.Iter],
//     enabling sequential processing of elements.
//   - **Maps**: Handles key-value pairs via [Source.KeyValues], facilitating
//     traversal of dictionary-like data.
//
// If converting the [Source] into a particular type isn't possible, the
// method must return [ErrNotSupported] as the error. This signals that the
// requested operation is not valid for the underlying data representation.
//
// The package includes two ready-to-use implementations that can be embedded
// or delegated to within a custom [Source]:
//
//  1. **[StringSource]**: Leverages the `strconv` package to parse strings
//     into various target types, such as integers, floats, and booleans.
//     Producers occasionally stringify scalars (e.g. numpy float reprs), and
//     this adapter recovers them.
//
//  2. **[EmptySource]**: A minimalist implementation that returns
//     [ErrNotSupported] for all methods. This is ideal as an embedded base
//     for developing new [Source] implementations.
type Source interface {
	// Bool returns the current value as a bool.
	// Returns error ErrNotSupported if the value can not be represented as such.
	Bool() (bool, error)

	// Int returns the current value as an int64.
	// Returns error ErrNotSupported if the value can not be represented as such.
	Int() (int64, error)

	// Uint returns the current value as an uint64.
	// Returns error ErrNotSupported if the value can not be represented as such.
	Uint() (uint64, error)

	// Float returns the current value as a float64.
	// Returns error ErrNotSupported if the value can not be represented as such.
	Float() (float64, error)

	// String returns the current value as a string.
	// Returns error ErrNotSupported if the value can not be represented as such.
	String() (string, error)

	// Get returns a child value of this [Source] if it exists.
	// Returns error [ErrNotSupported] if the current [Source] does not have
	// any child values. If the [Source] does have children, but just not the
	// requested child, [ErrNoValue] must be returned.
	Get(key string) (Source, error)

	// KeyValues interprets the [Source] as a map and iterates over the
	// elements within. It yields a pair of key and value [Source] instances.
	// Returns [ErrNotSupported] if the [Source] is not iterable.
	KeyValues() (iter.Seq2[Source, Source], error)

	// Iter interprets the [Source] as a slice and iterates over the
	// elements within.
	// Returns [ErrNotSupported] if the [Source] is not iterable.
	Iter() (iter.Seq[Source], error)
}

// Kind classifies the syntactic shape of a [Source] value.
type Kind int

const (
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// KindSource is an optional extension of the [Source] interface. Sources that
// know the syntactic shape of their value can implement it to improve
// type-mismatch diagnostics.
type KindSource interface {
	Kind() Kind
}

// kindOf describes the shape of source for error messages.
func kindOf(source Source) string {
	if ks, ok := source.(KindSource); ok {
		return ks.Kind().String()
	}

	return "value"
}
