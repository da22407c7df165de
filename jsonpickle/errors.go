package jsonpickle

import (
	"errors"
	"fmt"
	"strings"
)

// Failure classes of decoding. Callers match against these with [errors.Is];
// the full error chain keeps the concrete context.
var (
	// ErrNotPolymorphic reports a value that is not a tagged object where
	// one was required, either because it is no object at all or because
	// the tag member is absent or empty.
	ErrNotPolymorphic = errors.New("not a tagged object")

	// ErrUnknownType reports a tag with no registered construction rule.
	ErrUnknownType = errors.New("unknown type tag")

	// ErrMissingField reports a required member that the object does not hold.
	ErrMissingField = errors.New("missing field")

	// ErrTypeMismatch reports a member holding a value of the wrong shape.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrMalformedArray reports a structurally broken numeric array, such as
	// a shape/value-count disagreement or a non-numeric element.
	ErrMalformedArray = errors.New("malformed array")

	// ErrUnsupportedDType reports an array element type outside the
	// supported set.
	ErrUnsupportedDType = errors.New("unsupported dtype")

	// ErrConstruction reports member values that decoded fine but violate a
	// precondition of the object under construction.
	ErrConstruction = errors.New("construction failed")

	// ErrTooDeep reports documents nested beyond [MaxDepth].
	ErrTooDeep = errors.New("nesting too deep")

	// ErrSharedReference reports a py/id object reference. Those make the
	// document a graph; only tree-shaped documents are decoded.
	ErrSharedReference = errors.New("shared object reference")
)

// UnknownTypeError carries the tag that no registered construction rule
// matched. It unwraps to [ErrUnknownType].
type UnknownTypeError struct {
	Tag string
}

func (e UnknownTypeError) Error() string {
	return fmt.Sprintf("no construction rule for type %q", e.Tag)
}

func (e UnknownTypeError) Unwrap() error {
	return ErrUnknownType
}

// PathError decorates a decoding error with the member path leading from the
// document root to the failing value. Decoding wraps an error in at most one
// PathError, the one closest to the failure.
type PathError struct {
	Path []string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("at %s: %v", pathString(e.Path), e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

func pathString(path []string) string {
	if len(path) == 0 {
		return "document root"
	}

	return strings.Join(path, ".")
}

// withPath wraps err in a [PathError] unless a deeper one is already present.
func withPath(path []string, err error) error {
	var pathErr *PathError
	if errors.As(err, &pathErr) {
		return err
	}

	return &PathError{Path: path, Err: err}
}
