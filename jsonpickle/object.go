package jsonpickle

import (
	"errors"
	"fmt"
	"gonum.org/v1/gonum/mat"
)

// TagKey is the reserved member naming the Python class an object was
// pickled from. Its value decides which construction rule a [Registry]
// dispatches to.
const TagKey = "py/object"

// referenceKey marks a jsonpickle shared-object reference. A document using
// references is a graph, not a tree, and is rejected.
const referenceKey = "py/id"

// MaxDepth bounds the nesting of objects below the document root. Decoding
// deeper documents fails with [ErrTooDeep] instead of exhausting the stack.
const MaxDepth = 64

// Object is one object of the document under decoding. It wraps the
// [Source] of the object with typed member accessors and tracks the member
// path from the document root, so that every error names the value it is
// about.
//
// Accessors translate the Source errors into the decoding taxonomy: an
// absent member becomes [ErrMissingField], a member of the wrong shape
// becomes [ErrTypeMismatch]. All errors carry the path via [PathError].
type Object struct {
	source Source
	path   []string
	depth  int
}

// AsObject wraps the document root for member access. It fails with
// [ErrNotPolymorphic] if source is no object, and with [ErrSharedReference]
// if the root is a py/id reference.
func AsObject(source Source) (*Object, error) {
	root := &Object{source: source}

	if err := root.checkObject(); err != nil {
		return nil, root.fail(err)
	}

	return root, nil
}

// checkObject verifies that the wrapped source supports member access and is
// not a shared-object reference.
func (o *Object) checkObject() error {
	if _, err := o.source.Get(TagKey); errors.Is(err, ErrNotSupported) {
		return fmt.Errorf("found %s: %w", kindOf(o.source), ErrNotPolymorphic)
	}

	if _, err := o.source.Get(referenceKey); err == nil {
		if _, err := o.source.Get(TagKey); errors.Is(err, ErrNoValue) {
			return fmt.Errorf("%s object reference: %w", referenceKey, ErrSharedReference)
		}
	}

	return nil
}

// Path returns the member path of this object below the document root.
func (o *Object) Path() string {
	return pathString(o.path)
}

// Source returns the raw source the object wraps.
func (o *Object) Source() Source {
	return o.source
}

// Tag returns the py/object class name of this object. It fails with
// [ErrNotPolymorphic] if the tag member is absent or empty.
func (o *Object) Tag() (string, error) {
	tagSource, err := o.source.Get(TagKey)
	switch {
	case errors.Is(err, ErrNoValue):
		return "", o.fail(fmt.Errorf("object has no %q member: %w", TagKey, ErrNotPolymorphic))

	case err != nil:
		return "", o.fail(fmt.Errorf("member %q: %w", TagKey, err))
	}

	tag, err := tagSource.String()
	if err != nil {
		return "", o.fail(fmt.Errorf("member %q: expected string: %w", TagKey, errors.Join(err, ErrTypeMismatch)))
	}

	if tag == "" {
		return "", o.fail(fmt.Errorf("member %q is empty: %w", TagKey, ErrNotPolymorphic))
	}

	return tag, nil
}

// Has reports whether the object holds the named member. Members set to null
// count as absent.
func (o *Object) Has(name string) bool {
	_, err := o.source.Get(name)
	return err == nil
}

// String returns the named member as a string.
func (o *Object) String(name string) (string, error) {
	source, err := o.member(name)
	if err != nil {
		return "", err
	}

	value, err := source.String()
	if err != nil {
		return "", o.mismatch(name, "string", source, err)
	}

	return value, nil
}

// Float returns the named member as a float64.
func (o *Object) Float(name string) (float64, error) {
	source, err := o.member(name)
	if err != nil {
		return 0, err
	}

	value, err := source.Float()
	if err != nil {
		return 0, o.mismatch(name, "number", source, err)
	}

	return value, nil
}

// Int returns the named member as an int64. Fractional numbers do not
// convert, they fail with [ErrTypeMismatch].
func (o *Object) Int(name string) (int64, error) {
	source, err := o.member(name)
	if err != nil {
		return 0, err
	}

	value, err := source.Int()
	if err != nil {
		return 0, o.mismatch(name, "integer", source, err)
	}

	return value, nil
}

// Bool returns the named member as a bool.
func (o *Object) Bool(name string) (bool, error) {
	source, err := o.member(name)
	if err != nil {
		return false, err
	}

	value, err := source.Bool()
	if err != nil {
		return false, o.mismatch(name, "bool", source, err)
	}

	return value, nil
}

// Object returns the named member as a nested [Object].
func (o *Object) Object(name string) (*Object, error) {
	source, err := o.member(name)
	if err != nil {
		return nil, err
	}

	return o.child(name, source)
}

// Objects returns the named member as a list of nested [Object] values.
func (o *Object) Objects(name string) ([]*Object, error) {
	source, err := o.member(name)
	if err != nil {
		return nil, err
	}

	elements, err := source.Iter()
	if err != nil {
		return nil, o.mismatch(name, "array", source, err)
	}

	var objects []*Object

	idx := 0
	for element := range elements {
		child, err := o.child(fmt.Sprintf("%s[%d]", name, idx), element)
		if err != nil {
			return nil, err
		}

		objects = append(objects, child)
		idx++
	}

	return objects, nil
}

// NDArray returns the named member decoded as a numeric array.
func (o *Object) NDArray(name string) (*NDArray, error) {
	source, err := o.member(name)
	if err != nil {
		return nil, err
	}

	return decodeArray(source, o.memberPath(name), o.depth+1)
}

// Vector returns the named member as a dense vector. The member may be
// encoded with rank one, or with rank two and a single row or column.
func (o *Object) Vector(name string) (*mat.VecDense, error) {
	array, err := o.NDArray(name)
	if err != nil {
		return nil, err
	}

	vector, err := array.AsVector()
	if err != nil {
		return nil, o.fail(fmt.Errorf("member %q: %w", name, errors.Join(err, ErrTypeMismatch)))
	}

	return vector, nil
}

// Matrix returns the named member as a dense matrix. Rank-one members become
// a single column, matching how numpy collapses one-dimensional parameters.
func (o *Object) Matrix(name string) (*mat.Dense, error) {
	array, err := o.NDArray(name)
	if err != nil {
		return nil, err
	}

	matrix, err := array.AsMatrix()
	if err != nil {
		return nil, o.fail(fmt.Errorf("member %q: %w", name, errors.Join(err, ErrTypeMismatch)))
	}

	return matrix, nil
}

// member returns the raw Source of the named member, or a missing-field
// error naming it.
func (o *Object) member(name string) (Source, error) {
	source, err := o.source.Get(name)
	switch {
	case errors.Is(err, ErrNoValue):
		return nil, o.fail(fmt.Errorf("required member %q: %w", name, ErrMissingField))

	case err != nil:
		return nil, o.fail(fmt.Errorf("member %q: %w", name, err))
	}

	return source, nil
}

// child wraps a member source as a nested Object, guarding the nesting depth.
func (o *Object) child(name string, source Source) (*Object, error) {
	child := &Object{source: source, path: o.memberPath(name), depth: o.depth + 1}

	if child.depth > MaxDepth {
		return nil, child.fail(fmt.Errorf("objects nested deeper than %d levels: %w", MaxDepth, ErrTooDeep))
	}

	if err := child.checkObject(); err != nil {
		if errors.Is(err, ErrNotPolymorphic) {
			// not reaching a nested object at all is a mismatch on the member
			return nil, o.mismatch(name, "object", source, nil)
		}

		return nil, child.fail(err)
	}

	return child, nil
}

func (o *Object) memberPath(name string) []string {
	path := make([]string, 0, len(o.path)+1)
	path = append(path, o.path...)

	return append(path, name)
}

func (o *Object) fail(err error) error {
	return withPath(o.path, err)
}

func (o *Object) mismatch(name, want string, source Source, cause error) error {
	err := fmt.Errorf("member %q: expected %s, found %s: %w",
		name, want, kindOf(source), errors.Join(cause, ErrTypeMismatch))

	return o.fail(err)
}
