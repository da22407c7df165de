package jsonpickle

import (
	"fmt"
	"maps"
	"slices"
)

// DecodeFunc constructs a value of the family type T from the members of a
// tagged object. It must either return a fully initialized value or an
// error; there is no partially constructed result.
type DecodeFunc[T any] func(obj *Object) (T, error)

// Registry maps py/object tags to construction rules for one closed family
// of types with the common root T.
//
// A registry is populated once, during package initialization, and must not
// change afterwards. Decoding never mutates it, so a populated registry is
// safe to share between goroutines.
type Registry[T any] struct {
	family string
	rules  map[string]DecodeFunc[T]
}

// NewRegistry returns an empty registry. The family name is used in error
// messages, e.g. "function approximator".
func NewRegistry[T any](family string) *Registry[T] {
	return &Registry[T]{
		family: family,
		rules:  map[string]DecodeFunc[T]{},
	}
}

// Register adds the construction rule for tag. Each tag is registered
// exactly once; a conflicting registration is a programming error and
// panics.
func (r *Registry[T]) Register(tag string, rule DecodeFunc[T]) {
	if tag == "" {
		panic(fmt.Sprintf("register %s: empty tag", r.family))
	}

	if rule == nil {
		panic(fmt.Sprintf("register %s: tag %q has no rule", r.family, tag))
	}

	if _, exists := r.rules[tag]; exists {
		panic(fmt.Sprintf("register %s: tag %q registered twice", r.family, tag))
	}

	r.rules[tag] = rule
}

// Tags returns the registered tags in sorted order.
func (r *Registry[T]) Tags() []string {
	return slices.Sorted(maps.Keys(r.rules))
}

// Decode reconstructs a value of the family from the document in source.
// The source must hold a tagged object whose tag matches a registered rule
// exactly; there is no fallback rule and no fuzzy matching.
func (r *Registry[T]) Decode(source Source) (T, error) {
	obj, err := AsObject(source)
	if err != nil {
		var zero T
		return zero, err
	}

	return r.DecodeObject(obj)
}

// DecodeObject reconstructs a value of the family from an object within a
// larger document, keeping that object's path context.
func (r *Registry[T]) DecodeObject(obj *Object) (T, error) {
	var zero T

	tag, err := obj.Tag()
	if err != nil {
		return zero, err
	}

	rule, ok := r.rules[tag]
	if !ok {
		return zero, obj.fail(fmt.Errorf("%s: %w", r.family, UnknownTypeError{Tag: tag}))
	}

	value, err := rule(obj)
	if err != nil {
		return zero, fmt.Errorf("decode %q: %w", tag, err)
	}

	return value, nil
}
