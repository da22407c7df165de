// Package jsonpickle reconstructs native Go objects from documents written by
// Python's jsonpickle, as used by DmpBbo to save trained models. It provides
// a generic data model to describe access to a parsed document and a small
// factory to dispatch tagged objects to construction rules.
//
// The [Source] defines access to one value of the document. [Parse] produces a
// Source from raw JSON. An [Object] wraps a Source for typed member access and
// tracks the path from the document root for error reporting. A [Registry]
// maps the "py/object" tags of a closed family of Python classes to
// [DecodeFunc] construction rules and drives the decoding.
package jsonpickle
