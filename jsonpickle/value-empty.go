package jsonpickle

import "iter"

// EmptySource is a Source that returns ErrNotSupported for all conversion
// functions. It is useful as an embedded base for your own custom Source
// implementation.
type EmptySource struct{}

var _ Source = EmptySource{}

func (e EmptySource) Bool() (bool, error) {
	return false, ErrNotSupported
}

func (e EmptySource) Int() (int64, error) {
	return 0, ErrNotSupported
}

func (e EmptySource) Uint() (uint64, error) {
	return 0, ErrNotSupported
}

func (e EmptySource) Float() (float64, error) {
	return 0, ErrNotSupported
}

func (e EmptySource) String() (string, error) {
	return "", ErrNotSupported
}

func (e EmptySource) Get(key string) (Source, error) {
	return nil, ErrNotSupported
}

func (e EmptySource) KeyValues() (iter.Seq2[Source, Source], error) {
	return nil, ErrNotSupported
}

func (e EmptySource) Iter() (iter.Seq[Source], error) {
	return nil, ErrNotSupported
}
