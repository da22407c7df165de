// Package functionapproximators reconstructs the DmpBbo function
// approximator family from jsonpickle documents and evaluates their
// predictions.
//
// Training happens on the Python side; this package only loads trained
// models. [FromJSONPickle] dispatches on the py/object class tag to one of
// the registered variants:
//
//   - [RBFN], a radial basis function network,
//   - [LWR], locally weighted regression.
//
// Both share the [Gaussian] basis function, which documents either inline
// as centers/widths model parameters or nest as a tagged object of its own.
package functionapproximators
