// Package dmps reconstructs dynamical movement primitives from jsonpickle
// documents and integrates them.
//
// A [Dmp] composes the other two families: dynamical systems for phase,
// gating, goal and transformation dynamics, and one function approximator
// per output dimension for the learned forcing term. Decoding a DMP
// document therefore recurses through every nested tagged object.
//
// The state vector of a DMP with n output dimensions stacks
// [y, z, goal, phase, gating] into 3n+2 values; [Dmp.PositionsFromState]
// and friends unpack it.
package dmps
