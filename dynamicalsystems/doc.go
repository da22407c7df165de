// Package dynamicalsystems reconstructs the DmpBbo dynamical system family
// from jsonpickle documents and integrates their differential equations.
//
// A dynamical system owns a state vector and computes its rate of change;
// [EulerStep] and [RungeKuttaStep] advance the state in time. The family
// holds the building blocks a movement primitive composes: [TimeSystem] and
// [SigmoidSystem] for phase and gating, [ExponentialSystem] for goal
// movement, [SpringDamperSystem] for the transformation dynamics.
package dynamicalsystems
