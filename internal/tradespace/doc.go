// Package tradespace sweeps a multirotor design space.
//
// An [Engine] materializes one configuration per point of the cartesian
// product of the catalog and the scalar grid, in a fixed order:
//
//	propeller, motor, battery, esc, motor count, throttle, environment, base mass
//
// with the last axis varying fastest. Each configuration is solved, checked
// against the constraints and kept as a [Candidate]. The Pareto front is
// computed over the feasible candidates once the sweep ends, ordered by
// enumeration index, so the output does not depend on the worker count.
//
// Very large spaces can be sampled with a Latin hypercube instead of being
// enumerated. A candidate that fails to solve is recorded as unevaluable
// and never aborts the sweep.
package tradespace
