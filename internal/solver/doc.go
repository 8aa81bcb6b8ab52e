// Package solver resolves the steady-state equilibrium of a multirotor
// propulsion chain.
//
// For a [Configuration] (propeller, motor, battery, ESC, motor count,
// throttle and ambient conditions) [Solve] iterates on rotor speed until
// the propeller load, motor current, supply voltage drop and back-EMF agree,
// then derives thrust, efficiency, flight time and thrust-to-weight.
//
// The iteration is bounded. A configuration that cannot be brought to
// equilibrium returns an error wrapping [ErrConvergence]; nothing the
// solver returns contains NaN.
//
// # Operating points
//
// Besides the commanded throttle, every result reports the hover point
// found by [Solver.Hover]. [Envelope] adds the full-throttle and safe-duty
// points used for payload and pitch margins.
//
// Solve holds no state between calls and is safe for concurrent use.
package solver
