// Package physics provides the steady-state electromechanical model of a
// multirotor propulsion chain.
//
// Every function is pure and works in SI units unless the name says
// otherwise (rotor speed is in rpm, battery capacity in mAh, flight time in
// minutes):
//
//   - [AirDensity]: standard-atmosphere density from temperature and altitude
//   - [AeroFit]: blade-element fit producing thrust and torque coefficients
//   - [PropellerThrust], [PropellerTorque]: rho * n^2 * D^4 * Ct, rho * n^2 * D^5 * Cm
//   - [MotorModel]: back-EMF and torque constants from no-load test data
//   - [DutyCycle], [ESCInputVoltage], [BatteryCurrent]: ESC and battery coupling
//   - [Endurance], [SystemEfficiency]: derived metrics
//
// # Example
//
//	rho, err := physics.AirDensity(25, 10)
//	ct, cm := physics.DefaultAeroFit().Coefficients(10, 4.5, 2)
//	thrust := physics.PropellerThrust(rho, 0.254, ct, 6000)
//
// The solver package couples these relations into an equilibrium; this
// package holds no state.
package physics
