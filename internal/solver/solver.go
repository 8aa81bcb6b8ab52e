package solver

import (
	"math"

	"github.com/guisoares9/tradespace-designer/internal/physics"
)

const (
	DefaultTolerance      = 1e-6
	DefaultMaxIterations  = 100
	DefaultHoverTolerance = 1e-5
)

type Options struct {
	// Tolerance is the relative rotor speed change that ends the iteration.
	Tolerance     float64
	MaxIterations int

	// Fit predicts coefficients for propellers without catalog values.
	Fit physics.AeroFit

	// HoverTolerance is the throttle resolution of the hover search.
	HoverTolerance float64
}

func DefaultOptions() Options {
	return Options{
		Tolerance:      DefaultTolerance,
		MaxIterations:  DefaultMaxIterations,
		Fit:            physics.DefaultAeroFit(),
		HoverTolerance: DefaultHoverTolerance,
	}
}

// Solver evaluates configurations with fixed numerical options. It is
// immutable and safe for concurrent use.
type Solver struct {
	opts Options
}

// New returns a Solver; zero fields of opts take their defaults.
func New(opts Options) *Solver {
	def := DefaultOptions()
	if !(opts.Tolerance > 0) {
		opts.Tolerance = def.Tolerance
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = def.MaxIterations
	}
	if opts.Fit == (physics.AeroFit{}) {
		opts.Fit = def.Fit
	}
	if !(opts.HoverTolerance > 0) {
		opts.HoverTolerance = def.HoverTolerance
	}
	return &Solver{opts: opts}
}

func (s *Solver) Options() Options { return s.opts }

var defaultSolver = New(DefaultOptions())

// Solve evaluates cfg with the default options.
func Solve(cfg Configuration) (PerformanceResult, error) {
	return defaultSolver.Solve(cfg)
}

// Solve returns the equilibrium at the commanded throttle together with
// the hover point. A configuration that cannot hover still solves; it is
// reported with Hoverable false.
func (s *Solver) Solve(cfg Configuration) (PerformanceResult, error) {
	res, err := s.equilibrium(cfg)
	if err != nil {
		return res, err
	}
	hover, err := s.Hover(cfg)
	if err != nil {
		res.HoverError = err.Error()
		return res, nil
	}
	res.Hoverable = true
	res.HoverThrottle = hover.DutyCycle
	res.HoverCurrent = hover.BatteryCurrent
	res.HoverTime = hover.FlightTime
	return res, nil
}

// equilibrium runs the rotor speed iteration at cfg.Throttle.
//
// The fixed point is N = E(N)/ke where the back-EMF E falls with the load
// current. Each update is the Newton step on N - E(N)/ke; because E is
// concave in N the iterates stay positive and settle from above, even when
// the seed overshoots. A battery whose internal resistance exceeds its
// nominal voltage, or a supply that cannot turn the rotor at all, is
// caught before iterating.
func (s *Solver) equilibrium(cfg Configuration) (PerformanceResult, error) {
	if err := cfg.Validate(); err != nil {
		return PerformanceResult{}, err
	}
	rho, err := cfg.Environment.Density()
	if err != nil {
		return PerformanceResult{}, err
	}
	if cfg.Battery.Resistance > cfg.Battery.Voltage {
		return PerformanceResult{}, &SolveError{
			Reason:  "battery resistance exceeds nominal voltage",
			Wrapped: ErrConvergence,
		}
	}
	p := newPlant(cfg, rho, s.opts.Fit)

	if idle := p.at(0); idle.ESCVoltage <= 0 || idle.BackEMF <= 0 {
		return PerformanceResult{}, &SolveError{
			Reason:  "supply cannot overcome no-load losses",
			Wrapped: ErrConvergence,
		}
	}

	speed := cfg.Motor.KV * cfg.Throttle * cfg.Battery.Voltage
	for i := 1; i <= s.opts.MaxIterations; i++ {
		// Iterates above the equilibrium may show a negative back-EMF;
		// only non-finite values are fatal before convergence.
		op := p.at(speed)
		if reason := op.nonFinite(); reason != "" {
			return PerformanceResult{}, &SolveError{Iterations: i, RotorSpeed: speed, Reason: reason, Wrapped: ErrConvergence}
		}

		next := speed + (op.BackEMF/p.ke-speed)/(1+2*p.lossSlope*speed)
		if math.IsNaN(next) || math.IsInf(next, 0) || next <= 0 {
			return PerformanceResult{}, &SolveError{Iterations: i, RotorSpeed: speed, Reason: "rotor speed left the physical range", Wrapped: ErrConvergence}
		}

		if math.Abs(next-speed) < s.opts.Tolerance*next {
			final := p.at(next)
			if reason := final.invalid(); reason != "" {
				return PerformanceResult{}, &SolveError{Iterations: i, RotorSpeed: next, Reason: reason, Wrapped: ErrConvergence}
			}
			return p.result(final, i), nil
		}
		speed = next
	}

	return PerformanceResult{}, &SolveError{
		Iterations: s.opts.MaxIterations,
		RotorSpeed: speed,
		Reason:     "iteration budget exhausted",
		Wrapped:    ErrConvergence,
	}
}

// plant holds the per-configuration constants of the iteration.
type plant struct {
	cfg       Configuration
	rho       float64
	diameter  float64
	ct        float64
	torqueK   float64 // torque = torqueK * N^2
	ke        float64
	motor     physics.MotorModel
	lossSlope float64 // d(E/ke)/dN = -2 * lossSlope * N
}

func newPlant(cfg Configuration, rho float64, fit physics.AeroFit) plant {
	ct, cm := cfg.Propeller.Coefficients(fit)
	d := cfg.Propeller.DiameterMeters()
	motor := cfg.Motor.Model()
	ke := motor.BackEMFConstant()
	torqueK := physics.TorquePerSpeedSquared(rho, d, cm)

	sigma := cfg.Throttle
	loop := motor.Resistance + cfg.ESC.Resistance + float64(cfg.MotorCount)*sigma*sigma*cfg.Battery.Resistance
	currentK := torqueK / (physics.RadPerSecToRPM * ke)

	return plant{
		cfg:       cfg,
		rho:       rho,
		diameter:  d,
		ct:        ct,
		torqueK:   torqueK,
		ke:        ke,
		motor:     motor,
		lossSlope: loop * currentK / ke,
	}
}

type operatingPoint struct {
	Speed          float64
	Torque         float64
	MotorCurrent   float64
	ESCCurrent     float64
	BatteryCurrent float64
	ESCVoltage     float64
	MotorVoltage   float64
	BackEMF        float64
}

func (p plant) at(speed float64) operatingPoint {
	sigma := p.cfg.Throttle
	torque := p.torqueK * speed * speed
	im := p.motor.Current(torque)
	ie := physics.ESCCurrent(sigma, im)
	ib := physics.BatteryCurrent(p.cfg.MotorCount, ie, p.cfg.ControlCurrent)
	ue := physics.ESCInputVoltage(p.cfg.Battery.Voltage, ib, p.cfg.Battery.Resistance)
	um := sigma*ue - im*p.cfg.ESC.Resistance

	return operatingPoint{
		Speed:          speed,
		Torque:         torque,
		MotorCurrent:   im,
		ESCCurrent:     ie,
		BatteryCurrent: ib,
		ESCVoltage:     ue,
		MotorVoltage:   um,
		BackEMF:        um - p.motor.Resistance*im,
	}
}

type quantity struct {
	name string
	v    float64
}

func (op operatingPoint) quantities() []quantity {
	return []quantity{
		{"rotor speed", op.Speed},
		{"torque", op.Torque},
		{"motor current", op.MotorCurrent},
		{"battery current", op.BatteryCurrent},
		{"esc voltage", op.ESCVoltage},
		{"motor voltage", op.MotorVoltage},
		{"back-emf", op.BackEMF},
	}
}

func (op operatingPoint) nonFinite() string {
	for _, q := range op.quantities() {
		if math.IsNaN(q.v) || math.IsInf(q.v, 0) {
			return q.name + " is not finite"
		}
	}
	return ""
}

// invalid names the first non-finite or negative quantity, if any.
func (op operatingPoint) invalid() string {
	if reason := op.nonFinite(); reason != "" {
		return reason
	}
	for _, q := range op.quantities() {
		if q.v < 0 {
			return q.name + " is negative"
		}
	}
	return ""
}

func (p plant) result(op operatingPoint, iterations int) PerformanceResult {
	cfg := p.cfg
	thrust := physics.PropellerThrust(p.rho, p.diameter, p.ct, op.Speed)
	total := float64(cfg.MotorCount) * thrust

	return PerformanceResult{
		RotorSpeed:     op.Speed,
		Thrust:         thrust,
		TotalThrust:    total,
		Torque:         op.Torque,
		MotorCurrent:   op.MotorCurrent,
		MotorVoltage:   op.MotorVoltage,
		ESCCurrent:     op.ESCCurrent,
		ESCVoltage:     op.ESCVoltage,
		BatteryCurrent: op.BatteryCurrent,
		DutyCycle:      cfg.Throttle,
		Power:          cfg.Battery.Voltage * op.BatteryCurrent,
		Efficiency:     physics.SystemEfficiency(cfg.MotorCount, op.Torque, op.Speed, cfg.Battery.Voltage, op.BatteryCurrent),
		FlightTime:     physics.Endurance(op.BatteryCurrent, cfg.Battery.Capacity, cfg.Battery.MinCapacity()),
		Mass:           cfg.Mass(),
		ThrustToWeight: total / cfg.Weight(),
		AirDensity:     p.rho,
		Iterations:     iterations,
		Converged:      true,
	}
}
