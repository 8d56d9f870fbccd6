package rocketsim

import (
	"errors"
	"fmt"
	"math"

	"github.com/ChristopherRabotin/ode"
	kitlog "github.com/go-kit/kit/log"
)

// Scheme defines the integration scheme of a flight.
type Scheme uint8

const (
	// EulerCromer is the semi-implicit Euler scheme: the new velocity is used to update the altitude.
	EulerCromer Scheme = iota + 1
	// RK4 is the fixed step fourth order Runge Kutta, used as a reference solution.
	RK4
)

func (s Scheme) String() string {
	switch s {
	case EulerCromer:
		return "euler-cromer"
	case RK4:
		return "rk4"
	}
	panic("cannot stringify unknown scheme")
}

// SchemeFromString returns the scheme from its name.
func SchemeFromString(name string) (Scheme, error) {
	switch name {
	case "", "euler-cromer", "eulercromer", "ec":
		return EulerCromer, nil
	case "rk4", "RK4":
		return RK4, nil
	}
	return 0, fmt.Errorf("unknown integration scheme `%s`", name)
}

var (
	// ErrInvalidStep is returned when the time step or the duration are not positive.
	ErrInvalidStep = errors.New("time step and duration must be positive")
	// ErrStepTooLarge is returned when a single powered step would burn at least the dry mass.
	ErrStepTooLarge = errors.New("time step too large for the mass flow rate")
)

// checkStep validates the time step and the duration of a flight of the provided rocket.
func checkStep(r Rocket, dt, duration float64) error {
	if dt <= 0 || duration <= 0 || math.IsNaN(dt) || math.IsNaN(duration) {
		return ErrInvalidStep
	}
	if r.MassFlow*dt >= r.DryMass {
		return fmt.Errorf("%w: %f kg burnt per step of %f s, dry mass is %f kg", ErrStepTooLarge, r.MassFlow*dt, dt, r.DryMass)
	}
	return nil
}

/* Handles the vertical flight propagation. */

// Flight defines a flight and does the propagation.
type Flight struct {
	Rocket   Rocket
	State    State
	step     float64 // time step (s)
	duration float64 // time limit (s)
	steps    uint64
	scheme   Scheme
	reason   Termination
	records  []Record
	logger   kitlog.Logger
}

// NewFlight returns a new Flight of the provided rocket, launched from the ground at rest.
// If logger is nil, nothing is logged.
func NewFlight(r Rocket, dt, duration float64, scheme Scheme, logger kitlog.Logger) (*Flight, error) {
	if err := checkStep(r, dt, duration); err != nil {
		return nil, err
	}
	if scheme == 0 {
		scheme = EulerCromer
	}
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	f := &Flight{
		Rocket:   r,
		State:    State{Mass: r.InitialMass, Phase: Powered},
		step:     dt,
		duration: duration,
		scheme:   scheme,
		records:  make([]Record, 0, int(math.Ceil(duration/dt))),
		logger:   kitlog.With(logger, "rocket", r.Name),
	}
	return f, nil
}

// Simulate flies the rocket with the Euler-Cromer scheme until it crashes or until the duration.
func Simulate(r Rocket, dt, duration float64) (TimeSeries, error) {
	f, err := NewFlight(r, dt, duration, EulerCromer, nil)
	if err != nil {
		return TimeSeries{}, err
	}
	return f.Run(), nil
}

// LogStatus logs the current state of the flight.
func (f *Flight) LogStatus() {
	f.logger.Log("level", "info", "subsys", "flight", "t(s)", f.State.Time, "z(m)", f.State.Altitude, "v(m/s)", f.State.Velocity, "mass(kg)", f.State.Mass, "phase", f.State.Phase)
}

// Run propagates the flight until it terminates and returns its history.
func (f *Flight) Run() TimeSeries {
	f.LogStatus()
	switch f.scheme {
	case EulerCromer:
		for !f.Stop(f.State.Time) {
			f.stepEulerCromer()
		}
	case RK4:
		ode.NewRK4(0, f.step, f).Solve() // Blocking.
	}
	f.logger.Log("level", "notice", "subsys", "flight", "status", "finished", "reason", f.reason, "steps", f.steps, "t(s)", f.State.Time)
	f.LogStatus()
	return f.TimeSeries()
}

// TimeSeries returns the history recorded so far.
func (f *Flight) TimeSeries() TimeSeries {
	return TimeSeries{Records: f.records, Reason: f.reason}
}

// propulsion returns the thrust and mass flow rate of the current phase.
func (f *Flight) propulsion() (thrust, massFlow float64) {
	if f.State.Phase == Powered {
		return f.Rocket.Thrust, f.Rocket.MassFlow
	}
	return 0, 0
}

// accelerations stores the specific forces acting on the rocket for a given state.
type accelerations struct {
	gravity, thrust, drag float64
	cd, mach              float64
	air                   AtmosphereSample
}

func (a accelerations) total() float64 {
	return a.thrust - a.drag - a.gravity
}

// accelerationsAt computes the accelerations at altitude z, velocity v and mass m.
func (f *Flight) accelerationsAt(z, v, m float64) (a accelerations) {
	thrustForce, _ := f.propulsion()
	a.gravity = Gravity(z)
	a.air = Atmosphere(z)
	a.cd = DragCoefficient(v, a.air.Temperature, f.Rocket.C0)
	a.mach = Mach(v, a.air.Temperature)
	a.thrust = thrustForce / m
	a.drag = 0.5 * a.air.Density * math.Pow(v, 2) * a.cd * f.Rocket.Area / m
	if v < 0 {
		// Drag opposes the motion.
		a.drag = -a.drag
	}
	return
}

// stepEulerCromer advances the flight by one step: mass first, then velocity from the
// accelerations of the previous state, and finally altitude from the new velocity.
func (f *Flight) stepEulerCromer() {
	s := &f.State
	_, massFlow := f.propulsion()
	s.Mass -= massFlow * f.step
	acc := f.accelerationsAt(s.Altitude, s.Velocity, s.Mass)
	s.Velocity += acc.total() * f.step
	s.Altitude += s.Velocity * f.step
	f.endStep(acc)
}

// endStep records the step which was just integrated and checks the termination conditions.
func (f *Flight) endStep(acc accelerations) {
	f.steps++
	f.State.Time = float64(f.steps) * f.step
	f.records = append(f.records, Record{
		Time:            f.State.Time,
		Altitude:        f.State.Altitude,
		Velocity:        f.State.Velocity,
		Mass:            f.State.Mass,
		Gravity:         acc.gravity,
		Thrust:          acc.thrust,
		Drag:            acc.drag,
		Density:         acc.air.Density,
		Temperature:     acc.air.Temperature,
		Pressure:        acc.air.Pressure,
		DragCoefficient: acc.cd,
		Mach:            acc.mach,
	})
	if f.State.Diverged() {
		f.reason = Diverged
		f.logger.Log("level", "critical", "subsys", "flight", "diverged", f.State.Time, "z(m)", f.State.Altitude, "v(m/s)", f.State.Velocity, "cd", acc.cd, "mach", acc.mach)
		return
	}
	if f.State.Crashed() {
		f.reason = Crashed
		f.logger.Log("level", "critical", "subsys", "flight", "crashed", f.State.Time, "z(m)", f.State.Altitude, "v(m/s)", f.State.Velocity)
		return
	}
	if f.State.Phase == Powered && f.State.Mass < f.Rocket.DryMass {
		f.State.Phase = Ballistic
		f.logger.Log("level", "notice", "subsys", "prop", "burnout", f.State.Time, "z(m)", f.State.Altitude, "v(m/s)", f.State.Velocity, "mass(kg)", f.State.Mass)
	}
	if math.IsInf(acc.cd, 0) || math.IsNaN(acc.cd) {
		f.logger.Log("level", "warning", "subsys", "aero", "cd", acc.cd, "mach", acc.mach, "t(s)", f.State.Time)
	}
}

// Stop implements the stop call of the integrator.
func (f *Flight) Stop(t float64) bool {
	if f.reason == Crashed || f.reason == Diverged {
		return true
	}
	if float64(f.steps)*f.step >= f.duration {
		f.reason = TimeLimit
		return true
	}
	return false
}

// GetState returns the state for the integrator: altitude, velocity and mass.
func (f *Flight) GetState() []float64 {
	return []float64{f.State.Altitude, f.State.Velocity, f.State.Mass}
}

// SetState sets the updated state. The recorded accelerations are those of the previous state.
func (f *Flight) SetState(t float64, s []float64) {
	acc := f.accelerationsAt(f.State.Altitude, f.State.Velocity, f.State.Mass)
	f.State.Altitude = s[0]
	f.State.Velocity = s[1]
	f.State.Mass = s[2]
	f.endStep(acc)
}

// Func is the vertical equation of motion with a variable mass.
func (f *Flight) Func(t float64, s []float64) []float64 {
	_, massFlow := f.propulsion()
	acc := f.accelerationsAt(s[0], s[1], s[2])
	// A NaN derivative is not fatal: it propagates to the new state and ends the flight.
	return []float64{s[1], acc.total(), -massFlow}
}
