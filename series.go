package rocketsim

import (
	"fmt"
	"math"
)

// Phase defines whether the motor is still burning.
type Phase uint8

const (
	// Powered means propellant remains: thrust and mass flow apply.
	Powered Phase = iota + 1
	// Ballistic means the propellant is exhausted.
	Ballistic
)

// Termination defines why a flight ended.
type Termination uint8

const (
	// Crashed means the altitude went below ground.
	Crashed Termination = iota + 1
	// TimeLimit means the simulated time reached the requested duration.
	TimeLimit
	// Diverged means the altitude or the velocity are no longer finite, e.g. after a descent
	// faster than Mach 1 where the drag coefficient is NaN.
	Diverged
)

func (p Phase) String() string {
	switch p {
	case Powered:
		return "powered"
	case Ballistic:
		return "ballistic"
	}
	panic("cannot stringify unknown phase")
}

func (t Termination) String() string {
	switch t {
	case Crashed:
		return "crashed"
	case TimeLimit:
		return "time limit"
	case Diverged:
		return "diverged"
	case 0:
		return "flying"
	}
	panic("cannot stringify unknown termination")
}

// State is the mutable state of a rocket during a flight.
type State struct {
	Time     float64 // s
	Altitude float64 // m, negative below ground
	Velocity float64 // m/s, positive upward
	Mass     float64 // kg
	Phase    Phase
}

// Crashed returns whether this state is below ground. Touching the ground exactly is not a crash.
func (s State) Crashed() bool {
	return s.Altitude < 0
}

// Diverged returns whether the altitude or the velocity is NaN or infinite.
func (s State) Diverged() bool {
	return math.IsNaN(s.Altitude) || math.IsInf(s.Altitude, 0) || math.IsNaN(s.Velocity) || math.IsInf(s.Velocity, 0)
}

func (s State) String() string {
	return fmt.Sprintf("t=%.3f s z=%.3f m v=%.3f m/s m=%.4f kg (%s)", s.Time, s.Altitude, s.Velocity, s.Mass, s.Phase)
}

// Record stores the outcome of one integration step.
// Thrust, Drag and Gravity are accelerations (m/s^2); Drag is signed like the velocity.
type Record struct {
	Time            float64
	Altitude        float64
	Velocity        float64
	Mass            float64
	Gravity         float64
	Thrust          float64
	Drag            float64
	Density         float64
	Temperature     float64
	Pressure        float64
	DragCoefficient float64
	Mach            float64
}

// TimeSeries is the ordered history of a flight, one record per step.
type TimeSeries struct {
	Records []Record
	Reason  Termination
}

// Len returns the number of records.
func (ts TimeSeries) Len() int {
	return len(ts.Records)
}

// Times returns the time of each record.
func (ts TimeSeries) Times() []float64 {
	return ts.column(func(r Record) float64 { return r.Time })
}

// Altitudes returns the altitude of each record.
func (ts TimeSeries) Altitudes() []float64 {
	return ts.column(func(r Record) float64 { return r.Altitude })
}

// Velocities returns the velocity of each record.
func (ts TimeSeries) Velocities() []float64 {
	return ts.column(func(r Record) float64 { return r.Velocity })
}

// Pressures returns the ambient pressure of each record.
func (ts TimeSeries) Pressures() []float64 {
	return ts.column(func(r Record) float64 { return r.Pressure })
}

func (ts TimeSeries) column(f func(Record) float64) []float64 {
	col := make([]float64, len(ts.Records))
	for i, r := range ts.Records {
		col[i] = f(r)
	}
	return col
}

// Summary stores the main figures of a flight.
type Summary struct {
	Apogee      float64 // m
	ApogeeTime  float64 // s
	MaxSpeed    float64 // m/s
	MaxMach     float64
	BurnoutTime float64 // s, end of the last powered step, negative if the motor never burned out
	FlightTime  float64 // s
	Reason      Termination
}

// Summary returns the summary of this flight.
func (ts TimeSeries) Summary() Summary {
	s := Summary{BurnoutTime: -1, Reason: ts.Reason}
	if len(ts.Records) == 0 {
		return s
	}
	s.Apogee = math.Inf(-1)
	for i, r := range ts.Records {
		if r.Altitude > s.Apogee {
			s.Apogee = r.Altitude
			s.ApogeeTime = r.Time
		}
		if speed := math.Abs(r.Velocity); speed > s.MaxSpeed {
			s.MaxSpeed = speed
		}
		if mach := math.Abs(r.Mach); mach > s.MaxMach {
			s.MaxMach = mach
		}
		if s.BurnoutTime < 0 && r.Thrust == 0 {
			// The mass went below the dry mass during the previous step.
			s.BurnoutTime = 0
			if i > 0 {
				s.BurnoutTime = ts.Records[i-1].Time
			}
		}
	}
	s.FlightTime = ts.Records[len(ts.Records)-1].Time
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("apogee %.2f m @ %.2f s, max speed %.2f m/s (Mach %.3f), burnout @ %.2f s, %s after %.2f s", s.Apogee, s.ApogeeTime, s.MaxSpeed, s.MaxMach, s.BurnoutTime, s.Reason, s.FlightTime)
}
