package rocketsim

import (
	"errors"
	"fmt"
	"math"
)

const (
	g0          = 9.81      // standard gravity (m/s^2), used for Isp and thrust to weight ratios
	gravConst   = 6.674e-11 // m^3/(kg s^2)
	earthMass   = 5.972e24  // kg
	earthRadius = 6371000.0 // m
)

var (
	// ErrInvalidMass is returned when the dry mass is not strictly between zero and the initial mass.
	ErrInvalidMass = errors.New("dry mass must be positive and less than the initial mass")
	// ErrInvalidThrust is returned for a non positive thrust.
	ErrInvalidThrust = errors.New("thrust must be positive")
	// ErrInvalidMassFlow is returned for a non positive mass flow rate.
	ErrInvalidMassFlow = errors.New("mass flow rate must be positive")
	// ErrInvalidGeometry is returned for a non positive cross sectional area.
	ErrInvalidGeometry = errors.New("cross sectional area must be positive")
	// ErrInvalidDrag is returned for a non positive drag coefficient.
	ErrInvalidDrag = errors.New("drag coefficient must be positive")
)

// Gravity returns the gravitational acceleration (m/s^2) at the provided altitude.
func Gravity(altitude float64) float64 {
	return gravConst * earthMass / math.Pow(altitude+earthRadius, 2)
}

// Rocket defines a single stage rocket. It is not modified during a flight.
type Rocket struct {
	Name        string
	InitialMass float64 // kg, with propellant
	DryMass     float64 // kg, at burnout
	Thrust      float64 // N, while propellant remains
	MassFlow    float64 // kg/s
	C0          float64 // reference (incompressible) drag coefficient
	Diameter    float64 // m
	Area        float64 // m^2, cross sectional
	TWR         float64 // nominal thrust to weight ratio at liftoff
	Isp         float64 // s
}

// NewRocket returns a new validated rocket propelled by the provided motor.
func NewRocket(name string, initialMass, dryMass, diameter, c0 float64, motor Motor) (Rocket, error) {
	thrust, isp := motor.Thrust()
	r := Rocket{
		Name:        name,
		InitialMass: initialMass,
		DryMass:     dryMass,
		Thrust:      thrust,
		C0:          c0,
		Diameter:    diameter,
		Area:        math.Pi * math.Pow(diameter/2, 2),
		Isp:         isp,
	}
	if isp > 0 {
		r.MassFlow = MassFlowRate(motor)
	}
	if initialMass > 0 {
		r.TWR = thrust / (initialMass * g0)
	}
	if err := r.Validate(); err != nil {
		return Rocket{}, fmt.Errorf("rocket `%s`: %w", name, err)
	}
	return r, nil
}

// DefaultRocket returns the reference 1.5 kg rocket: thrust to weight of 5, 0.5 kg of propellant,
// 10 cm diameter, Cd of 0.75.
func DefaultRocket() Rocket {
	r, err := NewRocket("default", 1.5, 1.0, 0.1, 0.75, NewTWRMotor(5, 1.5, 5*g0))
	if err != nil {
		panic(err)
	}
	return r
}

// Validate returns an error if this rocket cannot be flown.
func (r Rocket) Validate() error {
	if r.DryMass <= 0 || r.DryMass >= r.InitialMass {
		return ErrInvalidMass
	}
	if r.Thrust <= 0 {
		return ErrInvalidThrust
	}
	if r.MassFlow <= 0 {
		return ErrInvalidMassFlow
	}
	if r.Area <= 0 {
		return ErrInvalidGeometry
	}
	if r.C0 <= 0 {
		return ErrInvalidDrag
	}
	return nil
}

// Propellant returns the propellant mass (kg).
func (r Rocket) Propellant() float64 {
	return r.InitialMass - r.DryMass
}

// BurnTime returns the nominal burn duration in seconds.
func (r Rocket) BurnTime() float64 {
	return r.Propellant() / r.MassFlow
}

func (r Rocket) String() string {
	return fmt.Sprintf("%s: m0=%.3f kg dry=%.3f kg F=%.3f N ṁ=%.5f kg/s Cd=%.3f d=%.3f m TWR=%.2f Isp=%.2f s", r.Name, r.InitialMass, r.DryMass, r.Thrust, r.MassFlow, r.C0, r.Diameter, r.TWR, r.Isp)
}
