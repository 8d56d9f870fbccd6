package rocketsim

import "fmt"

// Motor defines a rocket motor interface.
type Motor interface {
	// Returns the thrust in Newtons and the specific impulse in seconds.
	Thrust() (thrust, isp float64)
}

/* Available motors */

// GenericMotor is a constant thrust motor.
type GenericMotor struct {
	thrust float64
	isp    float64
}

// Thrust implements the Motor interface.
func (m *GenericMotor) Thrust() (thrust, isp float64) {
	return m.thrust, m.isp
}

func (m *GenericMotor) String() string {
	return fmt.Sprintf("%.3f N (Isp = %.2f s)", m.thrust, m.isp)
}

// NewGenericMotor returns a generic constant thrust motor.
func NewGenericMotor(thrust, isp float64) *GenericMotor {
	return &GenericMotor{thrust, isp}
}

// NewTWRMotor returns a motor whose thrust lifts `mass` (kg) with the provided thrust to weight ratio.
func NewTWRMotor(twr, mass, isp float64) *GenericMotor {
	return &GenericMotor{twr * mass * g0, isp}
}

// MassFlowRate returns the propellant mass flow rate (kg/s) of the provided motor.
func MassFlowRate(m Motor) float64 {
	thrust, isp := m.Thrust()
	return thrust / (isp * g0)
}
