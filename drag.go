package rocketsim

import "math"

const (
	heatCapacityRatio   = 1.4
	specificGasConstant = 287 // J/(kg K)
	// sonicMach replaces a Mach number of exactly one.
	sonicMach = 0.99999
)

// SpeedOfSound returns the speed of sound (m/s) in air at the provided temperature (K).
func SpeedOfSound(temperature float64) float64 {
	return math.Sqrt(heatCapacityRatio * specificGasConstant * temperature)
}

// Mach returns the signed Mach number of the provided velocity.
func Mach(velocity, temperature float64) float64 {
	return velocity / SpeedOfSound(temperature)
}

// DragCoefficient returns the drag coefficient corrected for compressibility with the
// Prandtl-Glauert rule. The correction only applies below Mach 1 (signed); supersonic flight
// uses the base coefficient.
// NOTE: a Mach of exactly -1 is not substituted and yields +Inf, and descents faster than Mach 1
// yield NaN.
func DragCoefficient(velocity, temperature, c0 float64) float64 {
	mach := Mach(velocity, temperature)
	if mach == 1 {
		mach = sonicMach
	}
	if mach < 1 {
		return c0 / math.Sqrt(1-mach*mach)
	}
	return c0
}
