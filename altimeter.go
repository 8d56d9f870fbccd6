package rocketsim

import (
	"fmt"
	"io"
	"math"
	"math/rand"

	"github.com/gonum/matrix/mat64"
	"github.com/gonum/stat/distmv"
)

const seaLevelPressure = 101325.0 // Pa

// Altimeter defines a barometric altimeter flown on the rocket.
type Altimeter struct {
	Sigma float64 // pressure noise standard deviation (Pa)
	Rate  float64 // s between two samples, every record if not positive
	noise *distmv.Normal
}

// NewAltimeter returns a new altimeter. The noise is only seeded once, so two altimeters
// with the same seed return the same measurements for the same flight.
func NewAltimeter(sigma float64, seed int64, rate float64) Altimeter {
	a := Altimeter{Sigma: sigma, Rate: rate}
	if sigma > 0 {
		noise, ok := distmv.NewNormal([]float64{0}, mat64.NewSymDense(1, []float64{sigma * sigma}), rand.New(rand.NewSource(seed)))
		if !ok {
			panic("NOK in Gaussian")
		}
		a.noise = noise
	}
	return a
}

// Sample measures the pressure along the flight and converts it to an altitude.
func (a Altimeter) Sample(ts TimeSeries) []Measurement {
	var ms []Measurement
	next := math.Inf(-1)
	for _, r := range ts.Records {
		if r.Time < next-1e-9 {
			continue
		}
		P := r.Pressure
		if a.noise != nil {
			P += a.noise.Rand(nil)[0]
		}
		ms = append(ms, Measurement{Time: r.Time, TrueAltitude: r.Altitude, Pressure: P, Altitude: PressureAltitude(P)})
		if a.Rate > 0 {
			next = r.Time + a.Rate
		}
	}
	return ms
}

func (a Altimeter) String() string {
	return fmt.Sprintf("altimeter σ=%.3f Pa every %.3f s", a.Sigma, a.Rate)
}

// PressureAltitude returns the altitude (m) of the provided pressure (Pa) in the lowest layer
// of the standard atmosphere. It returns NaN for non positive pressures.
func PressureAltitude(pressure float64) float64 {
	if pressure <= 0 {
		return math.NaN()
	}
	return 1000 * 288.15 / 6.5 * (1 - math.Pow(pressure/seaLevelPressure, 6.5/hydrostaticConst))
}

// Measurement stores an altimeter measurement.
type Measurement struct {
	Time         float64 // s
	TrueAltitude float64 // m
	Pressure     float64 // Pa, noisy
	Altitude     float64 // m, from the noisy pressure
}

// CSV returns the data as CSV (does *not* include the new line)
func (m Measurement) CSV() string {
	return fmt.Sprintf("%f,%f,%f,%f", m.Time, m.TrueAltitude, m.Pressure, m.Altitude)
}

func (m Measurement) String() string {
	return fmt.Sprintf("t=%.3f s P=%.3f Pa z=%.3f m (true %.3f m)", m.Time, m.Pressure, m.Altitude, m.TrueAltitude)
}

// WriteMeasurementsCSV writes the measurements as CSV to w.
func WriteMeasurementsCSV(w io.Writer, ms []Measurement) error {
	if _, err := fmt.Fprintln(w, "time,true_altitude,pressure,altitude"); err != nil {
		return err
	}
	for _, m := range ms {
		if _, err := fmt.Fprintln(w, m.CSV()); err != nil {
			return err
		}
	}
	return nil
}

// ApogeeFromMeasurements returns the highest measured altitude and its time.
// It returns ok=false if no measurement is usable.
func ApogeeFromMeasurements(ms []Measurement) (apogee, t float64, ok bool) {
	apogee = math.Inf(-1)
	for _, m := range ms {
		if m.Altitude > apogee {
			apogee, t, ok = m.Altitude, m.Time, true
		}
	}
	return
}
