package rocketsim

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestAtmosphereSeaLevel(t *testing.T) {
	air := Atmosphere(0)
	if air.Temperature != 288.15 {
		t.Fatalf("T0=%f", air.Temperature)
	}
	if air.Pressure != 101325 {
		t.Fatalf("P0=%f", air.Pressure)
	}
	assertWithinRel(t, "rho0", air.Density, 1.22655, 1e-5)
}

func TestAtmosphereKnownValues(t *testing.T) {
	for _, exp := range []struct {
		altitude float64
		sample   AtmosphereSample
	}{
		{5000, AtmosphereSample{0.737048, 255.65, 54019.907}},
		{11000, AtmosphereSample{0.364379, 216.65, 22632.059}},
		{-500, AtmosphereSample{1.286518, 291.4, 107477.508}},
		{90000, AtmosphereSample{3.416295e-6, 186.8673, 0.1835941}},
		{95000, AtmosphereSample{1.393520e-6, 188.418276, 0.0759611}},
	} {
		air := Atmosphere(exp.altitude)
		assertWithinRel(t, "density", air.Density, exp.sample.Density, 1e-5)
		assertWithinRel(t, "temperature", air.Temperature, exp.sample.Temperature, 1e-6)
		assertWithinRel(t, "pressure", air.Pressure, exp.sample.Pressure, 1e-6)
	}
}

func TestAtmosphereContinuity(t *testing.T) {
	// 86 km is where the tabulated fits take over, and they do not match the lower layers.
	for _, boundary := range []struct {
		km, tol float64
	}{{11, 1e-3}, {20, 1e-3}, {32, 1e-3}, {47, 1e-3}, {51, 1e-3}, {71, 1e-3}, {91, 1e-2}, {100, 1e-2}, {110, 1e-2}, {120, 1e-2}} {
		below := Atmosphere(boundary.km * 1000)
		above := Atmosphere(boundary.km*1000 + 0.1)
		if !floats.EqualWithinRel(below.Density, above.Density, boundary.tol) {
			t.Errorf("density discontinuous at %.0f km: %g != %g", boundary.km, below.Density, above.Density)
		}
		if !floats.EqualWithinRel(below.Temperature, above.Temperature, boundary.tol) {
			t.Errorf("temperature discontinuous at %.0f km: %g != %g", boundary.km, below.Temperature, above.Temperature)
		}
		if !floats.EqualWithinRel(below.Pressure, above.Pressure, boundary.tol) {
			t.Errorf("pressure discontinuous at %.0f km: %g != %g", boundary.km, below.Pressure, above.Pressure)
		}
	}
	// Only the density is continuous at the top of the fits.
	if below, above := Atmosphere(150e3), Atmosphere(150e3+0.1); !floats.EqualWithinRel(below.Density, above.Density, 1e-3) {
		t.Errorf("density discontinuous at 150 km: %g != %g", below.Density, above.Density)
	}
}

func TestAtmosphereExosphere(t *testing.T) {
	for _, altitude := range []float64{150001, 200e3, 1e6} {
		air := Atmosphere(altitude)
		if air.Density != exosphereDensity {
			t.Fatalf("density @ %f = %g", altitude, air.Density)
		}
		if air.Pressure != 0 {
			t.Fatalf("pressure @ %f = %g", altitude, air.Pressure)
		}
		if air.Temperature < 634 || air.Temperature > 1000 {
			t.Fatalf("temperature @ %f = %g", altitude, air.Temperature)
		}
	}
}

func TestAtmosphereTotal(t *testing.T) {
	for altitude := -1000.0; altitude <= 300e3; altitude += 250 {
		air := Atmosphere(altitude)
		if math.IsNaN(air.Density) || math.IsNaN(air.Temperature) || math.IsNaN(air.Pressure) {
			t.Fatalf("NaN @ %f m: %+v", altitude, air)
		}
		if air.Density <= 0 || air.Temperature <= 0 || air.Pressure < 0 {
			t.Fatalf("non physical @ %f m: %+v", altitude, air)
		}
		if air != Atmosphere(altitude) {
			t.Fatalf("not deterministic @ %f m", altitude)
		}
	}
}

func TestAtmosphereDensityDecreases(t *testing.T) {
	prev := Atmosphere(0).Density
	for altitude := 1000.0; altitude <= 86e3; altitude += 1000 {
		rho := Atmosphere(altitude).Density
		if rho >= prev {
			t.Fatalf("density increased @ %f m", altitude)
		}
		prev = rho
	}
}
