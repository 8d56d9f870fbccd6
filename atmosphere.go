package rocketsim

import "math"

const (
	molarMassAir = 0.029 // kg/mol
	gasConstant  = 8.314 // J/(mol K)
	// Density (kg/m^3) used at and above the last fitted band.
	exosphereDensity = 2.0763e-9
	// hydrostaticConst is g0*M/R* expressed for altitudes in km (K/km).
	hydrostaticConst = 34.1632
)

// AtmosphereSample stores the properties of the air at a given altitude.
type AtmosphereSample struct {
	Density     float64 // kg/m^3
	Temperature float64 // K
	Pressure    float64 // Pa
}

// Atmosphere returns the density, temperature and pressure at the provided altitude (in meters)
// from a piecewise standard atmosphere.
// Up to 86 km, each layer has either a linear temperature lapse or is isothermal, and the density
// follows from the ideal gas law. Above that, pressure and density come from exponential fits.
// Negative altitudes are evaluated with the lowest layer.
func Atmosphere(altitude float64) AtmosphereSample {
	h := altitude / 1000
	if h > 86 {
		return upperAtmosphere(h)
	}
	var T, P float64
	switch {
	case h <= 11:
		T = 288.15 - 6.5*h
		P = 101325 * math.Pow(288.15/(288.15-6.5*h), hydrostaticConst/-6.5)
	case h <= 20:
		T = 216.65
		P = 22632.06 * math.Exp(-hydrostaticConst*(h-11)/216.65)
	case h <= 32:
		// Unlike the other layers, this temperature is written with the altitude in meters.
		T = 196.65 + 0.001*altitude
		P = 5474.889 * math.Pow(216.65/(216.65+(h-20)), hydrostaticConst)
	case h <= 47:
		T = 139.05 + 2.8*h
		P = 868.0187 * math.Pow(228.65/(228.65+2.8*(h-32)), hydrostaticConst/2.8)
	case h <= 51:
		T = 270.65
		P = 110.9063 * math.Exp(-hydrostaticConst*(h-47)/270.65)
	case h <= 71:
		T = 413.45 - 2.8*h
		P = 66.93887 * math.Pow(270.65/(270.65-2.8*(h-51)), hydrostaticConst/-2.8)
	default:
		T = 356.65 - 2.0*h
		P = 3.956420 * math.Pow(214.65/(214.65-2*(h-71)), hydrostaticConst/-2)
	}
	return AtmosphereSample{Density: (molarMassAir * P) / (gasConstant * T), Temperature: T, Pressure: P}
}

// atmosphereFit stores the coefficients of exp(A h^4 + B h^3 + C h^2 + D h + E) for the pressure
// and the density of a layer, valid up to `ceiling` km.
type atmosphereFit struct {
	ceiling  float64
	pressure [5]float64
	density  [5]float64
}

func polyExp(coeffs [5]float64, h float64) float64 {
	return math.Exp(coeffs[0]*math.Pow(h, 4) + coeffs[1]*math.Pow(h, 3) + coeffs[2]*math.Pow(h, 2) + coeffs[3]*h + coeffs[4])
}

// upperFits must be sorted by ceiling.
var upperFits = []atmosphereFit{
	{91,
		[5]float64{0, 2.159582e-6, -4.836957e-4, -0.1425192, 13.47530},
		[5]float64{0, -3.322622e-6, 9.111460e-4, -0.2609971, 5.944694}},
	{100,
		[5]float64{0, 3.304895e-5, -0.009062730, 0.6516698, -11.03037},
		[5]float64{0, 2.873405e-5, -0.008492037, 0.6541179, -23.62010}},
	{110,
		[5]float64{0, 6.693926e-5, -0.01945388, 1.719080, -47.75030},
		[5]float64{-1.240774e-5, 0.005162063, -0.8048342, 55.55996, -1443.338}},
	{120,
		[5]float64{0, -6.539316e-5, 0.02485568, -3.223620, 135.9355},
		[5]float64{0, -8.854164e-5, 0.03373254, -4.390837, 176.5294}},
	{150,
		[5]float64{2.283506e-7, -1.343221e-4, 0.02999016, -3.055446, 113.5764},
		[5]float64{3.661771e-7, -2.154344e-4, 0.04809214, -4.884744, 172.3597}},
}

// upperAtmosphere handles altitudes above 86 km (h in km).
func upperAtmosphere(h float64) AtmosphereSample {
	T := upperTemperature(h)
	for _, fit := range upperFits {
		if h <= fit.ceiling {
			return AtmosphereSample{Density: polyExp(fit.density, h), Temperature: T, Pressure: polyExp(fit.pressure, h)}
		}
	}
	return AtmosphereSample{Density: exosphereDensity, Temperature: T, Pressure: 0}
}

func upperTemperature(h float64) float64 {
	switch {
	case h <= 91:
		return 186.8673
	case h <= 110:
		return 263.1905 - 76.3232*math.Sqrt(1-math.Pow((h-91)/-19.9429, 2))
	case h <= 120:
		return 240 + 12*(h-110)
	default:
		return 1000 - 640*math.Exp(-0.01875*((h-120)*(6356.766+120)/(6356.766+h)))
	}
}
