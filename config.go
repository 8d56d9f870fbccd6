package rocketsim

import (
	"fmt"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/spf13/viper"
)

// Scenario defines everything needed to fly, export and post process a flight.
type Scenario struct {
	Rocket     Rocket
	Step       float64 // s
	Duration   float64 // s
	Scheme     Scheme
	Launch     time.Time
	OutputDir  string
	Export     ExportConfig
	Dispersion Dispersion
	Altimeter  AltimeterConfig
}

// AltimeterConfig configures the altimeter of a scenario.
type AltimeterConfig struct {
	Enabled bool
	Sigma   float64 // Pa
	Rate    float64 // s
	Seed    int64
}

// Altimeter returns the configured altimeter.
func (c AltimeterConfig) Altimeter() Altimeter {
	return NewAltimeter(c.Sigma, c.Seed, c.Rate)
}

// Flight returns a new flight of this scenario.
func (s Scenario) Flight() (*Flight, error) {
	return NewFlight(s.Rocket, s.Step, s.Duration, s.Scheme, nil)
}

func setDefaults(v *viper.Viper) {
	def := DefaultRocket()
	v.SetDefault("rocket.name", def.Name)
	v.SetDefault("rocket.mass", def.InitialMass)
	v.SetDefault("rocket.dry", def.DryMass)
	v.SetDefault("rocket.diameter", def.Diameter)
	v.SetDefault("rocket.cd", def.C0)
	v.SetDefault("rocket.twr", 5.0)
	v.SetDefault("rocket.thrust", 0)
	v.SetDefault("rocket.isp", def.Isp)
	v.SetDefault("simulation.step", 0.1)
	v.SetDefault("simulation.duration", 10.0)
	v.SetDefault("simulation.scheme", EulerCromer.String())
	v.SetDefault("general.output_path", ".")
	v.SetDefault("export.csv", false)
	v.SetDefault("export.timestamp", false)
	v.SetDefault("dispersion.runs", 100)
	v.SetDefault("dispersion.seed", 1)
	v.SetDefault("dispersion.workers", 4)
	v.SetDefault("altimeter.enabled", false)
	v.SetDefault("altimeter.sigma", 10.0)
	v.SetDefault("altimeter.rate", 0.5)
	v.SetDefault("altimeter.seed", 1)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("rocketsim")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadScenario reads the TOML scenario at the provided path.
// Unset keys default to the reference rocket flown for ten seconds, and any key may be overridden
// from the environment, e.g. ROCKETSIM_SIMULATION_STEP.
func LoadScenario(path string) (Scenario, error) {
	v := newViper()
	v.SetConfigFile(path)
	if !strings.HasSuffix(path, ".toml") {
		v.SetConfigType("toml")
	}
	if err := v.ReadInConfig(); err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	sc, err := scenarioFrom(v)
	if err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// DefaultScenario returns the scenario used when no file is provided.
func DefaultScenario() Scenario {
	sc, err := scenarioFrom(newViper())
	if err != nil {
		panic(err)
	}
	return sc
}

func scenarioFrom(v *viper.Viper) (sc Scenario, err error) {
	// Read rocket
	name := v.GetString("rocket.name")
	mass := v.GetFloat64("rocket.mass")
	isp := v.GetFloat64("rocket.isp")
	var motor Motor
	if thrust := v.GetFloat64("rocket.thrust"); thrust > 0 {
		motor = NewGenericMotor(thrust, isp)
	} else {
		motor = NewTWRMotor(v.GetFloat64("rocket.twr"), mass, isp)
	}
	if sc.Rocket, err = NewRocket(name, mass, v.GetFloat64("rocket.dry"), v.GetFloat64("rocket.diameter"), v.GetFloat64("rocket.cd"), motor); err != nil {
		return
	}

	// Read simulation parameters
	sc.Step = v.GetFloat64("simulation.step")
	sc.Duration = v.GetFloat64("simulation.duration")
	if err = checkStep(sc.Rocket, sc.Step, sc.Duration); err != nil {
		return Scenario{}, err
	}
	if sc.Scheme, err = SchemeFromString(v.GetString("simulation.scheme")); err != nil {
		return Scenario{}, err
	}
	sc.Launch = readJDEorTime(v, "simulation.launch")

	// Read export
	sc.OutputDir = v.GetString("general.output_path")
	sc.Export = ExportConfig{Filename: v.GetString("export.filename"), AsCSV: v.GetBool("export.csv"), Timestamp: v.GetBool("export.timestamp")}
	if sc.Export.Filename == "" {
		sc.Export.Filename = name
	}

	// Read dispersion
	sc.Dispersion = Dispersion{
		Runs:        v.GetInt("dispersion.runs"),
		Seed:        v.GetInt64("dispersion.seed"),
		Workers:     v.GetInt("dispersion.workers"),
		ThrustSigma: v.GetFloat64("dispersion.thrust_sigma"),
		DragSigma:   v.GetFloat64("dispersion.cd_sigma"),
		MassSigma:   v.GetFloat64("dispersion.mass_sigma"),
	}
	if err = sc.Dispersion.Validate(); err != nil {
		return Scenario{}, err
	}

	// Read altimeter
	sc.Altimeter = AltimeterConfig{
		Enabled: v.GetBool("altimeter.enabled"),
		Sigma:   v.GetFloat64("altimeter.sigma"),
		Rate:    v.GetFloat64("altimeter.rate"),
		Seed:    v.GetInt64("altimeter.seed"),
	}
	if sc.Altimeter.Sigma < 0 {
		return Scenario{}, fmt.Errorf("altimeter sigma must not be negative, got %f", sc.Altimeter.Sigma)
	}
	return sc, nil
}

// readJDEorTime reads either a Julian date or a date time. Unset keys return the current UTC time.
func readJDEorTime(v *viper.Viper, key string) time.Time {
	if !v.IsSet(key) {
		return time.Now().UTC()
	}
	if jde := v.GetFloat64(key); jde != 0 {
		return julian.JDToTime(jde)
	}
	return v.GetTime(key).UTC()
}
