package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/DivakarGC/rocketsim"
	kitlog "github.com/go-kit/kit/log"
)

// This code reads the scenario, flies the rocket and exports the results.

var (
	scenario string
	verbose  bool
)

func init() {
	flag.StringVar(&scenario, "scenario", "", "flight scenario TOML file (defaults to the reference rocket)")
	flag.BoolVar(&verbose, "verbose", false, "log the flight status")
}

func main() {
	flag.Parse()
	if scenario == "" {
		scenario = os.Getenv("ROCKETSIM_SCENARIO")
	}
	// Load scenario
	sc := rocketsim.DefaultScenario()
	if scenario != "" {
		var err error
		if sc, err = rocketsim.LoadScenario(scenario); err != nil {
			log.Fatalf("could not load scenario: %s", err)
		}
	}

	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)
	flightLogger := kitlog.NewNopLogger()
	if verbose {
		flightLogger = logger
		logger.Log("level", "info", "subsys", "conf", "rocket", sc.Rocket, "step(s)", sc.Step, "duration(s)", sc.Duration, "scheme", sc.Scheme)
	}

	f, err := rocketsim.NewFlight(sc.Rocket, sc.Step, sc.Duration, sc.Scheme, flightLogger)
	if err != nil {
		log.Fatalf("could not create flight: %s", err)
	}
	ts := f.Run()
	sum := ts.Summary()
	logger.Log("level", "notice", "subsys", "flight", "rocket", sc.Rocket.Name, "apogee(m)", sum.Apogee, "apogee(s)", sum.ApogeeTime, "maxV(m/s)", sum.MaxSpeed, "maxMach", sum.MaxMach, "burnout(s)", sum.BurnoutTime, "end", sum.Reason, "t(s)", sum.FlightTime)

	path, err := rocketsim.Export(sc.Export, sc.OutputDir, ts, sc.Launch)
	if err != nil {
		log.Fatalf("could not export flight: %s", err)
	}
	if path != "" {
		logger.Log("level", "info", "subsys", "export", "file", path)
	}

	if sc.Altimeter.Enabled {
		ms := sc.Altimeter.Altimeter().Sample(ts)
		if apogee, t, ok := rocketsim.ApogeeFromMeasurements(ms); ok {
			logger.Log("level", "notice", "subsys", "altimeter", "apogee(m)", apogee, "apogee(s)", t, "error(m)", apogee-sum.Apogee, "samples", len(ms))
		} else {
			logger.Log("level", "warning", "subsys", "altimeter", "status", "no usable measurement")
		}
		if sc.Export.AsCSV {
			exportMeasurements(logger, filepath.Join(sc.OutputDir, "altimeter-"+sc.Export.Filename+".csv"), ms)
		}
	}
}

func exportMeasurements(logger kitlog.Logger, path string, ms []rocketsim.Measurement) {
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("could not export altimeter: %s", err)
	}
	defer f.Close()
	if err := rocketsim.WriteMeasurementsCSV(f, ms); err != nil {
		log.Fatalf("could not export altimeter: %s", err)
	}
	logger.Log("level", "info", "subsys", "export", "file", path)
}
