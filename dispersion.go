package rocketsim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/DivakarGC/rocketsim/internal/metrics"
	kitlog "github.com/go-kit/kit/log"
	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
	"github.com/gonum/stat"
	"github.com/gonum/stat/distmv"
)

// ErrNoValidRun is returned when none of the dispersed rockets could be flown.
var ErrNoValidRun = errors.New("no valid dispersion run")

// Dispersion defines a Monte Carlo analysis around a nominal rocket.
// The sigmas are relative: a ThrustSigma of 0.05 is a 5% 1-σ error on the thrust.
type Dispersion struct {
	Runs        int
	Seed        int64
	Workers     int // defaults to the number of CPUs
	ThrustSigma float64
	DragSigma   float64 // on the reference drag coefficient
	MassSigma   float64 // on the propellant mass
}

// Validate returns an error if this dispersion cannot be run.
func (d Dispersion) Validate() error {
	if d.Runs <= 0 {
		return fmt.Errorf("dispersion runs must be positive, got %d", d.Runs)
	}
	if d.Workers < 0 {
		return fmt.Errorf("dispersion workers must not be negative, got %d", d.Workers)
	}
	if d.ThrustSigma < 0 || d.DragSigma < 0 || d.MassSigma < 0 {
		return errors.New("dispersion sigmas must not be negative")
	}
	return nil
}

// DispersionRun is the outcome of one dispersed flight.
type DispersionRun struct {
	Index   int
	Rocket  Rocket
	Summary Summary
	Err     error // set if the rocket could not be flown
}

// DispersionResult stores all the runs of a dispersion and the statistics of the valid ones.
type DispersionResult struct {
	Runs           []DispersionRun // sorted by index
	Valid, Invalid int
	Crashed        int
	Diverged       int
	ApogeeMean     float64
	ApogeeStdDev   float64
	ApogeeMin      float64
	ApogeeMax      float64
	ApogeeTimeMean float64
}

func (r DispersionResult) String() string {
	return fmt.Sprintf("%d runs (%d invalid, %d crashed, %d diverged): apogee %.2f ± %.2f m [%.2f, %.2f], t=%.2f s", len(r.Runs), r.Invalid, r.Crashed, r.Diverged, r.ApogeeMean, r.ApogeeStdDev, r.ApogeeMin, r.ApogeeMax, r.ApogeeTimeMean)
}

// Rockets returns the dispersed rockets. The draws only depend on the seed and the number of runs.
// The error of each rocket which fails validation is returned at the same index.
func (d Dispersion) Rockets(nominal Rocket) ([]Rocket, []error) {
	// Standard normal draws, scaled by each relative sigma.
	normal, ok := distmv.NewNormal(make([]float64, 3), mat64.NewSymDense(3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}), rand.New(rand.NewSource(d.Seed)))
	if !ok {
		panic("NOK in Gaussian")
	}
	rockets := make([]Rocket, d.Runs)
	errs := make([]error, d.Runs)
	for i := range rockets {
		δ := normal.Rand(nil)
		thrust := disperse(nominal.Thrust, d.ThrustSigma, δ[0])
		c0 := disperse(nominal.C0, d.DragSigma, δ[1])
		mass := nominal.InitialMass
		if d.MassSigma != 0 {
			mass = nominal.DryMass + disperse(nominal.Propellant(), d.MassSigma, δ[2])
		}
		rockets[i], errs[i] = NewRocket(fmt.Sprintf("%s-%04d", nominal.Name, i), mass, nominal.DryMass, nominal.Diameter, c0, NewGenericMotor(thrust, nominal.Isp))
	}
	return rockets, errs
}

func disperse(nominal, sigma, δ float64) float64 {
	if sigma == 0 {
		return nominal
	}
	return nominal * (1 + sigma*δ)
}

// dispersionJob is a unit of work for the worker pool.
type dispersionJob struct {
	index  int
	rocket Rocket
}

// Run flies all the dispersed rockets on a pool of workers and returns the statistics of the runs.
func (d Dispersion) Run(ctx context.Context, nominal Rocket, dt, duration float64, scheme Scheme, logger kitlog.Logger) (DispersionResult, error) {
	if err := d.Validate(); err != nil {
		return DispersionResult{}, err
	}
	if dt <= 0 || duration <= 0 {
		return DispersionResult{}, ErrInvalidStep
	}
	if scheme == 0 {
		scheme = EulerCromer
	}
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	workers := d.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	rockets, errs := d.Rockets(nominal)
	runs := make([]DispersionRun, 0, d.Runs)
	jobs := make(chan dispersionJob, workers*2)
	results := make(chan DispersionRun, workers*2)

	// Start workers.
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				select {
				case results <- flyDispersed(job, dt, duration, scheme):
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	// Feed the valid rockets.
	go func() {
		defer close(jobs)
		for i, r := range rockets {
			if errs[i] != nil {
				continue
			}
			select {
			case jobs <- dispersionJob{i, r}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for i, err := range errs {
		if err != nil {
			metrics.ObserveInvalidRocket()
			logger.Log("level", "warning", "subsys", "dispersion", "run", i, "err", err)
			runs = append(runs, DispersionRun{Index: i, Rocket: rockets[i], Err: err})
		}
	}
	for run := range results {
		runs = append(runs, run)
	}
	if err := ctx.Err(); err != nil {
		return DispersionResult{}, err
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Index < runs[j].Index })

	res := DispersionResult{Runs: runs}
	var apogees, apogeeTimes []float64
	for _, run := range runs {
		if run.Err != nil {
			res.Invalid++
			continue
		}
		res.Valid++
		switch run.Summary.Reason {
		case Crashed:
			res.Crashed++
		case Diverged:
			res.Diverged++
		}
		apogees = append(apogees, run.Summary.Apogee)
		apogeeTimes = append(apogeeTimes, run.Summary.ApogeeTime)
	}
	if len(apogees) == 0 {
		return res, ErrNoValidRun
	}
	res.ApogeeMean = stat.Mean(apogees, nil)
	res.ApogeeTimeMean = stat.Mean(apogeeTimes, nil)
	if len(apogees) > 1 {
		res.ApogeeStdDev = stat.StdDev(apogees, nil)
	}
	res.ApogeeMin = floats.Min(apogees)
	res.ApogeeMax = floats.Max(apogees)
	logger.Log("level", "notice", "subsys", "dispersion", "runs", len(runs), "invalid", res.Invalid, "crashed", res.Crashed, "diverged", res.Diverged, "apogee(m)", res.ApogeeMean, "σ(m)", res.ApogeeStdDev)
	return res, nil
}

// flyDispersed flies one validated rocket.
func flyDispersed(job dispersionJob, dt, duration float64, scheme Scheme) DispersionRun {
	start := time.Now()
	f, err := NewFlight(job.rocket, dt, duration, scheme, nil)
	if err != nil {
		metrics.ObserveInvalidRocket()
		return DispersionRun{Index: job.index, Rocket: job.rocket, Err: err}
	}
	sum := f.Run().Summary()
	metrics.ObserveFlight(scheme.String(), sum.Reason.String(), time.Since(start), sum.Apogee)
	return DispersionRun{Index: job.index, Rocket: job.rocket, Summary: sum}
}
