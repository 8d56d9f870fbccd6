package rocketsim

import (
	"context"
	"errors"
	"testing"
)

func TestDispersionZeroSigma(t *testing.T) {
	nominal := flyDefault(t).Summary()
	d := Dispersion{Runs: 8, Seed: 1, Workers: 3}
	res, err := d.Run(context.Background(), DefaultRocket(), 0.1, 10, EulerCromer, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Runs) != 8 || res.Valid != 8 || res.Invalid != 0 {
		t.Fatalf("unexpected result: %s", res)
	}
	for i, run := range res.Runs {
		if run.Index != i {
			t.Fatalf("runs not sorted: #%d @ %d", run.Index, i)
		}
		if run.Summary != nominal {
			t.Fatalf("run #%d differs from the nominal flight: %s", i, run.Summary)
		}
	}
	if res.ApogeeMean != nominal.Apogee || res.ApogeeMin != nominal.Apogee || res.ApogeeMax != nominal.Apogee || res.ApogeeStdDev != 0 {
		t.Fatalf("unexpected statistics: %s", res)
	}
}

func TestDispersionDeterministic(t *testing.T) {
	d := Dispersion{Runs: 40, Seed: 1234, Workers: 4, ThrustSigma: 0.05, DragSigma: 0.1, MassSigma: 0.02}
	res1, err := d.Run(context.Background(), DefaultRocket(), 0.1, 10, EulerCromer, nil)
	if err != nil {
		t.Fatal(err)
	}
	d.Workers = 1
	res2, err := d.Run(context.Background(), DefaultRocket(), 0.1, 10, EulerCromer, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := range res1.Runs {
		if res1.Runs[i].Summary != res2.Runs[i].Summary || res1.Runs[i].Rocket != res2.Runs[i].Rocket {
			t.Fatalf("run #%d depends on the number of workers", i)
		}
	}
	if res1.ApogeeStdDev <= 0 || res1.ApogeeMin >= res1.ApogeeMax {
		t.Fatalf("no dispersion: %s", res1)
	}
	if res1.ApogeeMin > res1.ApogeeMean || res1.ApogeeMean > res1.ApogeeMax {
		t.Fatalf("mean out of bounds: %s", res1)
	}
	nominal := flyDefault(t).Summary().Apogee
	if res1.ApogeeMean < 0.8*nominal || res1.ApogeeMean > 1.2*nominal {
		t.Fatalf("mean apogee %f too far from nominal %f", res1.ApogeeMean, nominal)
	}
}

func TestDispersionRockets(t *testing.T) {
	nominal := DefaultRocket()
	rockets, errs := Dispersion{Runs: 5, Seed: 9, MassSigma: 0.1}.Rockets(nominal)
	for i, r := range rockets {
		if errs[i] != nil {
			t.Fatal(errs[i])
		}
		if r.Thrust != nominal.Thrust || r.C0 != nominal.C0 || r.DryMass != nominal.DryMass {
			t.Fatalf("rocket #%d: only the propellant should be dispersed: %s", i, r)
		}
		if r.InitialMass == nominal.InitialMass {
			t.Fatalf("rocket #%d: propellant not dispersed", i)
		}
	}
	// A huge thrust error yields rockets which cannot fly.
	_, errs = Dispersion{Runs: 50, Seed: 3, ThrustSigma: 2}.Rockets(nominal)
	invalid := 0
	for _, err := range errs {
		if errors.Is(err, ErrInvalidThrust) {
			invalid++
		}
	}
	if invalid == 0 {
		t.Fatal("expected some rockets without thrust")
	}
}

func TestDispersionInvalid(t *testing.T) {
	d := Dispersion{Runs: 50, Seed: 3, Workers: 2, ThrustSigma: 2}
	res, err := d.Run(context.Background(), DefaultRocket(), 0.1, 5, EulerCromer, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Invalid == 0 || res.Valid+res.Invalid != 50 || len(res.Runs) != 50 {
		t.Fatalf("unexpected result: %s", res)
	}
	for _, run := range res.Runs {
		if run.Err != nil && run.Summary != (Summary{}) {
			t.Fatal("invalid runs should not be flown")
		}
	}
	for _, bad := range []Dispersion{{Runs: 0}, {Runs: 1, Workers: -1}, {Runs: 1, DragSigma: -0.1}} {
		if _, err := bad.Run(context.Background(), DefaultRocket(), 0.1, 5, EulerCromer, nil); err == nil {
			t.Fatalf("expected an error for %+v", bad)
		}
	}
	if _, err := d.Run(context.Background(), DefaultRocket(), 0, 5, EulerCromer, nil); !errors.Is(err, ErrInvalidStep) {
		t.Fatalf("expected an invalid step, got %v", err)
	}
}

func TestDispersionStepTooLarge(t *testing.T) {
	d := Dispersion{Runs: 5, Seed: 1, Workers: 2}
	res, err := d.Run(context.Background(), DefaultRocket(), 10, 20, EulerCromer, nil)
	if !errors.Is(err, ErrNoValidRun) {
		t.Fatalf("expected no valid run, got %v", err)
	}
	if res.Invalid != 5 || res.Valid != 0 {
		t.Fatalf("unexpected result: %s", res)
	}
	for _, run := range res.Runs {
		if !errors.Is(run.Err, ErrStepTooLarge) {
			t.Fatalf("run #%d: %v", run.Index, run.Err)
		}
	}
}

func TestDispersionCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := Dispersion{Runs: 100, Seed: 1, Workers: 2}
	if _, err := d.Run(ctx, DefaultRocket(), 0.01, 10, EulerCromer, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected a cancellation, got %v", err)
	}
}
