package rocketsim

import (
	"testing"

	"github.com/gonum/floats"
)

func assertPanic(t *testing.T, f func()) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("The code did not panic")
		}
	}()
	f()
}

// flyDefault flies the reference rocket for ten seconds at 0.1 s.
func flyDefault(t *testing.T) TimeSeries {
	ts, err := Simulate(DefaultRocket(), 0.1, 10)
	if err != nil {
		t.Fatalf("default flight failed: %s", err)
	}
	return ts
}

func assertWithinRel(t *testing.T, name string, got, exp, tol float64) {
	if !floats.EqualWithinRel(got, exp, tol) {
		t.Errorf("%s: got %g, expected %g (rel. tol. %g)", name, got, exp, tol)
	}
}
