package rocketsim

import (
	"math"
	"testing"
)

func TestDragAtRest(t *testing.T) {
	for _, T := range []float64{186.8673, 216.65, 288.15, 1000} {
		if cd := DragCoefficient(0, T, 0.75); cd != 0.75 {
			t.Fatalf("cd(v=0, T=%f)=%f", T, cd)
		}
	}
}

func TestDragSonic(t *testing.T) {
	T := 288.15
	v := SpeedOfSound(T)
	if Mach(v, T) != 1 {
		t.Fatalf("expected exactly Mach 1, got %f", Mach(v, T))
	}
	exp := 0.75 / math.Sqrt(1-sonicMach*sonicMach)
	if cd := DragCoefficient(v, T, 0.75); cd != exp {
		t.Fatalf("cd(M=1)=%f, expected %f", cd, exp)
	}
	assertWithinRel(t, "cd(M=1-1e-9)", DragCoefficient(v*(1-1e-9), T, 0.75), 0.75/math.Sqrt(1-math.Pow(1-1e-9, 2)), 1e-6)
	if DragCoefficient(v*0.9999, T, 0.75) >= exp {
		t.Fatal("cd @ M=0.9999 should be below the sonic value")
	}
}

func TestDragSubsonicIncreases(t *testing.T) {
	T := 216.65
	cs := SpeedOfSound(T)
	prev := 0.0
	for mach := 0.0; mach < 0.99; mach += 0.05 {
		cd := DragCoefficient(mach*cs, T, 0.5)
		if cd < prev {
			t.Fatalf("cd decreased @ M=%f", mach)
		}
		assertWithinRel(t, "Prandtl-Glauert", cd, 0.5/math.Sqrt(1-mach*mach), 1e-12)
		if cd != DragCoefficient(mach*cs, T, 0.5) {
			t.Fatalf("cd not deterministic @ M=%f", mach)
		}
		prev = cd
	}
}

func TestDragSupersonic(t *testing.T) {
	T := 250.0
	cs := SpeedOfSound(T)
	for _, mach := range []float64{1.0001, 1.5, 2, 10} {
		if cd := DragCoefficient(mach*cs, T, 0.42); cd != 0.42 {
			t.Fatalf("cd(M=%f)=%f", mach, cd)
		}
	}
}

func TestDragDescending(t *testing.T) {
	T := 288.15
	cs := SpeedOfSound(T)
	// Subsonic descent is symmetric.
	if up, down := DragCoefficient(0.5*cs, T, 0.75), DragCoefficient(-0.5*cs, T, 0.75); up != down {
		t.Fatalf("asymmetric subsonic cd: %f != %f", up, down)
	}
	// Exactly Mach -1 is not substituted.
	if cd := DragCoefficient(-cs, T, 0.75); !math.IsInf(cd, 1) {
		t.Fatalf("cd(M=-1)=%f, expected +Inf", cd)
	}
	if cd := DragCoefficient(-2*cs, T, 0.75); !math.IsNaN(cd) {
		t.Fatalf("cd(M=-2)=%f, expected NaN", cd)
	}
}

func TestSpeedOfSound(t *testing.T) {
	assertWithinRel(t, "cs(288.15)", SpeedOfSound(288.15), 340.2626, 1e-6)
	if Mach(-340.2626, 288.15) >= 0 {
		t.Fatal("Mach should be signed")
	}
}
