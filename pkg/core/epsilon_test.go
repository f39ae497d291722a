package core

import "testing"

func TestEssentiallyEqualNearZero(t *testing.T) {
	if !EssentiallyEqual(0, 1e-15) {
		t.Errorf("EssentiallyEqual(0, 1e-15) = false, want true")
	}
	if EssentiallyEqual(0, 0.01) {
		t.Errorf("EssentiallyEqual(0, 0.01) = true, want false")
	}
}

func TestEssentiallyEqualLargeMagnitudes(t *testing.T) {
	a := 1_000_000.0
	b := a + 1e-6
	if !EssentiallyEqual(a, b) {
		t.Errorf("EssentiallyEqual(%v, %v) = false, want true", a, b)
	}
	if EssentiallyEqual(a, a+1) {
		t.Errorf("EssentiallyEqual(%v, %v) = true, want false", a, a+1)
	}
}

func TestDefinitelyLess(t *testing.T) {
	if DefinitelyLess(1.0, 1.0+1e-12) {
		t.Errorf("DefinitelyLess treated a within-tolerance difference as definite")
	}
	if !DefinitelyLess(1.0, 2.0) {
		t.Errorf("DefinitelyLess(1.0, 2.0) = false, want true")
	}
}

func TestGreaterOrEqualToleratesEpsilon(t *testing.T) {
	if !GreaterOrEqual(1.0-1e-12, 1.0) {
		t.Errorf("GreaterOrEqual should tolerate a sub-epsilon shortfall")
	}
	if GreaterOrEqual(0.5, 1.0) {
		t.Errorf("GreaterOrEqual(0.5, 1.0) = true, want false")
	}
}
