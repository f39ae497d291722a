package core

import "gonum.org/v1/gonum/floats/scalar"

// DefaultEpsilon is the absolute/relative tolerance used throughout the core
// for floating point comparisons ("never compare with == on real
// numbers").
const DefaultEpsilon = 1e-9

// EssentiallyEqual reports whether a and b are equal within DefaultEpsilon,
// scaled by the magnitude of the larger operand so that comparisons of
// large monetary values and comparisons near zero both behave sensibly.
func EssentiallyEqual(a, b float64) bool {
	tol := DefaultEpsilon * max1(abs(a), abs(b))
	if tol < DefaultEpsilon {
		tol = DefaultEpsilon
	}
	return scalar.EqualWithinAbs(a, b, tol) || scalar.EqualWithinRel(a, b, DefaultEpsilon)
}

// DefinitelyLess reports whether a is less than b by more than the
// tolerance, i.e. a is not EssentiallyEqual to b and a < b.
func DefinitelyLess(a, b float64) bool {
	return !EssentiallyEqual(a, b) && a < b
}

// GreaterOrEqual reports whether a >= b once the epsilon tolerance is taken
// into account (a >= b or a is essentially equal to b).
func GreaterOrEqual(a, b float64) bool {
	return a >= b || EssentiallyEqual(a, b)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func max1(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
