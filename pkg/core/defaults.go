package core

// CLI defaults. Declared once here rather than re-typed at the flag
// registration site and in every test fixture.
const (
	DefaultFormation = "nash"
	DefaultPayoff    = "shapley"
	DefaultRelGap    = 0.0
	DefaultTimeLimit = -1.0 // no limit
	DefaultNumIter   = 1
	DefaultSeed      = 5489 // mt19937's classic default seed
)

// NegInfSentinel is "worse than any finite value": the smallest
// positive normal float64, negated. Used as v(S) for a coalition whose
// placement solver call came back infeasible, so that every finite v(T)
// ranks above it without resorting to -Inf (which would propagate NaNs
// through payoff arithmetic).
const NegInfSentinel = -2.2250738585072014e-308
