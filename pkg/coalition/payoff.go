package coalition

import (
	"fmt"

	"github.com/g-uva/federation-formation-sim/pkg/combin"
	"github.com/g-uva/federation-formation-sim/pkg/core"
)

// PayoffRule computes the per-player payoff vector for coalition sID given
// the (partially or fully populated) characteristic-function table and the
// coalition's member list. The shape of this interface — a Name() tag plus
// one compute method, with each rule a zero-field struct — follows a
// strategy pattern (FCFS/RoundRobin/MinMin/... elsewhere), generalized
// here from "pick a cluster" to "split a value".
type PayoffRule interface {
	Name() string
	Compute(table core.Table, members []core.Player, sID core.CoalitionID) map[core.Player]float64
}

// ShapleyRule implements the Shapley value.
type ShapleyRule struct{}

func (ShapleyRule) Name() string { return "shapley" }

func (ShapleyRule) Compute(table core.Table, members []core.Player, sID core.CoalitionID) map[core.Player]float64 {
	sSize := len(members)
	payoff := make(map[core.Player]float64, sSize)
	for _, p := range members {
		withoutP := sID &^ core.Singleton(p)
		var phi float64
		for _, t := range combin.Submasks(withoutP) {
			weight := combin.ShapleyWeight(sSize, t.Size())
			withP := t | core.Singleton(p)
			phi += weight * (table.Value(withP) - table.Value(t))
		}
		payoff[p] = phi
	}
	return payoff
}

// BanzhafRule implements the plain (non-normalized) Banzhaf value.
type BanzhafRule struct{}

func (BanzhafRule) Name() string { return "banzhaf" }

func (BanzhafRule) Compute(table core.Table, members []core.Player, sID core.CoalitionID) map[core.Player]float64 {
	sSize := len(members)
	weight := combin.BanzhafWeight(sSize)
	payoff := make(map[core.Player]float64, sSize)
	for _, p := range members {
		withoutP := sID &^ core.Singleton(p)
		var beta float64
		for _, t := range combin.Submasks(withoutP) {
			withP := t | core.Singleton(p)
			beta += table.Value(withP) - table.Value(t)
		}
		payoff[p] = beta * weight
	}
	return payoff
}

// NormalizedBanzhafRule implements the normalized Banzhaf value: the
// plain Banzhaf value rescaled so payoffs sum to v(S).
type NormalizedBanzhafRule struct{}

func (NormalizedBanzhafRule) Name() string { return "norm-banzhaf" }

func (NormalizedBanzhafRule) Compute(table core.Table, members []core.Player, sID core.CoalitionID) map[core.Player]float64 {
	raw := BanzhafRule{}.Compute(table, members, sID)
	var sum float64
	for _, v := range raw {
		sum += v
	}
	vS := table.Value(sID)
	if sum == 0 {
		// Degenerate: nothing to rescale against, split evenly.
		even := vS / float64(len(members))
		out := make(map[core.Player]float64, len(members))
		for _, p := range members {
			out[p] = even
		}
		return out
	}
	scale := vS / sum
	out := make(map[core.Player]float64, len(raw))
	for p, v := range raw {
		out[p] = v * scale
	}
	return out
}

// ParsePayoffRule resolves the --payoff CLI tag to a PayoffRule.
func ParsePayoffRule(tag string) (PayoffRule, error) {
	switch tag {
	case "shapley":
		return ShapleyRule{}, nil
	case "banzhaf":
		return BanzhafRule{}, nil
	case "norm-banzhaf":
		return NormalizedBanzhafRule{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown payoff rule %q", core.ErrInvalidCLI, tag)
	}
}
