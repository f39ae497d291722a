package coalition

import (
	"context"

	"github.com/g-uva/federation-formation-sim/internal/milp"
	"github.com/g-uva/federation-formation-sim/pkg/combin"
	"github.com/g-uva/federation-formation-sim/pkg/core"
)

// coreNonEmpty tests whether the sub-game restricted to S has
// a non-empty core, i.e. whether
//
//	{ x >= 0, sum_{p in S} x_p = v(S), forall T subset S, sum_{p in T} x_p >= v(T) }
//
// is feasible. One column per member of S, one equality row, one
// inequality row per proper non-empty subset of S; solved with the same
// internal/milp adapter the placement solver uses, so this core depends on
// one MILP backend for two concerns rather than carrying a bespoke LP
// feasibility routine.
func coreNonEmpty(ctx context.Context, table core.Table, members []core.Player, sID core.CoalitionID) (bool, error) {
	n := len(members)
	if n == 0 {
		return true, nil
	}
	col := make(map[core.Player]int, n)
	for i, p := range members {
		col[p] = i
	}

	m := milp.New(n)
	eqRow := make([]milp.Entry, n)
	for i := range members {
		eqRow[i] = milp.Entry{Col: i, Val: 1}
	}
	m.AddConstraint(eqRow, milp.EQ, table.Value(sID))

	for _, t := range combin.Submasks(sID) {
		if t == 0 || t == sID {
			continue
		}
		row := make([]milp.Entry, 0, t.Size())
		for _, p := range core.PlayerSet(t, boundFor(sID)) {
			if idx, ok := col[p]; ok {
				row = append(row, milp.Entry{Col: idx, Val: 1})
			}
		}
		m.AddConstraint(row, milp.GE, table.Value(t))
	}

	zeros := make([]float64, n)
	m.SetObjective(zeros, true)

	res, err := m.Solve(ctx)
	if err != nil {
		return false, err
	}
	return res.Status == milp.StatusOptimal || res.Status == milp.StatusFeasibleSuboptimal, nil
}

// payoffInCore tests whether an already-computed payoff vector
// satisfies the same constraints as coreNonEmpty, with x fixed rather than
// free. This collapses to a direct arithmetic check — identical to solving
// the LP with x pinned to payoff's values — so no second solver call is
// made.
func payoffInCore(table core.Table, members []core.Player, sID core.CoalitionID, payoff map[core.Player]float64) bool {
	var sum float64
	for _, p := range members {
		if core.DefinitelyLess(payoff[p], 0) {
			return false
		}
		sum += payoff[p]
	}
	if !core.EssentiallyEqual(sum, table.Value(sID)) {
		return false
	}
	for _, t := range combin.Submasks(sID) {
		if t == 0 || t == sID {
			continue
		}
		var tSum float64
		for _, p := range core.PlayerSet(t, boundFor(sID)) {
			tSum += payoff[p]
		}
		if !core.GreaterOrEqual(tSum, table.Value(t)) {
			return false
		}
	}
	return true
}

// boundFor returns a player-index upper bound large enough to decode any
// bit set in id (ids here are always sub-bitmasks of a coalition already
// known to fit in the scenario's player count, but PlayerSet needs an
// explicit bound).
func boundFor(id core.CoalitionID) int {
	n := 0
	for x := id; x != 0; x >>= 1 {
		n++
	}
	return n
}
