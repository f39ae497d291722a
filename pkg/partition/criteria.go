package partition

import (
	"github.com/g-uva/federation-formation-sim/pkg/combin"
	"github.com/g-uva/federation-formation-sim/pkg/core"
)

// mergeSplit implements D_hp-stability: a partition survives only if
// no sub-group of any block wants to split off, and no family of blocks
// wants to merge.
type mergeSplit struct {
	kept []core.Partition
}

func (*mergeSplit) Name() string { return "merge-split" }

func (c *mergeSplit) Visit(table core.Table, cand core.Partition) {
	if !wantsToSplit(table, cand) && !wantsToMerge(table, cand) {
		c.kept = append(c.kept, cand)
	}
}

func (c *mergeSplit) Results() []core.Partition { return c.kept }

// wantsToSplit reports whether some block P_i would do better broken into a
// finer partition of itself: v(P_i) < sum_j v(C_j) for some partition
// {C_1,...,C_l} of P_i.
func wantsToSplit(table core.Table, cand core.Partition) bool {
	for _, pi := range cand.Coalitions {
		vPi := table.Value(pi)
		for _, split := range combin.PartitionsOf(pi) {
			var sum float64
			for _, c := range split {
				sum += table.Value(c)
			}
			if core.DefinitelyLess(vPi, sum) {
				return true
			}
		}
	}
	return false
}

// wantsToMerge reports whether some non-empty family of blocks would do
// better pooled together: sum v(P_ij) < v(union P_ij) for some non-empty
// subset of cand's blocks.
func wantsToMerge(table core.Table, cand core.Partition) bool {
	k := len(cand.Coalitions)
	it := combin.NewSubsetIterator(k, false)
	for local, ok := it.Next(); ok; local, ok = it.Next() {
		var sum float64
		var union core.CoalitionID
		for i, blockID := range cand.Coalitions {
			if local.Contains(core.Player(i)) {
				sum += table.Value(blockID)
				union |= blockID
			}
		}
		if core.DefinitelyLess(sum, table.Value(union)) {
			return true
		}
	}
	return false
}

// nash implements Nash stability: no player wants to unilaterally
// move to another block of the same partition, including moving to a fresh
// singleton (the empty-coalition case).
type nash struct {
	n    int
	kept []core.Partition
}

func (*nash) Name() string { return "nash" }

func (c *nash) Visit(table core.Table, cand core.Partition) {
	if nashStable(table, cand, c.n) {
		c.kept = append(c.kept, cand)
	}
}

func (c *nash) Results() []core.Partition { return c.kept }

func nashStable(table core.Table, cand core.Partition, n int) bool {
	others := append([]core.CoalitionID{0}, cand.Coalitions...)
	for p := 0; p < n; p++ {
		player := core.Player(p)
		current := cand.CoalitionOf(player)
		currentPayoff := cand.Payoff[player]
		for _, other := range others {
			if other == current {
				continue
			}
			moved := other | core.Singleton(player)
			movedPayoff := table[moved].Payoff
			if movedPayoff == nil {
				continue
			}
			if core.DefinitelyLess(currentPayoff, movedPayoff[player]) {
				return false
			}
		}
	}
	return true
}

// pareto implements a monotone pass: accepts a candidate whenever it
// weakly dominates the running per-player max with at least one strict
// improvement, then folds it into the running max.
type pareto struct {
	max  map[core.Player]float64
	kept []core.Partition
}

func newPareto(n int) *pareto {
	max := make(map[core.Player]float64, n)
	for p := 0; p < n; p++ {
		max[core.Player(p)] = core.NegInfSentinel
	}
	return &pareto{max: max}
}

func (*pareto) Name() string { return "pareto" }

func (c *pareto) Visit(_ core.Table, cand core.Partition) {
	dominates := false
	for p, max := range c.max {
		v := cand.Payoff[p]
		if core.DefinitelyLess(v, max) {
			return
		}
		if core.DefinitelyLess(max, v) {
			dominates = true
		}
	}
	if !dominates {
		return
	}
	for p, max := range c.max {
		if v := cand.Payoff[p]; v > max {
			c.max[p] = v
		}
	}
	c.kept = append(c.kept, cand)
}

func (c *pareto) Results() []core.Partition { return c.kept }

// social implements the social-optimum criterion: keeps every partition tied,
// within floating-point equality, for the highest total value seen so far;
// a strict improvement resets the kept set.
type social struct {
	best float64
	kept []core.Partition
}

func (*social) Name() string { return "social" }

func (c *social) Visit(_ core.Table, cand core.Partition) {
	if core.DefinitelyLess(c.best, cand.Value) {
		c.best = cand.Value
		c.kept = []core.Partition{cand}
		return
	}
	if core.EssentiallyEqual(c.best, cand.Value) {
		c.kept = append(c.kept, cand)
	}
}

func (c *social) Results() []core.Partition { return c.kept }
