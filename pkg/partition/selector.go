// Package partition implements the partition selector: given a fully
// populated coalition-info table, enumerate every set partition of the
// player set and filter it by one of four stability/optimality criteria.
package partition

import (
	"fmt"

	"github.com/g-uva/federation-formation-sim/pkg/combin"
	"github.com/g-uva/federation-formation-sim/pkg/core"
)

// criterion is visited once per candidate partition, in the lexicographic
// enumeration order, and asked for its final accepted set once every
// candidate has been seen. Pareto and Social need the running state that
// order implies; merge/split and Nash decide each candidate independently,
// so they simply accumulate.
type criterion interface {
	Name() string
	Visit(table core.Table, cand core.Partition)
	Results() []core.Partition
}

// Select enumerates every set partition of {0,...,n-1} via a lexicographic
// partition generator and returns those accepted by the named criterion,
// each carrying the payoffs and value it inherits from table.
func Select(table core.Table, n int, formation string) ([]core.Partition, error) {
	crit, err := newCriterion(formation, n)
	if err != nil {
		return nil, err
	}

	it := combin.NewPartitionIterator(n)
	for blocks, ok := it.Next(); ok; blocks, ok = it.Next() {
		crit.Visit(table, buildPartition(table, blocks))
	}
	return crit.Results(), nil
}

// ValidFormation reports whether tag names one of the four
// criteria, for CLI validation without running a full Select.
func ValidFormation(tag string) bool {
	_, err := newCriterion(tag, 1)
	return err == nil
}

func newCriterion(tag string, n int) (criterion, error) {
	switch tag {
	case "merge-split":
		return &mergeSplit{}, nil
	case "nash":
		return &nash{n: n}, nil
	case "pareto":
		return newPareto(n), nil
	case "social":
		return &social{best: core.NegInfSentinel}, nil
	default:
		return nil, fmt.Errorf("%w: unknown formation criterion %q", core.ErrInvalidCLI, tag)
	}
}

// buildPartition assembles a core.Partition from a raw block list, pulling
// each block's payoff vector and value out of the already-populated table.
func buildPartition(table core.Table, blocks []core.CoalitionID) core.Partition {
	payoff := make(map[core.Player]float64)
	var total float64
	for _, id := range blocks {
		total += table.Value(id)
		for p, v := range table[id].Payoff {
			payoff[p] = v
		}
	}
	return core.Partition{Coalitions: blocks, Payoff: payoff, Value: total}
}
