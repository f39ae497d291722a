package combin

import "github.com/g-uva/federation-formation-sim/pkg/core"

// PartitionIterator yields every set partition of {0,...,n-1} exactly once,
// as restricted-growth strings in the order of Knuth TAOCP 7.2.1.5,
// Algorithm H: a[i] is the block label of element i, with the invariant
// a[0] = 0 and a[i] <= 1 + max(a[0..i-1]).
type PartitionIterator struct {
	n       int
	a       []int
	b       []int // b[i] = 1 + max(a[0..i-1]); b[0] = 0
	started bool
	done    bool
}

// NewPartitionIterator builds an iterator over set partitions of
// {0,...,n-1}. n must be >= 1.
func NewPartitionIterator(n int) *PartitionIterator {
	it := &PartitionIterator{n: n}
	it.Reset()
	return it
}

// Reset restarts the iterator at the coarsest partition (everyone in one
// block).
func (it *PartitionIterator) Reset() {
	it.a = make([]int, it.n)
	it.b = make([]int, it.n)
	for i := 1; i < it.n; i++ {
		it.b[i] = 1
	}
	it.started = false
	it.done = false
}

// Next returns the next partition as a slice of coalition ids (one per
// block, in block-label order) and true, or nil and false once every
// partition has been emitted.
func (it *PartitionIterator) Next() ([]core.CoalitionID, bool) {
	if it.done {
		return nil, false
	}
	if !it.started {
		it.started = true
		return it.blocks(), true
	}

	i := it.n - 1
	for i > 0 && it.a[i] >= it.b[i] {
		i--
	}
	if i == 0 {
		it.done = true
		return nil, false
	}

	it.a[i]++
	newB := it.b[i]
	if it.a[i] >= newB {
		newB = it.a[i] + 1
	}
	for j := i + 1; j < it.n; j++ {
		it.a[j] = 0
		it.b[j] = newB
	}
	return it.blocks(), true
}

// blocks converts the current restricted-growth string into a slice of
// coalition ids, one per distinct block label, ordered by label.
func (it *PartitionIterator) blocks() []core.CoalitionID {
	maxLabel := 0
	for _, v := range it.a {
		if v > maxLabel {
			maxLabel = v
		}
	}
	ids := make([]core.CoalitionID, maxLabel+1)
	for player, label := range it.a {
		ids[label] |= core.CoalitionID(1 << uint(player))
	}
	return ids
}
