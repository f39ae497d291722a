// Package combin implements the two finite, restartable, deterministic
// lazy generators: lexicographic subset enumeration and
// lexicographic set-partition enumeration (Knuth TAOCP 7.2.1.5). Neither
// generator is required to be thread-safe, and neither uses recursion or
// heap allocation per step beyond the emitted collection.
package combin

import "github.com/g-uva/federation-formation-sim/pkg/core"

// SubsetIterator yields every subset of {0,...,n-1} in lexicographic order
// of characteristic bit-vectors, i.e. increasing bitmask order, optionally
// skipping the empty set.
type SubsetIterator struct {
	n            int
	includeEmpty bool
	cur          int
	limit        int
	started      bool
}

// NewSubsetIterator builds an iterator over subsets of {0,...,n-1}.
func NewSubsetIterator(n int, includeEmpty bool) *SubsetIterator {
	it := &SubsetIterator{n: n, includeEmpty: includeEmpty}
	it.Reset()
	return it
}

// Reset restarts the iterator from its first element.
func (it *SubsetIterator) Reset() {
	it.limit = 1 << uint(it.n)
	if it.includeEmpty {
		it.cur = 0
	} else {
		it.cur = 1
	}
	it.started = false
}

// Next returns the next subset id and true, or a zero value and false once
// the enumeration is exhausted.
func (it *SubsetIterator) Next() (core.CoalitionID, bool) {
	if !it.started {
		it.started = true
	} else {
		it.cur++
	}
	if it.cur >= it.limit {
		return 0, false
	}
	return core.CoalitionID(it.cur), true
}

// Count returns the number of subsets this iterator will emit in total.
func (it SubsetIterator) Count() int {
	total := 1 << uint(it.n)
	if !it.includeEmpty {
		total--
	}
	return total
}
