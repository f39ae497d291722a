package combin

import "github.com/g-uva/federation-formation-sim/pkg/core"

// PartitionsOf materializes every set partition of the player set encoded
// by mask (not of {0,...,n-1} generally), by running a PartitionIterator
// over a local 0..m-1 index space and translating each block back to the
// global bitmask. Used by the merge/split stability criterion, which needs
// "every partition of P_i" for coalitions P_i that are not necessarily
// {0,...,m-1}.
func PartitionsOf(mask core.CoalitionID) [][]core.CoalitionID {
	bound := 0
	for x := mask; x != 0; x >>= 1 {
		bound++
	}
	members := core.PlayerSet(mask, bound)
	m := len(members)
	if m == 0 {
		return nil
	}

	it := NewPartitionIterator(m)
	var results [][]core.CoalitionID
	for blocks, ok := it.Next(); ok; blocks, ok = it.Next() {
		translated := make([]core.CoalitionID, len(blocks))
		for bi, localMask := range blocks {
			var g core.CoalitionID
			for li := 0; li < m; li++ {
				if localMask&(1<<uint(li)) != 0 {
					g |= core.Singleton(members[li])
				}
			}
			translated[bi] = g
		}
		results = append(results, translated)
	}
	return results
}
