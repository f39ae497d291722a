package combin

import (
	"sort"

	"github.com/g-uva/federation-formation-sim/pkg/core"
)

// Submasks returns every sub-bitmask of mask (including 0 and mask itself)
// in ascending numeric order, deterministically — used by the coalition
// evaluator to sum a player's marginal contribution over every T subset of
// S\{p}.
func Submasks(mask core.CoalitionID) []core.CoalitionID {
	subs := make([]core.CoalitionID, 0, 1<<uint(mask.Size()))
	for sub := mask; ; sub = (sub - 1) & mask {
		subs = append(subs, sub)
		if sub == 0 {
			break
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i] < subs[j] })
	return subs
}
