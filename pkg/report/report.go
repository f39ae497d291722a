// Package report writes the human-readable, not-machine-parsed standard
// output block: the selected best partitions, then the grand
// coalition's own payoffs and core status, then the singleton partition's
// payoffs and energy. Plain fmt.Fprintf to an io.Writer.
package report

import (
	"fmt"
	"io"

	"github.com/g-uva/federation-formation-sim/pkg/core"
)

// Write renders the full report for one evaluated run.
func Write(w io.Writer, table core.Table, best []core.Partition, n int) {
	fmt.Fprintf(w, "=== Best partitions (%d) ===\n", len(best))
	grand := table[core.GrandCoalition(n)]
	singlePayoff := make(map[core.Player]float64, n)
	for p := 0; p < n; p++ {
		player := core.Player(p)
		singlePayoff[player] = table[core.Singleton(player)].Payoff[player]
	}

	for i, pt := range best {
		fmt.Fprintf(w, "--- partition %d ---\n", i)
		fmt.Fprintf(w, "coalitions: %v\n", pt.Coalitions)
		fmt.Fprintf(w, "value: %.6f\n", pt.Value)
		var energy float64
		for _, id := range pt.Coalitions {
			energy += table[id].ElectricityKWh
			fmt.Fprintf(w, "  coalition %d: value=%.6f core_non_empty=%v\n", id, table[id].Value, table[id].CoreNonEmpty)
		}
		fmt.Fprintf(w, "energy: %.6f kWh\n", energy)
		for p := 0; p < n; p++ {
			player := core.Player(p)
			v := pt.Payoff[player]
			fmt.Fprintf(w, "  payoff(CIP %d): %.6f (%+.2f%% vs grand, %+.2f%% vs singleton)\n",
				p, v, pctDelta(v, grand.Payoff[player]), pctDelta(v, singlePayoff[player]))
		}
	}

	fmt.Fprintf(w, "\n=== Grand coalition ===\n")
	fmt.Fprintf(w, "value: %.6f core_non_empty: %v\n", grand.Value, grand.CoreNonEmpty)
	for p := 0; p < n; p++ {
		fmt.Fprintf(w, "  payoff(CIP %d): %.6f\n", p, grand.Payoff[core.Player(p)])
	}

	fmt.Fprintf(w, "\n=== Singleton partition ===\n")
	var singleEnergy float64
	for p := 0; p < n; p++ {
		singleEnergy += table[core.Singleton(core.Player(p))].ElectricityKWh
		fmt.Fprintf(w, "  payoff(CIP %d): %.6f\n", p, singlePayoff[core.Player(p)])
	}
	fmt.Fprintf(w, "energy: %.6f kWh\n", singleEnergy)
}

// pctDelta returns the percentage change of v relative to base, or 0 if
// base is essentially zero (avoids a division blowing up the report).
func pctDelta(v, base float64) float64 {
	if core.EssentiallyEqual(base, 0) {
		return 0
	}
	return (v - base) / base * 100
}
