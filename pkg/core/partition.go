package core

// Partition is a set of coalition ids whose members partition {0..N-1}. It
// carries the per-player payoff it inherits coalition-wise from the Table
// it was built against.
type Partition struct {
	Coalitions []CoalitionID
	Payoff     map[Player]float64
	Value      float64 // sum of v(P_i) over coalitions in the partition
}

// CoalitionOf returns the id of the coalition p belongs to under this
// partition, or 0 if p is not covered (should not happen for a well-formed
// partition).
func (pt Partition) CoalitionOf(p Player) CoalitionID {
	for _, id := range pt.Coalitions {
		if id.Contains(p) {
			return id
		}
	}
	return 0
}

// SingletonPartition returns the partition where every player is alone.
func SingletonPartition(n int) Partition {
	pt := Partition{Coalitions: make([]CoalitionID, n)}
	for p := 0; p < n; p++ {
		pt.Coalitions[p] = Singleton(Player(p))
	}
	return pt
}

// GrandPartition returns the single-coalition partition over n players.
func GrandPartition(n int) Partition {
	return Partition{Coalitions: []CoalitionID{GrandCoalition(n)}}
}
