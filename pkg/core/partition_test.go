package core

import "testing"

func TestSingletonPartitionCoversEveryPlayerAlone(t *testing.T) {
	const n = 3
	pt := SingletonPartition(n)
	if len(pt.Coalitions) != n {
		t.Fatalf("SingletonPartition(%d) has %d blocks, want %d", n, len(pt.Coalitions), n)
	}
	for p := 0; p < n; p++ {
		id := pt.CoalitionOf(Player(p))
		if id != Singleton(Player(p)) {
			t.Errorf("CoalitionOf(%d) = %v, want %v", p, id, Singleton(Player(p)))
		}
	}
}

func TestGrandPartitionIsOneBlock(t *testing.T) {
	const n = 4
	pt := GrandPartition(n)
	if len(pt.Coalitions) != 1 {
		t.Fatalf("GrandPartition has %d blocks, want 1", len(pt.Coalitions))
	}
	if pt.Coalitions[0] != GrandCoalition(n) {
		t.Errorf("GrandPartition block = %v, want %v", pt.Coalitions[0], GrandCoalition(n))
	}
	for p := 0; p < n; p++ {
		if pt.CoalitionOf(Player(p)) != GrandCoalition(n) {
			t.Errorf("CoalitionOf(%d) under grand partition did not resolve to the grand coalition", p)
		}
	}
}

func TestCoalitionOfUncoveredPlayerReturnsZero(t *testing.T) {
	pt := Partition{Coalitions: []CoalitionID{Singleton(0)}}
	if got := pt.CoalitionOf(1); got != 0 {
		t.Errorf("CoalitionOf(uncovered player) = %v, want 0", got)
	}
}
