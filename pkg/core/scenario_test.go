package core

import "testing"

func TestIDOfAndPlayerSetRoundTrip(t *testing.T) {
	members := []Player{0, 2, 3}
	id := IDOf(members)
	got := PlayerSet(id, 5)
	if len(got) != len(members) {
		t.Fatalf("PlayerSet returned %d players, want %d", len(got), len(members))
	}
	for i, p := range members {
		if got[i] != p {
			t.Errorf("PlayerSet[%d] = %v, want %v", i, got[i], p)
		}
	}
}

func TestCoalitionIDSizeAndContains(t *testing.T) {
	id := Singleton(0) | Singleton(3)
	if id.Size() != 2 {
		t.Errorf("Size() = %d, want 2", id.Size())
	}
	if !id.Contains(0) || !id.Contains(3) {
		t.Errorf("Contains failed for members of %v", id)
	}
	if id.Contains(1) || id.Contains(2) {
		t.Errorf("Contains falsely reported a non-member of %v", id)
	}
}

func TestGrandCoalitionCoversEveryPlayer(t *testing.T) {
	const n = 4
	gc := GrandCoalition(n)
	if gc != 0b1111 {
		t.Fatalf("GrandCoalition(4) = %v, want 15", gc)
	}
	for p := 0; p < n; p++ {
		if !gc.Contains(Player(p)) {
			t.Errorf("GrandCoalition does not contain player %d", p)
		}
	}
}

func TestSingletonIsSizeOne(t *testing.T) {
	for p := 0; p < 4; p++ {
		s := Singleton(Player(p))
		if s.Size() != 1 {
			t.Errorf("Singleton(%d).Size() = %d, want 1", p, s.Size())
		}
		if !s.Contains(Player(p)) {
			t.Errorf("Singleton(%d) does not contain itself", p)
		}
	}
}
