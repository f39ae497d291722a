package rnd

import (
	"math/rand"
	"testing"

	"github.com/g-uva/federation-formation-sim/pkg/core"
)

func baselineScenario() *core.Scenario {
	return &core.Scenario{
		NumPlayers:       2,
		PMTypes:          []core.PMType{{MinWatts: 50, MaxWatts: 150}},
		VMTypes:          []core.VMType{{CPUShare: []float64{0.5}, RAMShare: []float64{0.25}}},
		NumPMs:           [][]int{{2}, {1}},
		NumVMs:           [][]int{{3}, {1}},
		PMPowerStates:    [][]bool{{true, false}, {true}},
		Revenue:          [][]float64{{10}, {10}},
		ElectricityPrice: []float64{0.1, 0.2},
		SwitchOnCost:     [][]float64{{5}, {5}},
		SwitchOffCost:    [][]float64{{2}, {2}},
		MigrationCost: [][][]float64{
			{{0}, {1}},
			{{2}, {0}},
		},
	}
}

func TestNextNeverMutatesBaseline(t *testing.T) {
	base := baselineScenario()
	p := New(base, Options{GenVMs: true, GenPMsOnOff: true, GenPMsOnOffCosts: true, GenVMsMigrCosts: true}, 1)
	_ = p.Next()

	if base.NumVMs[0][0] != 3 {
		t.Errorf("baseline NumVMs mutated: got %v", base.NumVMs)
	}
	if base.SwitchOnCost[0][0] != 5 {
		t.Errorf("baseline SwitchOnCost mutated: got %v", base.SwitchOnCost)
	}
	if base.MigrationCost[0][1][0] != 1 {
		t.Errorf("baseline MigrationCost mutated: got %v", base.MigrationCost)
	}
}

func TestNextWithNoOptionsReturnsEquivalentCopy(t *testing.T) {
	base := baselineScenario()
	p := New(base, Options{}, 1)
	scn := p.Next()

	if scn == base {
		t.Fatalf("Next() returned the baseline pointer, not a copy")
	}
	if scn.NumVMs[0][0] != base.NumVMs[0][0] {
		t.Errorf("unperturbed NumVMs changed: got %v, want %v", scn.NumVMs, base.NumVMs)
	}
	if scn.PMPowerStates[0][0] != base.PMPowerStates[0][0] {
		t.Errorf("unperturbed PMPowerStates changed")
	}
}

func TestNextDoesNotAccumulateAcrossCalls(t *testing.T) {
	base := baselineScenario()
	p := New(base, Options{GenVMs: true}, 7)
	first := p.Next()
	// Every call clones straight from the baseline, so the perturbed value
	// must stay within the same ±2 window every time, not drift further
	// with each successive call.
	for i := 0; i < 20; i++ {
		next := p.Next()
		for row := range next.NumVMs {
			for col, v := range next.NumVMs[row] {
				delta := v - base.NumVMs[row][col]
				if delta > 2 || delta < -2 {
					t.Fatalf("perturbed VM count drifted outside the ±2 window: base=%d got=%d", base.NumVMs[row][col], v)
				}
			}
		}
	}
	_ = first
}

func TestPerturbVMCountsNeverGoesNegative(t *testing.T) {
	base := &core.Scenario{NumVMs: [][]int{{0, 1}}}
	p := New(base, Options{}, 3)
	for seed := int64(0); seed < 50; seed++ {
		p.rng.Seed(seed)
		scn := &core.Scenario{NumVMs: [][]int{{0, 1}}}
		p.perturbVMCounts(scn)
		for _, row := range scn.NumVMs {
			for _, v := range row {
				if v < 0 {
					t.Fatalf("perturbVMCounts produced a negative count: %v", scn.NumVMs)
				}
			}
		}
	}
}

func TestJitterMatrixStaysWithinTwentyPercent(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	m := [][]float64{{100}}
	jitterMatrix(rng, m)
	if m[0][0] < 80 || m[0][0] > 120 {
		t.Errorf("jitterMatrix produced %v, want within [80, 120]", m[0][0])
	}
}
