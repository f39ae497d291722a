// Package rnd implements the scenario perturbation requested by the
// --rnd-* CLI flags: each of --rnd-numit iterations redraws a fresh copy of
// the baseline scenario from the same seeded generator, independently of
// every other iteration, following the same "seeded math/rand source
// generates a synthetic CSV row" shape generalized here from "generate a
// CSV row" to "perturb an in-memory Scenario".
package rnd

import (
	"math/rand"

	"github.com/g-uva/federation-formation-sim/pkg/core"
)

// Options selects which fields a Perturber redraws, mirroring the
// --rnd-genvms/--rnd-genpmsonoff/--rnd-genpmsonoffcosts/--rnd-genvmsmigrcosts
// flags one-for-one.
type Options struct {
	GenVMs            bool
	GenPMsOnOff       bool
	GenPMsOnOffCosts  bool
	GenVMsMigrCosts   bool
}

// Perturber draws independent perturbed copies of a baseline scenario. It
// is not safe for concurrent use; each CLI run owns exactly one.
type Perturber struct {
	baseline *core.Scenario
	opts     Options
	rng      *rand.Rand
}

// New builds a Perturber over baseline, seeded from seed (default
// core.DefaultSeed, the classic mt19937 default, per the original's
// --rnd-seed).
func New(baseline *core.Scenario, opts Options, seed int64) *Perturber {
	return &Perturber{baseline: baseline, opts: opts, rng: rand.New(rand.NewSource(seed))}
}

// Next returns a fresh perturbation of the baseline scenario. Every call
// starts over from the baseline rather than perturbing the previous
// iteration's result, so iterations never accumulate drift.
func (p *Perturber) Next() *core.Scenario {
	scn := cloneScenario(p.baseline)

	if p.opts.GenVMs {
		p.perturbVMCounts(scn)
	}
	if p.opts.GenPMsOnOff {
		p.perturbPowerStates(scn)
	}
	if p.opts.GenPMsOnOffCosts {
		p.perturbTransitionCosts(scn)
	}
	if p.opts.GenVMsMigrCosts {
		p.perturbMigrationCosts(scn)
	}
	return scn
}

// perturbVMCounts redraws each CIP's per-VM-type counts from a small
// Poisson-ish integer spread (±2, floored at zero) around the parsed value.
func (p *Perturber) perturbVMCounts(scn *core.Scenario) {
	for i, row := range scn.NumVMs {
		for j, v := range row {
			delta := p.rng.Intn(5) - 2
			if v+delta < 0 {
				delta = -v
			}
			scn.NumVMs[i][j] = v + delta
		}
	}
}

// perturbPowerStates redraws each PM's initial on/off bit with p=0.5.
func (p *Perturber) perturbPowerStates(scn *core.Scenario) {
	for i, row := range scn.PMPowerStates {
		for j := range row {
			scn.PMPowerStates[i][j] = p.rng.Float64() < 0.5
		}
	}
}

// perturbTransitionCosts redraws the switch-on/off cost tables within ±20%
// of the parsed value.
func (p *Perturber) perturbTransitionCosts(scn *core.Scenario) {
	jitterMatrix(p.rng, scn.SwitchOnCost)
	jitterMatrix(p.rng, scn.SwitchOffCost)
}

// perturbMigrationCosts redraws the migration cost cube within ±20%.
func (p *Perturber) perturbMigrationCosts(scn *core.Scenario) {
	for _, plane := range scn.MigrationCost {
		jitterMatrix(p.rng, plane)
	}
}

func jitterMatrix(rng *rand.Rand, m [][]float64) {
	for i, row := range m {
		for j, v := range row {
			factor := 1 + (rng.Float64()*0.4 - 0.2) // [-20%, +20%]
			m[i][j] = v * factor
		}
	}
}

func cloneScenario(scn *core.Scenario) *core.Scenario {
	out := *scn
	out.PMTypes = append([]core.PMType(nil), scn.PMTypes...)
	out.VMTypes = append([]core.VMType(nil), scn.VMTypes...)
	out.NumPMs = cloneIntMatrix(scn.NumPMs)
	out.NumVMs = cloneIntMatrix(scn.NumVMs)
	out.PMPowerStates = cloneBoolMatrix(scn.PMPowerStates)
	out.Revenue = cloneFloatMatrix(scn.Revenue)
	out.ElectricityPrice = append([]float64(nil), scn.ElectricityPrice...)
	out.SwitchOnCost = cloneFloatMatrix(scn.SwitchOnCost)
	out.SwitchOffCost = cloneFloatMatrix(scn.SwitchOffCost)
	out.MigrationCost = make([][][]float64, len(scn.MigrationCost))
	for i, plane := range scn.MigrationCost {
		out.MigrationCost[i] = cloneFloatMatrix(plane)
	}
	return &out
}

func cloneIntMatrix(m [][]int) [][]int {
	out := make([][]int, len(m))
	for i, row := range m {
		out[i] = append([]int(nil), row...)
	}
	return out
}

func cloneBoolMatrix(m [][]bool) [][]bool {
	out := make([][]bool, len(m))
	for i, row := range m {
		out[i] = append([]bool(nil), row...)
	}
	return out
}

func cloneFloatMatrix(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = append([]float64(nil), row...)
	}
	return out
}
