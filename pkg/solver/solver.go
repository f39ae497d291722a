// Package solver implements the placement solver: given a
// coalition's PMs and VMs, decide which PMs are on and which VM goes where
// to minimize electricity, switch-on/off and inter-CIP migration cost,
// subject to CPU and RAM packing constraints.
package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/g-uva/federation-formation-sim/internal/milp"
	"github.com/g-uva/federation-formation-sim/pkg/core"
)

// Problem is one coalition's placement instance, assembled by
// pkg/coalition from the concatenated PM/VM pools of its members: all PMs
// of p_0 first grouped by type, then p_1, and so on.
type Problem struct {
	PMs []core.PM
	VMs []core.VM

	PMTypes []core.PMType
	VMTypes []core.VMType

	ElectricityPrice []float64     // per player, $/kWh
	SwitchOnCost     [][]float64   // [player][pm type], $
	SwitchOffCost    [][]float64   // [player][pm type], $
	MigrationCost    [][][]float64 // [src player][dst player][vm type], $

	RelGap    float64 // gap tolerance g in [0,1]
	TimeLimit float64 // seconds; <= 0 means no limit

	MinPower bool // alternate objective: minimize raw watts
}

// Result is the solver's verdict for one coalition.
type Result struct {
	Solved  bool
	Optimal bool

	Objective float64 // the value the MILP objective function actually minimized

	ElectricityCost float64
	TransitionCost  float64
	MigrationCost   float64
	CostTotal       float64
	KWh             float64

	Allocation core.Allocation

	// Warning is set (non-fatal) when the accepted solution is
	// feasible-suboptimal, or when MinPower was requested alongside
	// non-zero transition/migration costs ("flagged as unreliable").
	Warning string
}

// column layout: y[v][h] at v*H+h, x[h] at V*H+h, s[h] at V*H+H+h.
type layout struct {
	numPMs, numVMs int
}

func (l layout) yCol(v, h int) int { return v*l.numPMs + h }
func (l layout) xCol(h int) int    { return l.numVMs*l.numPMs + h }
func (l layout) sCol(h int) int    { return l.numVMs*l.numPMs + l.numPMs + h }
func (l layout) numCols() int      { return l.numVMs*l.numPMs + 2*l.numPMs }

// Solve builds and solves the placement MILP and post-processes the
// feasible solution into wattage/kWh per PM.
func Solve(ctx context.Context, p Problem) (Result, error) {
	h := len(p.PMs)
	v := len(p.VMs)

	if v == 0 {
		// Zero VMs: optimal allocation powers everything off (boundary
		// behavior); cost is off-transition penalties only, no MILP needed.
		return solveEmptyWorkload(p), nil
	}

	lay := layout{numPMs: h, numVMs: v}
	m := milp.New(lay.numCols())

	for i := 0; i < v; i++ {
		for j := 0; j < h; j++ {
			m.SetBinary(lay.yCol(i, j))
		}
	}
	for j := 0; j < h; j++ {
		m.SetBinary(lay.xCol(j))
		m.SetContinuous(lay.sCol(j), 0, 1)
	}

	// Exactly-one placement: sum_h y_vh = 1.
	for i := 0; i < v; i++ {
		row := make([]milp.Entry, h)
		for j := 0; j < h; j++ {
			row[j] = milp.Entry{Col: lay.yCol(i, j), Val: 1}
		}
		m.AddConstraint(row, milp.EQ, 1)
	}

	for j := 0; j < h; j++ {
		pmType := p.PMs[j].Type

		// s_h = sum_v A(type(v), type(h)) * y_vh  ->  sum - s_h = 0
		sRow := make([]milp.Entry, 0, v+1)
		for i := 0; i < v; i++ {
			a := p.VMTypes[p.VMs[i].Type].CPUShare[pmType]
			if a != 0 {
				sRow = append(sRow, milp.Entry{Col: lay.yCol(i, j), Val: a})
			}
		}
		sRow = append(sRow, milp.Entry{Col: lay.sCol(j), Val: -1})
		m.AddConstraint(sRow, milp.EQ, 0)

		// s_h <= x_h
		m.AddConstraint([]milp.Entry{
			{Col: lay.sCol(j), Val: 1},
			{Col: lay.xCol(j), Val: -1},
		}, milp.LE, 0)

		// RAM: sum_v M(type(v), type(h)) * y_vh <= x_h
		mRow := make([]milp.Entry, 0, v+1)
		for i := 0; i < v; i++ {
			rm := p.VMTypes[p.VMs[i].Type].RAMShare[pmType]
			if rm != 0 {
				mRow = append(mRow, milp.Entry{Col: lay.yCol(i, j), Val: rm})
			}
		}
		mRow = append(mRow, milp.Entry{Col: lay.xCol(j), Val: -1})
		m.AddConstraint(mRow, milp.LE, 0)

		// Lit-up: y_vh <= x_h for every v.
		for i := 0; i < v; i++ {
			m.AddConstraint([]milp.Entry{
				{Col: lay.yCol(i, j), Val: 1},
				{Col: lay.xCol(j), Val: -1},
			}, milp.LE, 0)
		}
	}

	coeffs := make([]float64, lay.numCols())
	constantOffset := 0.0
	for j := 0; j < h; j++ {
		pm := p.PMs[j]
		pt := p.PMTypes[pm.Type]
		owner := int(pm.Owner)

		if p.MinPower {
			coeffs[lay.xCol(j)] = pt.MinWatts
			coeffs[lay.sCol(j)] = pt.MaxWatts - pt.MinWatts
			continue
		}

		price := p.ElectricityPrice[owner]
		onCost := p.SwitchOnCost[owner][pm.Type]
		offCost := p.SwitchOffCost[owner][pm.Type]

		coeffs[lay.xCol(j)] = pt.MinWatts*price*1e-3 + boolToF(!pm.Initial)*onCost - boolToF(pm.Initial)*offCost
		coeffs[lay.sCol(j)] = (pt.MaxWatts - pt.MinWatts) * price * 1e-3
		constantOffset += boolToF(pm.Initial) * offCost
	}
	if !p.MinPower {
		for i := 0; i < v; i++ {
			vm := p.VMs[i]
			for j := 0; j < h; j++ {
				pm := p.PMs[j]
				g := p.MigrationCost[int(vm.Owner)][int(pm.Owner)][vm.Type]
				if g != 0 {
					coeffs[lay.yCol(i, j)] += g
				}
			}
		}
	}
	m.SetObjective(coeffs, true)
	if p.RelGap > 0 {
		m.SetGap(p.RelGap)
	}

	solveCtx := ctx
	if p.TimeLimit > 0 {
		var cancel context.CancelFunc
		solveCtx, cancel = context.WithTimeout(ctx, time.Duration(p.TimeLimit*float64(time.Second)))
		defer cancel()
	}

	res, err := m.Solve(solveCtx)
	if err != nil {
		return Result{}, fmt.Errorf("solver: %w", err)
	}

	switch res.Status {
	case milp.StatusInfeasible:
		return Result{Solved: false, Optimal: false}, nil
	case milp.StatusError:
		return Result{}, fmt.Errorf("%w: backend returned an error status", core.ErrSolverFailure)
	}

	result := postProcess(p, lay, res.Variables, constantOffset)
	result.Solved = true
	result.Optimal = res.Status == milp.StatusOptimal
	result.Objective = res.Objective
	if !result.Optimal {
		result.Warning = "solver: time limit reached, accepted feasible-suboptimal solution"
	}
	if p.MinPower && (hasNonZeroTransitionOrMigration(p)) {
		result.Warning = appendWarning(result.Warning, "min-power objective mixes monetary and watt units when transition/migration costs are non-zero")
	}
	return result, nil
}

func boolToF(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func appendWarning(existing, extra string) string {
	if existing == "" {
		return extra
	}
	return existing + "; " + extra
}

func hasNonZeroTransitionOrMigration(p Problem) bool {
	for _, row := range p.SwitchOnCost {
		for _, c := range row {
			if c != 0 {
				return true
			}
		}
	}
	for _, row := range p.SwitchOffCost {
		for _, c := range row {
			if c != 0 {
				return true
			}
		}
	}
	for _, plane := range p.MigrationCost {
		for _, row := range plane {
			for _, c := range row {
				if c != 0 {
					return true
				}
			}
		}
	}
	return false
}

// postProcess turns the MILP variable assignment into an Allocation and the
// cost/kWh breakdown.
func postProcess(p Problem, lay layout, vars []float64, constantOffset float64) Result {
	h := len(p.PMs)
	v := len(p.VMs)

	on := make([]bool, h)
	assignment := make([][]int, h)
	watts := make([]float64, h)

	for j := 0; j < h; j++ {
		on[j] = vars[lay.xCol(j)] > 0.5
		s := vars[lay.sCol(j)]
		pt := p.PMTypes[p.PMs[j].Type]
		if on[j] {
			watts[j] = pt.MinWatts + (pt.MaxWatts-pt.MinWatts)*s
		}
	}
	for i := 0; i < v; i++ {
		for j := 0; j < h; j++ {
			if vars[lay.yCol(i, j)] > 0.5 {
				assignment[j] = append(assignment[j], i)
			}
		}
	}

	var elec, transition, migration float64
	for j := 0; j < h; j++ {
		pm := p.PMs[j]
		owner := int(pm.Owner)
		pt := p.PMTypes[pm.Type]
		s := 0.0
		if on[j] {
			s = vars[lay.sCol(j)]
		}
		if !p.MinPower {
			elec += (pt.MinWatts*boolToF(on[j]) + (pt.MaxWatts-pt.MinWatts)*s) * p.ElectricityPrice[owner] * 1e-3
			if on[j] && !pm.Initial {
				transition += p.SwitchOnCost[owner][pm.Type]
			} else if !on[j] && pm.Initial {
				transition += p.SwitchOffCost[owner][pm.Type]
			}
		}
	}
	if !p.MinPower {
		for j, vmIdxs := range assignment {
			pm := p.PMs[j]
			for _, i := range vmIdxs {
				vm := p.VMs[i]
				migration += p.MigrationCost[int(vm.Owner)][int(pm.Owner)][vm.Type]
			}
		}
	}

	totalWatts := 0.0
	for _, w := range watts {
		totalWatts += w
	}

	return Result{
		ElectricityCost: elec,
		TransitionCost:  transition,
		MigrationCost:   migration,
		CostTotal:       elec + transition + migration,
		KWh:             totalWatts * 1e-3,
		Allocation: core.Allocation{
			On:         on,
			Assignment: assignment,
			WattsPerPM: watts,
		},
	}
}

// solveEmptyWorkload handles the zero-VM boundary case directly, with no MILP
// call: with no VMs to host, the optimal allocation turns every PM off,
// paying only whatever switch-off penalties that incurs.
func solveEmptyWorkload(p Problem) Result {
	h := len(p.PMs)
	on := make([]bool, h)
	assignment := make([][]int, h)
	watts := make([]float64, h)
	var transition float64
	for j := 0; j < h; j++ {
		pm := p.PMs[j]
		if pm.Initial && !p.MinPower {
			transition += p.SwitchOffCost[int(pm.Owner)][pm.Type]
		}
	}
	return Result{
		Solved:    true,
		Optimal:   true,
		CostTotal: transition,
		TransitionCost: transition,
		Allocation: core.Allocation{On: on, Assignment: assignment, WattsPerPM: watts},
	}
}
