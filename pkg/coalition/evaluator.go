// Package coalition implements the coalition evaluator: for every
// non-empty subset of players it assembles that coalition's PM/VM pool,
// invokes the placement solver, derives the characteristic value v(S), and
// computes per-player payoffs and core-membership booleans.
package coalition

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/g-uva/federation-formation-sim/pkg/combin"
	"github.com/g-uva/federation-formation-sim/pkg/core"
	"github.com/g-uva/federation-formation-sim/pkg/solver"
)

// Recorder receives evaluator progress notifications. internal/metrics
// implements this to export Prometheus counters/histograms; a nil Recorder
// is a silent no-op, so the evaluator never has to special-case "metrics
// disabled".
type Recorder interface {
	CoalitionEvaluated()
	CoalitionInfeasible()
	SolverDuration(seconds float64)
}

type noopRecorder struct{}

func (noopRecorder) CoalitionEvaluated()        {}
func (noopRecorder) CoalitionInfeasible()       {}
func (noopRecorder) SolverDuration(float64) {}

// Evaluator runs the coalition-evaluation algorithm against a parsed Scenario.
type Evaluator struct {
	scenario *core.Scenario
	rule     PayoffRule
	relGap   float64
	tilim    float64
	logger   *zap.SugaredLogger
	recorder Recorder

	playerPMs [][]core.PM
	playerVMs [][]core.VM
}

// Option configures an Evaluator.
type Option func(*Evaluator)

func WithLogger(l *zap.SugaredLogger) Option { return func(e *Evaluator) { e.logger = l } }
func WithRecorder(r Recorder) Option {
	return func(e *Evaluator) {
		if r != nil {
			e.recorder = r
		}
	}
}
func WithRelGap(g float64) Option    { return func(e *Evaluator) { e.relGap = g } }
func WithTimeLimit(t float64) Option { return func(e *Evaluator) { e.tilim = t } }

// NewEvaluator builds an Evaluator over scn using payoff rule rule.
func NewEvaluator(scn *core.Scenario, rule PayoffRule, opts ...Option) *Evaluator {
	e := &Evaluator{
		scenario: scn,
		rule:     rule,
		relGap:   core.DefaultRelGap,
		tilim:    core.DefaultTimeLimit,
		logger:   zap.NewNop().Sugar(),
		recorder: noopRecorder{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.playerPMs = assemblePMs(scn)
	e.playerVMs = assembleVMs(scn)
	return e
}

func assemblePMs(scn *core.Scenario) [][]core.PM {
	out := make([][]core.PM, scn.NumPlayers)
	for p := 0; p < scn.NumPlayers; p++ {
		var pms []core.PM
		idx := 0
		for t := range scn.PMTypes {
			count := 0
			if t < len(scn.NumPMs[p]) {
				count = scn.NumPMs[p][t]
			}
			for k := 0; k < count; k++ {
				initial := false
				if idx < len(scn.PMPowerStates[p]) {
					initial = scn.PMPowerStates[p][idx]
				}
				pms = append(pms, core.PM{Owner: core.Player(p), Type: t, Initial: initial})
				idx++
			}
		}
		out[p] = pms
	}
	return out
}

func assembleVMs(scn *core.Scenario) [][]core.VM {
	out := make([][]core.VM, scn.NumPlayers)
	for p := 0; p < scn.NumPlayers; p++ {
		var vms []core.VM
		for v := range scn.VMTypes {
			count := 0
			if v < len(scn.NumVMs[p]) {
				count = scn.NumVMs[p][v]
			}
			for k := 0; k < count; k++ {
				vms = append(vms, core.VM{Owner: core.Player(p), Type: v})
			}
		}
		out[p] = vms
	}
	return out
}

// Evaluate runs the full 2^N-1 enumeration and returns the populated
// characteristic-function table.
func (e *Evaluator) Evaluate(ctx context.Context) (core.Table, error) {
	n := e.scenario.NumPlayers
	table := core.NewTable(n)

	it := combin.NewSubsetIterator(n, false)
	for id, ok := it.Next(); ok; id, ok = it.Next() {
		members := core.PlayerSet(id, n)

		problem := solver.Problem{
			PMs:              e.concatPMs(members),
			VMs:              e.concatVMs(members),
			PMTypes:          e.scenario.PMTypes,
			VMTypes:          e.scenario.VMTypes,
			ElectricityPrice: e.scenario.ElectricityPrice,
			SwitchOnCost:     e.scenario.SwitchOnCost,
			SwitchOffCost:    e.scenario.SwitchOffCost,
			MigrationCost:    e.scenario.MigrationCost,
			RelGap:           e.relGap,
			TimeLimit:        e.tilim,
		}

		start := time.Now()
		res, err := solver.Solve(ctx, problem)
		if err != nil {
			return nil, fmt.Errorf("coalition %d: %w", id, err)
		}
		e.recorder.SolverDuration(time.Since(start).Seconds())
		e.recorder.CoalitionEvaluated()

		info := core.CoalitionInfo{ID: id, Profit: e.profit(members)}
		if res.Solved {
			info.Solved = true
			info.Optimal = res.Optimal
			info.Allocation = res.Allocation
			info.CostTotal = res.CostTotal
			info.ElectricityKWh = res.KWh
			info.Value = info.Profit - res.CostTotal
			if res.Warning != "" {
				e.logger.Warnw("solver warning", "coalition", int(id), "warning", res.Warning)
			}
		} else {
			e.recorder.CoalitionInfeasible()
			info.Value = core.NegInfSentinel
		}
		table[id] = info

		info.Payoff = e.rule.Compute(table, members, id)
		coreEmpty, err := coreNonEmpty(ctx, table, members, id)
		if err != nil {
			return nil, fmt.Errorf("coalition %d core test: %w", id, err)
		}
		info.CoreNonEmpty = coreEmpty
		info.PayoffInCore = coreEmpty && payoffInCore(table, members, id, info.Payoff)
		table[id] = info
	}
	return table, nil
}

func (e *Evaluator) profit(members []core.Player) float64 {
	var total float64
	for _, p := range members {
		for v, r := range e.scenario.Revenue[p] {
			count := 0
			if v < len(e.scenario.NumVMs[p]) {
				count = e.scenario.NumVMs[p][v]
			}
			total += r * float64(count)
		}
	}
	return total
}

func (e *Evaluator) concatPMs(members []core.Player) []core.PM {
	var out []core.PM
	for _, p := range members {
		out = append(out, e.playerPMs[p]...)
	}
	return out
}

func (e *Evaluator) concatVMs(members []core.Player) []core.VM {
	var out []core.VM
	for _, p := range members {
		out = append(out, e.playerVMs[p]...)
	}
	return out
}
