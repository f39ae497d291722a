// Package milp isolates the one external MILP solver binding the core
// depends on, github.com/draffensperger/golp (Go bindings for lp_solve),
// behind a small vocabulary of columns, sparse constraint rows and a
// solve-status enum. pkg/solver and pkg/coalition build problems against
// this package rather than importing golp directly, keeping the one
// external integration behind a single file the way the rest of this
// codebase isolates its own external clients.
package milp

import (
	"context"
	"fmt"

	"github.com/draffensperger/golp"
)

// Op is a constraint relation.
type Op int

const (
	LE Op = iota
	GE
	EQ
)

func (op Op) golp() golp.ConstrType {
	switch op {
	case GE:
		return golp.GE
	case EQ:
		return golp.EQ
	default:
		return golp.LE
	}
}

// Entry is one non-zero coefficient in a sparse constraint row.
type Entry struct {
	Col int
	Val float64
}

// Status classifies a solve outcome. It collapses golp's richer
// lp_solve status codes down to the four the core needs ("a status
// outside {optimal, feasible-suboptimal} yields solved = false").
type Status int

const (
	StatusOptimal Status = iota
	StatusFeasibleSuboptimal
	StatusInfeasible
	StatusError
)

// Model is a binary/mixed MILP under construction.
type Model struct {
	lp      *golp.LP
	numCols int
}

// New allocates a model with numCols decision variables and no rows yet;
// rows are added with AddConstraint as the caller discovers them, matching
// golp's own incremental, sparse row-add style.
func New(numCols int) *Model {
	return &Model{lp: golp.NewLP(0, numCols), numCols: numCols}
}

// SetBinary marks column col as a 0/1 decision variable.
func (m *Model) SetBinary(col int) {
	m.lp.SetBinary(col, true)
}

// SetContinuous marks column col as continuous within [lo, hi]. Used for the
// CPU-utilization variables s_h ("0 <= s_h <= 1").
func (m *Model) SetContinuous(col int, lo, hi float64) {
	m.lp.SetBinary(col, false)
	m.lp.SetBounds(col, lo, hi)
}

// AddConstraint adds a sparse row: sum(entries) `op` rhs.
func (m *Model) AddConstraint(entries []Entry, op Op, rhs float64) {
	row := make([]golp.Entry, len(entries))
	for i, e := range entries {
		row[i] = golp.Entry{Col: e.Col, Val: e.Val}
	}
	m.lp.AddConstraintSparse(row, op.golp(), rhs)
}

// SetObjective sets the (sparse, dense-encoded) objective row and solve
// direction.
func (m *Model) SetObjective(coeffs []float64, minimize bool) {
	m.lp.SetObjFn(coeffs)
	if minimize {
		m.lp.SetMinim()
	} else {
		m.lp.SetMaxim()
	}
}

// SetGap sets lp_solve's relative MIP gap: the solver may stop once the
// best integer solution found is within gap of the relaxation bound.
func (m *Model) SetGap(gap float64) {
	m.lp.SetMipGap(false, gap)
}

// Result is a terminated solve: its status, the variable assignment (valid
// for StatusOptimal/StatusFeasibleSuboptimal only) and the objective value.
type Result struct {
	Status     Status
	Variables  []float64
	Objective  float64
}

// Solve runs the solver, honoring ctx as the only cooperative cancellation
// signal: the time limit is enforced from outside, not inside, lp_solve.
// golp's own lp_solve backend is blocking and offers no cancellation hook,
// so the deadline is enforced by running the solve on a worker goroutine
// and racing it against ctx.Done(). When the deadline fires, Solve checks
// once, without waiting, whether the worker has already finished: if so,
// its result is returned, with StatusOptimal downgraded to
// StatusFeasibleSuboptimal; otherwise the solve is reported as
// StatusInfeasible. No intermediate incumbent of a still-running solve is
// read — a timeout with nothing to show for it is a non-solution, not a
// backend error. lp_solve's own process keeps running in the background, but its
// result is discarded, matching the rule that the MILP solver owns its own
// environment and releases it at scope exit, since the *Model going out of
// scope is what ultimately frees it.
func (m *Model) Solve(ctx context.Context) (Result, error) {
	type outcome struct {
		status golp.SolutionType
	}
	done := make(chan outcome, 1)
	go func() {
		done <- outcome{status: m.lp.Solve()}
	}()

	select {
	case o := <-done:
		return m.resultFor(o.status)
	case <-ctx.Done():
		// The worker may have finished at the same moment the deadline
		// fired; take its result if it is already there, without waiting.
		select {
		case o := <-done:
			r, err := m.resultFor(o.status)
			if err == nil && r.Status == StatusOptimal {
				r.Status = StatusFeasibleSuboptimal
			}
			return r, err
		default:
			return Result{Status: StatusInfeasible}, nil
		}
	}
}

func (m *Model) resultFor(status golp.SolutionType) (Result, error) {
	switch status {
	case golp.OPTIMAL:
		return Result{Status: StatusOptimal, Variables: m.lp.Variables(), Objective: m.lp.Objective()}, nil
	case golp.SUBOPTIMAL, golp.DEGENERATE, golp.TIMEOUT, golp.PRESOLVED:
		return Result{Status: StatusFeasibleSuboptimal, Variables: m.lp.Variables(), Objective: m.lp.Objective()}, nil
	case golp.INFEASIBLE, golp.UNBOUNDED:
		return Result{Status: StatusInfeasible}, nil
	default:
		return Result{Status: StatusError}, fmt.Errorf("milp: backend returned unexpected status %v", status)
	}
}
