// Package core holds the data model shared by the placement solver, the
// coalition evaluator and the partition selector: players, PM/VM types,
// scenarios, coalitions and the allocations/payoffs computed over them.
package core

// Player identifies a Cloud Infrastructure Provider by its index in [0, N).
// Player indices are immutable for the lifetime of a run.
type Player int

// PMType describes one class of physical machine.
type PMType struct {
	MinWatts float64 // P_min(t), idle power draw
	MaxWatts float64 // P_max(t), power draw at 100% CPU utilization
}

// VMType describes one class of virtual machine in terms of the share of a
// PM's CPU and RAM it consumes, per PM type it might land on.
type VMType struct {
	CPUShare []float64 // A(v, t): fraction of PM type t's CPU, indexed by PM type
	RAMShare []float64 // M(v, t): fraction of PM type t's RAM, indexed by PM type
}

// PM is one physical machine belonging to a coalition's pool.
type PM struct {
	Owner   Player
	Type    int  // index into Scenario.PMTypes
	Initial bool // o(h): initial on/off state
}

// VM is one virtual machine requesting to be hosted.
type VM struct {
	Owner Player
	Type  int // index into Scenario.VMTypes
}
