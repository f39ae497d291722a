// Package scenario parses the line-oriented scenario file format into
// a core.Scenario. The tokenizer/value grammar lives in tokens.go; this file
// is the "open, line-scan, accumulate, wrap errors" shape, generalized from
// fixed-column CSV records to nested bracket values and returning errors
// instead of calling log.Fatalf.
package scenario

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/g-uva/federation-formation-sim/pkg/core"
)

// Parse reads a scenario file from r and builds a core.Scenario. Mandatory
// fields are the three counts (num_cips, num_pm_types, num_vm_types); every
// other field defaults to zero/all-off when absent. A shape mismatch
// against the declared counts is a parse error, never a guessed fallback.
func Parse(r io.Reader) (*core.Scenario, error) {
	fields, err := scan(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrScenarioParse, err)
	}

	n, err := requireScalarInt(fields, "num_cips")
	if err != nil {
		return nil, err
	}
	t, err := requireScalarInt(fields, "num_pm_types")
	if err != nil {
		return nil, err
	}
	v, err := requireScalarInt(fields, "num_vm_types")
	if err != nil {
		return nil, err
	}
	if n <= 0 || t <= 0 || v <= 0 {
		return nil, fmt.Errorf("%w: num_cips/num_pm_types/num_vm_types must be positive", core.ErrScenarioParse)
	}

	scn := &core.Scenario{NumPlayers: n}

	scn.PMTypes, err = pmTypes(fields, t)
	if err != nil {
		return nil, err
	}
	scn.VMTypes, err = vmTypes(fields, v, t)
	if err != nil {
		return nil, err
	}

	scn.NumPMs, err = intMatrixOrZero(fields, "cip_num_pms", n, t)
	if err != nil {
		return nil, err
	}
	scn.NumVMs, err = intMatrixOrZero(fields, "cip_num_vms", n, v)
	if err != nil {
		return nil, err
	}
	scn.Revenue, err = floatMatrixOrZero(fields, "cip_revenues", n, v)
	if err != nil {
		return nil, err
	}
	scn.ElectricityPrice, err = electricityPrice(fields, n)
	if err != nil {
		return nil, err
	}
	scn.SwitchOnCost, err = floatMatrixOrZero(fields, "cip_pm_awake_costs", n, t)
	if err != nil {
		return nil, err
	}
	scn.SwitchOffCost, err = floatMatrixOrZero(fields, "cip_pm_asleep_costs", n, t)
	if err != nil {
		return nil, err
	}
	scn.PMPowerStates, err = pmPowerStates(fields, scn.NumPMs)
	if err != nil {
		return nil, err
	}
	scn.MigrationCost, err = migrationCost(fields, n, v)
	if err != nil {
		return nil, err
	}

	return scn, nil
}

// scan strips comments/blank lines and splits each remaining line on its
// first top-level '=', lower-casing keys.
func scan(r io.Reader) (map[string]string, error) {
	fields := make(map[string]string)
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.Index(line, "=")
		if idx < 0 {
			return nil, fmt.Errorf("line %d: missing '='", lineNo)
		}
		key := strings.ToLower(strings.TrimSpace(line[:idx]))
		val := strings.TrimSpace(line[idx+1:])
		if key == "" {
			return nil, fmt.Errorf("line %d: empty key", lineNo)
		}
		fields[key] = val
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return fields, nil
}

func requireScalarInt(fields map[string]string, key string) (int, error) {
	raw, ok := fields[key]
	if !ok {
		return 0, fmt.Errorf("%w: missing mandatory field %q", core.ErrScenarioParse, key)
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", core.ErrScenarioParse, key, err)
	}
	return n, nil
}

func lookup(fields map[string]string, keys ...string) (tree, bool, error) {
	for _, k := range keys {
		raw, ok := fields[k]
		if !ok {
			continue
		}
		val, err := parseValue(raw)
		if err != nil {
			return nil, false, fmt.Errorf("%w: %s: %v", core.ErrScenarioParse, k, err)
		}
		return val, true, nil
	}
	return nil, false, nil
}

func pmTypes(fields map[string]string, t int) ([]core.PMType, error) {
	minP, err := floatVectorOrZero(fields, "pm_spec_min_powers", t)
	if err != nil {
		return nil, err
	}
	maxP, err := floatVectorOrZero(fields, "pm_spec_max_powers", t)
	if err != nil {
		return nil, err
	}
	out := make([]core.PMType, t)
	for i := range out {
		out[i] = core.PMType{MinWatts: minP[i], MaxWatts: maxP[i]}
	}
	return out, nil
}

func vmTypes(fields map[string]string, v, t int) ([]core.VMType, error) {
	cpus, err := floatMatrixOrZero(fields, "vm_spec_cpus", v, t)
	if err != nil {
		return nil, err
	}
	rams, err := floatMatrixOrZero(fields, "vm_spec_rams", v, t)
	if err != nil {
		return nil, err
	}
	out := make([]core.VMType, v)
	for i := range out {
		out[i] = core.VMType{CPUShare: cpus[i], RAMShare: rams[i]}
	}
	return out, nil
}

func electricityPrice(fields map[string]string, n int) ([]float64, error) {
	val, ok, err := lookup(fields, "cip_electricity_costs", "cip_wcosts")
	if err != nil {
		return nil, err
	}
	if !ok {
		return make([]float64, n), nil
	}
	vec, err := asVector(val)
	if err != nil {
		return nil, fmt.Errorf("%w: cip_electricity_costs: %v", core.ErrScenarioParse, err)
	}
	if len(vec) != n {
		return nil, fmt.Errorf("%w: cip_electricity_costs: expected length %d, got %d", core.ErrScenarioParse, n, len(vec))
	}
	return vec, nil
}

func floatVectorOrZero(fields map[string]string, key string, want int) ([]float64, error) {
	val, ok, err := lookup(fields, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return make([]float64, want), nil
	}
	vec, err := asVector(val)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrScenarioParse, key, err)
	}
	if len(vec) != want {
		return nil, fmt.Errorf("%w: %s: expected length %d, got %d", core.ErrScenarioParse, key, want, len(vec))
	}
	return vec, nil
}

func floatMatrixOrZero(fields map[string]string, key string, rows, cols int) ([][]float64, error) {
	val, ok, err := lookup(fields, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return zeroMatrix(rows, cols), nil
	}
	mat, err := asMatrix(val)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrScenarioParse, key, err)
	}
	if err := checkMatrixShape(key, mat, rows, cols); err != nil {
		return nil, err
	}
	return mat, nil
}

func intMatrixOrZero(fields map[string]string, key string, rows, cols int) ([][]int, error) {
	val, ok, err := lookup(fields, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		out := make([][]int, rows)
		for i := range out {
			out[i] = make([]int, cols)
		}
		return out, nil
	}
	mat, err := asIntMatrix(val)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrScenarioParse, key, err)
	}
	if len(mat) != rows {
		return nil, fmt.Errorf("%w: %s: expected %d rows, got %d", core.ErrScenarioParse, key, rows, len(mat))
	}
	for i, row := range mat {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: %s: row %d: expected %d columns, got %d", core.ErrScenarioParse, key, i, cols, len(row))
		}
	}
	return mat, nil
}

func zeroMatrix(rows, cols int) [][]float64 {
	out := make([][]float64, rows)
	for i := range out {
		out[i] = make([]float64, cols)
	}
	return out
}

func checkMatrixShape(key string, mat [][]float64, rows, cols int) error {
	if len(mat) != rows {
		return fmt.Errorf("%w: %s: expected %d rows, got %d", core.ErrScenarioParse, key, rows, len(mat))
	}
	for i, row := range mat {
		if len(row) != cols {
			return fmt.Errorf("%w: %s: row %d: expected %d columns, got %d", core.ErrScenarioParse, key, i, cols, len(row))
		}
	}
	return nil
}

// pmPowerStates reads cip_pm_power_states[p], a per-player vector whose
// length H_i must equal the total PM count implied by numPMs[p]; absent
// defaults every PM to off.
func pmPowerStates(fields map[string]string, numPMs [][]int) ([][]bool, error) {
	n := len(numPMs)
	want := make([]int, n)
	for p, row := range numPMs {
		for _, c := range row {
			want[p] += c
		}
	}

	val, ok, err := lookup(fields, "cip_pm_power_states")
	if err != nil {
		return nil, err
	}
	out := make([][]bool, n)
	if !ok {
		for p := range out {
			out[p] = make([]bool, want[p])
		}
		return out, nil
	}
	items, isNested := val.([]tree)
	if !isNested {
		return nil, fmt.Errorf("%w: cip_pm_power_states: expected a 2-D matrix", core.ErrScenarioParse)
	}
	if len(items) != n {
		return nil, fmt.Errorf("%w: cip_pm_power_states: expected %d rows, got %d", core.ErrScenarioParse, n, len(items))
	}
	for p, it := range items {
		row, err := asBoolVector(it)
		if err != nil {
			return nil, fmt.Errorf("%w: cip_pm_power_states: row %d: %v", core.ErrScenarioParse, p, err)
		}
		if len(row) != want[p] {
			return nil, fmt.Errorf("%w: cip_pm_power_states: row %d: expected %d entries, got %d", core.ErrScenarioParse, p, want[p], len(row))
		}
		out[p] = row
	}
	return out, nil
}

// migrationCost reads cip_to_cip_vm_migration_costs as a full [N][N][V]
// cube. Per the resolved open question, a shape mismatch fails the parse
// rather than falling back to the original's diagonal-only behavior.
func migrationCost(fields map[string]string, n, v int) ([][][]float64, error) {
	val, ok, err := lookup(fields, "cip_to_cip_vm_migration_costs")
	if err != nil {
		return nil, err
	}
	if !ok {
		out := make([][][]float64, n)
		for i := range out {
			out[i] = zeroMatrix(n, v)
		}
		return out, nil
	}
	cube, err := asCube(val)
	if err != nil {
		return nil, fmt.Errorf("%w: cip_to_cip_vm_migration_costs: %v", core.ErrScenarioParse, err)
	}
	if len(cube) != n {
		return nil, fmt.Errorf("%w: cip_to_cip_vm_migration_costs: expected %d planes, got %d", core.ErrScenarioParse, n, len(cube))
	}
	for i, plane := range cube {
		if err := checkMatrixShape(fmt.Sprintf("cip_to_cip_vm_migration_costs[%d]", i), plane, n, v); err != nil {
			return nil, err
		}
	}
	return cube, nil
}
