package csvexport

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/g-uva/federation-formation-sim/pkg/core"
)

func tableFor2() core.Table {
	table := core.NewTable(2)
	table[1] = core.CoalitionInfo{ID: 1, Value: 2, Payoff: map[core.Player]float64{0: 2}}
	table[2] = core.CoalitionInfo{ID: 2, Value: 3, Payoff: map[core.Player]float64{1: 3}}
	table[3] = core.CoalitionInfo{ID: 3, Value: 10, Payoff: map[core.Player]float64{0: 5, 1: 5}}
	return table
}

func TestWriteTableHeaderAndRowCount(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf, 2)
	if err := w.WriteTable(tableFor2()); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("re-parsing CSV output: %v", err)
	}
	if len(records) != 4 { // header + 3 coalitions
		t.Fatalf("got %d records, want 4", len(records))
	}
	if records[0][0] != "Coalition ID" {
		t.Errorf("header[0] = %q, want %q", records[0][0], "Coalition ID")
	}
}

func TestWriteTableSkipsUnevaluatedCoalitions(t *testing.T) {
	table := core.NewTable(1)
	// table[1] left as a zero-value CoalitionInfo: Payoff is nil, so the row
	// must be skipped.
	var buf bytes.Buffer
	w := New(&buf, 1)
	if err := w.WriteTable(table); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	w.Flush()

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("re-parsing CSV output: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1 (header only)", len(records))
	}
}

func TestWriteTableSeparatesMultipleIterations(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf, 2)
	if err := w.WriteTable(tableFor2()); err != nil {
		t.Fatalf("first WriteTable: %v", err)
	}
	if err := w.WriteTable(tableFor2()); err != nil {
		t.Fatalf("second WriteTable: %v", err)
	}
	w.Flush()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	// header + 3 rows + blank separator + 3 rows = 8 lines.
	if len(lines) != 8 {
		t.Fatalf("got %d lines, want 8; output:\n%s", len(lines), buf.String())
	}
	if lines[4] != strings.Repeat(",", 3) {
		t.Errorf("separator row = %q, want a row of empty fields", lines[4])
	}
}

func TestWriteTableRowsSortedAscending(t *testing.T) {
	table := core.NewTable(2)
	table[3] = core.CoalitionInfo{ID: 3, Value: 1, Payoff: map[core.Player]float64{0: 1, 1: 0}}
	table[1] = core.CoalitionInfo{ID: 1, Value: 2, Payoff: map[core.Player]float64{0: 2}}
	var buf bytes.Buffer
	w := New(&buf, 2)
	if err := w.WriteTable(table); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	w.Flush()

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("re-parsing CSV output: %v", err)
	}
	if records[1][0] != "1" || records[2][0] != "3" {
		t.Errorf("rows not ascending by coalition id: %v", records[1:])
	}
}
