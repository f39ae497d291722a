// Package csvexport writes coalition-info tables to CSV. Columns:
// Coalition ID, Payoff(CIP 0)...Payoff(CIP N-1), Value(Coalition); rows
// sorted by coalition id ascending; a blank separator row precedes every
// block after the first when appending multiple --rnd-numit iterations.
// Built on encoding/csv: csv.NewWriter, explicit Write/Flush, wrapped
// errors.
package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/g-uva/federation-formation-sim/pkg/core"
)

// Writer appends one or more iteration blocks to an underlying io.Writer.
// The header is emitted once, on the first WriteTable call.
type Writer struct {
	w           *csv.Writer
	n           int
	wroteHeader bool
}

// New builds a Writer that lays out payoffs for n players.
func New(w io.Writer, n int) *Writer {
	return &Writer{w: csv.NewWriter(w), n: n}
}

func (cw *Writer) header() []string {
	cols := make([]string, 0, cw.n+2)
	cols = append(cols, "Coalition ID")
	for p := 0; p < cw.n; p++ {
		cols = append(cols, fmt.Sprintf("Payoff(CIP %d)", p))
	}
	return append(cols, "Value(Coalition)")
}

// WriteTable appends one iteration's block: a header (first call only), a
// blank separator row (every call after the first), then one row per
// non-empty coalition in table, sorted by id.
func (cw *Writer) WriteTable(table core.Table) error {
	if !cw.wroteHeader {
		if err := cw.w.Write(cw.header()); err != nil {
			return fmt.Errorf("csvexport: writing header: %w", err)
		}
		cw.wroteHeader = true
	} else {
		if err := cw.w.Write(make([]string, cw.n+2)); err != nil {
			return fmt.Errorf("csvexport: writing separator row: %w", err)
		}
	}

	ids := make([]core.CoalitionID, 0, len(table)-1)
	for id := 1; id < len(table); id++ {
		if table[id].Payoff != nil {
			ids = append(ids, core.CoalitionID(id))
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		info := table[id]
		row := make([]string, 0, cw.n+2)
		row = append(row, strconv.Itoa(int(id)))
		for p := 0; p < cw.n; p++ {
			row = append(row, strconv.FormatFloat(info.Payoff[core.Player(p)], 'g', -1, 64))
		}
		row = append(row, strconv.FormatFloat(info.Value, 'g', -1, 64))
		if err := cw.w.Write(row); err != nil {
			return fmt.Errorf("csvexport: writing row for coalition %d: %w", id, err)
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer and returns any error it
// accumulated.
func (cw *Writer) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}
