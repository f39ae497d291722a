package scenario

import (
	"fmt"
	"strconv"
	"strings"
)

// tree is the generic parse result of a scenario-file value: either a
// scalar float64 or a nested []tree, one level per bracket depth. Callers
// assert it down to the shape promised for the key they asked for.
type tree interface{}

// parseValue parses one key's right-hand side — a bare number or a
// bracket expression nested to any depth — into a tree; the as* helpers
// reject values whose depth does not fit the key. Brackets and numbers may be separated by any amount of
// whitespace.
func parseValue(raw string) (tree, error) {
	toks := tokenize(raw)
	if len(toks) == 0 {
		return nil, fmt.Errorf("empty value")
	}
	val, rest, err := parseTree(toks)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("trailing tokens after value: %v", rest)
	}
	return val, nil
}

func tokenize(raw string) []string {
	raw = strings.ReplaceAll(raw, "[", " [ ")
	raw = strings.ReplaceAll(raw, "]", " ] ")
	return strings.Fields(raw)
}

// parseTree consumes either a single number token or a balanced "[ ... ]"
// run from the front of toks, returning the remainder.
func parseTree(toks []string) (tree, []string, error) {
	if len(toks) == 0 {
		return nil, nil, fmt.Errorf("unexpected end of value")
	}
	if toks[0] != "[" {
		f, err := strconv.ParseFloat(toks[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("not a number: %q", toks[0])
		}
		return f, toks[1:], nil
	}

	rest := toks[1:]
	var items []tree
	for {
		if len(rest) == 0 {
			return nil, nil, fmt.Errorf("unterminated \"[\"")
		}
		if rest[0] == "]" {
			return items, rest[1:], nil
		}
		item, remainder, err := parseTree(rest)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, item)
		rest = remainder
	}
}

func asScalar(t tree) (float64, error) {
	f, ok := t.(float64)
	if !ok {
		return 0, fmt.Errorf("expected a scalar, got a bracketed value")
	}
	return f, nil
}

func asVector(t tree) ([]float64, error) {
	items, ok := t.([]tree)
	if !ok {
		return nil, fmt.Errorf("expected a 1-D vector, got a scalar")
	}
	out := make([]float64, len(items))
	for i, it := range items {
		f, err := asScalar(it)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = f
	}
	return out, nil
}

func asMatrix(t tree) ([][]float64, error) {
	items, ok := t.([]tree)
	if !ok {
		return nil, fmt.Errorf("expected a 2-D matrix, got a scalar")
	}
	out := make([][]float64, len(items))
	for i, it := range items {
		row, err := asVector(it)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = row
	}
	return out, nil
}

func asCube(t tree) ([][][]float64, error) {
	items, ok := t.([]tree)
	if !ok {
		return nil, fmt.Errorf("expected a 3-D cube, got a scalar")
	}
	out := make([][][]float64, len(items))
	for i, it := range items {
		mat, err := asMatrix(it)
		if err != nil {
			return nil, fmt.Errorf("plane %d: %w", i, err)
		}
		out[i] = mat
	}
	return out, nil
}

func asBoolVector(t tree) ([]bool, error) {
	vec, err := asVector(t)
	if err != nil {
		return nil, err
	}
	out := make([]bool, len(vec))
	for i, v := range vec {
		out[i] = v != 0
	}
	return out, nil
}

func asBoolMatrix(t tree) ([][]bool, error) {
	items, ok := t.([]tree)
	if !ok {
		return nil, fmt.Errorf("expected a 2-D matrix, got a scalar")
	}
	out := make([][]bool, len(items))
	for i, it := range items {
		row, err := asBoolVector(it)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = row
	}
	return out, nil
}

func asIntMatrix(t tree) ([][]int, error) {
	mat, err := asMatrix(t)
	if err != nil {
		return nil, err
	}
	out := make([][]int, len(mat))
	for i, row := range mat {
		out[i] = make([]int, len(row))
		for j, v := range row {
			out[i][j] = int(v)
		}
	}
	return out, nil
}
