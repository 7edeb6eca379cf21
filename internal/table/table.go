// Package table loads raw tabular input into an immutable, column-oriented
// Table. Loading tolerates ragged rows and unknown encodings/delimiters via
// an explicit candidate fallback chain; after Load returns, the Table is
// read-only for every downstream consumer.
package table

import (
	"strconv"
	"strings"
	"time"
)

// Kind is the storage kind inferred for a column from its non-null cells.
type Kind int

const (
	KindText Kind = iota
	KindInteger
	KindDecimal
	KindDate
)

// Label returns the user-facing semantic type for the kind. The Spanish
// labels are part of the output contract consumed by the report renderer.
func (k Kind) Label() string {
	switch k {
	case KindInteger:
		return "Entero"
	case KindDecimal:
		return "Decimal"
	case KindDate:
		return "Fecha"
	default:
		return "Texto"
	}
}

// Numeric reports whether the kind stores numbers.
func (k Kind) Numeric() bool { return k == KindInteger || k == KindDecimal }

// Column is a named, typed column. Cells are kept in row order; empty cells
// are nulls.
type Column struct {
	Name string
	Kind Kind

	cells []string
	nulls []bool
}

// Len returns the number of cells (including nulls).
func (c *Column) Len() int { return len(c.cells) }

// Null reports whether the cell at row i is null.
func (c *Column) Null(i int) bool { return c.nulls[i] }

// Raw returns the trimmed cell text at row i ("" for nulls).
func (c *Column) Raw(i int) string { return c.cells[i] }

// NullCount returns the number of null cells.
func (c *Column) NullCount() int {
	n := 0
	for _, isNull := range c.nulls {
		if isNull {
			n++
		}
	}
	return n
}

// DistinctNonNull returns the number of distinct non-null values.
func (c *Column) DistinctNonNull() int {
	seen := make(map[string]struct{})
	for i, v := range c.cells {
		if !c.nulls[i] {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

// Floats returns the parsed non-null values of a numeric column in row
// order. Non-numeric columns yield an empty slice.
func (c *Column) Floats() []float64 {
	if !c.Kind.Numeric() {
		return nil
	}
	out := make([]float64, 0, len(c.cells))
	for i, v := range c.cells {
		if c.nulls[i] {
			continue
		}
		if x, err := strconv.ParseFloat(v, 64); err == nil {
			out = append(out, x)
		}
	}
	return out
}

// FloatAt returns the numeric value at row i and whether it is present.
func (c *Column) FloatAt(i int) (float64, bool) {
	if c.nulls[i] || !c.Kind.Numeric() {
		return 0, false
	}
	x, err := strconv.ParseFloat(c.cells[i], 64)
	if err != nil {
		return 0, false
	}
	return x, true
}

// Value returns the typed value at row i for previews: int64 for Entero,
// float64 for Decimal, string otherwise, nil for nulls.
func (c *Column) Value(i int) any {
	if c.nulls[i] {
		return nil
	}
	switch c.Kind {
	case KindInteger:
		if n, err := strconv.ParseInt(c.cells[i], 10, 64); err == nil {
			return n
		}
	case KindDecimal:
		if x, err := strconv.ParseFloat(c.cells[i], 64); err == nil {
			return x
		}
	}
	return c.cells[i]
}

// Table is an ordered set of named columns over a fixed number of rows.
type Table struct {
	cols []Column
	rows int
}

// Rows returns the row count.
func (t *Table) Rows() int { return t.rows }

// Cols returns the column count.
func (t *Table) Cols() int { return len(t.cols) }

// Columns returns the columns in declaration order. Callers must treat the
// slice and its columns as read-only.
func (t *Table) Columns() []Column { return t.cols }

// Column returns the column with the given name, or nil.
func (t *Table) Column(name string) *Column {
	for i := range t.cols {
		if t.cols[i].Name == name {
			return &t.cols[i]
		}
	}
	return nil
}

// ColumnNames returns the names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i := range t.cols {
		names[i] = t.cols[i].Name
	}
	return names
}

// DuplicateRows counts rows whose raw cells exactly match an earlier row.
func (t *Table) DuplicateRows() int {
	seen := make(map[string]struct{}, t.rows)
	dups := 0
	var b strings.Builder
	for i := 0; i < t.rows; i++ {
		b.Reset()
		for j := range t.cols {
			b.WriteString(t.cols[j].cells[i])
			b.WriteByte(0x1f)
		}
		key := b.String()
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}

// dateLayouts accepted when inferring a date column.
var dateLayouts = []string{
	time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
	"2006-01-02 15:04", "2006-01-02 15:04:05",
}

func parseDate(s string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// build assembles a Table from a header and ragged records. Short records
// are padded with nulls, long ones truncated to the header width. Duplicate
// header names get a positional ".N" suffix to keep names unique.
func build(header []string, records [][]string) *Table {
	ncol := len(header)
	names := make([]string, ncol)
	seen := make(map[string]int, ncol)
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "columna_" + strconv.Itoa(i+1)
		}
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			name = name + "." + strconv.Itoa(n)
		} else {
			seen[name] = 1
		}
		names[i] = name
	}

	t := &Table{cols: make([]Column, ncol), rows: len(records)}
	for j := 0; j < ncol; j++ {
		col := Column{
			Name:  names[j],
			cells: make([]string, len(records)),
			nulls: make([]bool, len(records)),
		}
		for i, rec := range records {
			v := ""
			if j < len(rec) {
				v = strings.TrimSpace(rec[j])
			}
			col.cells[i] = v
			col.nulls[i] = v == ""
		}
		col.Kind = inferKind(&col)
		t.cols[j] = col
	}
	return t
}

// inferKind classifies a column from its non-null cells: all integers →
// Entero, all numbers → Decimal, all dates → Fecha, anything else → Texto.
// A fully null column is Texto.
func inferKind(c *Column) Kind {
	allInt, allFloat, allDate := true, true, true
	nonNull := 0
	for i, v := range c.cells {
		if c.nulls[i] {
			continue
		}
		nonNull++
		if allInt {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				allInt = false
			}
		}
		if allFloat {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				allFloat = false
			}
		}
		if allDate && !parseDate(v) {
			allDate = false
		}
		if !allInt && !allFloat && !allDate {
			return KindText
		}
	}
	switch {
	case nonNull == 0:
		return KindText
	case allInt:
		return KindInteger
	case allFloat:
		return KindDecimal
	case allDate:
		return KindDate
	default:
		return KindText
	}
}
