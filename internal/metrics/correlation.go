package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/lucentbytes/insightloom-cli/internal/table"
)

// CorrMatrix is a symmetric Pearson correlation matrix across the numeric
// columns of a table, in table column order.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// Pair is one off-diagonal correlation entry.
type Pair struct {
	A, B string
	R    float64
}

// Pairs returns the upper-triangle entries in deterministic order.
func (m *CorrMatrix) Pairs() []Pair {
	var out []Pair
	for i := 0; i < len(m.Columns); i++ {
		for j := i + 1; j < len(m.Columns); j++ {
			out = append(out, Pair{A: m.Columns[i], B: m.Columns[j], R: m.Values[i][j]})
		}
	}
	return out
}

// Correlations computes pairwise Pearson coefficients over rows where both
// columns are present. Returns nil when fewer than two numeric columns
// exist.
func Correlations(t *table.Table) *CorrMatrix {
	numeric := NumericColumns(t)
	if len(numeric) < 2 {
		return nil
	}
	n := len(numeric)
	m := &CorrMatrix{Columns: make([]string, n), Values: make([][]float64, n)}
	for i, c := range numeric {
		m.Columns[i] = c.Name
		m.Values[i] = make([]float64, n)
		m.Values[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := pearson(numeric[i], numeric[j], t.Rows())
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

func pearson(a, b *table.Column, rows int) float64 {
	xs := make([]float64, 0, rows)
	ys := make([]float64, 0, rows)
	for i := 0; i < rows; i++ {
		x, okX := a.FloatAt(i)
		y, okY := b.FloatAt(i)
		if !okX || !okY {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	if len(xs) < 2 {
		return 0
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}
