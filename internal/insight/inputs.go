package insight

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/lucentbytes/insightloom-cli/internal/metrics"
	"github.com/lucentbytes/insightloom-cli/internal/table"
)

// NumericColumn is the per-column numeric view the rules read. Values are
// unrounded; formatting happens in the narrative strings.
type NumericColumn struct {
	Name       string
	Mean       float64
	Std        float64 // sample standard deviation, 0 for <2 values
	Skew       float64
	OutlierPct float64 // IQR-rule outliers over total row count, percent
}

// CategoricalColumn is the per-column categorical view.
type CategoricalColumn struct {
	Name          string
	Distinct      int
	DominantName  string
	DominantShare float64 // percent of non-null values
}

// Metrics is the precomputed, read-only input of the rule battery.
type Metrics struct {
	Rows          int
	Columns       int
	MissingPct    float64 // percent of null cells over rows*columns
	DuplicateRows int
	Numeric       []NumericColumn
	Categorical   []CategoricalColumn
	Correlations  []metrics.Pair
}

// OutlierPct returns the outlier rates summed across numeric columns.
func (m Metrics) OutlierPct() float64 {
	total := 0.0
	for _, c := range m.Numeric {
		total += c.OutlierPct
	}
	return total
}

// BuildMetrics derives the rule inputs from a loaded table and its
// correlation matrix (nil when fewer than two numeric columns exist).
func BuildMetrics(t *table.Table, corr *metrics.CorrMatrix) Metrics {
	m := Metrics{
		Rows:          t.Rows(),
		Columns:       t.Cols(),
		DuplicateRows: t.DuplicateRows(),
	}

	totalCells := t.Rows() * t.Cols()
	nulls := 0
	cols := t.Columns()
	for i := range cols {
		nulls += cols[i].NullCount()
	}
	if totalCells > 0 {
		m.MissingPct = float64(nulls) / float64(totalCells) * 100
	}

	for i := range cols {
		c := &cols[i]
		switch metrics.Classify(c) {
		case metrics.ClassNumeric:
			m.Numeric = append(m.Numeric, numericView(c, t.Rows()))
		case metrics.ClassCategorical:
			m.Categorical = append(m.Categorical, categoricalView(c))
		}
	}

	if corr != nil {
		m.Correlations = corr.Pairs()
	}
	return m
}

func numericView(c *table.Column, rows int) NumericColumn {
	vals := c.Floats()
	nc := NumericColumn{Name: c.Name}
	if len(vals) == 0 {
		return nc
	}
	nc.Mean = stat.Mean(vals, nil)
	if len(vals) > 1 {
		if s := stat.StdDev(vals, nil); !math.IsNaN(s) {
			nc.Std = s
		}
		if sk := stat.Skew(vals, nil); !math.IsNaN(sk) && !math.IsInf(sk, 0) {
			nc.Skew = sk
		}
	}

	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	q1 := metrics.Quantile(sorted, 0.25)
	q3 := metrics.Quantile(sorted, 0.75)
	iqr := q3 - q1
	lo, hi := q1-1.5*iqr, q3+1.5*iqr
	outliers := 0
	for _, v := range vals {
		if v < lo || v > hi {
			outliers++
		}
	}
	if rows > 0 {
		nc.OutlierPct = float64(outliers) / float64(rows) * 100
	}
	return nc
}

func categoricalView(c *table.Column) CategoricalColumn {
	counts := make(map[string]int)
	nonNull := 0
	for i := 0; i < c.Len(); i++ {
		if c.Null(i) {
			continue
		}
		counts[c.Raw(i)]++
		nonNull++
	}
	cc := CategoricalColumn{Name: c.Name, Distinct: len(counts)}
	bestCount := -1
	for name, n := range counts {
		if n > bestCount || (n == bestCount && name < cc.DominantName) {
			cc.DominantName = name
			bestCount = n
		}
	}
	if nonNull > 0 && bestCount > 0 {
		cc.DominantShare = float64(bestCount) / float64(nonNull) * 100
	}
	return cc
}
