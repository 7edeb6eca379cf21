// Package metrics computes dimensional info, per-column semantic typing,
// null statistics and descriptive statistics over a loaded table. All
// functions are pure reads of the table; a zero-row table yields zero-filled
// output rather than an error.
package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/lucentbytes/insightloom-cli/internal/table"
)

// Dimensions holds the row/column counts of a dataset.
type Dimensions struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

// NullStat holds null count and percentage (2 decimals) for one column.
type NullStat struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// BasicInfo is the dimensional and typing section of an analysis result.
type BasicInfo struct {
	Dimensions Dimensions          `json:"dimensions"`
	DataTypes  map[string]string   `json:"data_types"`
	NullValues map[string]NullStat `json:"null_values"`
}

// NumericSummary holds descriptive statistics for one numeric column, all
// rounded to 4 decimals.
type NumericSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Q25    float64 `json:"q25"`
	Q75    float64 `json:"q75"`
}

// Describe returns dimensions, semantic type labels and null statistics for
// every column.
func Describe(t *table.Table) BasicInfo {
	info := BasicInfo{
		Dimensions: Dimensions{Rows: t.Rows(), Columns: t.Cols()},
		DataTypes:  make(map[string]string, t.Cols()),
		NullValues: make(map[string]NullStat, t.Cols()),
	}
	cols := t.Columns()
	for i := range cols {
		c := &cols[i]
		info.DataTypes[c.Name] = c.Kind.Label()
		nulls := c.NullCount()
		pct := 0.0
		if t.Rows() > 0 {
			pct = Round(float64(nulls)/float64(t.Rows())*100, 2)
		}
		info.NullValues[c.Name] = NullStat{Count: nulls, Percentage: pct}
	}
	return info
}

// Summary computes descriptive statistics for every numeric column, keyed by
// column name.
func Summary(t *table.Table) map[string]NumericSummary {
	out := make(map[string]NumericSummary)
	cols := t.Columns()
	for i := range cols {
		c := &cols[i]
		if !c.Kind.Numeric() {
			continue
		}
		out[c.Name] = summarize(c.Floats())
	}
	return out
}

func summarize(vals []float64) NumericSummary {
	if len(vals) == 0 {
		return NumericSummary{}
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	std := 0.0
	if len(vals) > 1 {
		std = stat.StdDev(vals, nil)
		if math.IsNaN(std) {
			std = 0
		}
	}
	return NumericSummary{
		Count:  len(vals),
		Mean:   Round(stat.Mean(vals, nil), 4),
		Median: Round(Quantile(sorted, 0.5), 4),
		Std:    Round(std, 4),
		Min:    Round(sorted[0], 4),
		Max:    Round(sorted[len(sorted)-1], 4),
		Q25:    Round(Quantile(sorted, 0.25), 4),
		Q75:    Round(Quantile(sorted, 0.75), 4),
	}
}

// Class is the auxiliary three-way column classification.
type Class int

const (
	ClassNumeric Class = iota
	ClassCategorical
	ClassText
)

// Classify labels a column Numeric when its storage kind is numeric,
// Categorical when its distinct ratio is below 0.1 with fewer than 50
// distinct values, and Text otherwise.
func Classify(c *table.Column) Class {
	if c.Kind.Numeric() {
		return ClassNumeric
	}
	total := c.Len()
	if total == 0 {
		return ClassText
	}
	distinct := c.DistinctNonNull()
	if float64(distinct)/float64(total) < 0.1 && distinct < 50 {
		return ClassCategorical
	}
	return ClassText
}

// CategoricalColumns returns the columns classified Categorical, in table
// order.
func CategoricalColumns(t *table.Table) []*table.Column {
	var out []*table.Column
	cols := t.Columns()
	for i := range cols {
		if Classify(&cols[i]) == ClassCategorical {
			out = append(out, &cols[i])
		}
	}
	return out
}

// NumericColumns returns the numeric columns in table order.
func NumericColumns(t *table.Table) []*table.Column {
	var out []*table.Column
	cols := t.Columns()
	for i := range cols {
		if cols[i].Kind.Numeric() {
			out = append(out, &cols[i])
		}
	}
	return out
}

// Quantile returns the q-th quantile of an ascending-sorted slice using
// linear interpolation between order statistics.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// Round rounds x to the given number of decimal places.
func Round(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	pow := math.Pow(10, float64(places))
	return math.Round(x*pow) / pow
}
