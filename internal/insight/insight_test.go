package insight

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucentbytes/insightloom-cli/internal/metrics"
)

func findByCategory(recs []Record, c Category) []Record {
	var out []Record
	for _, r := range recs {
		if r.Category == c {
			out = append(out, r)
		}
	}
	return out
}

func TestQualityScorePerfectData(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	m := Metrics{
		Rows: 100, Columns: 4,
		Numeric: []NumericColumn{{Name: "a", Mean: 10, Std: 1, OutlierPct: 2}},
	}
	// No missing, no duplicates, outliers under 5%: score stays at 100.
	assert.Equal(t, 100.0, e.QualityScore(m))
}

func TestQualityScoreDeductions(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	m := Metrics{
		Rows: 100, Columns: 2,
		MissingPct:    10, // -20
		DuplicateRows: 5,  // 5% * 3 = -15
		Numeric:       []NumericColumn{{Name: "a", OutlierPct: 6}}, // -6
	}
	assert.InDelta(t, 59.0, e.QualityScore(m), 1e-9)
}

func TestQualityScoreClampedToZero(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	m := Metrics{Rows: 10, Columns: 1, MissingPct: 90}
	assert.Equal(t, 0.0, e.QualityScore(m))
}

func TestEfficiencyTiers(t *testing.T) {
	e := NewEngine(DefaultThresholds())

	perfect := e.efficiency(Metrics{Rows: 10})
	require.Len(t, perfect, 1)
	assert.Contains(t, perfect[0].Text, "Excelente calidad de datos")

	low := e.efficiency(Metrics{Rows: 10, MissingPct: 2})
	require.Len(t, low, 1)
	assert.Contains(t, low[0].Text, "alta calidad de datos")
	assert.Contains(t, low[0].Text, "2.0% faltantes")

	high := e.efficiency(Metrics{Rows: 10, MissingPct: 12})
	require.Len(t, high, 1)
	assert.Contains(t, high[0].Text, "optimización urgente")
}

func TestTrendTiers(t *testing.T) {
	e := NewEngine(DefaultThresholds())

	// CV = 60% on the most variable column.
	volatile := e.trend(Metrics{Numeric: []NumericColumn{
		{Name: "ventas", Mean: 10, Std: 6},
		{Name: "coste", Mean: 100, Std: 10},
	}})
	require.Len(t, volatile, 1)
	assert.Equal(t, CategoryTrend, volatile[0].Category)
	assert.Contains(t, volatile[0].Text, "alta volatilidad en 'ventas'")

	// Max CV below 20: stability record citing the min-CV column.
	stable := e.trend(Metrics{Numeric: []NumericColumn{
		{Name: "a", Mean: 100, Std: 15},
		{Name: "b", Mean: 100, Std: 5},
	}})
	require.Len(t, stable, 1)
	assert.Contains(t, stable[0].Text, "Excelente estabilidad")
	assert.Contains(t, stable[0].Text, "'b'")

	moderate := e.trend(Metrics{Numeric: []NumericColumn{{Name: "a", Mean: 100, Std: 30}}})
	require.Len(t, moderate, 1)
	assert.Contains(t, moderate[0].Text, "Variabilidad moderada")

	// Zero-variance columns contribute nothing.
	assert.Empty(t, e.trend(Metrics{Numeric: []NumericColumn{{Name: "a", Mean: 5, Std: 0}}}))
}

func TestSegmentationTiers(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	recs := e.segmentation(Metrics{Categorical: []CategoricalColumn{
		{Name: "canal", Distinct: 3, DominantName: "web", DominantShare: 85},
		{Name: "region", Distinct: 5, DominantName: "norte", DominantShare: 25},
		{Name: "tipo", Distinct: 4, DominantName: "pro", DominantShare: 50},
		{Name: "sku", Distinct: 40, DominantName: "x", DominantShare: 10}, // >10 distinct: skipped
	}})
	require.Len(t, recs, 3)
	assert.Contains(t, recs[0].Text, "domina el 85.0%")
	assert.Contains(t, recs[1].Text, "Distribución equilibrada")
	assert.Contains(t, recs[2].Text, "liderando (50.0%)")
}

func TestProblemTiersAreMutuallyExclusive(t *testing.T) {
	e := NewEngine(DefaultThresholds())

	critical := e.problems(Metrics{Numeric: []NumericColumn{{OutlierPct: 10}, {OutlierPct: 8}}})
	require.Len(t, critical, 1)
	assert.Contains(t, critical[0].Text, "PROBLEMA CRÍTICO")

	moderate := e.problems(Metrics{Numeric: []NumericColumn{{OutlierPct: 7}}})
	require.Len(t, moderate, 1)
	assert.Contains(t, moderate[0].Text, "PROBLEMA MODERADO")

	clean := e.problems(Metrics{Numeric: []NumericColumn{{OutlierPct: 1}}})
	require.Len(t, clean, 1)
	assert.Contains(t, clean[0].Text, "No se detectaron problemas críticos")
}

func TestKPIPicksHighestStability(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	recs := e.kpi(Metrics{Numeric: []NumericColumn{
		{Name: "ingresos", Mean: 100, Std: 30}, // stability 70
		{Name: "visitas", Mean: 200, Std: 10},  // stability 95
	}})
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0].Text, "'visitas'")
	assert.Contains(t, recs[0].Text, "95.0%")
}

func TestCorrelationRule(t *testing.T) {
	e := NewEngine(DefaultThresholds())

	recs := e.correlation(Metrics{Correlations: []metrics.Pair{
		{A: "x", B: "y", R: 0.65},
		{A: "x", B: "z", R: -0.9},
	}})
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0].Text, "negativa")
	assert.Contains(t, recs[0].Text, "0.90")
	assert.Contains(t, recs[0].Text, "'x' y 'z'")

	// Nothing above the cut: no record.
	assert.Empty(t, e.correlation(Metrics{Correlations: []metrics.Pair{{A: "x", B: "y", R: 0.5}}}))
}

func TestOpportunityRule(t *testing.T) {
	e := NewEngine(DefaultThresholds())

	recs := e.opportunity(Metrics{Numeric: []NumericColumn{
		{Name: "alto", Skew: 2.1},
		{Name: "bajo", Skew: -1.8},
		{Name: "plano", Skew: 0.2},
	}})
	require.Len(t, recs, 2)
	assert.Contains(t, recs[0].Text, "'alto'")
	assert.Contains(t, recs[0].Text, "nichos de alto valor")
	assert.Contains(t, recs[1].Text, "'bajo'")

	generic := e.opportunity(Metrics{Numeric: []NumericColumn{{Name: "plano", Skew: 0.1}}})
	require.Len(t, generic, 1)
	assert.Contains(t, generic[0].Text, "distribución equilibrada de los datos")
}

func TestPredictiveTiers(t *testing.T) {
	e := NewEngine(DefaultThresholds())

	high := e.predictive(Metrics{Columns: 4, Numeric: make([]NumericColumn, 3)}) // 75%
	assert.Contains(t, high[0].Text, "Alto potencial")

	moderate := e.predictive(Metrics{Columns: 2, Numeric: make([]NumericColumn, 1)}) // 50%
	assert.Contains(t, moderate[0].Text, "Potencial moderado")

	low := e.predictive(Metrics{Columns: 4, Numeric: make([]NumericColumn, 1)}) // 25%
	assert.Contains(t, low[0].Text, "principalmente categóricos")
}

func TestQualityTiersCiteGapToExcellent(t *testing.T) {
	e := NewEngine(DefaultThresholds())

	excellent := e.quality(Metrics{}, 95)
	assert.Contains(t, excellent[0].Text, "Excelente puntuación")

	good := e.quality(Metrics{}, 82)
	assert.Contains(t, good[0].Text, "82.0/100")
	assert.Contains(t, good[0].Text, "8.0%")

	urgent := e.quality(Metrics{}, 60)
	assert.Contains(t, urgent[0].Text, "intervención urgente")
	assert.Contains(t, urgent[0].Text, "30.0%")
}

func TestLimitations(t *testing.T) {
	e := NewEngine(DefaultThresholds())

	recs := e.limitations(Metrics{Rows: 200, Columns: 3, MissingPct: 15, Numeric: []NumericColumn{{}}})
	require.Len(t, recs, 3)
	assert.Contains(t, recs[0].Text, "Tamaño de muestra limitado")
	assert.Contains(t, recs[1].Text, "datos faltantes")
	assert.Contains(t, recs[2].Text, "Pocas variables numéricas")

	robust := e.limitations(Metrics{Rows: 5000, Columns: 4, Numeric: make([]NumericColumn, 3)})
	require.Len(t, robust, 1)
	assert.Contains(t, robust[0].Text, "ROBUSTEZ ANALÍTICA")
}

func TestGenerateOrderAndSummary(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	m := Metrics{
		Rows: 5000, Columns: 3,
		Numeric: []NumericColumn{
			{Name: "x", Mean: 100, Std: 10},
			{Name: "y", Mean: 50, Std: 5},
		},
		Categorical:  []CategoricalColumn{{Name: "g", Distinct: 3, DominantName: "a", DominantShare: 50}},
		Correlations: []metrics.Pair{{A: "x", B: "y", R: 0.8}},
	}
	recs := e.Generate(m)
	require.NotEmpty(t, recs)

	// Category order is fixed.
	order := map[Category]int{
		CategoryEfficiency: 0, CategoryTrend: 1, CategorySegmentation: 2,
		CategoryProblem: 3, CategoryKPI: 4, CategoryCorrelation: 5,
		CategoryOpportunity: 6, CategoryPredictive: 7, CategoryQuality: 8,
		CategoryLimitation: 9, CategorySummary: 10,
	}
	last := -1
	for _, r := range recs {
		pos, ok := order[r.Category]
		require.Truef(t, ok, "unknown category %q", r.Category)
		assert.GreaterOrEqual(t, pos, last, "category %q out of order", r.Category)
		if pos > last {
			last = pos
		}
	}

	summaries := findByCategory(recs, CategorySummary)
	require.GreaterOrEqual(t, len(summaries), 6)
	assert.Equal(t, "", summaries[0].Text)
	assert.Contains(t, summaries[1].Text, "RESUMEN EJECUTIVO DE IA")

	joined := strings.Join(Texts(recs), "\n")
	assert.Contains(t, joined, "Calidad global de datos: 100.0/100")
	assert.Contains(t, joined, "Oportunidades de negocio: Alto")
}

func TestGenerateSingleNumericColumnHasNoCorrelationRecord(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	recs := e.Generate(Metrics{Rows: 100, Columns: 2, Numeric: []NumericColumn{{Name: "x", Mean: 10, Std: 1}}})
	assert.Empty(t, findByCategory(recs, CategoryCorrelation))
}

func TestThresholdBoundariesAreTunable(t *testing.T) {
	th := DefaultThresholds()
	th.HighCV = 10
	e := NewEngine(th)
	recs := e.trend(Metrics{Numeric: []NumericColumn{{Name: "a", Mean: 100, Std: 15}}}) // CV 15 > 10
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0].Text, "alta volatilidad")
}
