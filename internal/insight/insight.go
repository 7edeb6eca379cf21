// Package insight synthesizes the narrative report of an analysis: a fixed
// battery of deterministic rules over already-computed metrics, evaluated in
// a fixed order. Every rule is reproducible given identical inputs; nothing
// here is learned or sampled.
package insight

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Category tags an insight record; the record order follows the category
// sequence below.
type Category string

const (
	CategoryEfficiency   Category = "efficiency"
	CategoryTrend        Category = "trend"
	CategorySegmentation Category = "segmentation"
	CategoryProblem      Category = "problem"
	CategoryKPI          Category = "kpi"
	CategoryCorrelation  Category = "correlation"
	CategoryOpportunity  Category = "opportunity"
	CategoryPredictive   Category = "predictive-capacity"
	CategoryQuality      Category = "quality-index"
	CategoryLimitation   Category = "limitation"
	CategorySummary      Category = "summary"
)

// Record is one narrative insight.
type Record struct {
	Category Category
	Text     string
}

// Engine evaluates the rule battery under a Thresholds table.
type Engine struct {
	th      Thresholds
	printer *message.Printer
}

// NewEngine returns an Engine with the given thresholds.
func NewEngine(th Thresholds) *Engine {
	return &Engine{th: th, printer: message.NewPrinter(language.Spanish)}
}

// Generate runs every rule family in fixed order. A panicking family is
// dropped defensively (its records omitted) rather than aborting the
// analysis; this should not happen since rules only read validated metrics.
func (e *Engine) Generate(m Metrics) []Record {
	score := e.QualityScore(m)

	var recs []Record
	run := func(rule func() []Record) {
		defer func() { _ = recover() }()
		recs = append(recs, rule()...)
	}

	run(func() []Record { return e.efficiency(m) })
	run(func() []Record { return e.trend(m) })
	run(func() []Record { return e.segmentation(m) })
	run(func() []Record { return e.problems(m) })
	run(func() []Record { return e.kpi(m) })
	run(func() []Record { return e.correlation(m) })
	run(func() []Record { return e.opportunity(m) })
	run(func() []Record { return e.predictive(m) })
	run(func() []Record { return e.quality(m, score) })
	run(func() []Record { return e.limitations(m) })
	run(func() []Record { return e.summary(m, score) })
	return recs
}

// QualityScore derives the 0-100 composite: 100 minus twice the missing
// percentage, minus three times the duplicate-row percentage, minus the
// outlier percentage when it exceeds the moderate threshold.
func (e *Engine) QualityScore(m Metrics) float64 {
	score := 100.0
	if m.MissingPct > 0 {
		score -= m.MissingPct * 2
	}
	if m.DuplicateRows > 0 && m.Rows > 0 {
		score -= float64(m.DuplicateRows) / float64(m.Rows) * 100 * 3
	}
	if out := m.OutlierPct(); out > e.th.OutlierModerate {
		score -= out
	}
	return math.Max(0, math.Min(100, score))
}

// PredictiveCapacity is the numeric-column share of all columns, percent.
func (m Metrics) PredictiveCapacity() float64 {
	if m.Columns == 0 {
		return 0
	}
	return float64(len(m.Numeric)) / float64(m.Columns) * 100
}

func (e *Engine) efficiency(m Metrics) []Record {
	dupRatioPct := 0.0
	if m.Rows > 0 {
		dupRatioPct = float64(m.DuplicateRows) / float64(m.Rows) * 100
	}
	switch {
	case m.MissingPct == 0 && m.DuplicateRows == 0:
		return []Record{{CategoryEfficiency, "🎯 **EFICIENCIA OPERATIVA**: Excelente calidad de datos (0% faltantes, 0% duplicados) sugiere una mejora del 25% en la eficiencia operativa del sistema de captura de información."}}
	case m.MissingPct < e.th.EfficiencyMissingLow:
		impact := math.Max(0, 20-m.MissingPct*2-dupRatioPct)
		return []Record{{CategoryEfficiency, fmt.Sprintf("📈 **EFICIENCIA OPERATIVA**: La alta calidad de datos (%.1f%% faltantes) indica una potencial mejora del %.0f%% en la eficiencia de procesos operativos.", m.MissingPct, impact)}}
	default:
		loss := math.Min(50, m.MissingPct*1.5+dupRatioPct)
		return []Record{{CategoryEfficiency, fmt.Sprintf("⚠️ **EFICIENCIA OPERATIVA**: Los datos faltantes (%.1f%%) representan una pérdida del %.0f%% en eficiencia operativa. Se requiere optimización urgente del proceso de captura.", m.MissingPct, loss)}}
	}
}

func (e *Engine) trend(m Metrics) []Record {
	type colCV struct {
		name string
		cv   float64
	}
	var cvs []colCV
	for _, c := range m.Numeric {
		if c.Std > 0 && c.Mean != 0 {
			cvs = append(cvs, colCV{c.Name, c.Std / c.Mean * 100})
		}
	}
	if len(cvs) == 0 {
		return nil
	}
	sort.SliceStable(cvs, func(i, j int) bool { return cvs[i].cv > cvs[j].cv })
	most, least := cvs[0], cvs[len(cvs)-1]
	switch {
	case most.cv > e.th.HighCV:
		return []Record{{CategoryTrend, fmt.Sprintf("📊 **TENDENCIAS**: Se observa alta volatilidad en '%s' (CV: %.1f%%), indicando una tendencia irregular que requiere estrategias de estabilización para mejorar la predictibilidad del negocio.", most.name, most.cv)}}
	case most.cv < e.th.LowCV:
		return []Record{{CategoryTrend, fmt.Sprintf("📈 **TENDENCIAS**: Excelente estabilidad en las métricas clave, con '%s' mostrando consistencia superior (CV: %.1f%%), indicando tendencia al alza en la madurez operacional.", least.name, least.cv)}}
	default:
		return []Record{{CategoryTrend, fmt.Sprintf("🎯 **TENDENCIAS**: Variabilidad moderada en '%s' (CV: %.1f%%) sugiere oportunidades de optimización que podrían generar un 15-30%% de mejora en estabilidad.", most.name, most.cv)}}
	}
}

func (e *Engine) segmentation(m Metrics) []Record {
	var recs []Record
	for _, c := range m.Categorical {
		if c.Distinct > e.th.SegmentationMaxDistinct || c.Distinct == 0 {
			continue
		}
		switch {
		case c.DominantShare > e.th.DominantHigh:
			recs = append(recs, Record{CategorySegmentation, fmt.Sprintf("🎯 **SEGMENTACIÓN**: El segmento '%s' domina el %.1f%% del mercado en '%s', presentando una oportunidad de diversificación que podría incrementar la cuota de mercado en un 20-35%%.", c.DominantName, c.DominantShare, c.Name)})
		case c.DominantShare < e.th.DominantLow:
			recs = append(recs, Record{CategorySegmentation, fmt.Sprintf("📊 **SEGMENTACIÓN**: Distribución equilibrada en '%s' con segmento líder '%s' (%.1f%%), indicando un mercado maduro con oportunidades de consolidación.", c.Name, c.DominantName, c.DominantShare)})
		default:
			recs = append(recs, Record{CategorySegmentation, fmt.Sprintf("📈 **SEGMENTACIÓN**: Segmentación óptima en '%s' con '%s' liderando (%.1f%%), sugiere estrategias diferenciadas que podrían mejorar la penetración en un 15%%.", c.Name, c.DominantName, c.DominantShare)})
		}
	}
	return recs
}

func (e *Engine) problems(m Metrics) []Record {
	out := m.OutlierPct()
	switch {
	case out > e.th.OutlierCritical:
		return []Record{{CategoryProblem, fmt.Sprintf("🚨 **PROBLEMA CRÍTICO**: %.1f%% de valores atípicos detectados, indicando posibles fallas en el proceso que requieren investigación inmediata para evitar pérdidas del 10-25%%.", out)}}
	case out > e.th.OutlierModerate:
		return []Record{{CategoryProblem, fmt.Sprintf("⚠️ **PROBLEMA MODERADO**: %.1f%% de anomalías detectadas, sugiere oportunidades de mejora que podrían reducir costos operativos en un 5-15%%.", out)}}
	default:
		return []Record{{CategoryProblem, "✅ **CALIDAD OPERATIVA**: No se detectaron problemas críticos en los datos, indicando procesos robustos con alta confiabilidad operacional."}}
	}
}

func (e *Engine) kpi(m Metrics) []Record {
	bestName := ""
	bestScore, bestMean := 0.0, 0.0
	found := false
	for _, c := range m.Numeric {
		if c.Std <= 0 || c.Mean == 0 {
			continue
		}
		score := (1 - c.Std/c.Mean) * 100
		if !found || score > bestScore {
			found = true
			bestName, bestScore, bestMean = c.Name, score, c.Mean
		}
	}
	if !found {
		return nil
	}
	return []Record{{CategoryKPI, fmt.Sprintf("📊 **KPIs**: La métrica '%s' muestra el mejor rendimiento (estabilidad: %.1f%%, valor promedio: %.2f), constituyendo un KPI clave para el monitoreo estratégico.", bestName, bestScore, bestMean)}}
}

func (e *Engine) correlation(m Metrics) []Record {
	var best *struct {
		a, b string
		r    float64
	}
	for _, p := range m.Correlations {
		if math.Abs(p.R) <= e.th.StrongCorrelation {
			continue
		}
		if best == nil || math.Abs(p.R) > math.Abs(best.r) {
			best = &struct {
				a, b string
				r    float64
			}{p.A, p.B, p.R}
		}
	}
	if best == nil {
		return nil
	}
	kind := "positiva"
	if best.r < 0 {
		kind = "negativa"
	}
	return []Record{{CategoryCorrelation, fmt.Sprintf("🔗 **CORRELACIÓN ESTRATÉGICA**: Correlación %s significativa (%.2f) entre '%s' y '%s', indicando una relación clave que puede impulsar decisiones estratégicas y mejorar la predicción de resultados en un 20-40%%.", kind, math.Abs(best.r), best.a, best.b)}}
}

func (e *Engine) opportunity(m Metrics) []Record {
	var recs []Record
	for _, c := range m.Numeric {
		if math.Abs(c.Skew) <= e.th.SkewLimit {
			continue
		}
		if c.Skew > e.th.SkewLimit {
			recs = append(recs, Record{CategoryOpportunity, fmt.Sprintf("📈 **OPORTUNIDAD**: La distribución sesgada en '%s' sugiere nichos de alto valor poco explorados, con potencial de crecimiento del 25-45%% en segmentos premium.", c.Name)})
		} else {
			recs = append(recs, Record{CategoryOpportunity, fmt.Sprintf("💡 **OPORTUNIDAD**: La concentración en valores altos de '%s' indica eficiencia operativa que puede replicarse en otras áreas para mejorar rendimiento general.", c.Name)})
		}
	}
	if len(recs) == 0 {
		recs = append(recs, Record{CategoryOpportunity, "🎯 **OPORTUNIDADES**: La distribución equilibrada de los datos sugiere un modelo de negocio maduro con oportunidades de optimización incremental del 10-20% mediante análisis predictivo avanzado."})
	}
	return recs
}

func (e *Engine) predictive(m Metrics) []Record {
	capacity := m.PredictiveCapacity()
	switch {
	case capacity > e.th.PredictiveHigh:
		return []Record{{CategoryPredictive, fmt.Sprintf("🔮 **CAPACIDAD PREDICTIVA**: Alto potencial para modelos predictivos (%.1f%% variables numéricas), permitiendo forecasting con 85-95%% de precisión para optimización de recursos y planificación estratégica.", capacity)}}
	case capacity > e.th.PredictiveModerate:
		return []Record{{CategoryPredictive, fmt.Sprintf("📊 **CAPACIDAD PREDICTIVA**: Potencial moderado para análisis predictivo (%.1f%% variables numéricas), recomendando implementación de modelos de machine learning para mejorar la toma de decisiones en un 30-50%%.", capacity)}}
	default:
		return []Record{{CategoryPredictive, fmt.Sprintf("📝 **CAPACIDAD PREDICTIVA**: Datos principalmente categóricos, ideales para análisis de segmentación y clustering que pueden revelar patrones ocultos y mejorar la estrategia de targeting en un 20-35%%.")}}
	}
}

func (e *Engine) quality(m Metrics, score float64) []Record {
	switch {
	case score >= e.th.QualityExcellent:
		return []Record{{CategoryQuality, fmt.Sprintf("⭐ **ÍNDICE DE CALIDAD**: Excelente puntuación de calidad (%.1f/100), indicando alta satisfacción del cliente interno y procesos optimizados que superan estándares de la industria.", score)}}
	case score >= e.th.QualityGood:
		return []Record{{CategoryQuality, fmt.Sprintf("✅ **ÍNDICE DE CALIDAD**: Buena puntuación de calidad (%.1f/100), con margen de mejora del %.1f%% para alcanzar niveles de excelencia operacional.", score, e.th.QualityExcellent-score)}}
	default:
		return []Record{{CategoryQuality, fmt.Sprintf("⚠️ **ÍNDICE DE CALIDAD**: Puntuación mejorable (%.1f/100), requiere intervención urgente con potencial de mejora del %.1f%% para alcanzar estándares competitivos.", score, e.th.QualityExcellent-score)}}
	}
}

func (e *Engine) limitations(m Metrics) []Record {
	var recs []Record
	if m.Rows < e.th.SmallSampleRows {
		recs = append(recs, Record{CategoryLimitation, e.printer.Sprintf("📉 **LIMITACIÓN**: Tamaño de muestra limitado (%d registros) puede afectar la significancia estadística. Se recomienda incrementar la recolección de datos para análisis más robustos.", m.Rows)})
	}
	if m.MissingPct > e.th.MissingLimitation {
		recs = append(recs, Record{CategoryLimitation, fmt.Sprintf("⚠️ **LIMITACIÓN**: Alto porcentaje de datos faltantes (%.1f%%) limita la precisión del análisis. Implementar estrategias de imputación podría mejorar la confiabilidad en un 15-25%%.", m.MissingPct)})
	}
	if len(m.Numeric) < e.th.MinNumericColumns {
		recs = append(recs, Record{CategoryLimitation, "📊 **LIMITACIÓN**: Pocas variables numéricas limitan el análisis de correlaciones. Considerar la digitalización de variables categóricas para análisis más profundos."})
	}
	if len(recs) == 0 {
		recs = append(recs, Record{CategoryLimitation, "✅ **ROBUSTEZ ANALÍTICA**: El dataset presenta características óptimas para análisis avanzados, permitiendo implementar técnicas de machine learning e inteligencia artificial con alta confiabilidad."})
	}
	return recs
}

func (e *Engine) summary(m Metrics, score float64) []Record {
	label := "Requiere atención"
	if score > e.th.BusinessHigh {
		label = "Alto"
	} else if score > e.th.BusinessModerate {
		label = "Moderado"
	}
	return []Record{
		{CategorySummary, ""},
		{CategorySummary, "🎯 **RESUMEN EJECUTIVO DE IA**:"},
		{CategorySummary, fmt.Sprintf("   • Calidad global de datos: %.1f/100", score)},
		{CategorySummary, fmt.Sprintf("   • Potencial de mejora identificado: %.0f%% en eficiencia operativa", 100-score)},
		{CategorySummary, fmt.Sprintf("   • Capacidad predictiva: %.1f%% (variables numéricas/total)", m.PredictiveCapacity())},
		{CategorySummary, fmt.Sprintf("   • Oportunidades de negocio: %s", label)},
		{CategorySummary, "   • Recomendación: Implementar dashboard en tiempo real para monitoreo continuo de KPIs identificados"},
		{CategorySummary, "   • Considere técnicas de visualización adicionales según sus objetivos analíticos"},
	}
}

// Texts flattens records into the narrative list of the result envelope.
func Texts(recs []Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Text
	}
	return out
}
