package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucentbytes/insightloom-cli/internal/analyzer"
	"github.com/lucentbytes/insightloom-cli/internal/metrics"
)

func sampleResult() analyzer.Result {
	return analyzer.Result{
		Success: true,
		Report: &analyzer.Report{
			BasicInfo: metrics.BasicInfo{
				Dimensions: metrics.Dimensions{Rows: 3, Columns: 2},
				DataTypes:  map[string]string{"edad": "Entero", "nombre": "Texto"},
				NullValues: map[string]metrics.NullStat{
					"edad":   {Count: 1, Percentage: 33.33},
					"nombre": {},
				},
			},
			Summary: map[string]metrics.NumericSummary{
				"edad": {Count: 2, Mean: 30.5, Median: 30.5, Std: 2.1213, Min: 29, Max: 32},
			},
			DataPreview: []map[string]any{
				{"nombre": "Ana", "edad": int64(29)},
				{"nombre": "Luis", "edad": nil},
			},
			Heatmap:    "data:image/png;base64,AAAA",
			Histograms: []string{"data:image/png;base64,BBBB"},
			Boxplots:   []string{},
			Insights:   []string{"🎯 **EFICIENCIA OPERATIVA**: texto", "", "🎯 **RESUMEN EJECUTIVO DE IA**:"},
		},
	}
}

func TestMarkdownSections(t *testing.T) {
	out := Markdown(sampleResult(), "datos.csv")

	assert.Contains(t, out, "[RESUMEN DEL CONJUNTO DE DATOS]")
	assert.Contains(t, out, "Archivo: datos.csv")
	assert.Contains(t, out, "Filas: 3")
	assert.Contains(t, out, "Columnas: 2")

	assert.Contains(t, out, "[ESQUEMA]")
	assert.Contains(t, out, "- edad: Entero (nulos 1, 33.3%)")
	assert.Contains(t, out, "- nombre: Texto (nulos 0, 0.0%)")

	assert.Contains(t, out, "[ESTADÍSTICAS]")
	assert.Contains(t, out, "- edad: n=2, media 30.5")

	assert.Contains(t, out, "[VISTA PREVIA]")
	assert.Contains(t, out, "| edad | nombre |")
	assert.Contains(t, out, "| 29 | Ana |")
	assert.Contains(t, out, "|  | Luis |")

	assert.Contains(t, out, "[GRÁFICOS]")
	assert.Contains(t, out, "- Matriz de correlación: generada")
	assert.Contains(t, out, "- Histogramas: 1")
	assert.NotContains(t, out, "- Boxplots:")

	assert.Contains(t, out, "[INSIGHTS DE IA]")
	assert.Contains(t, out, "EFICIENCIA OPERATIVA")
}

func TestMarkdownSchemaSortedByName(t *testing.T) {
	out := Markdown(sampleResult(), "")
	edad := strings.Index(out, "- edad:")
	nombre := strings.Index(out, "- nombre:")
	require.Greater(t, edad, 0)
	assert.Less(t, edad, nombre)
}

func TestMarkdownFailure(t *testing.T) {
	res := analyzer.Failure("Error durante el análisis: el archivo está vacío o no contiene datos válidos")
	out := Markdown(res, "vacio.csv")
	assert.True(t, strings.HasPrefix(out, "[ERROR]\n"))
	assert.Contains(t, out, "vacío")
	assert.NotContains(t, out, "[RESUMEN")
}

func TestMarkdownEmptySectionsOmitted(t *testing.T) {
	res := analyzer.Result{Success: true, Report: &analyzer.Report{
		BasicInfo: metrics.BasicInfo{Dimensions: metrics.Dimensions{Rows: 0, Columns: 0}},
	}}
	out := Markdown(res, "")
	assert.Contains(t, out, "Filas: 0")
	assert.NotContains(t, out, "[ESQUEMA]")
	assert.NotContains(t, out, "[ESTADÍSTICAS]")
	assert.NotContains(t, out, "[VISTA PREVIA]")
	assert.NotContains(t, out, "[GRÁFICOS]")
	assert.NotContains(t, out, "[INSIGHTS DE IA]")
}

func TestMarkdownEscapesPipes(t *testing.T) {
	res := sampleResult()
	res.DataPreview = []map[string]any{{"nombre": "a|b", "edad": int64(1)}}
	out := Markdown(res, "")
	assert.Contains(t, out, "| a/b |")
}
