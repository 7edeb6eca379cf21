// Package report renders an analysis result as a plain-text markdown
// document for terminal and file output. Every section tolerates being
// empty; a failed result renders only the error block.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lucentbytes/insightloom-cli/internal/analyzer"
)

// Markdown renders res as a bracket-sectioned document. name labels the
// analyzed file and may be empty.
func Markdown(res analyzer.Result, name string) string {
	var b strings.Builder

	if !res.Success {
		b.WriteString("[ERROR]\n")
		b.WriteString(res.Error)
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString("[RESUMEN DEL CONJUNTO DE DATOS]\n")
	if name != "" {
		b.WriteString(fmt.Sprintf("Archivo: %s\n", name))
	}
	b.WriteString(fmt.Sprintf("Filas: %d\n", res.BasicInfo.Dimensions.Rows))
	b.WriteString(fmt.Sprintf("Columnas: %d\n", res.BasicInfo.Dimensions.Columns))

	writeSchema(&b, res)
	writeStats(&b, res)
	writePreview(&b, res)
	writeCharts(&b, res)
	writeInsights(&b, res)
	return b.String()
}

func writeSchema(b *strings.Builder, res analyzer.Result) {
	if len(res.BasicInfo.DataTypes) == 0 {
		return
	}
	b.WriteString("\n[ESQUEMA]\n")
	for _, name := range sortedKeys(res.BasicInfo.DataTypes) {
		ns := res.BasicInfo.NullValues[name]
		b.WriteString(fmt.Sprintf("- %s: %s (nulos %d, %.1f%%)\n",
			name, res.BasicInfo.DataTypes[name], ns.Count, ns.Percentage))
	}
}

func writeStats(b *strings.Builder, res analyzer.Result) {
	if len(res.Summary) == 0 {
		return
	}
	b.WriteString("\n[ESTADÍSTICAS]\n")
	for _, name := range sortedKeys(res.Summary) {
		s := res.Summary[name]
		b.WriteString(fmt.Sprintf("- %s: n=%d, media %.4g, mediana %.4g, desv %.4g, min %.4g, max %.4g\n",
			name, s.Count, s.Mean, s.Median, s.Std, s.Min, s.Max))
	}
}

func writePreview(b *strings.Builder, res analyzer.Result) {
	if len(res.DataPreview) == 0 {
		return
	}
	b.WriteString("\n[VISTA PREVIA]\n")
	cols := sortedKeys(res.DataPreview[0])
	b.WriteString("| " + strings.Join(cols, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(cols)) + "\n")
	for _, row := range res.DataPreview {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = cellText(row[c])
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
}

func writeCharts(b *strings.Builder, res analyzer.Result) {
	n := len(res.Histograms) + len(res.Boxplots)
	if res.Heatmap != "" {
		n++
	}
	if n == 0 {
		return
	}
	// Chart blobs are data URIs far too large to inline; count them instead.
	b.WriteString("\n[GRÁFICOS]\n")
	if res.Heatmap != "" {
		b.WriteString("- Matriz de correlación: generada\n")
	}
	if len(res.Histograms) > 0 {
		b.WriteString(fmt.Sprintf("- Histogramas: %d\n", len(res.Histograms)))
	}
	if len(res.Boxplots) > 0 {
		b.WriteString(fmt.Sprintf("- Boxplots: %d\n", len(res.Boxplots)))
	}
}

func writeInsights(b *strings.Builder, res analyzer.Result) {
	if len(res.Insights) == 0 {
		return
	}
	b.WriteString("\n[INSIGHTS DE IA]\n")
	for _, text := range res.Insights {
		if text == "" {
			b.WriteString("\n")
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
}

func cellText(v any) string {
	if v == nil {
		return ""
	}
	s := fmt.Sprintf("%v", v)
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "/")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
