// Package analyzer sequences one analysis end to end: load the table,
// compute metrics, render charts, generate insights, and assemble the
// result envelope. Any internal failure becomes a reported error in the
// envelope; Analyze never returns a Go error to the caller.
package analyzer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/lucentbytes/insightloom-cli/internal/insight"
	"github.com/lucentbytes/insightloom-cli/internal/metrics"
	"github.com/lucentbytes/insightloom-cli/internal/table"
	"github.com/lucentbytes/insightloom-cli/internal/viz"
)

// Options controls one analyzer instance.
type Options struct {
	Thresholds  insight.Thresholds
	Render      viz.RenderConfig
	Timeout     time.Duration // 0 disables the deadline
	PreviewRows int
	Charts      bool   // render chart artifacts
	Sheet       string // XLSX sheet name, first sheet when empty
}

// DefaultOptions returns the standard analysis configuration.
func DefaultOptions() Options {
	return Options{
		Thresholds:  insight.DefaultThresholds(),
		Render:      viz.DefaultRenderConfig(),
		Timeout:     2 * time.Minute,
		PreviewRows: 10,
		Charts:      true,
	}
}

// Analyzer runs dataset analyses. Safe for concurrent use.
type Analyzer struct {
	opts   Options
	gen    *viz.Generator
	engine *insight.Engine
}

// New returns an Analyzer for the given options. A non-positive preview
// size falls back to the default.
func New(opts Options) *Analyzer {
	if opts.PreviewRows <= 0 {
		opts.PreviewRows = DefaultOptions().PreviewRows
	}
	return &Analyzer{
		opts:   opts,
		gen:    viz.NewGenerator(opts.Render),
		engine: insight.NewEngine(opts.Thresholds),
	}
}

// Analyze loads raw as the dataset named filename and produces the full
// result envelope. The filename only routes format detection (an .xlsx or
// .xlsm extension selects workbook loading); content is read from raw.
func (a *Analyzer) Analyze(ctx context.Context, raw []byte, filename string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Failure(fmt.Sprintf("Error durante el análisis: %v", r))
		}
	}()

	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}

	t, err := a.load(raw, filename)
	if err != nil {
		return Failure(fmt.Sprintf("Error durante el análisis: %v", err))
	}

	corr := metrics.Correlations(t)

	var art viz.Artifacts
	if a.opts.Charts {
		art = a.gen.Generate(ctx, t, corr)
	}
	if err := ctx.Err(); err != nil {
		return Failure(fmt.Sprintf("Error durante el análisis: %v", err))
	}

	recs := a.engine.Generate(insight.BuildMetrics(t, corr))

	rep := &Report{
		BasicInfo:   metrics.Describe(t),
		Summary:     metrics.Summary(t),
		DataPreview: a.preview(t),
		Heatmap:     art.Heatmap,
		Histograms:  art.Histograms,
		Boxplots:    art.Boxplots,
		Insights:    insight.Texts(recs),
	}
	if rep.Histograms == nil {
		rep.Histograms = []string{}
	}
	if rep.Boxplots == nil {
		rep.Boxplots = []string{}
	}
	return Result{Report: rep, Success: true}
}

func (a *Analyzer) load(raw []byte, filename string) (*table.Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return table.LoadXLSX(raw, a.opts.Sheet)
	default:
		return table.Load(raw)
	}
}

// preview returns the first rows as column-name keyed mappings, nulls as
// nil, numeric cells typed.
func (a *Analyzer) preview(t *table.Table) []map[string]any {
	n := t.Rows()
	if n > a.opts.PreviewRows {
		n = a.opts.PreviewRows
	}
	cols := t.Columns()
	rows := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		row := make(map[string]any, len(cols))
		for j := range cols {
			row[cols[j].Name] = cols[j].Value(i)
		}
		rows = append(rows, row)
	}
	return rows
}
