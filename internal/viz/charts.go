package viz

import (
	"fmt"
	"image/color"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/lucentbytes/insightloom-cli/internal/metrics"
)

// corrGrid adapts a correlation matrix to the heatmap grid interface.
type corrGrid struct {
	m *metrics.CorrMatrix
}

func (g corrGrid) Dims() (c, r int) { n := len(g.m.Columns); return n, n }
func (g corrGrid) X(c int) float64  { return float64(c) }
func (g corrGrid) Y(r int) float64  { return float64(r) }

// Z flips rows so the first column reads top-left, matching the usual
// correlation-matrix orientation.
func (g corrGrid) Z(c, r int) float64 {
	return g.m.Values[len(g.m.Columns)-1-r][c]
}

func (cfg RenderConfig) heatmap(m *metrics.CorrMatrix) (string, error) {
	return renderPNG(cfg.WidthIn, cfg.HeightIn, func(p *plot.Plot) error {
		colors := moreland.SmoothBlueRed()
		colors.SetMin(-1)
		colors.SetMax(1)
		p.Add(plotter.NewHeatMap(corrGrid{m: m}, colors.Palette(255)))

		n := len(m.Columns)
		xTicks := make([]plot.Tick, n)
		yTicks := make([]plot.Tick, n)
		for i, name := range m.Columns {
			xTicks[i] = plot.Tick{Value: float64(i), Label: name}
			yTicks[i] = plot.Tick{Value: float64(n - 1 - i), Label: name}
		}
		p.X.Tick.Marker = plot.ConstantTicks(xTicks)
		p.Y.Tick.Marker = plot.ConstantTicks(yTicks)
		p.Title.Text = "Matriz de Correlación"
		return nil
	})
}

func (cfg RenderConfig) histogram(name string, vals []float64) (string, error) {
	if len(vals) == 0 {
		return "", fmt.Errorf("histograma de %s: sin valores", name)
	}
	return renderPNG(cfg.WidthIn, cfg.HeightIn, func(p *plot.Plot) error {
		h, err := plotter.NewHist(plotter.Values(vals), cfg.Bins)
		if err != nil {
			return fmt.Errorf("histograma de %s: %w", name, err)
		}
		h.FillColor = fillBlue
		p.Add(h)

		maxWeight := 0.0
		for _, bin := range h.Bins {
			if bin.Weight > maxWeight {
				maxWeight = bin.Weight
			}
		}
		sorted := make([]float64, len(vals))
		copy(sorted, vals)
		sort.Float64s(sorted)
		mean := stat.Mean(vals, nil)
		median := metrics.Quantile(sorted, 0.5)

		for _, ref := range []struct {
			label string
			x     float64
			c     color.Color
		}{
			{fmt.Sprintf("Media: %.2f", mean), mean, meanRed},
			{fmt.Sprintf("Mediana: %.2f", median), median, medianGren},
		} {
			line, err := plotter.NewLine(plotter.XYs{{X: ref.x, Y: 0}, {X: ref.x, Y: maxWeight}})
			if err != nil {
				return err
			}
			line.LineStyle.Color = ref.c
			line.LineStyle.Dashes = boxDashes
			line.LineStyle.Width = vg.Points(1.5)
			p.Add(line)
			p.Legend.Add(ref.label, line)
		}
		p.Legend.Top = true
		p.Title.Text = "Histograma de " + name
		p.X.Label.Text = name
		p.Y.Label.Text = "Frecuencia"
		return nil
	})
}

func (cfg RenderConfig) simpleBoxplot(name string, vals []float64) (string, error) {
	if len(vals) == 0 {
		return "", fmt.Errorf("boxplot de %s: sin valores", name)
	}
	return renderPNG(cfg.WidthIn, cfg.HeightIn, func(p *plot.Plot) error {
		b, err := plotter.NewBoxPlot(vg.Points(40), 0, plotter.Values(vals))
		if err != nil {
			return fmt.Errorf("boxplot de %s: %w", name, err)
		}
		p.Add(b)
		p.NominalX(name)
		p.Title.Text = "Boxplot de " + name
		p.Y.Label.Text = name
		return nil
	})
}

func (cfg RenderConfig) groupedBoxplot(numName, catName string, groups []categoryValues) (string, error) {
	return renderPNG(cfg.GroupedWidthIn, cfg.HeightIn, func(p *plot.Plot) error {
		names := make([]string, 0, len(groups))
		for i, g := range groups {
			if len(g.values) == 0 {
				names = append(names, g.name)
				continue
			}
			b, err := plotter.NewBoxPlot(vg.Points(25), float64(i), plotter.Values(g.values))
			if err != nil {
				return fmt.Errorf("boxplot de %s por %s: %w", numName, catName, err)
			}
			p.Add(b)
			names = append(names, g.name)
		}
		p.NominalX(names...)
		p.Title.Text = fmt.Sprintf("Boxplot de %s por %s", numName, catName)
		p.X.Label.Text = catName
		p.Y.Label.Text = numName
		return nil
	})
}
