// Package viz renders the chart artifacts of an analysis (correlation
// heatmap, histograms, boxplots) as base64-encoded PNG blobs. Rendering is
// configured through an immutable RenderConfig value passed at construction;
// nothing in this package mutates shared process state, so concurrent
// analyses cannot race on a global theme.
package viz

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// RenderConfig holds the fixed rendering parameters of one generator.
// Callers copy and adjust the value from DefaultRenderConfig; the generator
// never modifies it.
type RenderConfig struct {
	// WidthIn/HeightIn are the canvas size in inches for single-column charts.
	WidthIn  float64 `mapstructure:"width_in" yaml:"width_in"`
	HeightIn float64 `mapstructure:"height_in" yaml:"height_in"`
	// GroupedWidthIn is the wider canvas used for grouped boxplots.
	GroupedWidthIn float64 `mapstructure:"grouped_width_in" yaml:"grouped_width_in"`
	// Bins is the fixed histogram bin count.
	Bins int `mapstructure:"bins" yaml:"bins"`
	// MaxBoxplots bounds boxplot artifacts on wide datasets.
	MaxBoxplots int `mapstructure:"max_boxplots" yaml:"max_boxplots"`
	// TopCategories bounds the categories drawn per grouped boxplot.
	TopCategories int `mapstructure:"top_categories" yaml:"top_categories"`
	// Workers bounds the chart-rendering fan-out; 1 disables concurrency.
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// DefaultRenderConfig mirrors the fixed chart parameters of the analysis
// contract: 30 bins, top-10 categories, at most 5 boxplots.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		WidthIn:        8,
		HeightIn:       6,
		GroupedWidthIn: 12,
		Bins:           30,
		MaxBoxplots:    5,
		TopCategories:  10,
		Workers:        4,
	}
}

var (
	fillBlue   = color.RGBA{R: 135, G: 206, B: 235, A: 255}
	meanRed    = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	medianGren = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	boxDashes  = []vg.Length{vg.Points(4), vg.Points(2)}
)

// renderPNG builds a plot, renders it to an in-memory PNG and returns it as
// a data-URI base64 string. Panics inside gonum/plot are converted to
// errors so a single bad artifact cannot abort the analysis.
func renderPNG(widthIn, heightIn float64, build func(*plot.Plot) error) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render panic: %v", r)
		}
	}()

	p := plot.New()
	if err := build(p); err != nil {
		return "", err
	}
	wt, err := p.WriterTo(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch, "png")
	if err != nil {
		return "", fmt.Errorf("png writer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
