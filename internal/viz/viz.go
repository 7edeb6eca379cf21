package viz

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/lucentbytes/insightloom-cli/internal/metrics"
	"github.com/lucentbytes/insightloom-cli/internal/table"
)

// Artifacts are the chart blobs of one analysis, in deterministic order:
// histograms follow numeric column order, boxplots follow the
// numeric-by-categorical pair order. A failed artifact is simply absent
// (empty heatmap string, missing list entry).
type Artifacts struct {
	Heatmap    string
	Histograms []string
	Boxplots   []string
}

// Generator renders chart artifacts under an immutable RenderConfig.
type Generator struct {
	cfg RenderConfig
}

// NewGenerator returns a Generator for the given config. Zero or negative
// bounds fall back to the defaults.
func NewGenerator(cfg RenderConfig) *Generator {
	def := DefaultRenderConfig()
	if cfg.WidthIn <= 0 {
		cfg.WidthIn = def.WidthIn
	}
	if cfg.HeightIn <= 0 {
		cfg.HeightIn = def.HeightIn
	}
	if cfg.GroupedWidthIn <= 0 {
		cfg.GroupedWidthIn = def.GroupedWidthIn
	}
	if cfg.Bins <= 0 {
		cfg.Bins = def.Bins
	}
	if cfg.MaxBoxplots <= 0 {
		cfg.MaxBoxplots = def.MaxBoxplots
	}
	if cfg.TopCategories <= 0 {
		cfg.TopCategories = def.TopCategories
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	return &Generator{cfg: cfg}
}

// task is one chart render bound to an output slot.
type task struct {
	slot   int
	render func() (string, error)
}

// Generate renders every artifact for the table. Chart renders fan out
// across a bounded worker pool and fan back into fixed slots, so the output
// order never depends on scheduling. Individual failures leave their slot
// empty and never abort the rest.
func (g *Generator) Generate(ctx context.Context, t *table.Table, corr *metrics.CorrMatrix) Artifacts {
	numeric := metrics.NumericColumns(t)
	categorical := metrics.CategoricalColumns(t)

	var tasks []task
	slots := 0
	addTask := func(render func() (string, error)) int {
		slot := slots
		slots++
		tasks = append(tasks, task{slot: slot, render: render})
		return slot
	}

	heatSlot := -1
	if corr != nil && len(corr.Columns) >= 2 {
		heatSlot = addTask(func() (string, error) { return g.cfg.heatmap(corr) })
	}

	histSlots := make([]int, 0, len(numeric))
	for _, col := range numeric {
		col := col
		histSlots = append(histSlots, addTask(func() (string, error) {
			return g.cfg.histogram(col.Name, col.Floats())
		}))
	}

	boxSlots := g.addBoxplotTasks(t, numeric, categorical, addTask)

	out := make([]string, slots)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.Workers)
	for _, tk := range tasks {
		tk := tk
		eg.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if s, err := tk.render(); err == nil {
				out[tk.slot] = s
			}
			return nil
		})
	}
	_ = eg.Wait()

	art := Artifacts{}
	if heatSlot >= 0 {
		art.Heatmap = out[heatSlot]
	}
	for _, slot := range histSlots {
		if out[slot] != "" {
			art.Histograms = append(art.Histograms, out[slot])
		}
	}
	for _, slot := range boxSlots {
		if out[slot] != "" {
			art.Boxplots = append(art.Boxplots, out[slot])
		}
	}
	return art
}

// categoryValues holds a category label and the numeric values falling in it.
type categoryValues struct {
	name   string
	values []float64
}

// addBoxplotTasks queues boxplot renders: one per numeric column when no
// categorical column exists, otherwise one per (numeric, categorical) pair
// over the top categories, stopping once MaxBoxplots tasks are queued.
func (g *Generator) addBoxplotTasks(t *table.Table, numeric, categorical []*table.Column, addTask func(func() (string, error)) int) []int {
	var slots []int
	if len(categorical) == 0 {
		for _, col := range numeric {
			if len(slots) >= g.cfg.MaxBoxplots {
				break
			}
			col := col
			slots = append(slots, addTask(func() (string, error) {
				return g.cfg.simpleBoxplot(col.Name, col.Floats())
			}))
		}
		return slots
	}

	for _, num := range numeric {
		for _, cat := range categorical {
			if len(slots) >= g.cfg.MaxBoxplots {
				return slots
			}
			groups := g.topCategoryValues(t, num, cat)
			if len(groups) < 2 {
				continue
			}
			num, cat, groups := num, cat, groups
			slots = append(slots, addTask(func() (string, error) {
				return g.cfg.groupedBoxplot(num.Name, cat.Name, groups)
			}))
		}
	}
	return slots
}

// topCategoryValues groups the numeric column's values by the categorical
// column, keeping the TopCategories most frequent categories (ties broken
// by name for determinism).
func (g *Generator) topCategoryValues(t *table.Table, num, cat *table.Column) []categoryValues {
	counts := make(map[string]int)
	for i := 0; i < t.Rows(); i++ {
		if !cat.Null(i) {
			counts[cat.Raw(i)]++
		}
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] == counts[names[j]] {
			return names[i] < names[j]
		}
		return counts[names[i]] > counts[names[j]]
	})
	if len(names) > g.cfg.TopCategories {
		names = names[:g.cfg.TopCategories]
	}

	idx := make(map[string]int, len(names))
	groups := make([]categoryValues, len(names))
	for i, name := range names {
		idx[name] = i
		groups[i] = categoryValues{name: name}
	}
	for i := 0; i < t.Rows(); i++ {
		if cat.Null(i) {
			continue
		}
		gi, ok := idx[cat.Raw(i)]
		if !ok {
			continue
		}
		if v, present := num.FloatAt(i); present {
			groups[gi].values = append(groups[gi].values, v)
		}
	}
	return groups
}
