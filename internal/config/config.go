package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/lucentbytes/insightloom-cli/internal/analyzer"
	"github.com/lucentbytes/insightloom-cli/internal/insight"
	"github.com/lucentbytes/insightloom-cli/internal/viz"
)

// Global configuration structure.
type Global struct {
	PreviewRows int    `mapstructure:"preview_rows" yaml:"preview_rows"`
	TimeoutSec  int    `mapstructure:"timeout_sec" yaml:"timeout_sec"`
	Charts      bool   `mapstructure:"charts" yaml:"charts"`
	Sheet       string `mapstructure:"sheet" yaml:"sheet"`

	// HTTP server
	ListenAddr  string `mapstructure:"listen_addr" yaml:"listen_addr"`
	MaxUploadMB int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`

	Render     viz.RenderConfig   `mapstructure:"render" yaml:"render"`
	Thresholds insight.Thresholds `mapstructure:"thresholds" yaml:"thresholds"`
}

// Default returns the built-in configuration.
func Default() *Global {
	return &Global{
		PreviewRows: 10,
		TimeoutSec:  120,
		Charts:      true,
		ListenAddr:  ":8080",
		MaxUploadMB: 50,
		Render:      viz.DefaultRenderConfig(),
		Thresholds:  insight.DefaultThresholds(),
	}
}

// AnalyzerOptions converts the configuration into analyzer options.
func (c *Global) AnalyzerOptions() analyzer.Options {
	return analyzer.Options{
		Thresholds:  c.Thresholds,
		Render:      c.Render,
		Timeout:     time.Duration(c.TimeoutSec) * time.Second,
		PreviewRows: c.PreviewRows,
		Charts:      c.Charts,
		Sheet:       c.Sheet,
	}
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.insightloom/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".insightloom")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("INSIGHTLOOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	def := Default()
	v.SetDefault("preview_rows", def.PreviewRows)
	v.SetDefault("timeout_sec", def.TimeoutSec)
	v.SetDefault("charts", def.Charts)
	v.SetDefault("sheet", "")
	v.SetDefault("listen_addr", def.ListenAddr)
	v.SetDefault("max_upload_mb", def.MaxUploadMB)
	// Render defaults
	v.SetDefault("render.width_in", def.Render.WidthIn)
	v.SetDefault("render.height_in", def.Render.HeightIn)
	v.SetDefault("render.grouped_width_in", def.Render.GroupedWidthIn)
	v.SetDefault("render.bins", def.Render.Bins)
	v.SetDefault("render.max_boxplots", def.Render.MaxBoxplots)
	v.SetDefault("render.top_categories", def.Render.TopCategories)
	v.SetDefault("render.workers", def.Render.Workers)
	// Insight rule thresholds
	th := def.Thresholds
	v.SetDefault("thresholds.efficiency_missing_low", th.EfficiencyMissingLow)
	v.SetDefault("thresholds.high_cv", th.HighCV)
	v.SetDefault("thresholds.low_cv", th.LowCV)
	v.SetDefault("thresholds.segmentation_max_distinct", th.SegmentationMaxDistinct)
	v.SetDefault("thresholds.dominant_high", th.DominantHigh)
	v.SetDefault("thresholds.dominant_low", th.DominantLow)
	v.SetDefault("thresholds.outlier_critical", th.OutlierCritical)
	v.SetDefault("thresholds.outlier_moderate", th.OutlierModerate)
	v.SetDefault("thresholds.strong_correlation", th.StrongCorrelation)
	v.SetDefault("thresholds.skew_limit", th.SkewLimit)
	v.SetDefault("thresholds.predictive_high", th.PredictiveHigh)
	v.SetDefault("thresholds.predictive_moderate", th.PredictiveModerate)
	v.SetDefault("thresholds.quality_excellent", th.QualityExcellent)
	v.SetDefault("thresholds.quality_good", th.QualityGood)
	v.SetDefault("thresholds.small_sample_rows", th.SmallSampleRows)
	v.SetDefault("thresholds.missing_limitation", th.MissingLimitation)
	v.SetDefault("thresholds.min_numeric_columns", th.MinNumericColumns)
	v.SetDefault("thresholds.business_high", th.BusinessHigh)
	v.SetDefault("thresholds.business_moderate", th.BusinessModerate)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".insightloom")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
