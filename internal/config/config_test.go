package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.PreviewRows)
	assert.Equal(t, 120, cfg.TimeoutSec)
	assert.True(t, cfg.Charts)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 50, cfg.MaxUploadMB)
	assert.Equal(t, 30, cfg.Render.Bins)
	assert.Equal(t, 5, cfg.Render.MaxBoxplots)
	assert.Equal(t, 50.0, cfg.Thresholds.HighCV)
	assert.Equal(t, 0.6, cfg.Thresholds.StrongCorrelation)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "preview_rows: 3\ncharts: false\nrender:\n  bins: 12\nthresholds:\n  high_cv: 35\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.PreviewRows)
	assert.False(t, cfg.Charts)
	assert.Equal(t, 12, cfg.Render.Bins)
	assert.Equal(t, 35.0, cfg.Thresholds.HighCV)
	// Untouched keys keep defaults.
	assert.Equal(t, 120, cfg.TimeoutSec)
	assert.Equal(t, 5, cfg.Render.MaxBoxplots)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("preview_rows: 3\n"), 0o644))
	t.Setenv("INSIGHTLOOM_PREVIEW_ROWS", "7")
	t.Setenv("INSIGHTLOOM_THRESHOLDS_HIGH_CV", "42")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.PreviewRows)
	assert.Equal(t, 42.0, cfg.Thresholds.HighCV)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.PreviewRows = 4
	cfg.Thresholds.DominantHigh = 65
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.PreviewRows)
	assert.Equal(t, 65.0, loaded.Thresholds.DominantHigh)
	assert.Equal(t, cfg.Render, loaded.Render)
}

func TestAnalyzerOptions(t *testing.T) {
	cfg := Default()
	cfg.TimeoutSec = 30
	cfg.Sheet = "Ventas"
	opts := cfg.AnalyzerOptions()
	assert.Equal(t, 30*time.Second, opts.Timeout)
	assert.Equal(t, "Ventas", opts.Sheet)
	assert.True(t, opts.Charts)
	assert.Equal(t, cfg.Thresholds, opts.Thresholds)
	assert.Equal(t, cfg.Render, opts.Render)
}
