package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/lucentbytes/insightloom-cli/internal/analyzer"
	"github.com/lucentbytes/insightloom-cli/internal/report"
)

var (
	anaOutputPath string
	anaFormat     string
	anaPretty     bool
	anaTimeout    time.Duration
	anaNoCharts   bool
	anaSheet      string
	anaPreview    int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a CSV/TSV/XLSX dataset and produce statistics, charts and insights",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		opts := analyzerOptions(cmd)
		res := analyzer.New(opts).Analyze(context.Background(), raw, path)
		if !res.Success {
			return fmt.Errorf("%s", res.Error)
		}

		out, err := renderResult(res, filepath.Base(path))
		if err != nil {
			return err
		}
		if anaOutputPath != "" {
			if err := os.WriteFile(anaOutputPath, out, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		fmt.Println(string(out))
		return nil
	},
}

// analyzerOptions merges config defaults with the analyze flag overrides.
func analyzerOptions(cmd *cobra.Command) analyzer.Options {
	if cfg == nil {
		loadConfig()
	}
	opts := cfg.AnalyzerOptions()
	if cmd.Flags().Changed("timeout") {
		opts.Timeout = anaTimeout
	}
	if anaNoCharts {
		opts.Charts = false
	}
	if anaSheet != "" {
		opts.Sheet = anaSheet
	}
	if anaPreview > 0 {
		opts.PreviewRows = anaPreview
	}
	return opts
}

func renderResult(res analyzer.Result, name string) ([]byte, error) {
	switch anaFormat {
	case "json":
		if anaPretty {
			return json.MarshalIndent(res, "", "  ")
		}
		return json.Marshal(res)
	case "markdown", "md":
		return []byte(report.Markdown(res, name)), nil
	default:
		return nil, fmt.Errorf("unsupported --format: %s (use json|markdown)", anaFormat)
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the result")
	analyzeCmd.Flags().StringVar(&anaFormat, "format", "markdown", "output format: json | markdown")
	analyzeCmd.Flags().BoolVar(&anaPretty, "pretty", false, "indent JSON output")
	analyzeCmd.Flags().DurationVar(&anaTimeout, "timeout", 2*time.Minute, "per-analysis deadline (0 = none)")
	analyzeCmd.Flags().BoolVar(&anaNoCharts, "no-charts", false, "skip chart rendering")
	analyzeCmd.Flags().StringVar(&anaSheet, "sheet", "", "XLSX: sheet name to analyze (first sheet if omitted)")
	analyzeCmd.Flags().IntVar(&anaPreview, "preview-rows", 0, "rows in the data preview (config default if 0)")
}
