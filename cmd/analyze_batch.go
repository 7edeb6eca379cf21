package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lucentbytes/insightloom-cli/internal/analyzer"
)

var (
	abOutDir   string
	abFormat   string
	abPretty   bool
	abTimeout  time.Duration
	abNoCharts bool
	abSheet    string
	abQuiet    bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple CSV/TSV/XLSX files with progress, writing one result per input",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		seen := map[string]struct{}{}
		for _, arg := range args {
			matches, _ := filepath.Glob(arg)
			if len(matches) == 0 {
				// treat as literal path if exists
				if _, err := os.Stat(arg); err == nil {
					matches = []string{arg}
				}
			}
			for _, m := range matches {
				if _, ok := seen[m]; ok {
					continue
				}
				seen[m] = struct{}{}
				files = append(files, m)
			}
		}
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		sort.Strings(files)

		if abOutDir != "" {
			if err := os.MkdirAll(abOutDir, 0o755); err != nil {
				return fmt.Errorf("mkdir out dir: %w", err)
			}
		}

		anaFormat = abFormat
		anaPretty = abPretty
		anaNoCharts = abNoCharts
		anaSheet = abSheet
		anaTimeout = abTimeout

		opts := analyzerOptions(cmd)
		a := analyzer.New(opts)

		failed := 0
		for i, path := range files {
			if !abQuiet {
				fmt.Printf("[%d/%d] %s\n", i+1, len(files), path)
			}
			raw, err := os.ReadFile(path)
			if err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "✗ %s: %v\n", path, err)
				continue
			}
			res := a.Analyze(context.Background(), raw, path)
			if !res.Success {
				failed++
				fmt.Fprintf(os.Stderr, "✗ %s: %s\n", path, res.Error)
				continue
			}
			out, err := renderResult(res, filepath.Base(path))
			if err != nil {
				return err
			}
			if err := os.WriteFile(batchOutputPath(path), out, 0o644); err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "✗ %s: write result: %v\n", path, err)
				continue
			}
			if !abQuiet {
				fmt.Printf("✓ %s → %s\n", path, batchOutputPath(path))
			}
		}

		fmt.Printf("✓ Analyzed %d file(s), %d failed\n", len(files)-failed, failed)
		if failed == len(files) {
			return fmt.Errorf("all %d analyses failed", failed)
		}
		return nil
	},
}

// batchOutputPath derives the per-input result path: same directory (or
// --out-dir) with the extension swapped for the output format.
func batchOutputPath(input string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	ext := ".analysis.md"
	if abFormat == "json" {
		ext = ".analysis.json"
	}
	dir := filepath.Dir(input)
	if abOutDir != "" {
		dir = abOutDir
	}
	return filepath.Join(dir, stem+ext)
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVar(&abOutDir, "out-dir", "", "directory for results (next to each input if omitted)")
	analyzeBatchCmd.Flags().StringVar(&abFormat, "format", "markdown", "output format: json | markdown")
	analyzeBatchCmd.Flags().BoolVar(&abPretty, "pretty", false, "indent JSON output")
	analyzeBatchCmd.Flags().DurationVar(&abTimeout, "timeout", 2*time.Minute, "per-analysis deadline (0 = none)")
	analyzeBatchCmd.Flags().BoolVar(&abNoCharts, "no-charts", false, "skip chart rendering")
	analyzeBatchCmd.Flags().StringVar(&abSheet, "sheet", "", "XLSX: sheet name to analyze (first sheet if omitted)")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress per-file progress output")
}
