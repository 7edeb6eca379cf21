package analyzer

import (
	"github.com/lucentbytes/insightloom-cli/internal/metrics"
)

// Report carries the successful-analysis payload. It is embedded in Result
// as a pointer so a failed analysis serializes to just the success flag and
// the error message.
type Report struct {
	BasicInfo   metrics.BasicInfo                 `json:"basic_info"`
	Summary     map[string]metrics.NumericSummary `json:"statistical_summary"`
	DataPreview []map[string]any                  `json:"data_preview"`
	Heatmap     string                            `json:"correlation_heatmap"`
	Histograms  []string                          `json:"histograms"`
	Boxplots    []string                          `json:"boxplots"`
	Insights    []string                          `json:"ai_insights"`
}

// Result is the analysis envelope. Exactly one of Report or Error is set.
type Result struct {
	*Report
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Failure wraps an error message into a failed Result.
func Failure(msg string) Result {
	return Result{Success: false, Error: msg}
}
