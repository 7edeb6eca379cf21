package insight

// Thresholds collects every tuning constant of the insight rule set under a
// name, so each boundary can be tested and tuned without code edits. Values
// are percentages unless noted.
type Thresholds struct {
	// EfficiencyMissingLow splits the high-quality wording tier from the
	// urgent one in the efficiency rule.
	EfficiencyMissingLow float64 `mapstructure:"efficiency_missing_low" yaml:"efficiency_missing_low"`
	// HighCV/LowCV bound the coefficient-of-variation tiers of the trend rule.
	HighCV float64 `mapstructure:"high_cv" yaml:"high_cv"`
	LowCV  float64 `mapstructure:"low_cv" yaml:"low_cv"`
	// SegmentationMaxDistinct caps the distinct values of a categorical
	// column considered for segmentation (count, not percentage).
	SegmentationMaxDistinct int `mapstructure:"segmentation_max_distinct" yaml:"segmentation_max_distinct"`
	// DominantHigh/DominantLow tier the dominant-category share.
	DominantHigh float64 `mapstructure:"dominant_high" yaml:"dominant_high"`
	DominantLow  float64 `mapstructure:"dominant_low" yaml:"dominant_low"`
	// OutlierCritical/OutlierModerate tier the summed IQR outlier rate.
	OutlierCritical float64 `mapstructure:"outlier_critical" yaml:"outlier_critical"`
	OutlierModerate float64 `mapstructure:"outlier_moderate" yaml:"outlier_moderate"`
	// StrongCorrelation is the |r| cut for the strategic-correlation rule.
	StrongCorrelation float64 `mapstructure:"strong_correlation" yaml:"strong_correlation"`
	// SkewLimit is the |skewness| cut for the opportunity rule.
	SkewLimit float64 `mapstructure:"skew_limit" yaml:"skew_limit"`
	// PredictiveHigh/PredictiveModerate tier the numeric-column ratio.
	PredictiveHigh     float64 `mapstructure:"predictive_high" yaml:"predictive_high"`
	PredictiveModerate float64 `mapstructure:"predictive_moderate" yaml:"predictive_moderate"`
	// QualityExcellent/QualityGood tier the 0-100 quality score.
	QualityExcellent float64 `mapstructure:"quality_excellent" yaml:"quality_excellent"`
	QualityGood      float64 `mapstructure:"quality_good" yaml:"quality_good"`
	// SmallSampleRows flags the small-sample limitation (row count).
	SmallSampleRows int `mapstructure:"small_sample_rows" yaml:"small_sample_rows"`
	// MissingLimitation flags the data-completeness limitation.
	MissingLimitation float64 `mapstructure:"missing_limitation" yaml:"missing_limitation"`
	// MinNumericColumns below which correlation analysis is limited (count).
	MinNumericColumns int `mapstructure:"min_numeric_columns" yaml:"min_numeric_columns"`
	// BusinessHigh/BusinessModerate tier the executive-summary label.
	BusinessHigh     float64 `mapstructure:"business_high" yaml:"business_high"`
	BusinessModerate float64 `mapstructure:"business_moderate" yaml:"business_moderate"`
}

// DefaultThresholds returns the fixed design constants of the rule set.
func DefaultThresholds() Thresholds {
	return Thresholds{
		EfficiencyMissingLow:    5,
		HighCV:                  50,
		LowCV:                   20,
		SegmentationMaxDistinct: 10,
		DominantHigh:            70,
		DominantLow:             30,
		OutlierCritical:         15,
		OutlierModerate:         5,
		StrongCorrelation:       0.6,
		SkewLimit:               1,
		PredictiveHigh:          70,
		PredictiveModerate:      40,
		QualityExcellent:        90,
		QualityGood:             70,
		SmallSampleRows:         1000,
		MissingLimitation:       10,
		MinNumericColumns:       2,
		BusinessHigh:            80,
		BusinessModerate:        60,
	}
}
