package types

import "time"

// AnnotatedRow is a merged record plus every value derived for it by the
// analysis.
type AnnotatedRow struct {
	Record

	// RollingMean is the trailing mean of PR and is nil until enough samples
	// precede the row.
	RollingMean *float64 `json:"rollingMean,omitempty"`

	// TargetBudget is the contractual PR target for the date, rounded to one
	// decimal.
	TargetBudget float64 `json:"targetBudget"`

	GHIBand     GHIBand `json:"ghiBand"`
	AboveTarget bool    `json:"aboveTarget"`
}

// TrailingAverage is the mean PR over the last Days rows of a range. Days is 0
// for the lifetime average.
type TrailingAverage struct {
	Days  int    `json:"days"`
	Value string `json:"value"`
}

// EvolutionSummary holds the scalar results of an analysis.
type EvolutionSummary struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	Rows             int     `json:"rows"`
	AboveTarget      int     `json:"aboveTarget"`
	AboveTargetRatio float64 `json:"aboveTargetRatio"`

	// BudgetAnnotation is the year-by-year description of the target curve.
	BudgetAnnotation string `json:"budgetAnnotation"`

	Averages []TrailingAverage `json:"averages"`
	Lifetime string            `json:"lifetime"`
}

// AboveTargetPercent returns the share of rows above target as a percentage.
func (s EvolutionSummary) AboveTargetPercent() float64 {
	return s.AboveTargetRatio * 100
}
