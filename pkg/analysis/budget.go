package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BudgetStep is one yearly decay of the target budget.
type BudgetStep struct {
	Date time.Time
	// Year is the contract year starting at Date, the first year being 1.
	Year int
	// Value is the unrounded budget from Date onwards.
	Value float64
}

// Budget is the piecewise constant target PR over a date range.
type Budget struct {
	Initial float64
	Steps   []BudgetStep
}

// NewBudget folds the yearly boundaries in (start, end] into a Budget. A
// boundary falling on start itself does not decay the budget.
func NewBudget(start, end time.Time, p Profile) Budget {
	b := Budget{Initial: p.InitialBudget}

	boundary := time.Date(start.Year(), p.BoundaryMonth, p.BoundaryDay, 0, 0, 0, 0, time.UTC)
	if !boundary.After(start) {
		boundary = boundary.AddDate(1, 0, 0)
	}
	value := p.InitialBudget
	for year := 2; !boundary.After(end); year++ {
		value *= p.AnnualDecay
		b.Steps = append(b.Steps, BudgetStep{Date: boundary, Year: year, Value: value})
		boundary = boundary.AddDate(1, 0, 0)
	}
	return b
}

// Raw returns the unrounded budget in effect on date.
func (b Budget) Raw(date time.Time) float64 {
	v := b.Initial
	for _, s := range b.Steps {
		if s.Date.After(date) {
			break
		}
		v = s.Value
	}
	return v
}

// Value returns the budget in effect on date rounded to one decimal.
func (b Budget) Value(date time.Time) float64 {
	return round1(b.Raw(date))
}

// Annotation describes the budget year by year, e.g.
// "----- Target Budget Yield Performance Ratio [1Y-73.9%, 2Y-73.3%]".
func (b Budget) Annotation() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "----- Target Budget Yield Performance Ratio [1Y-%.1f%%", b.Initial)
	for _, s := range b.Steps {
		fmt.Fprintf(&sb, ", %dY-%.1f%%", s.Year, s.Value)
	}
	sb.WriteString("]")
	return sb.String()
}

func round1(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}
