// Package analysis derives the performance ratio evolution statistics of a
// merged PR/GHI table.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pvaudit/pvevolution/pkg/log"
	"github.com/pvaudit/pvevolution/pkg/types"
)

var (
	ErrNoData       = errors.New("no data in range")
	ErrInvalidRange = errors.New("invalid date range")
)

// Range is an inclusive date filter. Zero bounds are open.
type Range struct {
	Start time.Time
	End   time.Time
}

// ParseRange parses optional YYYY-MM-DD bounds.
func ParseRange(start, end string) (Range, error) {
	var r Range
	if start != "" {
		t, err := time.Parse(types.DateLayout, start)
		if err != nil {
			return Range{}, fmt.Errorf("%w: start date: %w", ErrInvalidRange, err)
		}
		r.Start = t
	}
	if end != "" {
		t, err := time.Parse(types.DateLayout, end)
		if err != nil {
			return Range{}, fmt.Errorf("%w: end date: %w", ErrInvalidRange, err)
		}
		r.End = t
	}
	if !r.Start.IsZero() && !r.End.IsZero() && r.End.Before(r.Start) {
		return Range{}, fmt.Errorf("%w: end date %s is before start date %s", ErrInvalidRange, end, start)
	}
	return r, nil
}

// Contains reports whether date falls within the range.
func (r Range) Contains(date time.Time) bool {
	if !r.Start.IsZero() && date.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && date.After(r.End) {
		return false
	}
	return true
}

// Result is the outcome of an analysis.
type Result struct {
	Rows       []types.AnnotatedRow
	Summary    types.EvolutionSummary
	Budget     Budget
	Thresholds types.GHIThresholds
}

// Analyzer computes the evolution of a plant against its profile.
type Analyzer struct {
	profile Profile
	rng     Range
}

// New returns an Analyzer restricted to rng.
func New(profile Profile, rng Range) *Analyzer {
	return &Analyzer{profile: profile, rng: rng}
}

// Profile returns the plant profile used by the analyzer.
func (a *Analyzer) Profile() Profile {
	return a.profile
}

// Analyze filters records, which must be sorted by date, to the analyzer's
// range and derives every annotated value.
func (a *Analyzer) Analyze(ctx context.Context, records []types.Record) (*Result, error) {
	filtered := make([]types.Record, 0, len(records))
	for _, r := range records {
		if a.rng.Contains(r.Date) {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		return nil, ErrNoData
	}

	start, end := a.rng.Start, a.rng.End
	if start.IsZero() {
		start = filtered[0].Date
	}
	if end.IsZero() {
		end = filtered[len(filtered)-1].Date
	}

	budget := NewBudget(start, end, a.profile)
	thresholds := a.profile.Thresholds()

	prs := make([]float64, len(filtered))
	for i, r := range filtered {
		prs[i] = r.PR
	}
	rolling := RollingMean(prs, a.profile.RollingWindow)

	rows := make([]types.AnnotatedRow, len(filtered))
	var above int
	for i, r := range filtered {
		target := budget.Value(r.Date)
		row := types.AnnotatedRow{
			Record:       r,
			RollingMean:  rolling[i],
			TargetBudget: target,
			GHIBand:      thresholds.Classify(r.GHI),
			AboveTarget:  r.PR > target,
		}
		if row.AboveTarget {
			above++
		}
		rows[i] = row
	}

	summary := types.EvolutionSummary{
		Start:            start,
		End:              end,
		Rows:             len(rows),
		AboveTarget:      above,
		AboveTargetRatio: float64(above) / float64(len(rows)),
		BudgetAnnotation: budget.Annotation(),
		Lifetime:         formatAverage(TailMean(prs, 0)),
	}
	for _, days := range a.profile.TrailingWindows {
		summary.Averages = append(summary.Averages, types.TrailingAverage{
			Days:  days,
			Value: formatAverage(TailMean(prs, days)),
		})
	}

	log.Ctx(ctx).InfoContext(
		ctx,
		"analyzed performance ratio",
		slog.String("start", start.Format(types.DateLayout)),
		slog.String("end", end.Format(types.DateLayout)),
		slog.Int("rows", summary.Rows),
		slog.Int("aboveTarget", summary.AboveTarget),
		slog.Int("budgetSteps", len(budget.Steps)),
	)

	return &Result{
		Rows:       rows,
		Summary:    summary,
		Budget:     budget,
		Thresholds: thresholds,
	}, nil
}

func formatAverage(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
