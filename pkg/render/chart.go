// Package render turns an analysis result into a PNG chart.
package render

import (
	"fmt"
	"image/color"
	"math"
	"strings"
	"time"

	"github.com/pvaudit/pvevolution/pkg/analysis"
	"github.com/pvaudit/pvevolution/pkg/types"
)

// Align is the anchor of a text relative to its position.
type Align int

const (
	AlignCenter Align = iota
	AlignLeft
	AlignRight
)

// VAlign is the vertical anchor of a text relative to its position.
type VAlign int

const (
	VAlignTop VAlign = iota
	VAlignBottom
)

var (
	colorBlack     = color.RGBA{A: 0xff}
	colorRed       = color.RGBA{R: 0xff, A: 0xff}
	colorGreen     = color.RGBA{G: 0x80, A: 0xff}
	colorLightGray = color.RGBA{R: 0xd3, G: 0xd3, B: 0xd3, A: 0x80}
)

// bandColors maps every GHI band to its display colour.
var bandColors = map[types.GHIBand]color.RGBA{
	types.GHIBandLow:      {B: 0x80, A: 0xff},                   // navy
	types.GHIBandMedium:   {R: 0xad, G: 0xd8, B: 0xe6, A: 0xff}, // lightblue
	types.GHIBandHigh:     {R: 0xff, G: 0xa5, A: 0xff},          // orange
	types.GHIBandVeryHigh: {R: 0xa5, G: 0x2a, B: 0x2a, A: 0xff}, // brown
}

// BandColor returns the display colour of a GHI band.
func BandColor(b types.GHIBand) color.RGBA {
	return bandColors[b]
}

// Point is a single chart point.
type Point struct {
	X     time.Time
	Y     float64
	Color color.RGBA
}

// Line is a polyline drawn over the scatter.
type Line struct {
	Name   string
	Points []Point
	Color  color.RGBA
	Width  float64
}

// Text is a free text placed in axes-fraction coordinates: (0,0) is the
// bottom-left corner of the plotting area and (1,1) the top-right one.
type Text struct {
	Text   string
	X, Y   float64
	Color  color.RGBA
	Size   float64
	Align  Align
	VAlign VAlign
}

// LegendEntry is one GHI band of the legend.
type LegendEntry struct {
	Label string
	Color color.RGBA
}

// Tick is a labelled X axis position.
type Tick struct {
	At    time.Time
	Label string
}

// Chart is a backend neutral description of the evolution chart.
type Chart struct {
	Title  string
	XLabel string
	YLabel string

	// XMin and XMax bound the X axis, YMin and YMax the Y axis.
	XMin, XMax time.Time
	YMin, YMax float64

	XTicks []Tick
	Points []Point
	Lines  []Line
	Legend []LegendEntry
	Texts  []Text
}

// XAt converts an axes fraction to a time on the X axis.
func (c Chart) XAt(fraction float64) time.Time {
	span := c.XMax.Sub(c.XMin)
	return c.XMin.Add(time.Duration(fraction * float64(span)))
}

// YAt converts an axes fraction to a value on the Y axis.
func (c Chart) YAt(fraction float64) float64 {
	return c.YMin + fraction*(c.YMax-c.YMin)
}

// Compose lays out the chart of an analysis result.
func Compose(res *analysis.Result) Chart {
	s := res.Summary
	c := Chart{
		Title: fmt.Sprintf(
			"Performance Ratio Evolution\nFrom %s to %s",
			s.Start.Format(types.DateLayout),
			s.End.Format(types.DateLayout),
		),
		XLabel: "Date",
		YLabel: "Performance Ratio [%]",
		YMin:   0,
		YMax:   100,
	}

	first, last := res.Rows[0].Date, res.Rows[len(res.Rows)-1].Date
	margin := time.Duration(float64(last.Sub(first)) * 0.05)
	if margin < 24*time.Hour {
		margin = 24 * time.Hour
	}
	c.XMin, c.XMax = first.Add(-margin), last.Add(margin)
	c.XTicks = QuarterTicks(c.XMin, c.XMax)

	rolling := Line{Name: "30-d moving average", Color: colorRed, Width: 2.7}
	budget := Line{Name: "Target budget", Color: colorGreen, Width: 2.7}
	for _, row := range res.Rows {
		if !math.IsNaN(row.PR) {
			c.Points = append(c.Points, Point{X: row.Date, Y: row.PR, Color: BandColor(row.GHIBand)})
		}
		if row.RollingMean != nil {
			rolling.Points = append(rolling.Points, Point{X: row.Date, Y: *row.RollingMean})
		}
		budget.Points = append(budget.Points, Point{X: row.Date, Y: row.TargetBudget})
	}
	if len(rolling.Points) > 0 {
		c.Lines = append(c.Lines, rolling)
	}
	c.Lines = append(c.Lines, budget)

	for _, b := range types.GHIBands {
		c.Legend = append(c.Legend, LegendEntry{Label: res.Thresholds.Label(b), Color: BandColor(b)})
	}

	c.Texts = []Text{
		{Text: "Daily Irradiation [kWh/m²]", X: 0.16, Y: 0.978, Color: colorBlack, Size: 15, Align: AlignCenter, VAlign: VAlignTop},
		{
			Text:  fmt.Sprintf("Points above Target Budget PR = %d/%d = %.1f%%", s.AboveTarget, s.Rows, s.AboveTargetPercent()),
			X:     0.5,
			Y:     0.42,
			Color: colorBlack,
			Size:  10,
			Align: AlignCenter,
		},
		{Text: "----- 30-d Moving average of PR", X: 0.42, Y: 0.45, Color: colorRed, Size: 10, Align: AlignCenter},
		{Text: s.BudgetAnnotation, X: 0.5, Y: 0.48, Color: colorGreen, Size: 10, Align: AlignCenter},
		{Text: averagesText(s), X: 0.95, Y: 0.04, Color: colorBlack, Size: 15, Align: AlignRight, VAlign: VAlignBottom},
		{Text: fmt.Sprintf("Average PR Lifetime: %s %%", s.Lifetime), X: 0.96, Y: 0.0197, Color: colorBlack, Size: 15, Align: AlignRight, VAlign: VAlignBottom},
	}
	return c
}

func averagesText(s types.EvolutionSummary) string {
	var sb strings.Builder
	for _, avg := range s.Averages {
		fmt.Fprintf(&sb, "Average PR last %d-d: %s %%\n\n", avg.Days, avg.Value)
	}
	return sb.String()
}

// QuarterTicks returns a tick on the first day of January, April, July and
// October within [from, to], labelled like "Jan/24".
func QuarterTicks(from, to time.Time) []Tick {
	m := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	for (m.Month()-time.January)%3 != 0 || m.Before(from) {
		m = m.AddDate(0, 1, 0)
	}
	var ticks []Tick
	for ; !m.After(to); m = m.AddDate(0, 3, 0) {
		ticks = append(ticks, Tick{At: m, Label: m.Format("Jan/06")})
	}
	return ticks
}
