package render

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/pvaudit/pvevolution/pkg/log"
)

var gridColor = drawing.ColorFromHex("d3d3d3")

// GoChart renders charts with github.com/wcharczuk/go-chart.
type GoChart struct {
	size Size
}

// NewGoChart returns a go-chart backed renderer producing images of the
// given size.
func NewGoChart(size Size) *GoChart {
	return &GoChart{size: size}
}

func toDrawing(c color.RGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Render implements Renderer.
func (g *GoChart) Render(ctx context.Context, c Chart) ([]byte, error) {
	if len(c.Points) == 0 {
		return nil, ErrEmptyChart
	}

	scatter := chart.TimeSeries{
		Name: "PR",
		Style: chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    3,
			DotColorProvider: func(_, _ chart.Range, i int, _, _ float64) drawing.Color {
				return toDrawing(c.Points[i].Color)
			},
		},
	}
	for _, pt := range c.Points {
		scatter.XValues = append(scatter.XValues, pt.X)
		scatter.YValues = append(scatter.YValues, pt.Y)
	}
	series := []chart.Series{scatter}
	for _, l := range c.Lines {
		ts := chart.TimeSeries{
			Name:  l.Name,
			Style: chart.Style{StrokeColor: toDrawing(l.Color), StrokeWidth: l.Width},
		}
		for _, pt := range l.Points {
			ts.XValues = append(ts.XValues, pt.X)
			ts.YValues = append(ts.YValues, pt.Y)
		}
		series = append(series, ts)
	}

	xTicks := make([]chart.Tick, len(c.XTicks))
	xGrid := make([]chart.GridLine, len(c.XTicks))
	for i, t := range c.XTicks {
		xTicks[i] = chart.Tick{Value: chart.TimeToFloat64(t.At), Label: t.Label}
		xGrid[i] = chart.GridLine{Value: xTicks[i].Value}
	}
	var yTicks []chart.Tick
	var yGrid []chart.GridLine
	for v := c.YMin; v <= c.YMax; v += 20 {
		yTicks = append(yTicks, chart.Tick{Value: v, Label: fmt.Sprintf("%.0f", v)})
		yGrid = append(yGrid, chart.GridLine{Value: v})
	}
	gridStyle := chart.Style{StrokeColor: gridColor, StrokeWidth: 0.5}

	graph := chart.Chart{
		Width:  g.size.Width,
		Height: g.size.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 90, Left: 20, Right: 40, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:           c.XLabel,
			Range:          &chart.ContinuousRange{Min: chart.TimeToFloat64(c.XMin), Max: chart.TimeToFloat64(c.XMax)},
			Ticks:          xTicks,
			GridLines:      xGrid,
			GridMajorStyle: gridStyle,
		},
		YAxis: chart.YAxis{
			Name:           c.YLabel,
			Range:          &chart.ContinuousRange{Min: c.YMin, Max: c.YMax},
			Ticks:          yTicks,
			GridLines:      yGrid,
			GridMajorStyle: gridStyle,
		},
		Series: series,
		Elements: []chart.Renderable{
			goChartTitle(c.Title),
			goChartLegend(c.Legend),
			goChartTexts(c.Texts),
		},
	}

	start := time.Now()
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	log.Ctx(ctx).DebugContext(ctx, "rendered chart", "renderer", "gochart", "bytes", buf.Len(), "duration", time.Since(start))
	return buf.Bytes(), nil
}

// goChartTitle draws the centered title lines above the canvas.
func goChartTitle(title string) chart.Renderable {
	return func(r chart.Renderer, box chart.Box, defaults chart.Style) {
		r.SetFont(defaults.Font)
		r.SetFontColor(drawing.ColorBlack)
		r.SetFontSize(20)
		lines := strings.Split(title, "\n")
		y := box.Top - 10 - 30*(len(lines)-1)
		for _, line := range lines {
			tb := r.MeasureText(line)
			r.Text(line, box.Left+(box.Width()-tb.Width())/2, y)
			y += 30
		}
	}
}

// goChartLegend draws the GHI band swatches in the top-left corner of
// the canvas, below the irradiation caption.
func goChartLegend(entries []LegendEntry) chart.Renderable {
	return func(r chart.Renderer, box chart.Box, defaults chart.Style) {
		r.SetFont(defaults.Font)
		r.SetFontSize(12)
		r.SetFontColor(drawing.ColorBlack)
		x, y := box.Left+20, box.Top+45
		for _, e := range entries {
			r.SetFillColor(toDrawing(e.Color))
			r.SetStrokeColor(toDrawing(e.Color))
			r.SetStrokeWidth(1)
			r.Circle(5, x, y-5)
			r.FillStroke()
			r.Text(e.Label, x+12, y)
			y += 22
		}
	}
}

// goChartTexts draws the free texts at their axes fractions.
func goChartTexts(texts []Text) chart.Renderable {
	return func(r chart.Renderer, box chart.Box, defaults chart.Style) {
		r.SetFont(defaults.Font)
		for _, t := range texts {
			r.SetFontColor(toDrawing(t.Color))
			r.SetFontSize(t.Size)
			lines := strings.Split(strings.TrimRight(t.Text, "\n"), "\n")
			lineHeight := int(t.Size * 1.6)
			x := box.Left + int(t.X*float64(box.Width()))
			y := box.Bottom - int(t.Y*float64(box.Height()))
			switch t.VAlign {
			case VAlignBottom:
				y -= lineHeight * (len(lines) - 1)
			default:
				y += lineHeight
			}
			for _, line := range lines {
				tb := r.MeasureText(line)
				lx := x
				switch t.Align {
				case AlignCenter:
					lx -= tb.Width() / 2
				case AlignRight:
					lx -= tb.Width()
				}
				r.Text(line, lx, y)
				y += lineHeight
			}
		}
	}
}
