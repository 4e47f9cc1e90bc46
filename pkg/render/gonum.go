package render

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/pvaudit/pvevolution/pkg/log"
)

// Gonum renders charts with gonum.org/v1/plot.
type Gonum struct {
	size Size
}

// NewGonum returns a gonum backed renderer producing images of the given size.
func NewGonum(size Size) *Gonum {
	return &Gonum{size: size}
}

func unixX(t time.Time) float64 {
	return float64(t.Unix())
}

// Render implements Renderer.
func (g *Gonum) Render(ctx context.Context, c Chart) ([]byte, error) {
	if len(c.Points) == 0 {
		return nil, ErrEmptyChart
	}

	p := plot.New()
	p.Title.Text = c.Title
	p.Title.TextStyle.Font.Size = vg.Points(20)
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.Add(&plotter.Grid{
		Vertical:   draw.LineStyle{Color: colorLightGray, Width: vg.Points(0.5)},
		Horizontal: draw.LineStyle{Color: colorLightGray, Width: vg.Points(0.5)},
	})

	xys := make(plotter.XYs, len(c.Points))
	for i, pt := range c.Points {
		xys[i] = plotter.XY{X: unixX(pt.X), Y: pt.Y}
	}
	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("failed to build scatter: %w", err)
	}
	scatter.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{Color: c.Points[i].Color, Radius: vg.Points(2.5), Shape: draw.CircleGlyph{}}
	}
	p.Add(scatter)

	for _, l := range c.Lines {
		xys := make(plotter.XYs, len(l.Points))
		for i, pt := range l.Points {
			xys[i] = plotter.XY{X: unixX(pt.X), Y: pt.Y}
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("failed to build line %q: %w", l.Name, err)
		}
		line.LineStyle.Color = l.Color
		line.LineStyle.Width = vg.Points(l.Width)
		p.Add(line)
	}

	for _, t := range c.Texts {
		labels, err := gonumLabel(c, t)
		if err != nil {
			return nil, err
		}
		p.Add(labels)
	}

	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.TextStyle.Font.Size = vg.Points(12)
	for _, e := range c.Legend {
		thumb, err := plotter.NewScatter(plotter.XYs{{}})
		if err != nil {
			return nil, fmt.Errorf("failed to build legend entry: %w", err)
		}
		thumb.GlyphStyle = draw.GlyphStyle{Color: e.Color, Radius: vg.Points(4), Shape: draw.CircleGlyph{}}
		p.Legend.Add(e.Label, thumb)
	}

	ticks := make(plot.ConstantTicks, len(c.XTicks))
	for i, t := range c.XTicks {
		ticks[i] = plot.Tick{Value: unixX(t.At), Label: t.Label}
	}
	p.X.Tick.Marker = ticks

	// ranges are fixed last since Add widens them to the plotters' data
	p.X.Min, p.X.Max = unixX(c.XMin), unixX(c.XMax)
	p.Y.Min, p.Y.Max = c.YMin, c.YMax

	start := time.Now()
	w, err := p.WriterTo(pixels(g.size.Width), pixels(g.size.Height), "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create png writer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	log.Ctx(ctx).DebugContext(ctx, "rendered chart", "renderer", "gonum", "bytes", buf.Len(), "duration", time.Since(start))
	return buf.Bytes(), nil
}

// pixels converts a pixel count to a length at the default 96 dpi.
func pixels(px int) vg.Length {
	return vg.Length(px) * vg.Inch / 96
}

func gonumLabel(c Chart, t Text) (*plotter.Labels, error) {
	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: unixX(c.XAt(t.X)), Y: c.YAt(t.Y)}},
		Labels: []string{t.Text},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build label: %w", err)
	}
	sty := &labels.TextStyle[0]
	sty.Color = t.Color
	sty.Font = font.From(sty.Font, vg.Points(t.Size))
	switch t.Align {
	case AlignLeft:
		sty.XAlign = text.XLeft
	case AlignRight:
		sty.XAlign = text.XRight
	default:
		sty.XAlign = text.XCenter
	}
	switch t.VAlign {
	case VAlignBottom:
		sty.YAlign = text.YBottom
	default:
		sty.YAlign = text.YTop
	}
	return labels, nil
}
