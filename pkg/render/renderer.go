package render

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrEmptyChart is returned when asked to render a chart without points.
var ErrEmptyChart = errors.New("chart has no points")

// Renderer draws a Chart into an encoded PNG image.
type Renderer interface {
	Render(ctx context.Context, c Chart) ([]byte, error)
}

// Size is the pixel size of the rendered image.
type Size struct {
	Width  int
	Height int
}

// DefaultSize matches an 18x12 inch figure at 100 dpi.
var DefaultSize = Size{Width: 1800, Height: 1200}

// ParseSize parses a "WIDTHxHEIGHT" string such as "1800x1200".
func ParseSize(s string) (Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return Size{}, fmt.Errorf("invalid chart size %q: expected WIDTHxHEIGHT", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return Size{}, fmt.Errorf("invalid chart width %q: %w", w, err)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return Size{}, fmt.Errorf("invalid chart height %q: %w", h, err)
	}
	if width <= 0 || height <= 0 {
		return Size{}, fmt.Errorf("invalid chart size %q: dimensions must be positive", s)
	}
	return Size{Width: width, Height: height}, nil
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}
