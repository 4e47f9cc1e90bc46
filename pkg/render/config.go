package render

import (
	"fmt"

	"github.com/levenlabs/go-lflag"
)

// Configured sets up the Renderer based on flags.
func Configured() Renderer {
	provider := lflag.String("renderer", "gonum", "Chart renderer to use (available: gonum, gochart)")
	chartSize := lflag.String("chart-size", DefaultSize.String(), "Size of the rendered chart in pixels as WIDTHxHEIGHT")

	var r struct{ Renderer }

	lflag.Do(func() {
		size, err := ParseSize(*chartSize)
		if err != nil {
			panic(err.Error())
		}
		switch *provider {
		case "gonum":
			r.Renderer = NewGonum(size)
		case "gochart":
			r.Renderer = NewGoChart(size)
		default:
			panic(fmt.Sprintf("unknown renderer: %s", *provider))
		}
	})

	return &r
}
