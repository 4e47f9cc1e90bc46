package render

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderers(t *testing.T) {
	size := Size{Width: 600, Height: 400}
	renderers := map[string]Renderer{
		"gonum":   NewGonum(size),
		"gochart": NewGoChart(size),
	}
	for name, r := range renderers {
		t.Run(name, func(t *testing.T) {
			for _, days := range []int{1, 400} {
				out, err := r.Render(context.Background(), Compose(testResult(t, days)))
				require.NoError(t, err)

				img, err := png.Decode(bytes.NewReader(out))
				require.NoError(t, err)
				assert.Equal(t, size.Width, img.Bounds().Dx())
				assert.Equal(t, size.Height, img.Bounds().Dy())
			}

			_, err := r.Render(context.Background(), Chart{})
			assert.ErrorIs(t, err, ErrEmptyChart)
		})
	}
}
