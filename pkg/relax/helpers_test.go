package relax

import (
	"image"
	"image/color"
	"testing"

	"github.com/matzehuels/stipple/pkg/density"
)

var (
	black = color.NRGBA{0, 0, 0, 255}
	white = color.NRGBA{255, 255, 255, 255}
)

// newField builds a w×h field filled with fill, with the listed pixels
// painted with paint.
func newField(t *testing.T, w, h int, fill, paint color.NRGBA, polarity density.Polarity, pixels ...image.Point) *density.Field {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, fill)
		}
	}
	for _, p := range pixels {
		img.SetNRGBA(p.X, p.Y, paint)
	}
	f, err := density.FromImage(img, polarity)
	if err != nil {
		t.Fatalf("FromImage() error = %v", err)
	}
	return f
}

func testConfig(count, iterations int) Config {
	cfg := DefaultConfig()
	cfg.Count = count
	cfg.Iterations = iterations
	cfg.Samples = 20
	cfg.Workers = 2
	return cfg
}
