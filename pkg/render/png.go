package render

import (
	"bytes"
	"math"

	"github.com/gogpu/gg"

	"github.com/matzehuels/stipple/pkg/errors"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	cells bool
}

// WithPNGCellOutlines draws the scene's Voronoi cells above the dots.
func WithPNGCellOutlines() PNGOption {
	return func(r *pngRenderer) { r.cells = true }
}

// RenderPNG rasterizes the scene with the gg software renderer.
func RenderPNG(s Scene, opts ...PNGOption) ([]byte, error) {
	var r pngRenderer
	for _, opt := range opts {
		opt(&r)
	}

	w := int(math.Ceil(s.Frame.Width))
	h := int(math.Ceil(s.Frame.Height))
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeRender, "empty canvas %dx%d", w, h)
	}

	dc := gg.NewContext(w, h)
	defer dc.Close()

	bg := s.Background
	dc.ClearWithColor(gg.RGB(bg.R, bg.G, bg.B))

	for _, d := range s.Dots {
		dc.SetColor(d.Color)
		dc.DrawCircle(d.X, d.Y, d.R)
		if err := dc.Fill(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeRender, err, "fill dot")
		}
	}

	if r.cells {
		dc.SetHexColor(CellStroke)
		dc.SetLineWidth(0.5)
		for _, cell := range s.Cells {
			if len(cell) < 3 {
				continue
			}
			first := s.Frame.Apply(cell[0])
			dc.MoveTo(first.X, first.Y)
			for _, p := range cell[1:] {
				q := s.Frame.Apply(p)
				dc.LineTo(q.X, q.Y)
			}
			dc.ClosePath()
			if err := dc.Stroke(); err != nil {
				return nil, errors.Wrap(errors.ErrCodeRender, err, "stroke cell")
			}
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "encode png")
	}
	return buf.Bytes(), nil
}
