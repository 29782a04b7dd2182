package render

import (
	"bytes"
	"fmt"

	svg "github.com/ajstarks/svgo/float"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/stipple/pkg/geom"
)

// CellStroke is the outline color of debug cell overlays.
const CellStroke = "#e0457b"

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	title    string
	cells    bool
	decimals int
}

// WithTitle adds a <title> element.
func WithTitle(s string) SVGOption { return func(r *svgRenderer) { r.title = s } }

// WithCellOutlines draws the scene's Voronoi cells above the dots.
func WithCellOutlines() SVGOption { return func(r *svgRenderer) { r.cells = true } }

// WithDecimals sets the coordinate precision (default 2).
func WithDecimals(n int) SVGOption { return func(r *svgRenderer) { r.decimals = n } }

// RenderSVG renders the scene as a standalone SVG document.
func RenderSVG(s Scene, opts ...SVGOption) []byte {
	r := svgRenderer{decimals: 2}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Decimals = r.decimals

	w, h := s.Frame.Width, s.Frame.Height
	canvas.Startview(w, h, 0, 0, w, h)
	if r.title != "" {
		canvas.Title(r.title)
	}
	canvas.Rect(0, 0, w, h, fill(s.Background))

	canvas.Group(`id="stipples"`, fill(s.Foreground))
	for _, d := range s.Dots {
		if d.Color == s.Foreground {
			canvas.Circle(d.X, d.Y, d.R)
		} else {
			canvas.Circle(d.X, d.Y, d.R, fill(d.Color))
		}
	}
	canvas.Gend()

	if r.cells && len(s.Cells) > 0 {
		canvas.Group(`id="cells"`, `fill="none"`, fmt.Sprintf(`stroke="%s"`, CellStroke), `stroke-width="0.5"`)
		for _, cell := range s.Cells {
			if len(cell) < 3 {
				continue
			}
			xs, ys := project(s.Frame, cell)
			canvas.Polygon(xs, ys)
		}
		canvas.Gend()
	}

	canvas.End()
	return buf.Bytes()
}

func fill(c colorful.Color) string {
	return fmt.Sprintf(`fill="%s"`, c.Hex())
}

func project(f Frame, poly geom.Polygon) (xs, ys []float64) {
	xs = make([]float64, len(poly))
	ys = make([]float64, len(poly))
	for i, p := range poly {
		q := f.Apply(p)
		xs[i], ys[i] = q.X, q.Y
	}
	return xs, ys
}
