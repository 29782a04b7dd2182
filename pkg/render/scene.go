package render

import (
	"math"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/stipple/pkg/density"
	"github.com/matzehuels/stipple/pkg/errors"
	"github.com/matzehuels/stipple/pkg/geom"
)

// colorSamples is the number of image samples averaged per colorized dot.
const colorSamples = 10

var (
	// White is the light end of the palette.
	White = colorful.Color{R: 1, G: 1, B: 1}
	// Black is the dark end of the palette.
	Black = colorful.Color{}
	// Charcoal (#333) is the light-on-dark background.
	Charcoal = colorful.Color{R: 0.2, G: 0.2, B: 0.2}
)

// Style controls how stipples are drawn.
type Style struct {
	MinDotSize   float64 `json:"min_dot_size" yaml:"min_dot_size" toml:"min_dot_size"`
	DotSizeRange float64 `json:"dot_size_range" yaml:"dot_size_range" toml:"dot_size_range"`
	Colorize     bool    `json:"colorize" yaml:"colorize" toml:"colorize"`

	// Scale sets the canvas size relative to the image when Width and
	// Height are zero.
	Scale float64 `json:"scale" yaml:"scale" toml:"scale"`

	// Width and Height fix the canvas size. The image is fitted inside
	// and centered.
	Width  int `json:"width,omitempty" yaml:"width,omitempty" toml:"width,omitempty"`
	Height int `json:"height,omitempty" yaml:"height,omitempty" toml:"height,omitempty"`
}

// DefaultStyle returns the default dot style.
func DefaultStyle() Style {
	return Style{
		MinDotSize:   1,
		DotSizeRange: 2,
		Scale:        1,
	}
}

// Validate checks the style for usable values.
func (s Style) Validate() error {
	if err := errors.ValidateNonNegative("min dot size", s.MinDotSize); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("dot size range", s.DotSizeRange); err != nil {
		return err
	}
	if !(s.Scale > 0) || math.IsInf(s.Scale, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %v", s.Scale)
	}
	if s.Width < 0 || s.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas size must not be negative, got %dx%d", s.Width, s.Height)
	}
	return nil
}

// canvas returns the output size for an image of the given size.
func (s Style) canvas(imgW, imgH int) (w, h float64) {
	scale := s.Scale
	if scale <= 0 {
		scale = 1
	}
	w, h = float64(imgW)*scale, float64(imgH)*scale
	if s.Width > 0 {
		w = float64(s.Width)
	}
	if s.Height > 0 {
		h = float64(s.Height)
	}
	return w, h
}

// Frame maps image coordinates onto the canvas: the image is scaled
// uniformly to fit and centered.
type Frame struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
}

// Fit returns the frame that letterboxes an imgW×imgH image into a
// canvasW×canvasH canvas.
func Fit(imgW, imgH int, canvasW, canvasH float64) Frame {
	scale := math.Min(canvasW/float64(imgW), canvasH/float64(imgH))
	return Frame{
		Width:   canvasW,
		Height:  canvasH,
		Scale:   scale,
		OffsetX: (canvasW - float64(imgW)*scale) / 2,
		OffsetY: (canvasH - float64(imgH)*scale) / 2,
	}
}

// Apply maps an image point to canvas coordinates.
func (f Frame) Apply(p geom.Point) geom.Point {
	return geom.Point{X: f.OffsetX + p.X*f.Scale, Y: f.OffsetY + p.Y*f.Scale}
}

// Dot is one drawn stipple in canvas coordinates.
type Dot struct {
	X     float64        `json:"x" csv:"x"`
	Y     float64        `json:"y" csv:"y"`
	R     float64        `json:"r" csv:"radius"`
	Color colorful.Color `json:"-" csv:"-"`
}

// Scene is everything needed to draw one frame.
type Scene struct {
	Frame       Frame
	Polarity    density.Polarity
	Background  colorful.Color
	Foreground  colorful.Color
	ImageWidth  int
	ImageHeight int

	// Points are the stipples in image coordinates; Dots are the same
	// stipples on the canvas, index for index.
	Points []geom.Point
	Dots   []Dot

	// Cells are optional Voronoi cells in image coordinates.
	Cells []geom.Polygon
}

// Palette returns the background and default dot color for a polarity.
func Palette(p density.Polarity) (background, foreground colorful.Color) {
	if p == density.LightOnDark {
		return Charcoal, White
	}
	return White, Black
}

// ComposeOption configures Compose.
type ComposeOption func(*composer)

type composer struct {
	cells []geom.Polygon
	rnd   *rand.Rand
}

// WithCells attaches Voronoi cells for outline rendering.
func WithCells(cells []geom.Polygon) ComposeOption {
	return func(c *composer) { c.cells = cells }
}

// WithRand sets the random source used for colorize sampling. The default
// is the non-seeded global generator.
func WithRand(r *rand.Rand) ComposeOption {
	return func(c *composer) { c.rnd = r }
}

// Compose lays out points drawn over field with style.
func Compose(points []geom.Point, field *density.Field, style Style, opts ...ComposeOption) Scene {
	var c composer
	for _, opt := range opts {
		opt(&c)
	}
	float := rand.Float64
	if c.rnd != nil {
		float = c.rnd.Float64
	}

	w, h := field.Width(), field.Height()
	cw, ch := style.canvas(w, h)
	frame := Fit(w, h, cw, ch)
	bg, fg := Palette(field.Polarity())

	dots := make([]Dot, len(points))
	for i, p := range points {
		r := style.MinDotSize
		if field.Contains(p.X, p.Y) {
			r += field.Weight(p.X, p.Y) * style.DotSizeRange
		}
		col := fg
		if style.Colorize {
			col = averageColor(field, p, r/frame.Scale, fg, float)
		}
		at := frame.Apply(p)
		dots[i] = Dot{X: at.X, Y: at.Y, R: r, Color: col}
	}

	return Scene{
		Frame:       frame,
		Polarity:    field.Polarity(),
		Background:  bg,
		Foreground:  fg,
		ImageWidth:  w,
		ImageHeight: h,
		Points:      points,
		Dots:        dots,
		Cells:       c.cells,
	}
}

// averageColor averages up to colorSamples image colors within radius of
// p. Samples outside the image are dropped; if none remain, fallback is
// returned.
func averageColor(field *density.Field, p geom.Point, radius float64, fallback colorful.Color, float func() float64) colorful.Color {
	var sr, sg, sb float64
	n := 0
	for i := 0; i < colorSamples; i++ {
		angle := float() * 2 * math.Pi
		dist := float() * radius
		x := p.X + dist*math.Cos(angle)
		y := p.Y + dist*math.Sin(angle)
		if !field.Contains(x, y) {
			continue
		}
		r, g, b := field.Color(x, y)
		sr += float64(r)
		sg += float64(g)
		sb += float64(b)
		n++
	}
	if n == 0 {
		return fallback
	}
	avg := func(sum float64) float64 { return math.Round(sum/float64(n)) / 255 }
	return colorful.Color{R: avg(sr), G: avg(sg), B: avg(sb)}
}
