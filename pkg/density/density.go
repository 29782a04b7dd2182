// Package density exposes a decoded raster image as a read-only density
// field for the stippling engine.
//
// A Field answers three questions about any location inside the image:
// its luminance, its raw color and its stipple weight. The weight is the
// probability mass the relaxation assigns to that location and depends on
// the field's Polarity:
//
//	DarkOnLight: weight = 1 - luminance/255  (dark pixels attract dots)
//	LightOnDark: weight = luminance/255      (bright pixels attract dots)
//
// Sampling truncates coordinates to the containing pixel. The accessors do
// not bounds check; callers keep coordinates inside [0, w) × [0, h).
// A Field is immutable and safe for concurrent readers.
package density

import (
	"image"
	"strings"

	"golang.org/x/image/draw"

	"github.com/matzehuels/stipple/pkg/errors"
)

// Polarity selects which end of the luminance range attracts stipples.
type Polarity int

const (
	// DarkOnLight places dark dots on a light background: dark pixels
	// carry the most weight.
	DarkOnLight Polarity = iota
	// LightOnDark places light dots on a dark background: bright pixels
	// carry the most weight.
	LightOnDark
)

// String returns the configuration name of the polarity.
func (p Polarity) String() string {
	switch p {
	case DarkOnLight:
		return "dark-on-light"
	case LightOnDark:
		return "light-on-dark"
	}
	return "unknown"
}

// Valid reports whether p is one of the defined polarities.
func (p Polarity) Valid() bool {
	return p == DarkOnLight || p == LightOnDark
}

// ParsePolarity parses a polarity name. It accepts the canonical names and
// the short forms "dark" and "light".
func ParsePolarity(s string) (Polarity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dark-on-light", "dark", "darkonlight":
		return DarkOnLight, nil
	case "light-on-dark", "light", "lightondark":
		return LightOnDark, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown polarity %q (want dark-on-light or light-on-dark)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Polarity) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown polarity %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Polarity) UnmarshalText(text []byte) error {
	v, err := ParsePolarity(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Field is an immutable density view over non-premultiplied RGBA pixels.
type Field struct {
	width, height int
	pix           []uint8
	polarity      Polarity
}

// New wraps a flat RGBA buffer of width*height*4 bytes, rows top to bottom.
// The alpha channel is carried but never read. The buffer must not be
// modified afterwards.
func New(width, height int, pix []uint8, polarity Polarity) (*Field, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "field dimensions must be positive, got %dx%d", width, height)
	}
	if want := width * height * 4; len(pix) != want {
		return nil, errors.New(errors.ErrCodeInvalidInput, "pixel buffer has %d bytes, want %d for %dx%d", len(pix), want, width, height)
	}
	if !polarity.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown polarity %d", int(polarity))
	}
	return &Field{width: width, height: height, pix: pix, polarity: polarity}, nil
}

// FromImage copies img into a field. Any image.Image is accepted; the
// pixels are converted to non-premultiplied RGBA first.
func FromImage(img image.Image, polarity Polarity) (*Field, error) {
	if img == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no image loaded")
	}
	b := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	return New(b.Dx(), b.Dy(), nrgba.Pix, polarity)
}

// Width returns the field width in pixels.
func (f *Field) Width() int { return f.width }

// Height returns the field height in pixels.
func (f *Field) Height() int { return f.height }

// Polarity returns the weighting mode of the field.
func (f *Field) Polarity() Polarity { return f.polarity }

// Contains reports whether (x, y) lies in [0, w) × [0, h).
func (f *Field) Contains(x, y float64) bool {
	return x >= 0 && y >= 0 && x < float64(f.width) && y < float64(f.height)
}

func (f *Field) offset(x, y float64) int {
	return (int(y)*f.width + int(x)) * 4
}

// Luminance returns the Rec. 709 luma of the pixel containing (x, y),
// in [0, 255].
func (f *Field) Luminance(x, y float64) float64 {
	i := f.offset(x, y)
	return 0.2126*float64(f.pix[i]) + 0.7152*float64(f.pix[i+1]) + 0.0722*float64(f.pix[i+2])
}

// Color returns the raw RGB channels of the pixel containing (x, y).
func (f *Field) Color(x, y float64) (r, g, b uint8) {
	i := f.offset(x, y)
	return f.pix[i], f.pix[i+1], f.pix[i+2]
}

// Weight returns the stipple weight of the pixel containing (x, y),
// in [0, 1].
func (f *Field) Weight(x, y float64) float64 {
	norm := f.Luminance(x, y) / 255
	if f.polarity == DarkOnLight {
		norm = 1 - norm
	}
	return min(max(norm, 0), 1)
}
