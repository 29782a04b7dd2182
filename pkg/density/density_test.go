package density

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/stipple/pkg/errors"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestWeightPolarity(t *testing.T) {
	tests := []struct {
		name     string
		c        color.NRGBA
		polarity Polarity
		want     float64
	}{
		{"black dark-on-light", color.NRGBA{0, 0, 0, 255}, DarkOnLight, 1},
		{"white dark-on-light", color.NRGBA{255, 255, 255, 255}, DarkOnLight, 0},
		{"black light-on-dark", color.NRGBA{0, 0, 0, 255}, LightOnDark, 0},
		{"white light-on-dark", color.NRGBA{255, 255, 255, 255}, LightOnDark, 1},
		{"pure green light-on-dark", color.NRGBA{0, 255, 0, 255}, LightOnDark, 0.7152},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := FromImage(solid(3, 2, tt.c), tt.polarity)
			if err != nil {
				t.Fatalf("FromImage() error = %v", err)
			}
			got := f.Weight(1.5, 0.5)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Weight() = %v, want %v", got, tt.want)
			}
			if got < 0 || got > 1 {
				t.Errorf("Weight() = %v, outside [0, 1]", got)
			}
		})
	}
}

func TestSamplingTruncates(t *testing.T) {
	img := solid(2, 2, color.NRGBA{255, 255, 255, 255})
	img.SetNRGBA(1, 0, color.NRGBA{10, 20, 30, 255})
	f, err := FromImage(img, DarkOnLight)
	if err != nil {
		t.Fatal(err)
	}

	r, g, b := f.Color(1.99, 0.99)
	if r != 10 || g != 20 || b != 30 {
		t.Errorf("Color(1.99, 0.99) = %d,%d,%d, want 10,20,30", r, g, b)
	}
	r, _, _ = f.Color(0.99, 0.99)
	if r != 255 {
		t.Errorf("Color(0.99, 0.99) red = %d, want 255", r)
	}
	want := 0.2126*10 + 0.7152*20 + 0.0722*30
	if got := f.Luminance(1.2, 0.1); math.Abs(got-want) > 1e-9 {
		t.Errorf("Luminance() = %v, want %v", got, want)
	}
}

func TestFromImageOffsetBounds(t *testing.T) {
	src := solid(4, 4, color.NRGBA{255, 255, 255, 255})
	src.SetNRGBA(2, 2, color.NRGBA{0, 0, 0, 255})
	sub := src.SubImage(image.Rect(2, 2, 4, 4))

	f, err := FromImage(sub, DarkOnLight)
	if err != nil {
		t.Fatal(err)
	}
	if f.Width() != 2 || f.Height() != 2 {
		t.Fatalf("size = %dx%d, want 2x2", f.Width(), f.Height())
	}
	if got := f.Weight(0, 0); got != 1 {
		t.Errorf("Weight(0, 0) = %v, want 1", got)
	}
	// Rec.709 luminance of pure white lands one ulp below 255.
	if got, want := f.Weight(1, 1), 1-f.Luminance(1, 1)/255; got != want || got > 1e-12 {
		t.Errorf("Weight(1, 1) = %v, want %v", got, want)
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name     string
		w, h     int
		pix      []uint8
		polarity Polarity
		wantErr  bool
	}{
		{"valid", 1, 1, make([]uint8, 4), DarkOnLight, false},
		{"short buffer", 2, 1, make([]uint8, 4), DarkOnLight, true},
		{"zero width", 0, 1, nil, DarkOnLight, true},
		{"bad polarity", 1, 1, make([]uint8, 4), Polarity(9), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.w, tt.h, tt.pix, tt.polarity)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("New() code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestFromImageNil(t *testing.T) {
	if _, err := FromImage(nil, DarkOnLight); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("FromImage(nil) error = %v, want INVALID_INPUT", err)
	}
}

func TestParsePolarity(t *testing.T) {
	tests := []struct {
		in      string
		want    Polarity
		wantErr bool
	}{
		{"dark-on-light", DarkOnLight, false},
		{"Light", LightOnDark, false},
		{" light-on-dark ", LightOnDark, false},
		{"sepia", 0, true},
	}

	for _, tt := range tests {
		got, err := ParsePolarity(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePolarity(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePolarity(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPolarityText(t *testing.T) {
	text, err := LightOnDark.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	var p Polarity
	if err := p.UnmarshalText(text); err != nil {
		t.Fatal(err)
	}
	if p != LightOnDark {
		t.Errorf("UnmarshalText(%q) = %v, want %v", text, p, LightOnDark)
	}
}

func TestDecodeAndLoad(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, solid(5, 3, color.NRGBA{0, 0, 0, 255})); err != nil {
		t.Fatal(err)
	}

	img, format, err := Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if format != "png" {
		t.Errorf("format = %q, want png", format)
	}
	if img.Bounds().Dx() != 5 || img.Bounds().Dy() != 3 {
		t.Errorf("bounds = %v, want 5x3", img.Bounds())
	}

	path := filepath.Join(t.TempDir(), "in.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := LoadField(path, DarkOnLight, 0)
	if err != nil {
		t.Fatalf("LoadField() error = %v", err)
	}
	if f.Weight(4, 2) != 1 {
		t.Errorf("Weight() = %v, want 1", f.Weight(4, 2))
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, _, err := Decode(bytes.NewReader([]byte("not an image"))); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Decode(garbage) error = %v, want INVALID_FORMAT", err)
	}

	_, _, err := Load(filepath.Join(t.TempDir(), "missing.png"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestResize(t *testing.T) {
	tests := []struct {
		name         string
		w, h, max    int
		wantW, wantH int
	}{
		{"within bounds", 100, 50, 200, 100, 50},
		{"disabled", 800, 600, 0, 800, 600},
		{"landscape", 800, 400, 200, 200, 100},
		{"portrait", 300, 900, 300, 100, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := solid(tt.w, tt.h, color.NRGBA{128, 128, 128, 255})
			b := Resize(img, tt.max).Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("Resize() = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}
