package render

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/stipple/pkg/density"
	"github.com/matzehuels/stipple/pkg/errors"
	"github.com/matzehuels/stipple/pkg/geom"
)

func testField(t *testing.T, w, h int, c color.NRGBA, polarity density.Polarity) *density.Field {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := density.FromImage(img, polarity)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestFit(t *testing.T) {
	tests := []struct {
		name             string
		imgW, imgH       int
		cw, ch           float64
		scale, offX, offY float64
	}{
		{"identity", 100, 50, 100, 50, 1, 0, 0},
		{"double", 100, 50, 200, 100, 2, 0, 0},
		{"letterbox vertical", 100, 50, 100, 100, 1, 0, 25},
		{"pillarbox", 50, 100, 200, 100, 1, 75, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Fit(tt.imgW, tt.imgH, tt.cw, tt.ch)
			if f.Scale != tt.scale || f.OffsetX != tt.offX || f.OffsetY != tt.offY {
				t.Errorf("Fit() = %+v, want scale=%v offset=(%v, %v)", f, tt.scale, tt.offX, tt.offY)
			}
		})
	}

	f := Fit(100, 50, 100, 100)
	if got := f.Apply(geom.Point{X: 10, Y: 10}); got != (geom.Point{X: 10, Y: 35}) {
		t.Errorf("Apply() = %v, want (10, 35)", got)
	}
}

func TestComposeRadiusAndPalette(t *testing.T) {
	tests := []struct {
		name     string
		c        color.NRGBA
		polarity density.Polarity
		wantR    float64
		wantBg   colorful.Color
		wantFg   colorful.Color
	}{
		{"black dark-on-light", color.NRGBA{0, 0, 0, 255}, density.DarkOnLight, 3, White, Black},
		{"white dark-on-light", color.NRGBA{255, 255, 255, 255}, density.DarkOnLight, 1, White, Black},
		{"white light-on-dark", color.NRGBA{255, 255, 255, 255}, density.LightOnDark, 3, Charcoal, White},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := testField(t, 4, 4, tt.c, tt.polarity)
			s := Compose([]geom.Point{{X: 1.5, Y: 2.5}}, field, DefaultStyle())
			if len(s.Dots) != 1 {
				t.Fatalf("len(Dots) = %d, want 1", len(s.Dots))
			}
			if math.Abs(s.Dots[0].R-tt.wantR) > 1e-9 {
				t.Errorf("radius = %v, want %v", s.Dots[0].R, tt.wantR)
			}
			if s.Background != tt.wantBg || s.Dots[0].Color != tt.wantFg {
				t.Errorf("palette = %v/%v, want %v/%v", s.Background, s.Dots[0].Color, tt.wantBg, tt.wantFg)
			}
		})
	}
	if Charcoal.Hex() != "#333333" {
		t.Errorf("Charcoal.Hex() = %s, want #333333", Charcoal.Hex())
	}
}

func TestComposeCanvasSize(t *testing.T) {
	field := testField(t, 40, 20, color.NRGBA{0, 0, 0, 255}, density.DarkOnLight)

	style := DefaultStyle()
	style.Scale = 2.5
	s := Compose(nil, field, style)
	if s.Frame.Width != 100 || s.Frame.Height != 50 {
		t.Errorf("scaled canvas = %vx%v, want 100x50", s.Frame.Width, s.Frame.Height)
	}

	style = DefaultStyle()
	style.Width, style.Height = 80, 80
	s = Compose([]geom.Point{{X: 0, Y: 0}}, field, style)
	if s.Frame.Scale != 2 || s.Frame.OffsetY != 20 {
		t.Errorf("fitted frame = %+v, want scale 2 offset y 20", s.Frame)
	}
	if s.Dots[0].X != 0 || s.Dots[0].Y != 20 {
		t.Errorf("dot = %+v, want (0, 20)", s.Dots[0])
	}
}

func TestComposeColorize(t *testing.T) {
	field := testField(t, 6, 6, color.NRGBA{200, 100, 50, 255}, density.DarkOnLight)
	style := DefaultStyle()
	style.Colorize = true

	s := Compose([]geom.Point{{X: 3, Y: 3}}, field, style, WithRand(rand.New(rand.NewPCG(1, 2))))
	r, g, b := s.Dots[0].Color.RGB255()
	if r != 200 || g != 100 || b != 50 {
		t.Errorf("colorized dot = %d,%d,%d, want 200,100,50", r, g, b)
	}
}

func TestAverageColorFallback(t *testing.T) {
	field := testField(t, 2, 2, color.NRGBA{10, 10, 10, 255}, density.DarkOnLight)
	// Far outside the image every sample is dropped.
	got := averageColor(field, geom.Point{X: 100, Y: 100}, 1, Black, rand.New(rand.NewPCG(3, 3)).Float64)
	if got != Black {
		t.Errorf("averageColor() = %v, want fallback", got)
	}
}

func TestStyleValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Style)
		wantErr bool
	}{
		{"default", func(*Style) {}, false},
		{"negative min", func(s *Style) { s.MinDotSize = -1 }, true},
		{"negative range", func(s *Style) { s.DotSizeRange = -0.5 }, true},
		{"zero scale", func(s *Style) { s.Scale = 0 }, true},
		{"negative width", func(s *Style) { s.Width = -10 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultStyle()
			tt.mutate(&s)
			if err := s.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func sampleScene(t *testing.T) Scene {
	t.Helper()
	field := testField(t, 10, 8, color.NRGBA{0, 0, 0, 255}, density.LightOnDark)
	points := []geom.Point{{X: 2, Y: 2}, {X: 7, Y: 5}}
	cells := []geom.Polygon{
		{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 8}, {X: 0, Y: 8}},
		{{X: 5, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 8}, {X: 5, Y: 8}},
	}
	return Compose(points, field, DefaultStyle(), WithCells(cells))
}

func TestRenderSVG(t *testing.T) {
	s := sampleScene(t)
	out := string(RenderSVG(s, WithTitle("test"), WithCellOutlines()))

	checks := []string{
		`viewBox="0.00 0.00 10.00 8.00"`,
		`<title>test</title>`,
		`fill="#333333"`,
		`<circle cx="2.00" cy="2.00" r="1.00"`,
		`<circle cx="7.00" cy="5.00" r="1.00"`,
		`stroke="` + CellStroke + `"`,
		`<polygon`,
		`</svg>`,
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if n := strings.Count(out, "<circle"); n != 2 {
		t.Errorf("SVG has %d circles, want 2", n)
	}

	plain := string(RenderSVG(s))
	if strings.Contains(plain, "<polygon") {
		t.Error("cells drawn without WithCellOutlines")
	}
}

func TestRenderPNG(t *testing.T) {
	s := sampleScene(t)
	data, err := RenderPNG(s, WithPNGCellOutlines())
	if err != nil {
		t.Fatalf("RenderPNG() error = %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 10 || b.Dy() != 8 {
		t.Errorf("PNG size = %v, want 10x8", b)
	}
}

func TestRenderPNGEmptyCanvas(t *testing.T) {
	if _, err := RenderPNG(Scene{}); !errors.Is(err, errors.ErrCodeRender) {
		t.Errorf("RenderPNG(empty) error = %v, want RENDER_FAILED", err)
	}
}

func TestRenderJSON(t *testing.T) {
	s := sampleScene(t)
	data, err := RenderJSON(s, WithJSONMeta(Meta{RunID: "abc", Steps: 3, Count: 2}), WithJSONIndent())
	if err != nil {
		t.Fatalf("RenderJSON() error = %v", err)
	}

	var out struct {
		Width    int    `json:"width"`
		Polarity string `json:"polarity"`
		Meta     Meta   `json:"meta"`
		Points   []geom.Point
		Dots     []struct {
			R     float64 `json:"r"`
			Color string  `json:"color"`
		} `json:"dots"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Width != 10 || out.Polarity != "light-on-dark" || out.Meta.RunID != "abc" {
		t.Errorf("decoded = %+v", out)
	}
	if len(out.Points) != 2 || len(out.Dots) != 2 || out.Dots[0].Color != "#ffffff" {
		t.Errorf("points/dots = %+v / %+v", out.Points, out.Dots)
	}
}

func TestRenderCSV(t *testing.T) {
	s := sampleScene(t)
	data, err := RenderCSV(s)
	if err != nil {
		t.Fatalf("RenderCSV() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("CSV has %d lines, want 3", len(lines))
	}
	if lines[0] != "index,x,y,canvas_x,canvas_y,radius,color" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "1,7,5,") {
		t.Errorf("row = %q, want prefix 1,7,5,", lines[2])
	}
}
