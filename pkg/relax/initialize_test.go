package relax

import (
	"image"
	"slices"
	"testing"

	"github.com/matzehuels/stipple/pkg/density"
	"github.com/matzehuels/stipple/pkg/geom"
)

func TestInitializeCountAndBounds(t *testing.T) {
	tests := []struct {
		name     string
		w, h     int
		fill     bool // true: white fill, black dot at (1,1)
		polarity density.Polarity
		count    int
		cutoff   float64
		seed     int64
	}{
		{"dark on light", 8, 6, true, density.DarkOnLight, 50, 0.1, 42},
		{"light on dark", 8, 6, true, density.LightOnDark, 50, 0.1, 1},
		{"cutoff one", 5, 5, true, density.DarkOnLight, 20, 1, 42},
		{"blank image", 4, 4, false, density.LightOnDark, 10, 0, 0},
		{"negative seed", 3, 9, true, density.DarkOnLight, 30, 0, -7},
		{"single pixel", 1, 1, true, density.DarkOnLight, 5, 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var field *density.Field
			if tt.fill {
				field = newField(t, tt.w, tt.h, white, black, tt.polarity, image.Pt(0, 0))
			} else {
				field = newField(t, tt.w, tt.h, black, black, tt.polarity)
			}
			cfg := DefaultConfig()
			cfg.Count = tt.count
			cfg.WhiteCutoff = tt.cutoff
			cfg.Polarity = tt.polarity
			cfg.Seed = tt.seed
			cfg.RejectionBudget = 50

			pts := Initialize(cfg, field)
			if len(pts) != tt.count {
				t.Fatalf("len(Initialize()) = %d, want %d", len(pts), tt.count)
			}
			bounds := geom.RectWH(float64(tt.w), float64(tt.h))
			for i, p := range pts {
				if !bounds.Contains(p) {
					t.Errorf("point %d = %v outside %v", i, p, bounds)
				}
			}
		})
	}
}

func TestInitializeDeterministic(t *testing.T) {
	field := newField(t, 16, 16, white, black, density.DarkOnLight, image.Pt(3, 3), image.Pt(10, 12))
	cfg := testConfig(40, 1)

	a := Initialize(cfg, field)
	b := Initialize(cfg, field)
	if !slices.Equal(a, b) {
		t.Error("same seed produced different initial points")
	}

	cfg.Seed = 43
	c := Initialize(cfg, field)
	if slices.Equal(a, c) {
		t.Error("different seeds produced identical initial points")
	}
}

func TestInitializeGolden2x2(t *testing.T) {
	// [[black, white], [white, white]]: only the black pixel can accept.
	field := newField(t, 2, 2, white, black, density.DarkOnLight, image.Pt(0, 0))
	cfg := DefaultConfig()
	cfg.Count = 4
	cfg.WhiteCutoff = 0
	cfg.Seed = 42

	want := []geom.Point{
		{X: 0.9446341102011502, Y: 0.49984746845439076},
		{X: 0.007685903925448656, Y: 0.9415638474747539},
		{X: 0.5339119737036526, Y: 0.12356278486549854},
		{X: 0.07487842720001936, Y: 0.10278546903282404},
	}
	got := Initialize(cfg, field)
	if !slices.Equal(got, want) {
		t.Errorf("Initialize() = %v, want %v", got, want)
	}
	for i, p := range got {
		if p.X >= 1 || p.Y >= 1 {
			t.Errorf("point %d = %v not in the black pixel", i, p)
		}
	}
}

func TestInitializeGoldenSingleDark(t *testing.T) {
	field := newField(t, 20, 20, white, black, density.DarkOnLight, image.Pt(12, 7))
	cfg := DefaultConfig()
	cfg.Count = 1

	got := Initialize(cfg, field)
	want := geom.Point{X: 12.417685482650995, Y: 7.485477323643863}
	if len(got) != 1 || got[0] != want {
		t.Errorf("Initialize() = %v, want [%v]", got, want)
	}
}

func TestInitializeFallback(t *testing.T) {
	// All white under dark-on-light: nothing can be accepted, so the
	// budget runs out after 2*3 candidates and the rest is uniform.
	field := newField(t, 2, 2, white, white, density.DarkOnLight)
	cfg := DefaultConfig()
	cfg.Count = 3
	cfg.RejectionBudget = 2

	want := []geom.Point{
		{X: 1.4914751299656928, Y: 0.6140030268579721},
		{X: 0.39450767589733005, Y: 1.0014589754864573},
		{X: 1.3732240358367562, Y: 1.2212417968548834},
	}
	got := Initialize(cfg, field)
	if !slices.Equal(got, want) {
		t.Errorf("Initialize() = %v, want %v", got, want)
	}
}
