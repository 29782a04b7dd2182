package relax

import (
	"image"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/stipple/pkg/density"
	"github.com/matzehuels/stipple/pkg/geom"
)

func TestCentroidZeroWeightFallsBackToFirstVertex(t *testing.T) {
	// Black under light-on-dark has weight exactly 0 everywhere.
	field := newField(t, 10, 10, black, black, density.LightOnDark)
	poly := geom.Polygon{{X: 2, Y: 3}, {X: 8, Y: 3}, {X: 8, Y: 9}, {X: 2, Y: 9}}

	res := NewEstimator(rand.NewPCG(1, 2)).Centroid(poly, field, 500)
	if res.Point != poly[0] {
		t.Errorf("Centroid() = %v, want first vertex %v", res.Point, poly[0])
	}
	if !res.Degenerate {
		t.Error("Degenerate = false, want true")
	}
	if res.Hits == 0 {
		t.Error("expected samples inside the polygon")
	}
}

func TestCentroidConvergesOnSingleDarkPixel(t *testing.T) {
	field := newField(t, 20, 20, white, black, density.DarkOnLight, image.Pt(12, 7))
	whole := geom.RectWH(20, 20).Polygon()
	want := geom.Point{X: 12.5, Y: 7.5}

	tests := []struct {
		samples int
		tol     float64
	}{
		{20000, 0.25},
		{200000, 0.08},
	}

	for _, tt := range tests {
		est := NewEstimator(rand.NewPCG(7, 11))
		res := est.Centroid(whole, field, tt.samples)
		if res.Degenerate {
			t.Fatalf("samples=%d: no sample hit the dark pixel", tt.samples)
		}
		p := res.Point
		if p.X < 12 || p.X >= 13 || p.Y < 7 || p.Y >= 8 {
			t.Errorf("samples=%d: centroid %v outside the dark pixel", tt.samples, p)
		}
		if d := p.Dist(want); d > tt.tol {
			t.Errorf("samples=%d: centroid %v is %v from %v, want <= %v", tt.samples, p, d, want, tt.tol)
		}
	}
}

func TestCentroidUniformField(t *testing.T) {
	field := newField(t, 10, 10, black, black, density.DarkOnLight)
	tri := geom.Polygon{{X: 0, Y: 0}, {X: 9, Y: 0}, {X: 0, Y: 9}}

	res := NewEstimator(rand.NewPCG(3, 4)).Centroid(tri, field, 100000)
	want := geom.Point{X: 3, Y: 3}
	if d := res.Point.Dist(want); d > 0.1 {
		t.Errorf("Centroid() = %v, want near %v (distance %v)", res.Point, want, d)
	}
	if math.Abs(res.Mass-float64(res.Hits)) > 1e-9 {
		t.Errorf("Mass = %v, want %d for unit weights", res.Mass, res.Hits)
	}
}

func TestCentroidSkipsSamplesOutsideField(t *testing.T) {
	field := newField(t, 4, 4, black, black, density.DarkOnLight)
	// Half of this polygon lies left of the image.
	poly := geom.Polygon{{X: -4, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: -4, Y: 4}}

	res := NewEstimator(rand.NewPCG(5, 6)).Centroid(poly, field, 50000)
	if res.Point.X < 0 {
		t.Errorf("Centroid() = %v, want x >= 0", res.Point)
	}
	if d := res.Point.Dist(geom.Point{X: 2, Y: 2}); d > 0.1 {
		t.Errorf("Centroid() = %v, want near (2, 2)", res.Point)
	}
}

func TestCentroidDefaultEstimator(t *testing.T) {
	field := newField(t, 4, 4, black, black, density.DarkOnLight)
	var est Estimator
	res := est.Centroid(geom.RectWH(4, 4).Polygon(), field, 1000)
	if res.Degenerate || !geom.RectWH(4, 4).Contains(res.Point) {
		t.Errorf("Centroid() = %+v", res)
	}
}

func TestCentroidEmptyPolygon(t *testing.T) {
	field := newField(t, 2, 2, black, black, density.DarkOnLight)
	res := NewEstimator(nil).Centroid(nil, field, 10)
	if !res.Degenerate {
		t.Error("empty polygon should be degenerate")
	}
}
