package voronoi

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/stipple/pkg/errors"
	"github.com/matzehuels/stipple/pkg/geom"
)

func randomPoints(n int, w, h float64, seed uint64) []geom.Point {
	r := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	pts := make([]geom.Point, n)
	for i := range pts {
		pts[i] = geom.Point{X: r.Float64() * w, Y: r.Float64() * h}
	}
	return pts
}

func totalArea(cells []geom.Polygon) float64 {
	var sum float64
	for _, c := range cells {
		sum += c.Area()
	}
	return sum
}

func TestDelaunayTilesRectangle(t *testing.T) {
	tests := []struct {
		name string
		n    int
		w, h float64
	}{
		{"few", 5, 10, 10},
		{"many", 300, 200, 120},
		{"tall", 50, 3, 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts := randomPoints(tt.n, tt.w, tt.h, uint64(tt.n))
			cells, err := Delaunay{}.Partition(pts, geom.RectWH(tt.w, tt.h))
			if err != nil {
				t.Fatalf("Partition() error = %v", err)
			}
			if len(cells) != len(pts) {
				t.Fatalf("len(cells) = %d, want %d", len(cells), len(pts))
			}
			for i, c := range cells {
				if c == nil {
					t.Errorf("cell %d is nil", i)
					continue
				}
				if !c.Contains(pts[i]) {
					t.Errorf("cell %d does not contain its site %v", i, pts[i])
				}
			}
			want := tt.w * tt.h
			if got := totalArea(cells); math.Abs(got-want) > 1e-6*want {
				t.Errorf("total area = %v, want %v", got, want)
			}
		})
	}
}

func TestDelaunayNearestSite(t *testing.T) {
	pts := randomPoints(40, 50, 50, 7)
	cells, err := Delaunay{}.Partition(pts, geom.RectWH(50, 50))
	if err != nil {
		t.Fatal(err)
	}
	probes := randomPoints(200, 50, 50, 99)
	for _, q := range probes {
		nearest := 0
		for i := range pts {
			if q.Dist(pts[i]) < q.Dist(pts[nearest]) {
				nearest = i
			}
		}
		if !cells[nearest].Contains(q) {
			t.Errorf("probe %v not in cell of nearest site %d", q, nearest)
		}
	}
}

func TestDelaunaySinglePoint(t *testing.T) {
	cells, err := Delaunay{}.Partition([]geom.Point{{X: 1, Y: 1}}, geom.RectWH(4, 3))
	if err != nil {
		t.Fatal(err)
	}
	if got := cells[0].Area(); math.Abs(got-12) > 1e-12 {
		t.Errorf("single cell area = %v, want 12", got)
	}
}

func TestDelaunayDuplicates(t *testing.T) {
	pts := []geom.Point{{X: 1, Y: 1}, {X: 3, Y: 3}, {X: 1, Y: 1}, {X: 3, Y: 1}}
	cells, err := Delaunay{}.Partition(pts, geom.RectWH(4, 4))
	if err != nil {
		t.Fatal(err)
	}
	if cells[0] == nil {
		t.Error("first occurrence should own a cell")
	}
	if cells[2] != nil {
		t.Errorf("later duplicate should have no cell, got %v", cells[2])
	}
	if got := totalArea(cells); math.Abs(got-16) > 1e-9 {
		t.Errorf("total area = %v, want 16", got)
	}
}

func TestDelaunayCollinear(t *testing.T) {
	pts := []geom.Point{{X: 1, Y: 2}, {X: 2, Y: 2}, {X: 3, Y: 2}}
	cells, err := Delaunay{}.Partition(pts, geom.RectWH(4, 4))
	if err != nil {
		t.Fatalf("Partition() error = %v", err)
	}
	wantAreas := []float64{6, 4, 6}
	for i, want := range wantAreas {
		if cells[i] == nil {
			t.Fatalf("cell %d is nil", i)
		}
		if got := cells[i].Area(); math.Abs(got-want) > 1e-9 {
			t.Errorf("cell %d area = %v, want %v", i, got, want)
		}
	}
}

func TestDelaunayTwoPoints(t *testing.T) {
	pts := []geom.Point{{X: 1, Y: 1}, {X: 3, Y: 1}}
	cells, err := Delaunay{}.Partition(pts, geom.RectWH(4, 2))
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range cells {
		if got := c.Area(); math.Abs(got-4) > 1e-9 {
			t.Errorf("cell %d area = %v, want 4", i, got)
		}
	}
}

func TestDelaunayEmpty(t *testing.T) {
	cells, err := Delaunay{}.Partition(nil, geom.RectWH(4, 2))
	if err != nil {
		t.Fatal(err)
	}
	if len(cells) != 0 {
		t.Errorf("len(cells) = %d, want 0", len(cells))
	}
}

func TestDelaunayErrors(t *testing.T) {
	tests := []struct {
		name   string
		points []geom.Point
		bounds geom.Rect
	}{
		{"empty bounds", []geom.Point{{X: 0, Y: 0}}, geom.RectWH(0, 5)},
		{"nan point", []geom.Point{{X: math.NaN(), Y: 1}}, geom.RectWH(5, 5)},
		{"inf point", []geom.Point{{X: 1, Y: math.Inf(1)}}, geom.RectWH(5, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Delaunay{}.Partition(tt.points, tt.bounds)
			if !errors.Is(err, errors.ErrCodePartition) {
				t.Errorf("Partition() error = %v, want PARTITION_FAILED", err)
			}
		})
	}
}

func TestPartitionFunc(t *testing.T) {
	called := false
	var p Partitioner = PartitionFunc(func(points []geom.Point, bounds geom.Rect) ([]geom.Polygon, error) {
		called = true
		return make([]geom.Polygon, len(points)), nil
	})
	cells, err := p.Partition([]geom.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}, geom.RectWH(2, 2))
	if err != nil || !called || len(cells) != 2 {
		t.Errorf("PartitionFunc: called=%v len=%d err=%v", called, len(cells), err)
	}
}

func TestClipHalfPlane(t *testing.T) {
	square := geom.RectWH(2, 2).Polygon()

	half := clipHalfPlane(square, 1, 0, 1)
	if got := half.Area(); math.Abs(got-2) > 1e-12 {
		t.Errorf("half area = %v, want 2", got)
	}

	if got := clipHalfPlane(square, 1, 0, -1); got != nil {
		t.Errorf("fully clipped = %v, want nil", got)
	}

	whole := clipHalfPlane(square, 1, 0, 5)
	if got := whole.Area(); math.Abs(got-4) > 1e-12 {
		t.Errorf("unclipped area = %v, want 4", got)
	}
}
