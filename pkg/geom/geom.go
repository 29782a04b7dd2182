// Package geom holds the planar value types shared by the stippling
// packages: points in image coordinates, the image rectangle and cell
// polygons.
//
// Polygons convert to github.com/paulmach/orb rings for containment and
// bounds so the geometry predicates come from one tested library.
package geom

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Point is a location in image coordinates. X grows to the right and Y
// grows downwards, matching pixel rows.
type Point struct {
	X float64 `json:"x" csv:"x"`
	Y float64 `json:"y" csv:"y"`
}

// Orb converts p to an orb.Point.
func (p Point) Orb() orb.Point {
	return orb.Point{p.X, p.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Rect is an axis aligned rectangle [MinX, MaxX) × [MinY, MaxY).
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// RectWH returns the rectangle [0, w) × [0, h).
func RectWH(w, h float64) Rect {
	return Rect{MaxX: w, MaxY: h}
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return !(r.MaxX > r.MinX && r.MaxY > r.MinY)
}

// Contains reports whether p lies inside the half-open rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X < r.MaxX && p.Y >= r.MinY && p.Y < r.MaxY
}

// Clamp moves p to the nearest location inside the half-open rectangle.
// Coordinates on or beyond the max edge are pulled to the largest float
// below it.
func (r Rect) Clamp(p Point) Point {
	return Point{
		X: clampHalfOpen(p.X, r.MinX, r.MaxX),
		Y: clampHalfOpen(p.Y, r.MinY, r.MaxY),
	}
}

func clampHalfOpen(v, lo, hi float64) float64 {
	switch {
	case math.IsNaN(v), v < lo:
		return lo
	case v >= hi:
		return math.Nextafter(hi, lo)
	}
	return v
}

// Polygon returns the rectangle as a counter-clockwise polygon in image
// coordinates, starting at the origin corner.
func (r Rect) Polygon() Polygon {
	return Polygon{
		{r.MinX, r.MinY},
		{r.MaxX, r.MinY},
		{r.MaxX, r.MaxY},
		{r.MinX, r.MaxY},
	}
}

// Polygon is a simple polygon given by its vertices, implicitly closed.
// A nil Polygon means "no cell".
type Polygon []Point

// Ring converts the polygon to a closed orb.Ring.
func (pg Polygon) Ring() orb.Ring {
	if len(pg) == 0 {
		return nil
	}
	ring := make(orb.Ring, 0, len(pg)+1)
	for _, p := range pg {
		ring = append(ring, p.Orb())
	}
	return append(ring, pg[0].Orb())
}

// Bounds returns the bounding box of the polygon vertices.
func (pg Polygon) Bounds() Rect {
	if len(pg) == 0 {
		return Rect{}
	}
	b := pg.Ring().Bound()
	return Rect{MinX: b.Min[0], MinY: b.Min[1], MaxX: b.Max[0], MaxY: b.Max[1]}
}

// Contains reports whether p lies inside the polygon.
// Polygons with fewer than three vertices contain nothing.
func (pg Polygon) Contains(p Point) bool {
	if len(pg) < 3 {
		return false
	}
	return planar.RingContains(pg.Ring(), p.Orb())
}

// Area returns the unsigned area of the polygon.
func (pg Polygon) Area() float64 {
	if len(pg) < 3 {
		return 0
	}
	return math.Abs(planar.Area(pg.Ring()))
}

// Containment tests a polygon repeatedly against many points without
// rebuilding the orb ring each time.
type Containment struct {
	ring orb.Ring
}

// NewContainment prepares pg for repeated Contains calls.
func NewContainment(pg Polygon) Containment {
	if len(pg) < 3 {
		return Containment{}
	}
	return Containment{ring: pg.Ring()}
}

// Contains reports whether p lies inside the prepared polygon.
func (c Containment) Contains(p Point) bool {
	if c.ring == nil {
		return false
	}
	return planar.RingContains(c.ring, p.Orb())
}
