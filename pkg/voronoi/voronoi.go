// Package voronoi partitions a rectangle into the Voronoi cells of a point
// set.
//
// The partition is delegated to a Partitioner so the relaxation engine can
// be driven by any geometry backend. The default backend, Delaunay,
// triangulates the sites with github.com/fogleman/delaunay and builds each
// cell by clipping the bounding rectangle against the perpendicular
// bisectors of the site's Delaunay neighbours.
//
// Cells are returned one per input point, in input order. A nil entry
// means the point has no cell: it duplicates an earlier point exactly, or
// the triangulation discarded it as a near duplicate.
package voronoi

import (
	"math"

	"github.com/fogleman/delaunay"

	"github.com/matzehuels/stipple/pkg/errors"
	"github.com/matzehuels/stipple/pkg/geom"
)

// Partitioner computes one cell polygon per point, clipped to bounds.
type Partitioner interface {
	Partition(points []geom.Point, bounds geom.Rect) ([]geom.Polygon, error)
}

// PartitionFunc adapts an ordinary function to the Partitioner interface.
type PartitionFunc func(points []geom.Point, bounds geom.Rect) ([]geom.Polygon, error)

// Partition calls f(points, bounds).
func (f PartitionFunc) Partition(points []geom.Point, bounds geom.Rect) ([]geom.Polygon, error) {
	return f(points, bounds)
}

// Delaunay is the default Partitioner.
type Delaunay struct{}

var _ Partitioner = Delaunay{}

// Partition implements Partitioner.
func (Delaunay) Partition(points []geom.Point, bounds geom.Rect) ([]geom.Polygon, error) {
	if bounds.Empty() {
		return nil, errors.New(errors.ErrCodePartition, "empty bounds %v", bounds)
	}
	for i, p := range points {
		if !finite(p.X) || !finite(p.Y) {
			return nil, errors.New(errors.ErrCodePartition, "point %d is not finite: %v", i, p)
		}
	}

	cells := make([]geom.Polygon, len(points))
	sites, owner := uniqueSites(points)

	switch len(sites) {
	case 0:
		return cells, nil
	case 1:
		cells[owner[0]] = bounds.Polygon()
		return cells, nil
	}

	neighbours, ok := triangulate(sites)
	if !ok {
		neighbours = allPairs(len(sites))
	}

	rect := bounds.Polygon()
	for s, nbs := range neighbours {
		if nbs == nil {
			continue
		}
		cell := rect
		for _, n := range nbs {
			cell = clipBisector(cell, sites[s], sites[n])
			if cell == nil {
				break
			}
		}
		cells[owner[s]] = cell
	}
	return cells, nil
}

// uniqueSites drops exact duplicates, keeping the first occurrence.
// owner maps a site index back to its input index.
func uniqueSites(points []geom.Point) (sites []geom.Point, owner []int) {
	seen := make(map[geom.Point]struct{}, len(points))
	sites = make([]geom.Point, 0, len(points))
	owner = make([]int, 0, len(points))
	for i, p := range points {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		sites = append(sites, p)
		owner = append(owner, i)
	}
	return sites, owner
}

// triangulate returns the Delaunay neighbours of every site. Sites the
// triangulation left out get a nil list. ok is false when no
// triangulation exists, e.g. for collinear input.
func triangulate(sites []geom.Point) (neighbours [][]int, ok bool) {
	pts := make([]delaunay.Point, len(sites))
	for i, p := range sites {
		pts[i] = delaunay.Point{X: p.X, Y: p.Y}
	}
	tri, err := delaunay.Triangulate(pts)
	if err != nil || len(tri.Triangles) == 0 {
		return nil, false
	}

	neighbours = make([][]int, len(sites))
	link := func(a, b int) {
		for _, n := range neighbours[a] {
			if n == b {
				return
			}
		}
		neighbours[a] = append(neighbours[a], b)
	}
	for t := 0; t+2 < len(tri.Triangles); t += 3 {
		a, b, c := tri.Triangles[t], tri.Triangles[t+1], tri.Triangles[t+2]
		link(a, b)
		link(a, c)
		link(b, a)
		link(b, c)
		link(c, a)
		link(c, b)
	}
	return neighbours, true
}

// allPairs makes every site a neighbour of every other one. It is the
// fallback for inputs without a triangulation and is quadratic.
func allPairs(n int) [][]int {
	neighbours := make([][]int, n)
	for i := range neighbours {
		nbs := make([]int, 0, n-1)
		for j := 0; j < n; j++ {
			if j != i {
				nbs = append(nbs, j)
			}
		}
		neighbours[i] = nbs
	}
	return neighbours
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
