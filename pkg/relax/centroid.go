package relax

import (
	"math/rand/v2"
	"sync"

	"github.com/matzehuels/stipple/pkg/density"
	"github.com/matzehuels/stipple/pkg/geom"
)

// CentroidResult is the outcome of one centroid estimate.
type CentroidResult struct {
	// Point is the estimated weighted centroid, or the polygon's first
	// vertex when no sample carried weight.
	Point geom.Point

	// Mass is the summed weight of the accepted samples.
	Mass float64

	// Hits counts samples that fell inside both the polygon and the field.
	Hits int

	// Degenerate is set when the estimate fell back to the first vertex.
	Degenerate bool
}

// Estimator integrates the density-weighted centroid of a polygon by
// Monte Carlo sampling over its bounding box.
//
// The zero value draws from the non-seeded math/rand/v2 generator and is
// safe for concurrent use. An Estimator built with NewEstimator draws from
// the given source under a lock; its estimates are reproducible only when
// calls are made sequentially.
type Estimator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewEstimator returns an estimator drawing from src. A nil src selects
// the non-seeded global generator.
func NewEstimator(src rand.Source) *Estimator {
	if src == nil {
		return &Estimator{}
	}
	return &Estimator{rnd: rand.New(src)}
}

// Centroid estimates the weighted centroid of poly from samples uniform
// draws over its bounding box. Draws outside the polygon or outside the
// field are skipped.
func (e *Estimator) Centroid(poly geom.Polygon, field *density.Field, samples int) CentroidResult {
	if len(poly) == 0 {
		return CentroidResult{Degenerate: true}
	}

	float := rand.Float64
	if e != nil && e.rnd != nil {
		e.mu.Lock()
		defer e.mu.Unlock()
		float = e.rnd.Float64
	}

	box := poly.Bounds()
	inside := geom.NewContainment(poly)
	dx, dy := box.Width(), box.Height()

	var sx, sy, mass float64
	hits := 0
	for i := 0; i < samples; i++ {
		x := box.MinX + float()*dx
		y := box.MinY + float()*dy
		if !field.Contains(x, y) {
			continue
		}
		if !inside.Contains(geom.Point{X: x, Y: y}) {
			continue
		}
		hits++
		w := field.Weight(x, y)
		sx += x * w
		sy += y * w
		mass += w
	}

	if mass == 0 {
		return CentroidResult{Point: poly[0], Hits: hits, Degenerate: true}
	}
	return CentroidResult{
		Point: geom.Point{X: sx / mass, Y: sy / mass},
		Mass:  mass,
		Hits:  hits,
	}
}
