package relax

import (
	"github.com/matzehuels/stipple/pkg/density"
	"github.com/matzehuels/stipple/pkg/geom"
	"github.com/matzehuels/stipple/pkg/rng"
)

// Initialize places cfg.Count points by density-weighted rejection
// sampling from a Mulberry32 stream seeded with cfg.Seed.
//
// Each candidate draws x then y. It is accepted when its weight exceeds
// cfg.WhiteCutoff and a third draw falls below the weight; the third draw
// only happens when the cutoff test passes. After
// cfg.RejectionBudget*cfg.Count candidates the remaining slots are filled
// uniformly from the same stream, so Initialize always returns exactly
// cfg.Count points, even for blank images or a cutoff of 1.
//
// The result is a pure function of cfg and the field.
func Initialize(cfg Config, field *density.Field) []geom.Point {
	if cfg.Count <= 0 {
		return nil
	}
	r := rng.New(cfg.Seed)
	w, h := float64(field.Width()), float64(field.Height())
	bounds := geom.RectWH(w, h)

	points := make([]geom.Point, 0, cfg.Count)
	attempts := int64(cfg.rejectionBudget()) * int64(cfg.Count)
	for ; attempts > 0 && len(points) < cfg.Count; attempts-- {
		x := r.Float64() * w
		y := r.Float64() * h
		weight := field.Weight(x, y)
		if weight > cfg.WhiteCutoff && r.Float64() < weight {
			points = append(points, bounds.Clamp(geom.Point{X: x, Y: y}))
		}
	}
	for len(points) < cfg.Count {
		x := r.Float64() * w
		y := r.Float64() * h
		points = append(points, bounds.Clamp(geom.Point{X: x, Y: y}))
	}
	return points
}
