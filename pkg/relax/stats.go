package relax

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/stipple/pkg/geom"
)

// StepStats summarizes how far one step moved the stipples.
type StepStats struct {
	MeanShift  float64 `json:"mean_shift" csv:"mean_shift"`
	StdShift   float64 `json:"std_shift" csv:"std_shift"`
	MaxShift   float64 `json:"max_shift" csv:"max_shift"`
	Moved      int     `json:"moved" csv:"moved"`
	EmptyCells int     `json:"empty_cells" csv:"empty_cells"`
	Degenerate int     `json:"degenerate" csv:"degenerate"`
}

func shiftStats(prev, next []geom.Point) StepStats {
	var s StepStats
	if len(prev) == 0 {
		return s
	}
	shifts := make([]float64, len(prev))
	for i := range prev {
		shifts[i] = prev[i].Dist(next[i])
		if shifts[i] > 0 {
			s.Moved++
		}
	}
	s.MeanShift = stat.Mean(shifts, nil)
	s.MaxShift = floats.Max(shifts)
	if len(shifts) > 1 {
		s.StdShift = stat.StdDev(shifts, nil)
	}
	return s
}
