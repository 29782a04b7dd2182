package telemetry

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary condenses a telemetry log.
type Summary struct {
	Steps          int
	TotalMS        float64
	MeanStepMS     float64
	FirstMeanShift float64
	LastMeanShift  float64
	PeakShift      float64

	// ConvergedAt is the first step whose mean shift fell below the
	// threshold passed to Summarize, or 0 if none did.
	ConvergedAt int
}

// Summarize computes a Summary. threshold is the mean shift, in pixels,
// below which the run counts as converged.
func Summarize(rows []Row, threshold float64) Summary {
	var s Summary
	if len(rows) == 0 {
		return s
	}
	durations := make([]float64, len(rows))
	peaks := make([]float64, len(rows))
	for i, r := range rows {
		durations[i] = r.DurationMS
		peaks[i] = r.MaxShift
		if s.ConvergedAt == 0 && r.MeanShift < threshold {
			s.ConvergedAt = r.Step
		}
	}
	s.Steps = len(rows)
	s.TotalMS = floats.Sum(durations)
	s.MeanStepMS = stat.Mean(durations, nil)
	s.FirstMeanShift = rows[0].MeanShift
	s.LastMeanShift = rows[len(rows)-1].MeanShift
	s.PeakShift = floats.Max(peaks)
	return s
}
