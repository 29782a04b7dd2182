package relax

import (
	"time"

	"github.com/matzehuels/stipple/pkg/geom"
)

// StepEvent reports one committed step.
//
// Points and Cells belong to the run's committed snapshot and must not be
// modified.
type StepEvent struct {
	RunID    string
	Step     int
	Points   []geom.Point
	Cells    []geom.Polygon
	Progress float64
	Stats    StepStats
	Duration time.Duration
}

// Percent returns the progress as a whole percentage, rounded down.
func (e StepEvent) Percent() int {
	return percent(e.Progress)
}

// DoneEvent reports a run reaching a terminal state.
type DoneEvent struct {
	RunID    string
	State    State
	Points   []geom.Point
	Steps    int
	Duration time.Duration
	Err      error
}

// Sink receives the output of a run.
type Sink interface {
	OnStep(StepEvent)
	OnDone(DoneEvent)
}

// SinkFuncs adapts optional callbacks to the Sink interface.
type SinkFuncs struct {
	Step func(StepEvent)
	Done func(DoneEvent)
}

// OnStep calls f.Step if set.
func (f SinkFuncs) OnStep(e StepEvent) {
	if f.Step != nil {
		f.Step(e)
	}
}

// OnDone calls f.Done if set.
func (f SinkFuncs) OnDone(e DoneEvent) {
	if f.Done != nil {
		f.Done(e)
	}
}

// MultiSink forwards every event to each sink in order.
type MultiSink []Sink

// OnStep implements Sink.
func (m MultiSink) OnStep(e StepEvent) {
	for _, s := range m {
		if s != nil {
			s.OnStep(e)
		}
	}
}

// OnDone implements Sink.
func (m MultiSink) OnDone(e DoneEvent) {
	for _, s := range m {
		if s != nil {
			s.OnDone(e)
		}
	}
}

func percent(progress float64) int {
	return int(progress * 100)
}
