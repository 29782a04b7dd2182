// Package telemetry records per-step relaxation statistics and writes them
// as CSV.
//
// A Recorder is a relax.Sink; attach it next to any other sink with
// relax.MultiSink.
package telemetry

import (
	"io"
	"sync"

	"github.com/gocarina/gocsv"

	"github.com/matzehuels/stipple/pkg/errors"
	"github.com/matzehuels/stipple/pkg/relax"
)

// Row is one CSV record.
type Row struct {
	RunID      string  `csv:"run_id"`
	Step       int     `csv:"step"`
	Percent    int     `csv:"percent"`
	DurationMS float64 `csv:"duration_ms"`
	MeanShift  float64 `csv:"mean_shift"`
	StdShift   float64 `csv:"std_shift"`
	MaxShift   float64 `csv:"max_shift"`
	Moved      int     `csv:"moved"`
	EmptyCells int     `csv:"empty_cells"`
	Degenerate int     `csv:"degenerate"`
}

// Recorder collects one Row per committed step. It is safe for concurrent
// use.
type Recorder struct {
	mu    sync.Mutex
	rows  []*Row
	state relax.State
}

var _ relax.Sink = (*Recorder)(nil)

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// OnStep implements relax.Sink.
func (r *Recorder) OnStep(e relax.StepEvent) {
	row := &Row{
		RunID:      e.RunID,
		Step:       e.Step,
		Percent:    e.Percent(),
		DurationMS: float64(e.Duration.Microseconds()) / 1000,
		MeanShift:  e.Stats.MeanShift,
		StdShift:   e.Stats.StdShift,
		MaxShift:   e.Stats.MaxShift,
		Moved:      e.Stats.Moved,
		EmptyCells: e.Stats.EmptyCells,
		Degenerate: e.Stats.Degenerate,
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, row)
}

// OnDone implements relax.Sink.
func (r *Recorder) OnDone(e relax.DoneEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = e.State
}

// Reset drops every recorded row and the terminal state.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = nil
	r.state = relax.Idle
}

// Rows returns a copy of the recorded rows.
func (r *Recorder) Rows() []Row {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Row, len(r.rows))
	for i, row := range r.rows {
		out[i] = *row
	}
	return out
}

// State returns the terminal state seen by OnDone, or Idle before that.
func (r *Recorder) State() relax.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// WriteCSV writes the recorded rows with a header line.
func (r *Recorder) WriteCSV(w io.Writer) error {
	r.mu.Lock()
	rows := r.rows
	r.mu.Unlock()
	if err := gocsv.Marshal(&rows, w); err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "write telemetry")
	}
	return nil
}

// ReadCSV parses telemetry written by WriteCSV.
func ReadCSV(rd io.Reader) ([]Row, error) {
	var rows []Row
	if err := gocsv.Unmarshal(rd, &rows); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read telemetry")
	}
	return rows, nil
}
