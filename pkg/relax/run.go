// Package relax implements density-weighted Lloyd relaxation of a stipple
// point set.
//
// A run starts from a seeded, density-weighted initial placement and then
// repeatedly replaces every point with the weighted centroid of its
// Voronoi cell. Static runs perform a fixed number of steps; animated runs
// step until cancelled. Both share the same step function: the package
// never sleeps or spawns long-lived goroutines, scheduling is left to the
// caller (see RunStatic, Schedule and Run.Tick).
//
// Basic usage:
//
//	field, _ := density.FromImage(img, density.DarkOnLight)
//	run, err := relax.NewRun(relax.DefaultConfig(), relax.Static, field)
//	if err != nil {
//	    return err
//	}
//	err = relax.RunStatic(ctx, run, relax.SinkFuncs{
//	    Step: func(e relax.StepEvent) { fmt.Println(e.Percent()) },
//	})
package relax

import (
	"context"
	"io"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/stipple/pkg/density"
	"github.com/matzehuels/stipple/pkg/errors"
	"github.com/matzehuels/stipple/pkg/geom"
	"github.com/matzehuels/stipple/pkg/observability"
	"github.com/matzehuels/stipple/pkg/voronoi"
)

// State is the lifecycle state of a run.
type State int

const (
	Idle State = iota
	Initializing
	Stepping
	Completed
	Cancelled
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Initializing:
		return "initializing"
	case Stepping:
		return "stepping"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Terminal reports whether no further steps can happen in state s.
func (s State) Terminal() bool {
	return s == Completed || s == Cancelled || s == Failed
}

// Option configures a Run.
type Option func(*Run)

// WithPartitioner replaces the default Delaunay partitioner.
func WithPartitioner(p voronoi.Partitioner) Option {
	return func(r *Run) {
		if p != nil {
			r.partitioner = p
		}
	}
}

// WithEstimator replaces the default non-seeded centroid estimator.
func WithEstimator(e *Estimator) Option {
	return func(r *Run) {
		if e != nil {
			r.estimator = e
		}
	}
}

// WithLogger sets the logger for step diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(r *Run) {
		if l != nil {
			r.logger = l
		}
	}
}

// Run is one relaxation of a point set over a density field.
// All methods are safe for concurrent use; steps are serialized.
type Run struct {
	id          string
	cfg         Config
	mode        Mode
	field       *density.Field
	bounds      geom.Rect
	partitioner voronoi.Partitioner
	estimator   *Estimator
	logger      *log.Logger

	// stepMu serializes Step calls; mu guards everything below.
	stepMu sync.Mutex
	mu     sync.Mutex

	state    State
	points   []geom.Point
	steps    int
	started  time.Time
	lastTick time.Time
	err      error
}

// NewRun validates cfg and returns an Idle run over field.
// Invalid input is reported before any run state exists.
func NewRun(cfg Config, mode Mode, field *density.Field, opts ...Option) (*Run, error) {
	if field == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no image loaded")
	}
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}
	if cfg.Polarity != field.Polarity() {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"field polarity %s does not match configured polarity %s", field.Polarity(), cfg.Polarity)
	}

	r := &Run{
		id:          uuid.NewString(),
		cfg:         cfg,
		mode:        mode,
		field:       field,
		bounds:      geom.RectWH(float64(field.Width()), float64(field.Height())),
		partitioner: voronoi.Delaunay{},
		estimator:   &Estimator{},
		logger:      log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// ID returns the unique identifier of the run.
func (r *Run) ID() string { return r.id }

// Config returns the run's configuration.
func (r *Run) Config() Config { return r.cfg }

// Mode returns the run's mode.
func (r *Run) Mode() Mode { return r.mode }

// Field returns the density field the run relaxes over.
func (r *Run) Field() *density.Field { return r.field }

// Start places the initial points and moves the run from Idle to Stepping.
func (r *Run) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.state != Idle {
		state := r.state
		r.mu.Unlock()
		return errors.New(errors.ErrCodeStopped, "run %s already %s", r.id, state)
	}
	r.state = Initializing
	r.mu.Unlock()

	points := Initialize(r.cfg, r.field)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.points = points
	if r.state != Initializing {
		// Cancelled while placing points; Cancel leaves the finish to Start.
		r.finishLocked(ctx)
		return nil
	}
	r.state = Stepping
	r.started = time.Now()
	r.logger.Debug("run started", "id", r.id, "mode", r.mode, "count", len(points), "seed", r.cfg.Seed)
	observability.Run().OnRunStart(ctx, r.id, len(points))
	return nil
}

// State returns the current lifecycle state.
func (r *Run) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Points returns a copy of the last committed point set.
func (r *Run) Points() []geom.Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.points)
}

// Steps returns the number of committed steps.
func (r *Run) Steps() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.steps
}

// Progress returns steps/Iterations for static runs, in [0, 1].
// Animated runs have no end and always report 0.
func (r *Run) Progress() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.progressLocked()
}

func (r *Run) progressLocked() float64 {
	if r.mode != Static {
		return 0
	}
	return min(float64(r.steps)/float64(r.cfg.Iterations), 1)
}

// Err returns the error that failed the run, if any.
func (r *Run) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Cancel stops the run. Steps already in flight do not commit; the last
// committed points remain available. A run cancelled while initializing
// keeps its initial points. Cancelling a finished run is a no-op.
func (r *Run) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state.Terminal() {
		return
	}
	initializing := r.state == Initializing
	r.state = Cancelled
	if initializing {
		return
	}
	r.finishLocked(context.Background())
}

// Done returns the terminal event for the run's current state.
func (r *Run) Done() DoneEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doneLocked()
}

func (r *Run) doneLocked() DoneEvent {
	var d time.Duration
	if !r.started.IsZero() {
		d = time.Since(r.started)
	}
	return DoneEvent{
		RunID:    r.id,
		State:    r.state,
		Points:   r.points,
		Steps:    r.steps,
		Duration: d,
		Err:      r.err,
	}
}

func (r *Run) finishLocked(ctx context.Context) {
	done := r.doneLocked()
	r.logger.Debug("run finished", "id", r.id, "state", r.state, "steps", r.steps, "duration", done.Duration)
	observability.Run().OnRunComplete(ctx, r.id, r.state.String(), r.steps, done.Duration, r.err)
}

// Step performs exactly one relaxation step: partition the current points,
// estimate each cell's weighted centroid and commit the new point set.
//
// Points without a cell keep their position. A partition error fails the
// run and keeps the last committed points. A step that finishes after
// Cancel, or a Step on a run that is not stepping, returns an error with
// code errors.ErrCodeStopped and commits nothing.
func (r *Run) Step(ctx context.Context) (StepEvent, error) {
	r.stepMu.Lock()
	defer r.stepMu.Unlock()

	r.mu.Lock()
	if r.state != Stepping {
		state := r.state
		r.mu.Unlock()
		return StepEvent{}, errors.New(errors.ErrCodeStopped, "run %s is %s", r.id, state)
	}
	prev := r.points
	step := r.steps + 1
	r.mu.Unlock()

	start := time.Now()
	next, cells, stats, err := r.relax(ctx, prev)
	if err != nil {
		if ctx.Err() != nil {
			return StepEvent{}, ctx.Err()
		}
		return StepEvent{}, r.fail(ctx, errors.Wrap(errors.ErrCodePartition, err, "step %d", step))
	}
	elapsed := time.Since(start)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != Stepping {
		return StepEvent{}, errors.New(errors.ErrCodeStopped, "run %s was %s during step %d", r.id, r.state, step)
	}
	r.points = next
	r.steps = step

	ev := StepEvent{
		RunID:    r.id,
		Step:     step,
		Points:   next,
		Cells:    cells,
		Progress: r.progressLocked(),
		Stats:    stats,
		Duration: elapsed,
	}
	r.logger.Debug("step", "id", r.id, "step", step, "mean_shift", stats.MeanShift, "max_shift", stats.MaxShift, "duration", elapsed)
	observability.Run().OnStep(ctx, r.id, step, elapsed)

	if r.mode == Static && r.steps >= r.cfg.Iterations {
		r.state = Completed
		r.finishLocked(ctx)
	}
	return ev, nil
}

func (r *Run) fail(ctx context.Context, err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state.Terminal() {
		return errors.New(errors.ErrCodeStopped, "run %s is %s", r.id, r.state)
	}
	r.state = Failed
	r.err = err
	r.finishLocked(ctx)
	return err
}

// Tick steps the run when at least Config.Cadence has passed since the
// previous step. The first tick only arms the clock. It reports whether a
// step was committed.
func (r *Run) Tick(ctx context.Context, now time.Time) (StepEvent, bool, error) {
	r.mu.Lock()
	if r.state != Stepping {
		state := r.state
		r.mu.Unlock()
		return StepEvent{}, false, errors.New(errors.ErrCodeStopped, "run %s is %s", r.id, state)
	}
	if r.lastTick.IsZero() {
		r.lastTick = now
		r.mu.Unlock()
		return StepEvent{}, false, nil
	}
	if now.Sub(r.lastTick) < r.cfg.cadence() {
		r.mu.Unlock()
		return StepEvent{}, false, nil
	}
	r.lastTick = now
	r.mu.Unlock()

	ev, err := r.Step(ctx)
	if err != nil {
		return StepEvent{}, false, err
	}
	return ev, true, nil
}

// relax computes the next point set from prev without touching run state.
func (r *Run) relax(ctx context.Context, prev []geom.Point) ([]geom.Point, []geom.Polygon, StepStats, error) {
	cells, err := r.partitioner.Partition(prev, r.bounds)
	if err != nil {
		return nil, nil, StepStats{}, err
	}
	if len(cells) != len(prev) {
		return nil, nil, StepStats{}, errors.New(errors.ErrCodePartition,
			"partition returned %d cells for %d points", len(cells), len(prev))
	}

	next := make([]geom.Point, len(prev))
	degenerate := make([]bool, len(prev))

	workers := r.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunk := max(1, (len(prev)+workers-1)/workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for lo := 0; lo < len(prev); lo += chunk {
		hi := min(lo+chunk, len(prev))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				if cells[i] == nil {
					next[i] = prev[i]
					continue
				}
				res := r.estimator.Centroid(cells[i], r.field, r.cfg.Samples)
				next[i] = r.bounds.Clamp(res.Point)
				degenerate[i] = res.Degenerate
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, StepStats{}, err
	}

	stats := shiftStats(prev, next)
	for i := range cells {
		if cells[i] == nil {
			stats.EmptyCells++
		}
		if degenerate[i] {
			stats.Degenerate++
		}
	}
	return next, cells, stats, nil
}
