package relax

import (
	"context"
	"sync"

	"github.com/matzehuels/stipple/pkg/density"
)

// Driver owns at most one active run. Starting a new run cancels the
// previous one first, so a stale run can never commit into a newer one's
// output.
type Driver struct {
	opts []Option

	mu      sync.Mutex
	current *Run
}

// NewDriver returns a driver that applies opts to every run it starts.
func NewDriver(opts ...Option) *Driver {
	return &Driver{opts: opts}
}

// Start validates cfg, cancels the active run and starts a new one over
// field. Invalid input leaves the active run untouched.
func (d *Driver) Start(ctx context.Context, cfg Config, mode Mode, field *density.Field) (*Run, error) {
	run, err := NewRun(cfg, mode, field, d.opts...)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	if d.current != nil {
		d.current.Cancel()
	}
	d.current = run
	d.mu.Unlock()

	if err := run.Start(ctx); err != nil {
		return nil, err
	}
	return run, nil
}

// Current returns the most recently started run, or nil.
func (d *Driver) Current() *Run {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// Cancel cancels the active run, if any.
func (d *Driver) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.current != nil {
		d.current.Cancel()
	}
}
