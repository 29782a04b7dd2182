package relax

import (
	"context"
	"time"

	"github.com/matzehuels/stipple/pkg/errors"
)

// RunStatic drives a static run to completion, yielding every committed
// step to sink and the terminal event once. An Idle run is started first.
//
// If ctx is cancelled the run is cancelled, its last committed points are
// reported in the terminal event and ctx.Err() is returned. A failed run
// returns the failure.
func RunStatic(ctx context.Context, run *Run, sink Sink) error {
	if run.Mode() != Static {
		return errors.New(errors.ErrCodeInvalidInput, "run %s is %s, not static", run.ID(), run.Mode())
	}
	if sink == nil {
		sink = SinkFuncs{}
	}
	if run.State() == Idle {
		if err := run.Start(ctx); err != nil {
			return err
		}
	}

	for run.State() == Stepping {
		if ctx.Err() != nil {
			run.Cancel()
			break
		}
		ev, err := run.Step(ctx)
		if err != nil {
			if ctx.Err() != nil {
				run.Cancel()
			}
			break
		}
		sink.OnStep(ev)
	}

	done := run.Done()
	sink.OnDone(done)
	if err := ctx.Err(); err != nil {
		return err
	}
	return done.Err
}

// Schedule hosts a run on a ticker for callers without their own event
// loop. Every tick calls Run.Tick, so steps are additionally paced by the
// run's cadence. An Idle run is started first. Schedule returns when the
// run reaches a terminal state or ctx is done, in which case the run is
// cancelled and ctx.Err() returned. A non-positive interval uses the run's
// cadence.
func Schedule(ctx context.Context, run *Run, sink Sink, interval time.Duration) error {
	if sink == nil {
		sink = SinkFuncs{}
	}
	if interval <= 0 {
		interval = run.Config().cadence()
	}
	if run.State() == Idle {
		if err := run.Start(ctx); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	finish := func() error {
		done := run.Done()
		sink.OnDone(done)
		return done.Err
	}

	for {
		if run.State().Terminal() {
			return finish()
		}
		select {
		case <-ctx.Done():
			run.Cancel()
			finish()
			return ctx.Err()
		case now := <-ticker.C:
			ev, stepped, err := run.Tick(ctx, now)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				if errors.Is(err, errors.ErrCodeStopped) {
					continue
				}
				return finish()
			}
			if stepped {
				sink.OnStep(ev)
			}
		}
	}
}
