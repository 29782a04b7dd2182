package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stipple/pkg/density"
	"github.com/matzehuels/stipple/pkg/errors"
	"github.com/matzehuels/stipple/pkg/geom"
	"github.com/matzehuels/stipple/pkg/pipeline"
	"github.com/matzehuels/stipple/pkg/relax"
	"github.com/matzehuels/stipple/pkg/telemetry"
)

// animateFlags holds animate-only flags.
type animateFlags struct {
	output        string
	snapshotEvery int
	maxSteps      int
	cadence       time.Duration
	noTUI         bool
	telemetry     string
}

// animateCommand creates the animate command for open-ended relaxation.
func (c *CLI) animateCommand() *cobra.Command {
	var (
		sf stippleFlags
		af animateFlags
	)

	cmd := &cobra.Command{
		Use:   "animate [image]",
		Short: "Watch stipples relax in a live terminal view",
		Long: `Watch stipples relax in a live terminal view.

The animate command starts an animated run: stipples are placed once and
relaxed step by step, paced by the cadence, until you quit with q or
ctrl+c. Press r to restart with the next seed. The final frame is written
on exit, and --snapshot-every writes intermediate frames.`,
		Example: `  stipple animate portrait.jpg
  stipple animate portrait.jpg --snapshot-every 10 -o frames/portrait
  stipple animate portrait.jpg --no-tui --max-steps 100 --telemetry steps.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.buildOptions(cmd, &sf, args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("cadence") {
				opts.Relax.Cadence = af.cadence
			}
			if !cmd.Flags().Changed("snapshot-every") {
				file, err := c.loadConfig()
				if err != nil {
					return err
				}
				af.snapshotEvery = file.Animate.SnapshotEvery
			}
			return c.runAnimate(cmd.Context(), opts, af)
		},
	}

	sf.register(cmd, false)
	registerValueCompletions(cmd)
	cmd.Flags().StringVarP(&af.output, "output", "o", "", "base path for the final frame and snapshots")
	cmd.Flags().IntVar(&af.snapshotEvery, "snapshot-every", 0, "write a frame every N steps (0 = final frame only)")
	cmd.Flags().IntVar(&af.maxSteps, "max-steps", 0, "stop after N steps (0 = until quit)")
	cmd.Flags().DurationVar(&af.cadence, "cadence", relax.DefaultCadence, "minimum time between steps")
	cmd.Flags().BoolVar(&af.noTUI, "no-tui", false, "log steps instead of drawing the live view")
	cmd.Flags().StringVar(&af.telemetry, "telemetry", "", "write per-step statistics to a CSV file")

	return cmd
}

// runAnimate loads the image, hosts the run and writes the final frame.
func (c *CLI) runAnimate(ctx context.Context, opts pipeline.Options, af animateFlags) error {
	if af.snapshotEvery < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "snapshot-every must not be negative, got %d", af.snapshotEvery)
	}
	if af.maxSteps < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max-steps must not be negative, got %d", af.maxSteps)
	}
	if err := opts.ValidateForLoad(); err != nil {
		return err
	}
	if err := opts.ValidateForRender(); err != nil {
		return err
	}

	// Animation never reads or writes the point cache.
	runner, err := c.newRunner(true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	field, _, err := runner.Load(ctx, opts)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}

	interactive := useTUI(af.noTUI)
	logger := c.Logger
	if interactive {
		logger = discardLogger()
	}

	anim := &animation{
		ctx:           ctx,
		driver:        relax.NewDriver(relax.WithLogger(logger)),
		field:         field,
		opts:          opts,
		input:         opts.Input,
		output:        af.output,
		snapshotEvery: af.snapshotEvery,
		maxSteps:      af.maxSteps,
		logger:        logger,
	}
	if af.telemetry != "" {
		anim.recorder = telemetry.NewRecorder()
	}
	if err := anim.start(); err != nil {
		return err
	}

	if interactive {
		// Poll faster than the cadence; Tick enforces the floor.
		interval := max(opts.Relax.Cadence/4, 10*time.Millisecond)
		p := tea.NewProgram(NewLiveModel(anim, interval), tea.WithOutput(os.Stderr), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil && ctx.Err() == nil {
			anim.run.Cancel()
			return fmt.Errorf("live view: %w", err)
		}
		anim.run.Cancel()
	} else {
		sink := relax.SinkFuncs{Step: func(ev relax.StepEvent) {
			anim.onStep(ev)
			c.Logger.Info("step", "n", ev.Step, "mean_shift", fmt.Sprintf("%.3f", ev.Stats.MeanShift), "duration", ev.Duration.Round(time.Millisecond))
		}}
		err := relax.Schedule(ctx, anim.run, sink, 0)
		if err != nil && ctx.Err() == nil {
			return err
		}
	}

	return c.finishAnimation(anim, af)
}

// finishAnimation writes the final frame and telemetry. An interrupted
// animation still writes its last committed frame.
func (c *CLI) finishAnimation(anim *animation, af animateFlags) error {
	done := anim.run.Done()
	if anim.recorder != nil {
		anim.recorder.OnDone(done)
	}
	if anim.err != nil {
		return anim.err
	}
	if done.Err != nil {
		return done.Err
	}

	artifacts, err := anim.render(done.Points, done.Steps)
	if err != nil {
		return err
	}
	paths, err := writeArtifacts(artifacts, anim.opts.Formats, anim.input, anim.output)
	if err != nil {
		return err
	}

	printSuccess("Animated %s (%s)", StyleHighlight.Render(filepath.Base(anim.input)), done.State)
	printStats(len(done.Points), done.Steps, false)
	for _, p := range paths {
		printFile(p)
	}
	if anim.snapshots > 0 {
		pattern := "_NNNN"
		if anim.restarts > 0 {
			pattern = "_[rN_]NNNN"
		}
		printDetail("%d snapshots written to %s%s.*", anim.snapshots, basePath(anim.output, anim.input), pattern)
	}
	if anim.recorder != nil {
		if err := writeTelemetry(af.telemetry, anim.recorder); err != nil {
			return err
		}
		printFile(af.telemetry)
	}
	return nil
}

// animation is the state of one animate invocation. It is only touched
// from the goroutine that drives the run.
type animation struct {
	ctx      context.Context
	driver   *relax.Driver
	run      *relax.Run
	field    *density.Field
	opts     pipeline.Options
	recorder *telemetry.Recorder
	logger   *log.Logger

	input, output string
	snapshotEvery int
	maxSteps      int

	last      relax.StepEvent
	snapshots int
	restarts  int
	err       error
}

// start begins a run with the current config, cancelling any previous one.
func (a *animation) start() error {
	run, err := a.driver.Start(a.ctx, a.opts.Relax, relax.Animated, a.field)
	if err != nil {
		return err
	}
	a.run = run
	a.last = relax.StepEvent{RunID: run.ID()}
	return nil
}

// restart starts over with the next seed. Telemetry restarts with the
// run, so the written CSV always describes the final frame's run.
func (a *animation) restart() error {
	a.opts.Relax.Seed++
	a.restarts++
	a.logger.Debug("restarting", "seed", a.opts.Relax.Seed)
	if err := a.start(); err != nil {
		return err
	}
	if a.recorder != nil {
		a.recorder.Reset()
	}
	return nil
}

// tick advances the run if its cadence allows.
func (a *animation) tick(now time.Time) (bool, error) {
	ev, stepped, err := a.run.Tick(a.ctx, now)
	if err != nil || !stepped {
		return false, err
	}
	a.onStep(ev)
	return true, nil
}

// onStep records telemetry, writes due snapshots and enforces maxSteps.
func (a *animation) onStep(ev relax.StepEvent) {
	a.last = ev
	if a.recorder != nil {
		a.recorder.OnStep(ev)
	}
	if a.snapshotEvery > 0 && ev.Step%a.snapshotEvery == 0 {
		if err := a.snapshot(ev.Points, ev.Step); err != nil {
			a.err = err
			a.run.Cancel()
			return
		}
	}
	if a.maxSteps > 0 && ev.Step >= a.maxSteps {
		a.run.Cancel()
	}
}

// snapshot writes the frame for step in every requested format.
func (a *animation) snapshot(points []geom.Point, step int) error {
	artifacts, err := a.render(points, step)
	if err != nil {
		return err
	}
	for _, format := range a.opts.Formats {
		if err := writeFile(snapshotPath(a.output, a.input, format, a.restarts, step), artifacts[format]); err != nil {
			return err
		}
	}
	a.snapshots++
	return nil
}

func (a *animation) render(points []geom.Point, steps int) (map[string][]byte, error) {
	scene, err := pipeline.Compose(points, a.field, a.opts)
	if err != nil {
		return nil, err
	}
	return pipeline.Render(scene, a.opts.Meta(a.run.ID(), steps), a.opts)
}
