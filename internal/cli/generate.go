package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stipple/pkg/pipeline"
	"github.com/matzehuels/stipple/pkg/relax"
	"github.com/matzehuels/stipple/pkg/telemetry"
)

// generateFlags holds generate-only flags.
type generateFlags struct {
	output    string
	noCache   bool
	refresh   bool
	noTUI     bool
	telemetry string
}

// generateCommand creates the generate command for static stippling.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		sf stippleFlags
		gf generateFlags
	)

	cmd := &cobra.Command{
		Use:   "generate [image]",
		Short: "Stipple an image and export the drawing",
		Long: `Stipple an image and export the drawing.

The generate command places stipples over the image, runs a fixed number
of weighted Lloyd relaxation steps and writes the result as SVG, PNG,
JSON or CSV.

Relaxed point sets are cached locally, so changing only the dot style
re-renders without relaxing again. Use --refresh to relax anew.`,
		Example: `  stipple generate portrait.jpg
  stipple generate portrait.jpg -n 12000 -i 50 -f svg,png
  stipple generate night.png --polarity light-on-dark --colorize -o out/night.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.buildOptions(cmd, &sf, args[0])
			if err != nil {
				return err
			}
			opts.Refresh = gf.refresh
			return c.runGenerate(cmd.Context(), opts, gf)
		},
	}

	sf.register(cmd, true)
	registerValueCompletions(cmd)
	cmd.Flags().StringVarP(&gf.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&gf.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&gf.refresh, "refresh", false, "ignore cached points and relax again")
	cmd.Flags().BoolVar(&gf.noTUI, "no-tui", false, "log progress instead of drawing a progress bar")
	cmd.Flags().StringVar(&gf.telemetry, "telemetry", "", "write per-step statistics to a CSV file")

	return cmd
}

// runGenerate executes the pipeline and writes its artifacts.
func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options, gf generateFlags) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(gf.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var recorder *telemetry.Recorder
	if gf.telemetry != "" {
		recorder = telemetry.NewRecorder()
	}

	prog := newProgress(c.Logger)
	var result *pipeline.Result
	if useTUI(gf.noTUI) {
		result, err = c.executeWithTUI(ctx, runner, opts, recorder)
	} else {
		result, err = c.executeWithSpinner(ctx, runner, opts, recorder)
	}
	if err != nil {
		return err
	}

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, opts.Input, gf.output)
	if err != nil {
		return err
	}

	printSuccess("Stippled %s", StyleHighlight.Render(filepath.Base(opts.Input)))
	printStats(len(result.Points), result.Stats.Steps, result.CacheInfo.PointsHit)
	for _, p := range paths {
		printFile(p)
	}

	if recorder != nil {
		if result.CacheInfo.PointsHit {
			printWarning("Points came from cache; no telemetry recorded (use --refresh)")
		} else if err := writeTelemetry(gf.telemetry, recorder); err != nil {
			return err
		} else {
			printFile(gf.telemetry)
			printNextStep("Summarize the run", "stipple stats "+gf.telemetry)
		}
	}

	prog.done("generate finished", "run", result.RunID, "files", len(paths))
	return nil
}

// executeWithTUI runs the pipeline in the background while a bubbletea
// progress bar consumes its step events.
func (c *CLI) executeWithTUI(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, recorder *telemetry.Recorder) (*pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	title := fmt.Sprintf("Relaxing %d stipples over %s", opts.Relax.Count, filepath.Base(opts.Input))
	p := tea.NewProgram(NewProgressModel(title, opts.Relax.Iterations, cancel),
		tea.WithOutput(os.Stderr), tea.WithContext(ctx))

	// Keep the TUI clean; pipeline logs resume after the program exits.
	quiet := opts
	quiet.Logger = discardLogger()
	runner.Logger = quiet.Logger
	defer func() { runner.Logger = c.Logger }()

	sinks := relax.MultiSink{relax.SinkFuncs{Step: func(ev relax.StepEvent) { p.Send(stepMsg(ev)) }}}
	if recorder != nil {
		sinks = append(sinks, recorder)
	}
	quiet.Sink = sinks

	type outcome struct {
		result *pipeline.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := runner.Execute(ctx, quiet)
		done <- outcome{result, err}
		p.Send(finishedMsg{err: err})
	}()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		cancel()
		<-done
		return nil, fmt.Errorf("progress view: %w", err)
	}
	out := <-done
	return out.result, out.err
}

// executeWithSpinner runs the pipeline with a spinner that shows the
// current percentage.
func (c *CLI) executeWithSpinner(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, recorder *telemetry.Recorder) (*pipeline.Result, error) {
	msg := fmt.Sprintf("Relaxing %d stipples", opts.Relax.Count)
	spinner := newSpinner(ctx, os.Stderr, msg+"...")
	spinner.Start()

	sinks := relax.MultiSink{relax.SinkFuncs{Step: func(ev relax.StepEvent) {
		spinner.SetMessage(fmt.Sprintf("%s... %d%%", msg, ev.Percent()))
		c.Logger.Debug("step", "n", ev.Step, "mean_shift", ev.Stats.MeanShift, "duration", ev.Duration)
	}}}
	if recorder != nil {
		sinks = append(sinks, recorder)
	}
	opts.Sink = sinks

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Stippling failed")
		return nil, err
	}
	spinner.Stop()
	return result, nil
}

func writeTelemetry(path string, recorder *telemetry.Recorder) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create telemetry file: %w", err)
	}
	defer f.Close()
	return recorder.WriteCSV(f)
}

// useTUI reports whether interactive views can be drawn on stderr.
func useTUI(disabled bool) bool {
	if disabled {
		return false
	}
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
