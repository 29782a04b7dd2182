package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stipple/pkg/errors"
	"github.com/matzehuels/stipple/pkg/telemetry"
)

// statsCommand creates the stats command for telemetry summaries.
func (c *CLI) statsCommand() *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:   "stats [telemetry.csv]",
		Short: "Summarize a telemetry file",
		Long: `Summarize a telemetry file written with --telemetry.

Reports step timing and how the mean stipple displacement decayed. A run
counts as converged at the first step whose mean shift drops below
--threshold pixels.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStats(args[0], threshold)
		},
	}
	cmd.Flags().Float64Var(&threshold, "threshold", 0.05, "mean shift (px) that counts as converged")
	return cmd
}

func (c *CLI) runStats(path string, threshold float64) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open telemetry: %w", err)
	}
	defer f.Close()

	rows, err := telemetry.ReadCSV(f)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		printInfo("No steps recorded in %s", path)
		return nil
	}

	s := telemetry.Summarize(rows, threshold)
	converged := "not reached"
	if s.ConvergedAt > 0 {
		converged = fmt.Sprintf("step %d", s.ConvergedAt)
	}

	fmt.Fprintln(stdout, StyleTitle.Render("Telemetry " + path))
	fmt.Fprintln(stdout, summaryTable([][]string{
		{"Steps", fmt.Sprintf("%d", s.Steps)},
		{"Total time", fmt.Sprintf("%.1f ms", s.TotalMS)},
		{"Mean step", fmt.Sprintf("%.2f ms", s.MeanStepMS)},
		{"First mean shift", fmt.Sprintf("%.3f px", s.FirstMeanShift)},
		{"Last mean shift", fmt.Sprintf("%.3f px", s.LastMeanShift)},
		{"Peak shift", fmt.Sprintf("%.3f px", s.PeakShift)},
		{fmt.Sprintf("Converged (<%g px)", threshold), converged},
	}))
	return nil
}

// summaryTable renders metric/value rows.
func summaryTable(rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers("Metric", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorLabel)
			}
			return StyleValue
		}).
		Render()
}
