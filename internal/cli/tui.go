package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/stipple/pkg/errors"
	"github.com/matzehuels/stipple/pkg/relax"
)

const barWidth = 32

var (
	barFullStyle  = lipgloss.NewStyle().Foreground(colorInk)
	barEmptyStyle = lipgloss.NewStyle().Foreground(colorMuted)
	helpStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	headerStyle   = lipgloss.NewStyle().Foreground(colorLabel).Bold(true)
)

// stepMsg carries a committed step into a bubbletea program.
type stepMsg relax.StepEvent

// finishedMsg reports that the pipeline goroutine returned.
type finishedMsg struct{ err error }

// tickMsg drives the live view.
type tickMsg time.Time

// =============================================================================
// ProgressModel - Static relaxation progress
// =============================================================================

// ProgressModel shows a progress bar while generate relaxes stipples.
// Quitting cancels the pipeline through cancel.
type ProgressModel struct {
	Title     string
	Total     int
	Last      relax.StepEvent
	Started   time.Time
	Cancelled bool
	Err       error

	cancel context.CancelFunc
	done   bool
}

// NewProgressModel creates a progress model for a run of total steps.
func NewProgressModel(title string, total int, cancel context.CancelFunc) ProgressModel {
	return ProgressModel{Title: title, Total: total, Started: time.Now(), cancel: cancel}
}

func (m ProgressModel) Init() tea.Cmd {
	return nil
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Cancelled = true
			if m.cancel != nil {
				m.cancel()
			}
			m.done = true
			return m, tea.Quit
		}
	case stepMsg:
		m.Last = relax.StepEvent(msg)
	case finishedMsg:
		m.Err = msg.err
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m ProgressModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(renderBar(m.Last.Percent(), barWidth))
	b.WriteString(fmt.Sprintf(" %3d%%  ", m.Last.Percent()))
	b.WriteString(StyleDim.Render(fmt.Sprintf("step %d/%d · mean shift %.3fpx · %s",
		m.Last.Step, m.Total, m.Last.Stats.MeanShift, time.Since(m.Started).Round(100*time.Millisecond))))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("q cancel"))
	b.WriteString("\n")
	return b.String()
}

// renderBar draws a horizontal bar filled to percent.
func renderBar(percent, width int) string {
	percent = min(max(percent, 0), 100)
	filled := width * percent / 100
	return barFullStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// =============================================================================
// LiveModel - Animated relaxation
// =============================================================================

// LiveModel hosts an animated run. Every tick calls Run.Tick, so steps
// follow the run's cadence. q or ctrl+c cancels the run, r restarts it
// with the next seed.
type LiveModel struct {
	anim     *animation
	interval time.Duration
	quitting bool
}

// NewLiveModel creates a live view over anim, polling every interval.
func NewLiveModel(anim *animation, interval time.Duration) LiveModel {
	return LiveModel{anim: anim, interval: interval}
}

func (m LiveModel) Init() tea.Cmd {
	return tick(m.interval)
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.anim.run.Cancel()
			m.quitting = true
			return m, tea.Quit
		case "r":
			if err := m.anim.restart(); err != nil {
				m.anim.err = err
				m.quitting = true
				return m, tea.Quit
			}
		}
	case tickMsg:
		_, err := m.anim.tick(time.Time(msg))
		if err != nil && !errors.Is(err, errors.ErrCodeStopped) {
			m.anim.err = err
		}
		if m.anim.err != nil || m.anim.run.State().Terminal() {
			m.quitting = true
			return m, tea.Quit
		}
		return m, tick(m.interval)
	}
	return m, nil
}

func (m LiveModel) View() string {
	if m.quitting {
		return ""
	}
	a := m.anim
	last := a.last

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Stippling " + a.input))
	b.WriteString("\n\n")

	rows := [][]string{
		{"Run", a.run.ID()[:8]},
		{"State", a.run.State().String()},
		{"Step", fmt.Sprintf("%d", last.Step)},
		{"Stipples", fmt.Sprintf("%d", len(a.run.Points()))},
		{"Seed", fmt.Sprintf("%d", a.run.Config().Seed)},
		{"Mean shift", fmt.Sprintf("%.3f px", last.Stats.MeanShift)},
		{"Max shift", fmt.Sprintf("%.3f px", last.Stats.MaxShift)},
		{"Moved", fmt.Sprintf("%d", last.Stats.Moved)},
		{"Empty cells", fmt.Sprintf("%d", last.Stats.EmptyCells)},
		{"Step time", last.Duration.Round(time.Millisecond).String()},
		{"Snapshots", fmt.Sprintf("%d", a.snapshots)},
		{"Restarts", fmt.Sprintf("%d", a.restarts)},
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorLabel).PaddingRight(2)
			}
			return StyleNumber
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("q quit · r restart with next seed"))
	b.WriteString("\n")
	return b.String()
}
