package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// stdout receives all user-facing status lines. Logs go to the CLI logger.
var stdout io.Writer = os.Stdout

// =============================================================================
// Palette
// =============================================================================

var (
	colorInk   = lipgloss.Color("36")  // Teal - titles, numbers
	colorDone  = lipgloss.Color("35")  // Green - success, cache hits
	colorWarn  = lipgloss.Color("220") // Amber
	colorFail  = lipgloss.Color("167") // Soft red
	colorHint  = lipgloss.Color("75")  // Light blue - suggested commands
	colorPaper = lipgloss.Color("255") // Bright white - values
	colorLabel = lipgloss.Color("245")
	colorMuted = lipgloss.Color("240")
)

var (
	// StyleTitle for headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorInk)
	// StyleHighlight for emphasized values such as counts in summaries.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorInk)
	// StyleNumber for numeric table cells.
	StyleNumber = lipgloss.NewStyle().Foreground(colorInk)
	// StyleValue for plain data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorPaper)
	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorMuted)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorDone)
	styleIconError   = lipgloss.NewStyle().Foreground(colorFail)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorWarn)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorLabel)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorInk)
	styleLabel       = lipgloss.NewStyle().Foreground(colorLabel).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(colorHint)
	styleCached      = lipgloss.NewStyle().Foreground(colorDone)
	styleFresh       = lipgloss.NewStyle().Foreground(colorLabel)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Lines
// =============================================================================

func printLine(icon lipgloss.Style, glyph, msg string) {
	fmt.Fprintln(stdout, icon.Render(glyph)+" "+msg)
}

func printSuccess(format string, args ...any) {
	printLine(styleIconSuccess, iconSuccess, fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	printLine(styleIconError, iconError, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	printLine(styleIconWarning, iconWarning, styleIconWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	printLine(styleIconInfo, iconInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented, muted line under the previous status.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile lists a written output file.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleLabel.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints "N stipples · M steps · cached|fresh".
func printStats(points, steps int, cached bool) {
	var parts []string
	if points > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d stipples", points)))
	}
	if steps > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d steps", steps)))
	}
	if cached {
		parts = append(parts, styleCached.Render("cached"))
	} else {
		parts = append(parts, styleFresh.Render("fresh"))
	}
	fmt.Fprintln(stdout, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}
