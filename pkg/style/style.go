// Package style renders opfill results for the terminal.
package style

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
)

// Status classifies a line of report output.
type Status string

const (
	StatusResolved Status = "resolved"
	StatusMissing  Status = "missing"
	StatusSkipped  Status = "skipped"
	StatusWritten  Status = "written"
	StatusError    Status = "error"
)

// Styles used by the diff and summary rendering.
var (
	TitleStyle   = lipgloss.NewStyle().Bold(true)
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "244"})
	AddedStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "35"})
	RemovedStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "124", Dark: "167"})
)

// StatusStyle returns the pterm style for a status.
func StatusStyle(status Status) *pterm.Style {
	switch status {
	case StatusResolved, StatusWritten:
		return pterm.NewStyle(pterm.FgGreen)
	case StatusMissing, StatusError:
		return pterm.NewStyle(pterm.FgRed)
	case StatusSkipped:
		return pterm.NewStyle(pterm.FgYellow)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// ShouldColorize reports whether output should carry ANSI colors:
// only when writing to a terminal that supports them.
func ShouldColorize(output *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if !isatty.IsTerminal(output.Fd()) && !isatty.IsCygwinTerminal(output.Fd()) {
		return false
	}
	return termenv.ColorProfile() != termenv.Ascii
}

// ConfigureOutput disables color rendering when the destination is
// not a capable terminal.
func ConfigureOutput(output *os.File) {
	if !ShouldColorize(output) {
		pterm.DisableColor()
	}
}
