// Package color decides whether output is colored and provides the lipgloss theme.
package color

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Enabled reports whether the environment allows colored output.
//
// Color is disabled when any of:
//   - noColorFlag is set (--no-color)
//   - NO_COLOR is present with any value (https://no-color.org)
//   - CLICOLOR=0
//   - TERM=dumb
func Enabled(noColorFlag bool) bool {
	if noColorFlag {
		return false
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}

	return os.Getenv("CLICOLOR") != "0" && os.Getenv("TERM") != "dumb"
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}

// ForWriter returns the theme for output written to w.
func ForWriter(w io.Writer, noColorFlag bool) Theme {
	return NewTheme(Enabled(noColorFlag) && IsTerminal(w))
}

// Theme holds the styles used by reports.
type Theme struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Skip    lipgloss.Style
	Header  lipgloss.Style
	Name    lipgloss.Style
	Muted   lipgloss.Style
}

// NewTheme creates a Theme. Without color every style renders its input unchanged.
func NewTheme(color bool) Theme {
	if !color {
		return Theme{}
	}

	return Theme{
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Skip:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Header:  lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Name:    lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}
