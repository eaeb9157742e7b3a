package tui

import (
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// NewRenderer returns a function that renders markdown for w.
// Terminals get glamour's auto-detected style; anything else gets plain text.
func NewRenderer(w io.Writer) func(string) (string, error) {
	style := glamour.WithStandardStyle("notty")
	if IsTerminal(w) {
		style = glamour.WithAutoStyle()
	}

	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(100))
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}
	return r.Render
}

// Orientation colors an orientation name for terminal output.
func Orientation(name string) string {
	p := termenv.ColorProfile()
	switch name {
	case "portrait":
		return termenv.String(name).Foreground(p.Color("#a78bfa")).Bold().String()
	case "landscape":
		return termenv.String(name).Foreground(p.Color("#2dd4bf")).Bold().String()
	default:
		return termenv.String(name).Faint().String()
	}
}
