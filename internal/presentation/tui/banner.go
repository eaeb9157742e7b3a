package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the morph ASCII banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text, color string
	}{
		{"  _ __ ___   ___  _ __ _ __ | |__", "#2dd4bf"},
		{" | '_ ` _ \\ / _ \\| '__| '_ \\| '_ \\", "#22d3ee"},
		{" | | | | | | (_) | |  | |_) | | | |", "#38bdf8"},
		{" |_| |_| |_|\\___/|_|  | .__/|_| |_|", "#60a5fa"},
		{"                      |_|", "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
