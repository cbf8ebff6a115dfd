package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the algotrace banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text, color string
	}{
		{`        _             _                      `, "#818cf8"},
		{`   __ _| | __ _  ___ | |_ _ __ __ _  ___ ___ `, "#a78bfa"},
		{`  / _' | |/ _' |/ _ \| __| '__/ _' |/ __/ _ \`, "#c084fc"},
		{` | (_| | | (_| | (_) | |_| | | (_| | (_|  __/`, "#e879f9"},
		{`  \__,_|_|\__, |\___/ \__|_|  \__,_|\___\___|`, "#f472b6"},
		{`          |___/                              `, "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, out.String("  v"+v).Faint())
	}
	fmt.Fprintln(w)
}
