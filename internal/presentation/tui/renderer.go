package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewMarkdownRenderer returns a function that renders markdown using glamour.
// With width 0 the glamour default is used.
func NewMarkdownRenderer(width int) func(string) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}
	return r.Render
}
