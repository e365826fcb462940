// Package markdown renders markdown for the terminal.
package markdown

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// noMarginStyle drops glamour's document margins so output lines up with
// the rest of the CLI.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps glamour with hostpad's defaults.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// New creates a renderer wrapping at width. style is "dark", "light" or
// "notty"; empty means "dark". A named style avoids the terminal
// background query glamour's auto style performs.
func New(width int, style string) (*Renderer, error) {
	if style == "" {
		style = "dark"
	}
	switch style {
	case "dark", "light", "notty":
	default:
		return nil, fmt.Errorf("unknown markdown style %q", style)
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{renderer: r, width: width}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render transforms markdown to styled terminal output.
func (r *Renderer) Render(markdown string) (string, error) {
	return r.renderer.Render(markdown)
}
