// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names - Text hierarchy
	TextMutedColor = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"} // Help text, finished boxes

	// Semantic color names - Border
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"} // Finished boxes
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79F6"} // Box being edited

	// TitleStyle is the line above an edit box.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// CursorStyle marks the cursor cell.
	CursorStyle = lipgloss.NewStyle().Reverse(true)

	boxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
)

// Box returns the edit box frame; focused while keys are accepted.
func Box(focused bool) lipgloss.Style {
	if focused {
		return boxStyle.BorderForeground(BorderFocusColor)
	}
	return boxStyle.BorderForeground(BorderDefaultColor)
}
