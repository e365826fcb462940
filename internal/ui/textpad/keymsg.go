package textpad

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/hostpad/internal/textbox"
)

// translateKey converts a Bubble Tea key event into textbox keys. Pasted
// text arrives as several runes and yields one key per rune. Alt chords
// and keys the textbox has no code for yield nothing.
func translateKey(msg tea.KeyMsg) []textbox.Key {
	if msg.Alt {
		return nil
	}

	switch msg.Type {
	case tea.KeyRunes:
		out := make([]textbox.Key, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			out = append(out, textbox.Key(r))
		}
		return out
	case tea.KeySpace:
		return []textbox.Key{' '}
	case tea.KeyUp:
		return []textbox.Key{textbox.KeyUp}
	case tea.KeyDown:
		return []textbox.Key{textbox.KeyDown}
	case tea.KeyLeft:
		return []textbox.Key{textbox.KeyLeft}
	case tea.KeyRight:
		return []textbox.Key{textbox.KeyRight}
	case tea.KeyHome:
		return []textbox.Key{textbox.KeyHome}
	case tea.KeyEnd:
		return []textbox.Key{textbox.KeyEnd}
	case tea.KeyDelete:
		return []textbox.Key{textbox.KeyDelete}
	case tea.KeyBackspace:
		return []textbox.Key{textbox.KeyBackspace}
	case tea.KeyEnter:
		return []textbox.Key{textbox.KeyEnter}
	}

	// Remaining control chords share their codes with the textbox.
	if msg.Type >= tea.KeyCtrlA && msg.Type <= tea.KeyCtrlZ {
		return []textbox.Key{textbox.Key(msg.Type)}
	}
	return nil
}
