package textbox

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Key identifies a single key press.
//
// Values 0..utf8.MaxRune are the rune itself, so ASCII control codes double
// as their Emacs chord (CtrlA == 0x01). Navigation keys that have no rune
// are numbered above utf8.MaxRune and can never collide with text.
type Key int

// Control chords.
const (
	CtrlA Key = 0x01 // SOH
	CtrlB Key = 0x02 // STX
	CtrlD Key = 0x04 // EOT
	CtrlE Key = 0x05 // ENQ
	CtrlF Key = 0x06 // ACK
	CtrlG Key = 0x07 // BEL
	CtrlH Key = 0x08 // BS
	CtrlJ Key = 0x0a // NL
	CtrlK Key = 0x0b // VT
	CtrlL Key = 0x0c // FF
	CtrlN Key = 0x0e // SO
	CtrlO Key = 0x0f // SI
	CtrlP Key = 0x10 // DLE
)

const keyBase = Key(utf8.MaxRune + 1)

// Navigation keys.
const (
	KeyUp Key = keyBase + iota
	KeyDown
	KeyLeft
	KeyRight
	KeyBackspace
	KeyDelete
	KeyHome
	KeyEnd
	KeyEnter
)

var keyNames = map[Key]string{
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyBackspace: "backspace",
	KeyDelete:    "delete",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyEnter:     "enter",
}

// IsRune reports whether k is a plain rune value.
func (k Key) IsRune() bool {
	return k >= 0 && k < keyBase
}

// IsPrintable reports whether k is text that can be placed in a single cell.
func (k Key) IsPrintable() bool {
	if !k.IsRune() {
		return false
	}
	r := rune(k)
	return unicode.IsPrint(r) && runewidth.RuneWidth(r) == 1
}

// String returns the chord name ("ctrl+g", "left", "a").
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	switch {
	case k >= CtrlA && k <= 0x1a:
		return fmt.Sprintf("ctrl+%c", rune('a'+k-CtrlA))
	case k == ' ':
		return "space"
	case k.IsRune() && unicode.IsPrint(rune(k)):
		return string(rune(k))
	default:
		return fmt.Sprintf("key(%d)", int(k))
	}
}

// ParseKey is the inverse of Key.String for chord names.
func ParseKey(name string) (Key, error) {
	for k, n := range keyNames {
		if n == name {
			return k, nil
		}
	}
	if name == "space" {
		return ' ', nil
	}
	var c rune
	if n, _ := fmt.Sscanf(name, "ctrl+%c", &c); n == 1 && len(name) == len("ctrl+")+1 && c >= 'a' && c <= 'z' {
		return CtrlA + Key(c-'a'), nil
	}
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		return Key(r), nil
	}
	return 0, fmt.Errorf("unknown key %q", name)
}
