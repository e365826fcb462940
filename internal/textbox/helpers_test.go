package textbox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestTextbox creates a textbox pre-filled with lines.
func newTestTextbox(t testing.TB, rows, cols int, insert, strip bool, lines ...string) *Textbox {
	t.Helper()
	tb, err := New(Config{Rows: rows, Cols: cols, InsertMode: insert, StripSpaces: strip})
	require.NoError(t, err)
	if len(lines) > 0 {
		tb.SetText(strings.Join(lines, "\n"))
	}
	return tb
}

// feed dispatches every rune of s as a key.
func feed(tb *Textbox, s string) {
	for _, r := range s {
		tb.HandleKey(Key(r))
	}
}

func requireCursor(t *testing.T, tb *Textbox, row, col int) {
	t.Helper()
	gotRow, gotCol := tb.Cursor()
	require.Equal(t, [2]int{row, col}, [2]int{gotRow, gotCol}, "cursor (row, col)")
}
