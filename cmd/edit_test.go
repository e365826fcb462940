package cmd

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/hostpad/internal/textbox"
	"github.com/zjrosen/hostpad/internal/ui/textpad"
)

func readerOf(s string) io.Reader {
	return strings.NewReader(s)
}

// stubTextpad replaces runTextpad with one that feeds each script of key
// messages to successive models.
func stubTextpad(t *testing.T, scripts ...[]tea.KeyMsg) {
	t.Helper()
	prev := runTextpad
	t.Cleanup(func() { runTextpad = prev })

	i := 0
	runTextpad = func(_ context.Context, m textpad.Model) (textpad.Model, error) {
		require.Less(t, i, len(scripts), "unexpected editor session %d", i+1)
		for _, msg := range scripts[i] {
			next, _ := m.Update(msg)
			m = next.(textpad.Model)
		}
		i++
		return m, nil
	}
	t.Cleanup(func() {
		require.Equal(t, len(scripts), i, "not every editor session ran")
	})
}

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func ctrl(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func TestEditFromReader_StopsAtCtrlG(t *testing.T) {
	opts := textbox.Config{Rows: 2, Cols: 10, StripSpaces: true}

	text, n, err := editFromReader(opts, nil, "", readerOf("hello\x07world"))
	require.NoError(t, err)
	require.Equal(t, "hello", text)
	require.Equal(t, 6, n)
}

func TestEditFromReader_EOFEndsEditing(t *testing.T) {
	opts := textbox.Config{Rows: 2, Cols: 10, StripSpaces: true}

	text, _, err := editFromReader(opts, nil, "", readerOf("ab\ncd"))
	require.NoError(t, err)
	require.Equal(t, "ab\ncd", text)
}

func TestEditFromReader_InitialText(t *testing.T) {
	opts := textbox.Config{Rows: 1, Cols: 20, StripSpaces: true}

	// ctrl+e to the end of "draft", then append.
	text, _, err := editFromReader(opts, nil, "draft", readerOf("\x05 two\x07"))
	require.NoError(t, err)
	require.Equal(t, "draft two", text)
}

func TestEditFromReader_KillLine(t *testing.T) {
	opts := textbox.Config{Rows: 1, Cols: 20, StripSpaces: true}

	text, _, err := editFromReader(opts, nil, "", readerOf("hello\x01\x0bbye\x07"))
	require.NoError(t, err)
	require.Equal(t, "bye", text)
}

func TestEditFromReader_InvalidSize(t *testing.T) {
	_, _, err := editFromReader(textbox.Config{Rows: 0, Cols: 5}, nil, "", readerOf(""))
	require.ErrorIs(t, err, textbox.ErrInvalidSize)
}

func TestEditFromReader_BadBinding(t *testing.T) {
	opts := textbox.Config{Rows: 1, Cols: 5}
	_, _, err := editFromReader(opts, map[string]string{"ctrl+t": "nope"}, "", readerOf(""))
	require.Error(t, err)
	require.Contains(t, err.Error(), "ctrl+t")
}

func TestEditInTerminal_Done(t *testing.T) {
	stubTextpad(t, []tea.KeyMsg{typed("hi"), ctrl(tea.KeyCtrlG)})

	text, n, cancelled, err := editInTerminal(context.Background(),
		textbox.Config{Rows: 2, Cols: 8, StripSpaces: true}, nil, "")
	require.NoError(t, err)
	require.False(t, cancelled)
	require.Equal(t, "hi", text)
	require.Equal(t, 3, n)
}

func TestEditInTerminal_Cancelled(t *testing.T) {
	stubTextpad(t, []tea.KeyMsg{typed("hi"), ctrl(tea.KeyCtrlC)})

	_, _, cancelled, err := editInTerminal(context.Background(),
		textbox.Config{Rows: 2, Cols: 8, StripSpaces: true}, nil, "")
	require.NoError(t, err)
	require.True(t, cancelled)
}

func TestEditInTerminal_ConfiguredBinding(t *testing.T) {
	stubTextpad(t, []tea.KeyMsg{typed("ok"), ctrl(tea.KeyCtrlT), typed("lost")})

	text, _, cancelled, err := editInTerminal(context.Background(),
		textbox.Config{Rows: 2, Cols: 8, StripSpaces: true},
		map[string]string{"ctrl+t": textbox.IDEnd}, "")
	require.NoError(t, err)
	require.False(t, cancelled)
	require.Equal(t, "ok", text)
}

func TestPrintContents(t *testing.T) {
	var buf bytes.Buffer
	printContents(&buf, "one\ntwo")
	require.Equal(t, "Contents of text box: \"one\\ntwo\"\n", buf.String())
}

func TestPrintDiff_Insertion(t *testing.T) {
	var buf bytes.Buffer
	printDiff(&buf, "hello", "hello world")
	require.Equal(t, " \"hello\"\n+\" world\"\n", buf.String())
}

func TestPrintDiff_Deletion(t *testing.T) {
	var buf bytes.Buffer
	printDiff(&buf, "hello world", "hello")
	require.Equal(t, " \"hello\"\n-\" world\"\n", buf.String())
}

func TestPrintDiff_NoChange(t *testing.T) {
	var buf bytes.Buffer
	printDiff(&buf, "same", "same")
	require.Equal(t, " \"same\"\n", buf.String())
}
