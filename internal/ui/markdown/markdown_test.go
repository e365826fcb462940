package markdown

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultsToDark(t *testing.T) {
	r, err := New(80, "")
	require.NoError(t, err)
	require.Equal(t, 80, r.Width())
}

func TestNew_RejectsUnknownStyle(t *testing.T) {
	_, err := New(80, "sepia")
	require.ErrorContains(t, err, `unknown markdown style "sepia"`)
}

func TestRender_Heading(t *testing.T) {
	for _, style := range []string{"dark", "light", "notty"} {
		r, err := New(60, style)
		require.NoError(t, err, style)

		out, err := r.Render("# Keys\n\nEmacs-style bindings.")
		require.NoError(t, err, style)
		plain := ansi.Strip(out)
		require.Contains(t, plain, "Keys", style)
		require.Contains(t, plain, "Emacs-style bindings.", style)
	}
}

func TestRender_Table(t *testing.T) {
	r, err := New(80, "notty")
	require.NoError(t, err)

	out, err := r.Render("| Key | Command |\n|---|---|\n| ctrl+g | edit.end |\n| ctrl+k | delete.to_line_end |\n")
	require.NoError(t, err)

	plain := ansi.Strip(out)
	require.Contains(t, plain, "ctrl+g")
	require.Contains(t, plain, "edit.end")
	require.Contains(t, plain, "delete.to_line_end")
}
