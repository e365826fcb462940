package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"
)

func TestBox_BorderColorFollowsFocus(t *testing.T) {
	focused := Box(true)
	blurred := Box(false)

	require.Equal(t, lipgloss.RoundedBorder(), focused.GetBorderStyle())
	require.Equal(t, lipgloss.RoundedBorder(), blurred.GetBorderStyle())
	require.Equal(t, BorderFocusColor, focused.GetBorderTopForeground())
	require.Equal(t, BorderDefaultColor, blurred.GetBorderTopForeground())
}

func TestBox_DoesNotMutateBase(t *testing.T) {
	_ = Box(true)
	require.Equal(t, BorderDefaultColor, Box(false).GetBorderLeftForeground())
	require.Equal(t, BorderFocusColor, Box(true).GetBorderLeftForeground())
}

func TestCursorStyle_Reverses(t *testing.T) {
	require.True(t, CursorStyle.GetReverse())
	require.True(t, TitleStyle.GetBold())
}
