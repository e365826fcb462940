package textbox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func gridWith(rows, cols int, lines ...string) *Grid {
	g := NewGrid(rows, cols)
	for r, line := range lines {
		for c, ch := range []rune(line) {
			g.Set(r, c, ch)
		}
	}
	return g
}

func TestNewGrid_Blank(t *testing.T) {
	g := NewGrid(2, 3)
	require.Equal(t, []string{"   ", "   "}, g.Lines())
	row, col := g.Cursor()
	require.Equal(t, 0, row)
	require.Equal(t, 0, col)
	require.Equal(t, 1, g.MaxRow())
	require.Equal(t, 2, g.MaxCol())
}

func TestGrid_MoveClamps(t *testing.T) {
	g := NewGrid(2, 3)
	g.Move(5, 9)
	row, col := g.Cursor()
	require.Equal(t, 1, row)
	require.Equal(t, 2, col)

	g.Move(-1, -4)
	row, col = g.Cursor()
	require.Equal(t, 0, row)
	require.Equal(t, 0, col)
}

func TestGrid_OutOfRangeAccess(t *testing.T) {
	g := NewGrid(1, 2)
	g.Set(3, 3, 'x')
	require.Equal(t, blank, g.At(3, 3))
	require.Equal(t, "  ", g.Line(0))
	require.Equal(t, "", g.Line(7))
}

func TestGrid_DeleteChar(t *testing.T) {
	g := gridWith(1, 5, "abcde")
	g.DeleteChar(0, 1)
	require.Equal(t, "acde ", g.Line(0))

	g.DeleteChar(0, 4)
	require.Equal(t, "acde ", g.Line(0), "deleting a blank last cell changes nothing")
}

func TestGrid_ClearToEOL(t *testing.T) {
	g := gridWith(2, 4, "abcd", "efgh")
	g.ClearToEOL(0, 2)
	require.Equal(t, []string{"ab  ", "efgh"}, g.Lines())
}

func TestGrid_InsertLine(t *testing.T) {
	g := gridWith(3, 2, "aa", "bb", "cc")
	g.InsertLine(1)
	require.Equal(t, []string{"aa", "  ", "bb"}, g.Lines())

	// Rows must not alias after the shift.
	g.Set(2, 0, 'x')
	require.Equal(t, []string{"aa", "  ", "xb"}, g.Lines())
}

func TestGrid_DeleteLine(t *testing.T) {
	g := gridWith(3, 2, "aa", "bb", "cc")
	g.DeleteLine(0)
	require.Equal(t, []string{"bb", "cc", "  "}, g.Lines())

	g.Set(1, 1, 'x')
	require.Equal(t, []string{"bb", "cx", "  "}, g.Lines())
}

func TestGrid_Reset(t *testing.T) {
	g := gridWith(2, 2, "ab", "cd")
	g.Move(1, 1)
	g.Reset()
	require.Equal(t, []string{"  ", "  "}, g.Lines())
	row, col := g.Cursor()
	require.Zero(t, row)
	require.Zero(t, col)
}

func TestGrid_Next(t *testing.T) {
	g := NewGrid(2, 3)
	r, c := g.next(0, 1)
	require.Equal(t, [2]int{0, 2}, [2]int{r, c})
	r, c = g.next(0, 2)
	require.Equal(t, [2]int{1, 0}, [2]int{r, c}, "wraps after last column")
	r, c = g.next(1, 2)
	require.Equal(t, [2]int{1, 2}, [2]int{r, c}, "bottom-right stays put")
}
