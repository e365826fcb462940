package textbox

import "strings"

// blank is the empty cell value.
const blank = ' '

// Grid is a fixed rows x cols buffer of cells with a cursor.
// Dimensions never change after construction.
type Grid struct {
	rows, cols int
	cells      [][]rune
	row, col   int
}

// NewGrid returns a blank grid with the cursor at (0,0).
// Callers validate dimensions; see New.
func NewGrid(rows, cols int) *Grid {
	cells := make([][]rune, rows)
	for i := range cells {
		cells[i] = blankLine(cols)
	}
	return &Grid{rows: rows, cols: cols, cells: cells}
}

func blankLine(cols int) []rune {
	line := make([]rune, cols)
	for i := range line {
		line[i] = blank
	}
	return line
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// MaxRow is the index of the last row.
func (g *Grid) MaxRow() int { return g.rows - 1 }

// MaxCol is the index of the last column.
func (g *Grid) MaxCol() int { return g.cols - 1 }

// Cursor returns the cursor position.
func (g *Grid) Cursor() (row, col int) {
	return g.row, g.col
}

// Move places the cursor, clamping to the grid.
func (g *Grid) Move(row, col int) {
	g.row = clamp(row, 0, g.MaxRow())
	g.col = clamp(col, 0, g.MaxCol())
}

// At returns the rune at (row, col), or blank when out of range.
func (g *Grid) At(row, col int) rune {
	if !g.inBounds(row, col) {
		return blank
	}
	return g.cells[row][col]
}

// Set writes r at (row, col). Out-of-range writes are dropped.
func (g *Grid) Set(row, col int, r rune) {
	if g.inBounds(row, col) {
		g.cells[row][col] = r
	}
}

// DeleteChar removes the cell at (row, col), shifting the rest of the
// row left and blanking the last column.
func (g *Grid) DeleteChar(row, col int) {
	if !g.inBounds(row, col) {
		return
	}
	line := g.cells[row]
	copy(line[col:], line[col+1:])
	line[g.MaxCol()] = blank
}

// ClearToEOL blanks (row, col) through the end of the row.
func (g *Grid) ClearToEOL(row, col int) {
	if !g.inBounds(row, col) {
		return
	}
	line := g.cells[row]
	for i := col; i < len(line); i++ {
		line[i] = blank
	}
}

// InsertLine inserts a blank row at row; the last row falls off.
func (g *Grid) InsertLine(row int) {
	if row < 0 || row >= g.rows {
		return
	}
	copy(g.cells[row+1:], g.cells[row:g.MaxRow()])
	g.cells[row] = blankLine(g.cols)
}

// DeleteLine removes row; following rows move up and a blank row is
// appended at the bottom.
func (g *Grid) DeleteLine(row int) {
	if row < 0 || row >= g.rows {
		return
	}
	copy(g.cells[row:], g.cells[row+1:])
	g.cells[g.MaxRow()] = blankLine(g.cols)
}

// Line returns row as a string of exactly Cols runes.
func (g *Grid) Line(row int) string {
	if row < 0 || row >= g.rows {
		return ""
	}
	return string(g.cells[row])
}

// Lines returns every row, see Line.
func (g *Grid) Lines() []string {
	lines := make([]string, g.rows)
	for i := range lines {
		lines[i] = g.Line(i)
	}
	return lines
}

// Reset blanks the grid and homes the cursor.
func (g *Grid) Reset() {
	for i := range g.cells {
		g.cells[i] = blankLine(g.cols)
	}
	g.row, g.col = 0, 0
}

// String renders the grid one row per line, mostly for test failures.
func (g *Grid) String() string {
	return strings.Join(g.Lines(), "\n")
}

func (g *Grid) inBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}
