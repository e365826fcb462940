package textbox

// ============================================================================
// Motion Commands
// ============================================================================

// MoveLeft moves one cell left. At column 0 it wraps to the end of the
// previous line; (0,0) is a hard boundary.
func (t *Textbox) MoveLeft(row, col int) Signal {
	switch {
	case col > 0:
		t.grid.Move(row, col-1)
	case row > 0:
		t.grid.Move(row-1, t.lineEnd(row-1))
	}
	return Continue
}

// MoveRight moves one cell right. At the last column it wraps to the start
// of the next line; the bottom-right cell is a hard boundary.
func (t *Textbox) MoveRight(row, col int) Signal {
	switch {
	case col < t.grid.MaxCol():
		t.grid.Move(row, col+1)
	case row < t.grid.MaxRow():
		t.grid.Move(row+1, 0)
	}
	return Continue
}

// MoveUp moves to the previous row, clamping the column to the end of that
// row's content whether or not trailing spaces are stripped.
func (t *Textbox) MoveUp(row, col int) Signal {
	if row > 0 {
		t.grid.Move(row-1, min(col, t.grid.contentEnd(row-1)))
	}
	return Continue
}

// MoveDown moves to the next row, clamping the column like MoveUp.
func (t *Textbox) MoveDown(row, col int) Signal {
	if row < t.grid.MaxRow() {
		t.grid.Move(row+1, min(col, t.grid.contentEnd(row+1)))
	}
	return Continue
}

// MoveLineStart moves to column 0.
func (t *Textbox) MoveLineStart(row, _ int) Signal {
	t.grid.Move(row, 0)
	return Continue
}

// MoveLineEnd moves to the end of the current line.
func (t *Textbox) MoveLineEnd(row, _ int) Signal {
	t.grid.Move(row, t.lineEnd(row))
	return Continue
}

// ============================================================================
// Delete Commands
// ============================================================================

// DeleteLeft moves left and deletes the cell now under the cursor.
// Nothing happens at (0,0).
func (t *Textbox) DeleteLeft(row, col int) Signal {
	if row == 0 && col == 0 {
		return Continue
	}
	t.MoveLeft(row, col)
	t.grid.DeleteChar(t.grid.Cursor())
	return Continue
}

// DeleteChar deletes the cell under the cursor, pulling the rest of the
// row left.
func (t *Textbox) DeleteChar(row, col int) Signal {
	t.grid.DeleteChar(row, col)
	return Continue
}

// DeleteToLineEnd clears from the cursor to the end of the row. On an
// already blank row with the cursor at column 0 the row is removed and
// the rows below move up.
func (t *Textbox) DeleteToLineEnd(row, col int) Signal {
	if col == 0 && t.grid.contentEnd(row) == 0 {
		t.grid.DeleteLine(row)
	} else {
		t.grid.ClearToEOL(row, col)
	}
	t.grid.Move(row, col)
	return Continue
}

// ============================================================================
// Line and Session Commands
// ============================================================================

// Newline moves to the start of the next row. A single-row box treats it
// as "done".
func (t *Textbox) Newline(row, _ int) Signal {
	if t.grid.Rows() == 1 {
		return Stop
	}
	if row < t.grid.MaxRow() {
		t.grid.Move(row+1, 0)
	}
	return Continue
}

// InsertLine opens a blank row at the cursor; the bottom row is lost.
func (t *Textbox) InsertLine(row, _ int) Signal {
	t.grid.InsertLine(row)
	return Continue
}

// Refresh asks the display to repaint. Content and cursor are untouched.
func (t *Textbox) Refresh(_, _ int) Signal {
	t.refresh()
	return Continue
}

// End finishes editing.
func (t *Textbox) End(_, _ int) Signal {
	return Stop
}

// ============================================================================
// Text Input
// ============================================================================

// insertPrintable writes r at the cursor and advances it, wrapping to the
// next row after the last column. In insert mode the rest of the grid
// (row-major) shifts one cell right first; the cell before the bottom-right
// corner is pushed out. The bottom-right cell itself is never written.
func (t *Textbox) insertPrintable(r rune) {
	g := t.grid
	row, col := g.Cursor()
	ch := r
	moved := false
	for row < g.MaxRow() || col < g.MaxCol() {
		prev := g.At(row, col)
		g.Set(row, col, ch)
		row, col = g.next(row, col)
		if !moved {
			g.Move(row, col)
			moved = true
		}
		if !t.insertMode {
			break
		}
		ch = prev
	}
}

// next is the cell after (row, col) in row-major order, staying put at
// the bottom-right corner.
func (g *Grid) next(row, col int) (int, int) {
	switch {
	case col < g.MaxCol():
		return row, col + 1
	case row < g.MaxRow():
		return row + 1, 0
	default:
		return row, col
	}
}
