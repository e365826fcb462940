package textbox

// contentEnd returns the column just past the last non-blank cell of row,
// capped at the last column. A blank row yields 0.
func (g *Grid) contentEnd(row int) int {
	for col := g.MaxCol(); col >= 0; col-- {
		if g.At(row, col) != blank {
			return min(col+1, g.MaxCol())
		}
	}
	return 0
}

// lineEnd is where "end of line" lands on row. With trailing spaces
// stripped it is the end of the row's content, otherwise the last column.
func (t *Textbox) lineEnd(row int) int {
	if t.stripSpaces {
		return t.grid.contentEnd(row)
	}
	return t.grid.MaxCol()
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
