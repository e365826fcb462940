// Package textbox implements a fixed-size terminal text-editing box with
// Emacs-style key bindings.
//
// A Textbox owns a grid of cells and a cursor. Keys are dispatched through
// a command table; unbound printable keys are inserted as text and any
// other unbound key is ignored. Editing ends when a command returns Stop,
// after which Gather reconstructs the text.
package textbox

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidSize is returned by New for non-positive dimensions.
var ErrInvalidSize = errors.New("textbox: rows and cols must be positive")

// Display repaints a textbox. The textbox never draws itself.
type Display interface {
	Refresh(t *Textbox)
}

// DisplayFunc adapts a function to Display.
type DisplayFunc func(t *Textbox)

// Refresh calls f(t).
func (f DisplayFunc) Refresh(t *Textbox) { f(t) }

// Config defines textbox construction options.
type Config struct {
	Rows int
	Cols int

	// InsertMode shifts existing text right on input instead of overwriting.
	InsertMode bool

	// StripSpaces treats trailing blanks as outside the line, both for
	// cursor placement and for Gather.
	StripSpaces bool

	// Display is refreshed after every key in Edit and by view.refresh.
	// Optional.
	Display Display

	// Validate, if set, rewrites every key read by Edit before dispatch.
	// Returning 0 drops the key.
	Validate func(Key) Key
}

// Textbox is the editing widget. It is not safe for concurrent use.
type Textbox struct {
	grid        *Grid
	insertMode  bool
	stripSpaces bool

	registry *Registry
	byID     map[string]Command
	lastCmd  Key

	display  Display
	validate func(Key) Key

	// painted is set by refresh; Edit uses it to skip a second repaint.
	painted bool
}

// New builds a textbox with the default bindings installed.
func New(cfg Config) (*Textbox, error) {
	if cfg.Rows <= 0 || cfg.Cols <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidSize, cfg.Rows, cfg.Cols)
	}

	t := &Textbox{
		grid:        NewGrid(cfg.Rows, cfg.Cols),
		insertMode:  cfg.InsertMode,
		stripSpaces: cfg.StripSpaces,
		registry:    NewRegistry(),
		display:     cfg.Display,
		validate:    cfg.Validate,
	}
	t.byID = map[string]Command{
		IDMoveLeft:      t.MoveLeft,
		IDMoveRight:     t.MoveRight,
		IDMoveUp:        t.MoveUp,
		IDMoveDown:      t.MoveDown,
		IDMoveLineStart: t.MoveLineStart,
		IDMoveLineEnd:   t.MoveLineEnd,
		IDDeleteLeft:    t.DeleteLeft,
		IDDeleteChar:    t.DeleteChar,
		IDDeleteToEOL:   t.DeleteToLineEnd,
		IDNewline:       t.Newline,
		IDInsertLine:    t.InsertLine,
		IDRefresh:       t.Refresh,
		IDEnd:           t.End,
	}
	for _, b := range DefaultBindings {
		t.registry.Register(b.Key, t.byID[b.ID])
	}
	return t, nil
}

// Register binds key to cmd, replacing any existing binding. Call before
// editing starts.
func (t *Textbox) Register(key Key, cmd Command) {
	t.registry.Register(key, cmd)
}

// Bind binds key to a built-in command by ID.
func (t *Textbox) Bind(key Key, id string) error {
	cmd, ok := t.CommandByID(id)
	if !ok {
		return fmt.Errorf("unknown command %q", id)
	}
	t.registry.Register(key, cmd)
	return nil
}

// CommandByID returns the built-in command with the given ID.
func (t *Textbox) CommandByID(id string) (Command, bool) {
	cmd, ok := t.byID[id]
	return cmd, ok
}

// Registry exposes the command table, e.g. for listing bindings.
func (t *Textbox) Registry() *Registry {
	return t.registry
}

// HandleKey dispatches a single key and reports whether editing continues.
// Unbound keys that are not printable are ignored.
func (t *Textbox) HandleKey(key Key) Signal {
	row, col := t.grid.Cursor()
	t.lastCmd = key

	if cmd, ok := t.registry.Get(key); ok {
		return cmd(row, col)
	}

	if key.IsPrintable() && (row < t.grid.MaxRow() || col < t.grid.MaxCol()) {
		t.insertPrintable(rune(key))
	}
	return Continue
}

// LastCommand returns the most recently dispatched key.
func (t *Textbox) LastCommand() Key {
	return t.lastCmd
}

// Gather returns the text in the box, rows joined by "\n". With
// StripSpaces, trailing blanks are dropped from every row and trailing
// whitespace from the result.
func (t *Textbox) Gather() string {
	lines := t.grid.Lines()
	if !t.stripSpaces {
		return strings.Join(lines, "\n")
	}
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, string(blank))
	}
	return strings.TrimRightFunc(strings.Join(lines, "\n"), unicode.IsSpace)
}

// SetText replaces the content with s, one row per line, truncating what
// does not fit, and homes the cursor.
func (t *Textbox) SetText(s string) {
	t.grid.Reset()
	if s == "" {
		return
	}
	for row, line := range strings.Split(s, "\n") {
		if row >= t.grid.Rows() {
			break
		}
		col := 0
		for _, r := range line {
			if col >= t.grid.Cols() {
				break
			}
			if !Key(r).IsPrintable() {
				r = blank
			}
			t.grid.Set(row, col, r)
			col++
		}
	}
}

// Grid returns the cell grid for rendering. Callers must not mutate it.
func (t *Textbox) Grid() *Grid {
	return t.grid
}

// Cursor returns the cursor position.
func (t *Textbox) Cursor() (row, col int) {
	return t.grid.Cursor()
}

// InsertMode reports whether input shifts text instead of overwriting.
func (t *Textbox) InsertMode() bool {
	return t.insertMode
}

// StripSpaces reports whether trailing blanks are stripped.
func (t *Textbox) StripSpaces() bool {
	return t.stripSpaces
}

func (t *Textbox) refresh() {
	t.painted = true
	if t.display != nil {
		t.display.Refresh(t)
	}
}
