package textbox

import (
	"cmp"
	"slices"
)

// Signal tells the dispatch loop whether to keep reading keys.
type Signal int

const (
	// Stop ends editing.
	Stop Signal = iota
	// Continue keeps the loop running.
	Continue
)

// Command is a bound editing operation. It receives the cursor position
// at the time the key was dispatched. Custom commands that need the key
// itself can read Textbox.LastCommand.
type Command func(row, col int) Signal

// Registry maps keys to commands. The last registration for a key wins.
type Registry struct {
	commands map[Key]Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[Key]Command)}
}

// Register binds cmd to key, replacing any previous binding.
func (r *Registry) Register(key Key, cmd Command) {
	r.commands[key] = cmd
}

// Get returns the command bound to key.
func (r *Registry) Get(key Key) (Command, bool) {
	cmd, ok := r.commands[key]
	return cmd, ok
}

// Keys returns the bound keys in ascending order.
func (r *Registry) Keys() []Key {
	keys := make([]Key, 0, len(r.commands))
	for k := range r.commands {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Command IDs, hierarchical like "move.left".
const (
	IDMoveLeft      = "move.left"
	IDMoveRight     = "move.right"
	IDMoveUp        = "move.up"
	IDMoveDown      = "move.down"
	IDMoveLineStart = "move.line_start"
	IDMoveLineEnd   = "move.line_end"
	IDDeleteLeft    = "delete.left"
	IDDeleteChar    = "delete.char"
	IDDeleteToEOL   = "delete.to_line_end"
	IDNewline       = "edit.newline"
	IDInsertLine    = "edit.insert_line"
	IDEnd           = "edit.end"
	IDRefresh       = "view.refresh"
)

// Binding pairs a key with a command ID.
type Binding struct {
	Key Key
	ID  string
}

// DefaultBindings are installed by New. Every command has a navigation
// key (where one exists) and its Emacs chord.
var DefaultBindings = []Binding{
	{KeyBackspace, IDDeleteLeft},
	{KeyDown, IDMoveDown},
	{KeyLeft, IDMoveLeft},
	{KeyRight, IDMoveRight},
	{KeyUp, IDMoveUp},
	{KeyDelete, IDDeleteChar},
	{KeyHome, IDMoveLineStart},
	{KeyEnd, IDMoveLineEnd},
	{KeyEnter, IDNewline},
	{CtrlF, IDMoveRight},
	{CtrlG, IDEnd},
	{CtrlH, IDDeleteLeft},
	{CtrlP, IDMoveUp},
	{CtrlE, IDMoveLineEnd},
	{CtrlD, IDDeleteChar},
	{CtrlL, IDRefresh},
	{CtrlJ, IDNewline},
	{CtrlA, IDMoveLineStart},
	{CtrlB, IDMoveLeft},
	{CtrlK, IDDeleteToEOL},
	{CtrlN, IDMoveDown},
	{CtrlO, IDInsertLine},
}

var descriptions = map[string]string{
	IDMoveLeft:      "Cursor left, wrapping to the end of the previous line",
	IDMoveRight:     "Cursor right, wrapping to the start of the next line",
	IDMoveUp:        "Cursor up, clamped to the end of the target line",
	IDMoveDown:      "Cursor down, clamped to the end of the target line",
	IDMoveLineStart: "Go to the start of the line",
	IDMoveLineEnd:   "Go to the end of the line",
	IDDeleteLeft:    "Delete the character left of the cursor",
	IDDeleteChar:    "Delete the character under the cursor",
	IDDeleteToEOL:   "Clear to end of line, or remove the line if blank",
	IDNewline:       "Next line; finishes editing in a one-line box",
	IDInsertLine:    "Insert a blank line at the cursor",
	IDRefresh:       "Redraw the box",
	IDEnd:           "Finish editing",
}

// Description returns the help text for a command ID.
func Description(id string) string {
	return descriptions[id]
}

// CommandIDs lists every built-in command ID, sorted.
func CommandIDs() []string {
	ids := make([]string, 0, len(descriptions))
	for id := range descriptions {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, cmp.Compare[string])
	return ids
}
