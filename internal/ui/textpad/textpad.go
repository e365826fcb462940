// Package textpad hosts a textbox inside a Bubble Tea program.
package textpad

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/hostpad/internal/keys"
	"github.com/zjrosen/hostpad/internal/log"
	"github.com/zjrosen/hostpad/internal/textbox"
	"github.com/zjrosen/hostpad/internal/ui/styles"
)

// Outcome tells how a session ended.
type Outcome int

const (
	// Editing is the state before any exit key.
	Editing Outcome = iota
	// Done means a textbox command ended the session.
	Done
	// Cancelled means the cancel key was pressed.
	Cancelled
	// Aborted means the abort key was pressed.
	Aborted
)

func (o Outcome) String() string {
	switch o {
	case Editing:
		return "editing"
	case Done:
		return "done"
	case Cancelled:
		return "cancelled"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Config defines textpad construction options.
type Config struct {
	Textbox textbox.Config

	// Title is drawn above the box. Optional.
	Title string

	// Initial is loaded into the box before editing.
	Initial string

	// Setup runs on the textbox after construction, e.g. to apply
	// configured bindings.
	Setup func(*textbox.Textbox) error

	// Help drives the help line; defaults to keys.Textpad.
	Help help.KeyMap

	// Cancel defaults to keys.Textpad.Cancel.
	Cancel key.Binding

	// Abort is an optional second exit, e.g. to stop a sequence of edits.
	Abort key.Binding
}

// screen is shared by every copy of a Model so the textbox display hook
// can request a full repaint.
type screen struct {
	clear bool
}

// Model is the Bubble Tea model wrapping a textbox.
type Model struct {
	tb       *textbox.Textbox
	title    string
	help     help.Model
	keyMap   help.KeyMap
	cancel   key.Binding
	abort    key.Binding
	screen   *screen
	outcome  Outcome
	width    int
	keyCount int
}

// New builds the model. Only textbox construction and Setup can fail.
func New(cfg Config) (Model, error) {
	scr := &screen{}
	tbCfg := cfg.Textbox
	tbCfg.Display = textbox.DisplayFunc(func(*textbox.Textbox) { scr.clear = true })

	tb, err := textbox.New(tbCfg)
	if err != nil {
		return Model{}, err
	}
	if cfg.Setup != nil {
		if err := cfg.Setup(tb); err != nil {
			return Model{}, err
		}
	}
	tb.SetText(cfg.Initial)

	m := Model{
		tb:     tb,
		title:  cfg.Title,
		help:   help.New(),
		keyMap: cfg.Help,
		cancel: cfg.Cancel,
		abort:  cfg.Abort,
		screen: scr,
	}
	if m.keyMap == nil {
		m.keyMap = keys.Textpad
	}
	if len(m.cancel.Keys()) == 0 {
		m.cancel = keys.Textpad.Cancel
	}
	return m, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.outcome != Editing {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.cancel):
			return m.finish(Cancelled)
		case len(m.abort.Keys()) > 0 && key.Matches(msg, m.abort):
			return m.finish(Aborted)
		}

		for _, k := range translateKey(msg) {
			m.keyCount++
			if m.tb.HandleKey(k) == textbox.Stop {
				return m.finish(Done)
			}
		}
		if m.screen.clear {
			m.screen.clear = false
			return m, tea.ClearScreen
		}
	}
	return m, nil
}

func (m Model) finish(o Outcome) (tea.Model, tea.Cmd) {
	m.outcome = o
	log.Debug(log.CatUI, "textpad finished", "outcome", o, "keys", m.keyCount)
	return m, tea.Quit
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	if m.title != "" {
		b.WriteString(m.fit(styles.TitleStyle.Render(m.title)))
		b.WriteByte('\n')
	}
	b.WriteString(styles.Box(m.outcome == Editing).Render(m.renderGrid()))
	if m.outcome == Editing {
		b.WriteByte('\n')
		b.WriteString(m.fit(m.help.View(m.keyMap)))
	}
	b.WriteByte('\n')
	return b.String()
}

// renderGrid draws every cell; the cursor cell is reversed while editing.
func (m Model) renderGrid() string {
	g := m.tb.Grid()
	cr, cc := g.Cursor()
	lines := make([]string, g.Rows())
	for row := range lines {
		var line strings.Builder
		for col := 0; col < g.Cols(); col++ {
			cell := string(g.At(row, col))
			if m.outcome == Editing && row == cr && col == cc {
				cell = styles.CursorStyle.Render(cell)
			}
			line.WriteString(cell)
		}
		lines[row] = line.String()
	}
	return strings.Join(lines, "\n")
}

// fit truncates s to the window width once it is known.
func (m Model) fit(s string) string {
	if m.width <= 0 {
		return s
	}
	return ansi.Truncate(s, m.width, "…")
}

// Value returns the gathered text.
func (m Model) Value() string {
	return m.tb.Gather()
}

// Outcome reports how the session ended.
func (m Model) Outcome() Outcome {
	return m.outcome
}

// Cancelled reports whether the user cancelled.
func (m Model) Cancelled() bool {
	return m.outcome == Cancelled
}

// Textbox exposes the underlying widget.
func (m Model) Textbox() *textbox.Textbox {
	return m.tb
}

// KeyCount is the number of textbox keys handled.
func (m Model) KeyCount() int {
	return m.keyCount
}
