package textbox

import (
	"bufio"
	"fmt"
	"io"

	"github.com/zjrosen/hostpad/internal/log"
)

// KeyReader supplies keys to Edit, blocking until one is available.
type KeyReader interface {
	ReadKey() (Key, error)
}

// KeyReaderFunc adapts a function to KeyReader.
type KeyReaderFunc func() (Key, error)

// ReadKey calls f.
func (f KeyReaderFunc) ReadKey() (Key, error) { return f() }

// Keys returns a reader that yields keys in order, then io.EOF.
func Keys(keys ...Key) KeyReader {
	i := 0
	return KeyReaderFunc(func() (Key, error) {
		if i >= len(keys) {
			return 0, io.EOF
		}
		k := keys[i]
		i++
		return k, nil
	})
}

// KeysFromString is Keys over the runes of s.
func KeysFromString(s string) KeyReader {
	keys := make([]Key, 0, len(s))
	for _, r := range s {
		keys = append(keys, Key(r))
	}
	return Keys(keys...)
}

// NewRuneReader decodes UTF-8 from r into keys. Carriage return becomes
// KeyEnter and DEL becomes KeyBackspace, as a terminal in raw mode sends
// them.
func NewRuneReader(r io.Reader) KeyReader {
	br := bufio.NewReader(r)
	return KeyReaderFunc(func() (Key, error) {
		ch, _, err := br.ReadRune()
		if err != nil {
			return 0, err
		}
		switch ch {
		case '\r':
			return KeyEnter, nil
		case 0x7f:
			return KeyBackspace, nil
		}
		return Key(ch), nil
	})
}

// Edit reads and dispatches keys until a command returns Stop, then
// returns the gathered text. A read error ends editing early; the text
// gathered so far is returned alongside it.
func (t *Textbox) Edit(r KeyReader) (string, error) {
	log.Debug(log.CatEdit, "Edit started",
		"rows", t.grid.Rows(), "cols", t.grid.Cols(), "insert", t.insertMode)

	count := 0
	for {
		key, err := r.ReadKey()
		if err != nil {
			log.Debug(log.CatEdit, "Edit input ended", "keys", count, "error", err)
			return t.Gather(), fmt.Errorf("reading key: %w", err)
		}
		if t.validate != nil {
			if key = t.validate(key); key == 0 {
				continue
			}
		}
		count++
		t.painted = false
		if t.HandleKey(key) == Stop {
			break
		}
		if !t.painted {
			t.refresh()
		}
	}

	log.Debug(log.CatEdit, "Edit finished", "keys", count, "last", t.lastCmd)
	return t.Gather(), nil
}
