package console

import (
	"strings"
	"unicode"
)

// Key identifies a key on an InputEvent.
type Key int

// Keys recognized by the input capture.
const (
	KeyNone      Key = iota
	KeyRune          // Printable character, or a letter when Ctrl is held
	KeyEnter         // Submit
	KeyBackspace     // Delete the last character
	KeyUp            // History previous
	KeyDown          // History next
	KeyLeft          // Caret movement (suppressed)
	KeyRight         // Caret movement (suppressed)
	KeyEscape        // Lone escape
)

// InputEvent is one keystroke delivered to a Session.
type InputEvent struct {
	Key  Key
	Rune rune // Set when Key is KeyRune
	Ctrl bool // Ctrl modifier held
}

// RuneEvent returns the event for typing r.
func RuneEvent(r rune) InputEvent {
	return InputEvent{Key: KeyRune, Rune: r}
}

// CtrlEvent returns the event for Ctrl+letter.
func CtrlEvent(letter rune) InputEvent {
	return InputEvent{Key: KeyRune, Rune: unicode.ToLower(letter), Ctrl: true}
}

// KeyEvent returns the event for a non-character key.
func KeyEvent(k Key) InputEvent {
	return InputEvent{Key: k}
}

// TypeEvents returns one RuneEvent per character of text.
func TypeEvents(text string) []InputEvent {
	events := make([]InputEvent, 0, len(text))
	for _, r := range text {
		events = append(events, RuneEvent(r))
	}
	return events
}

// Action represents the action performed for an input event.
type Action int

// Action constants define what a key does while a prompt is open
const (
	ActionNone Action = iota
	ActionInsert
	ActionSubmit
	ActionInterrupt
	ActionHistoryPrev
	ActionHistoryNext
	ActionCaretLeft
	ActionCaretRight
	ActionDeleteBack
	ActionClearLine
)

var actionNames = map[Action]string{
	ActionNone:        "none",
	ActionInsert:      "insert",
	ActionSubmit:      "submit",
	ActionInterrupt:   "interrupt",
	ActionHistoryPrev: "history-prev",
	ActionHistoryNext: "history-next",
	ActionCaretLeft:   "caret-left",
	ActionCaretRight:  "caret-right",
	ActionDeleteBack:  "delete-back",
	ActionClearLine:   "clear-line",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// ParseAction returns the Action with the given name.
func ParseAction(name string) (Action, bool) {
	for a, n := range actionNames {
		if n == strings.ToLower(strings.TrimSpace(name)) {
			return a, true
		}
	}
	return ActionNone, false
}

// Suppresses reports whether the action replaces the default behavior of the
// key. Only plain insertion lets the key through.
func (a Action) Suppresses() bool {
	return a != ActionNone && a != ActionInsert
}

// KeyMap holds the key binding configuration
type KeyMap struct {
	bindings map[InputEvent]Action
}

// NewDefaultKeyMap creates the default key bindings.
//
// Default key bindings:
//   - Enter: Submit input
//   - Ctrl+C: Interrupt the prompt
//   - Up/Down: Navigate history
//   - Left/Right: Suppressed, the caret always sits at the end of the line
//   - Backspace: Delete character backwards
//   - Ctrl+U: Clear the line
//
// Example:
//
//	keyMap := console.NewDefaultKeyMap()
//	// Ctrl+P and Ctrl+N walk history like Up and Down
//	keyMap.Bind(console.CtrlEvent('p'), console.ActionHistoryPrev)
//	keyMap.Bind(console.CtrlEvent('n'), console.ActionHistoryNext)
func NewDefaultKeyMap() *KeyMap {
	km := &KeyMap{bindings: make(map[InputEvent]Action)}

	km.bindings[KeyEvent(KeyEnter)] = ActionSubmit
	km.bindings[CtrlEvent('c')] = ActionInterrupt
	km.bindings[KeyEvent(KeyUp)] = ActionHistoryPrev
	km.bindings[KeyEvent(KeyDown)] = ActionHistoryNext
	km.bindings[KeyEvent(KeyLeft)] = ActionCaretLeft
	km.bindings[KeyEvent(KeyRight)] = ActionCaretRight
	km.bindings[KeyEvent(KeyBackspace)] = ActionDeleteBack
	km.bindings[CtrlEvent('u')] = ActionClearLine

	return km
}

// Bind adds or updates a key binding.
func (km *KeyMap) Bind(ev InputEvent, action Action) {
	km.bindings[normalizeEvent(ev)] = action
}

// Action returns the action bound to ev. Unbound printable runes insert;
// anything else unbound does nothing.
func (km *KeyMap) Action(ev InputEvent) Action {
	ev = normalizeEvent(ev)
	if km != nil && km.bindings != nil {
		if action, exists := km.bindings[ev]; exists {
			return action
		}
	}
	if ev.Key == KeyRune && !ev.Ctrl && unicode.IsPrint(ev.Rune) {
		return ActionInsert
	}
	return ActionNone
}

// normalizeEvent folds Ctrl+letter to lower case so Ctrl+C and Ctrl+Shift+C
// share a binding.
func normalizeEvent(ev InputEvent) InputEvent {
	if ev.Key != KeyRune {
		ev.Rune = 0
	}
	if ev.Ctrl {
		ev.Rune = unicode.ToLower(ev.Rune)
	}
	return ev
}

// escapeSequences maps the bytes following ESC to keys.
var escapeSequences = map[string]Key{
	"[A": KeyUp,
	"[B": KeyDown,
	"[C": KeyRight,
	"[D": KeyLeft,
	"OA": KeyUp,
	"OB": KeyDown,
	"OC": KeyRight,
	"OD": KeyLeft,
}

// decoder turns raw terminal runes into InputEvents.
type decoder struct {
	read func() (rune, error)

	// One rune of lookahead, pushed back when ESC turns out to stand alone.
	peeked  rune
	hasPeek bool
}

func (d *decoder) readRune() (rune, error) {
	if d.hasPeek {
		d.hasPeek = false
		return d.peeked, nil
	}
	return d.read()
}

func (d *decoder) unread(r rune) {
	d.peeked = r
	d.hasPeek = true
}

// next reads runes until one complete event is available. Escape sequences
// that are not recognized decode to KeyNone.
func (d *decoder) next() (InputEvent, error) {
	r, err := d.readRune()
	if err != nil {
		return InputEvent{}, err
	}
	switch {
	case r == '\r' || r == '\n':
		return KeyEvent(KeyEnter), nil
	case r == '\x7f' || r == '\b':
		return KeyEvent(KeyBackspace), nil
	case r == '\x1b':
		return d.escape()
	case r >= 1 && r <= 26:
		return CtrlEvent('a' + r - 1), nil
	default:
		return RuneEvent(r), nil
	}
}

func (d *decoder) escape() (InputEvent, error) {
	seq := make([]rune, 0, 8)
	for range 8 { // Limit to prevent infinite loop
		r, err := d.readRune()
		if err != nil {
			return InputEvent{}, err
		}
		seq = append(seq, r)
		s := string(seq)
		if k, ok := escapeSequences[s]; ok {
			return KeyEvent(k), nil
		}
		if len(seq) == 1 && r != '[' && r != 'O' {
			d.unread(r)
			return KeyEvent(KeyEscape), nil
		}
		// CSI sequences end with a byte in the range @ to ~.
		if len(seq) >= 2 && r >= '@' && r <= '~' {
			return InputEvent{}, nil
		}
	}
	return InputEvent{}, nil
}
