package console

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"unicode/utf8"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-tty"
	"golang.org/x/term"
)

// Safe fallback size when the terminal cannot report one.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// terminalInterface abstracts terminal operations for testability and cross-platform compatibility.
//
// Implementations:
//   - realTerminal: Uses go-tty for actual terminal interaction
//   - mockTerminal: Provides deterministic behavior for testing
type terminalInterface interface {
	SetRaw() error                        // Enter raw mode for immediate key processing
	Restore() error                       // Restore original terminal settings
	Size() (width, height int, err error) // Get terminal dimensions with safe fallbacks
	ReadRune() (rune, int, error)         // Read a single Unicode character from input
	Output() io.Writer                    // Writer that understands ANSI sequences
	Close() error                         // Clean up resources and prevent fd leaks
}

// realTerminal implements terminalInterface using go-tty for input, go-colorable
// for Windows ANSI output and golang.org/x/term for raw mode state.
type realTerminal struct {
	tty           *tty.TTY    // TTY handle from go-tty for cross-platform terminal operations
	output        io.Writer   // Color-capable output writer (colorable on Windows, stdout elsewhere)
	closed        bool        // Track if terminal is already closed to prevent double-close panic on Windows
	stdinFd       int         // File descriptor for stdin for raw mode management
	originalState *term.State // Original terminal state to restore on exit
}

func newRealTerminal() (*realTerminal, error) {
	t, err := tty.Open()
	if err != nil {
		return nil, err
	}

	var output io.Writer = os.Stdout
	if runtime.GOOS == "windows" {
		output = colorable.NewColorableStdout()
	}

	return &realTerminal{
		tty:     t,
		output:  output,
		stdinFd: int(os.Stdin.Fd()),
	}, nil
}

// SetRaw switches stdin to raw mode, remembering the cooked state for
// Restore. It does nothing when stdin is not a terminal.
func (t *realTerminal) SetRaw() error {
	if !term.IsTerminal(t.stdinFd) {
		return nil
	}
	state, err := term.MakeRaw(t.stdinFd)
	if err != nil {
		return fmt.Errorf("make raw: %w", err)
	}
	t.originalState = state
	return nil
}

// Restore undoes SetRaw.
func (t *realTerminal) Restore() error {
	state := t.originalState
	if state == nil {
		return nil
	}
	t.originalState = nil
	return term.Restore(t.stdinFd, state)
}

// Size reports the terminal size, falling back to 80x24.
func (t *realTerminal) Size() (width, height int, err error) {
	w, h, err := t.tty.Size()
	if err != nil || w <= 0 || h <= 0 {
		return defaultWidth, defaultHeight, err
	}
	return w, h, nil
}

func (t *realTerminal) ReadRune() (rune, int, error) {
	r, err := t.tty.ReadRune()
	if err != nil {
		return 0, 0, err
	}
	return r, utf8.RuneLen(r), nil
}

func (t *realTerminal) Output() io.Writer {
	return t.output
}

// Close releases the tty. Closing twice panics on Windows, so later calls
// are no-ops.
func (t *realTerminal) Close() error {
	if t.closed || t.tty == nil {
		return nil
	}
	t.closed = true
	return t.tty.Close()
}
