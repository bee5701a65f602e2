package console

import (
	"bytes"
	"io"
	"sync"
)

// mockTerminal implements terminalInterface for testing.
//
// Input is a pre-configured rune sequence; once it is exhausted ReadRune
// returns io.EOF. Everything written to Output is kept for inspection.
type mockTerminal struct {
	mu           sync.Mutex
	input        []rune
	inputPos     int
	rawMode      bool
	closed       bool
	terminalSize [2]int
	output       bytes.Buffer
}

func newMockTerminal(input string) *mockTerminal {
	return &mockTerminal{
		input:        []rune(input),
		terminalSize: [2]int{defaultWidth, defaultHeight},
	}
}

func (m *mockTerminal) SetRaw() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rawMode = true
	return nil
}

func (m *mockTerminal) Restore() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rawMode = false
	return nil
}

func (m *mockTerminal) isRaw() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rawMode
}

func (m *mockTerminal) Size() (width, height int, err error) {
	return m.terminalSize[0], m.terminalSize[1], nil
}

func (m *mockTerminal) ReadRune() (rune, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inputPos >= len(m.input) {
		return 0, 0, io.EOF
	}
	r := m.input[m.inputPos]
	m.inputPos++
	return r, 1, nil
}

func (m *mockTerminal) Output() io.Writer {
	return writerFunc(func(p []byte) (int, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		return m.output.Write(p)
	})
}

func (m *mockTerminal) written() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.output.String()
}

func (m *mockTerminal) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) {
	return f(p)
}
