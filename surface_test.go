package console

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func texts(lines []OutputLine) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.Text)
	}
	return out
}

func TestSurfaceWriteLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{name: "single line", text: "hello", expected: []string{"hello"}},
		{name: "two lines", text: "a\nb", expected: []string{"a", "b"}},
		{name: "crlf", text: "a\r\nb", expected: []string{"a", "b"}},
		{name: "empty middle fragment", text: "a\n\nb", expected: []string{"a", nbsp, "b"}},
		{name: "only a break", text: "\n", expected: []string{nbsp, nbsp}},
		{name: "empty text", text: "", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newSurface(0, 10, true)
			s.writeLine(tt.text, StyleOutput)
			assert.Equal(t, tt.expected, texts(s.lines))
		})
	}
}

func TestSurfaceWrite(t *testing.T) {
	t.Parallel()

	t.Run("coalesces onto the last line", func(t *testing.T) {
		t.Parallel()

		s := newSurface(0, 10, true)
		s.write("hel", StyleOutput)
		s.write("lo", StyleOutput)

		want := newSurface(0, 10, true)
		want.writeLine("hello", StyleOutput)
		assert.Equal(t, want.lines, s.lines)
	})

	t.Run("later fragments start new lines", func(t *testing.T) {
		t.Parallel()

		s := newSurface(0, 10, true)
		s.writeLine("first", StyleOutput)
		s.write(" part\nsecond\n", StyleError)
		assert.Equal(t, []string{"first part", "second", nbsp}, texts(s.lines))
		assert.Equal(t, StyleOutput, s.lines[0].Style, "appending keeps the style of the line")
		assert.Equal(t, StyleError, s.lines[1].Style)
	})

	t.Run("empty text is a no-op", func(t *testing.T) {
		t.Parallel()

		s := newSurface(0, 10, true)
		s.writeLine("x", StyleOutput)
		s.write("", StyleOutput)
		assert.Equal(t, []string{"x"}, texts(s.lines))
	})
}

func TestSurfaceAutoscroll(t *testing.T) {
	t.Parallel()

	s := newSurface(0, 3, true)
	for _, line := range []string{"1", "2", "3", "4", "5"} {
		s.writeLine(line, StyleOutput)
	}
	assert.Equal(t, []string{"3", "4", "5"}, texts(s.frame().Lines))

	s.scrollBy(-10)
	assert.Equal(t, []string{"1", "2", "3"}, texts(s.frame().Lines))

	s.autoscroll = false
	s.writeLine("6", StyleOutput)
	assert.Equal(t, []string{"1", "2", "3"}, texts(s.frame().Lines), "viewport should stay put")

	s.scrollToBottom()
	assert.Equal(t, []string{"4", "5", "6"}, texts(s.frame().Lines))
}

func TestSurfaceInputLine(t *testing.T) {
	t.Parallel()

	s := newSurface(0, 3, true)
	s.writeLine("a\nb\nc", StyleOutput)
	s.showInput(">>>")
	s.scrollToBottom()
	for _, r := range "hi!" {
		s.insert(r)
	}
	assert.True(t, s.deleteBack())

	f := s.frame()
	assert.Equal(t, []string{"b", "c"}, texts(f.Lines))
	if assert.NotNil(t, f.Input) {
		assert.Equal(t, InputLine{Visible: true, Focused: true, Message: ">>>", Text: "hi"}, *f.Input)
	}

	assert.Equal(t, "hi", s.takeInput())
	assert.False(t, s.inputLine().Visible)
	assert.False(t, s.deleteBack(), "nothing left to delete")
	assert.Nil(t, s.frame().Input)
}

func TestSurfaceResize(t *testing.T) {
	t.Parallel()

	s := newSurface(0, 0, true)
	assert.Equal(t, defaultHeight, s.height)

	s.writeLine("1\n2\n3\n4", StyleOutput)
	s.resize(0, 2)
	assert.Equal(t, []string{"3", "4"}, texts(s.frame().Lines))

	s.resize(0, 0)
	assert.Equal(t, 2, s.height, "non-positive heights are ignored")
}

func TestSurfaceWriteReplacesEmptyLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		steps    func(s *surface)
		expected []string
	}{
		{
			name: "streamed lines",
			steps: func(s *surface) {
				s.write("a\n", StyleOutput)
				s.write("b", StyleOutput)
			},
			expected: []string{"a", "b"},
		},
		{
			name: "after writeLine with a trailing break",
			steps: func(s *surface) {
				s.writeLine("line one\n", StyleOutput)
				s.write("line two", StyleOutput)
				s.write("!", StyleOutput)
			},
			expected: []string{"line one", "line two!"},
		},
		{
			name: "empty first fragment keeps the stand-in",
			steps: func(s *surface) {
				s.write("a\n", StyleOutput)
				s.write("\nb", StyleOutput)
			},
			expected: []string{"a", nbsp, "b"},
		},
		{
			name: "real nbsp text is kept",
			steps: func(s *surface) {
				s.writeLine(nbsp, StyleOutput)
				s.write("z", StyleOutput)
			},
			expected: []string{nbsp + "z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newSurface(0, 10, true)
			tt.steps(s)
			assert.Equal(t, tt.expected, texts(s.lines))
		})
	}
}

func TestSurfaceWrapsToWidth(t *testing.T) {
	t.Parallel()

	s := newSurface(10, 3, true)
	s.writeLine(strings.Repeat("x", 25), StyleOutput)
	assert.Equal(t, []string{"xxxxxxxxxx", "xxxxxxxxxx", "xxxxx"}, texts(s.frame().Lines))
	assert.Len(t, s.lines, 1, "wrapping does not touch the scrollback")

	s.writeLine("tail", StyleError)
	f := s.frame()
	assert.Equal(t, []string{"xxxxxxxxxx", "xxxxx", "tail"}, texts(f.Lines))
	assert.Equal(t, StyleError, f.Lines[2].Style)

	s.showInput(">>>")
	s.scrollToBottom()
	f = s.frame()
	assert.Equal(t, []string{"xxxxx", "tail"}, texts(f.Lines))
	assert.NotNil(t, f.Input)
	assert.Equal(t, s.height, len(f.Lines)+1, "the frame fills the viewport exactly")

	s.scrollBy(-1)
	assert.Equal(t, []string{"xxxxxxxxxx", "xxxxx", "tail"}, texts(s.frame().Lines))
	assert.Nil(t, s.frame().Input, "the input row is below the viewport")

	s.resize(5, 0)
	assert.Equal(t, 6, s.totalRows)
	for _, row := range s.frame().Lines {
		assert.LessOrEqual(t, len([]rune(row.Text)), 5)
	}
}

func TestSurfaceFrameIsPrintable(t *testing.T) {
	t.Parallel()

	s := newSurface(0, 5, true)
	s.writeLine("evil\x1b[2J", StyleOutput)
	s.showInput("say\x07")

	f := s.frame()
	assert.Equal(t, []string{"evil^[[2J"}, texts(f.Lines))
	if assert.NotNil(t, f.Input) {
		assert.Equal(t, "say^G", f.Input.Message)
	}
	assert.Equal(t, "evil\x1b[2J", s.lines[0].Text, "the scrollback keeps the raw text")
}
