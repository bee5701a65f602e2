package console

import "strings"

// nbsp keeps empty scrollback lines visible.
const nbsp = "\u00a0"

// Style tags an output line so the renderer can pick its color.
type Style string

// Style tags understood by the built-in color schemes.
const (
	StyleOutput Style = "output" // Regular output and handler results
	StyleInput  Style = "input"  // Echo of submitted input
	StyleError  Style = "error"  // Handler failures
)

// OutputLine is one line of scrollback.
type OutputLine struct {
	Text  string
	Style Style
}

// InputLine describes the editable line below the scrollback.
type InputLine struct {
	Visible bool   // Shown only while a prompt is open
	Focused bool   // Receives key events
	Message string // Prompt message rendered before the text
	Text    string // Current input
}

// surface is the display: an append-only scrollback log plus one input line.
//
// The viewport is measured in terminal rows. With a width set, a line wider
// than the terminal takes several rows and is wrapped when the frame is
// built, so a frame never holds more than height rows.
//
// The surface does no locking of its own; Session serializes access.
type surface struct {
	lines      []OutputLine
	rowCounts  []int // rows taken by each line at the current width
	totalRows  int
	autoscroll bool
	width      int // columns, 0 disables wrapping
	height     int // viewport rows
	top        int // index of the first visible row

	// placeholder is set while the last line is the NBSP stand-in for an
	// empty fragment. write replaces it instead of appending to it.
	placeholder bool

	inputVisible bool
	inputFocused bool
	message      string
	input        []rune
}

func newSurface(width, height int, autoscroll bool) *surface {
	if height <= 0 {
		height = defaultHeight
	}
	return &surface{
		autoscroll: autoscroll,
		width:      max(0, width),
		height:     height,
	}
}

// splitLines splits text on line breaks. CRLF is treated as a single break.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

// writeLine appends one line per fragment of text.
func (s *surface) writeLine(text string, style Style) {
	if text == "" {
		return
	}
	for _, fragment := range splitLines(text) {
		s.appendLine(fragment, style)
	}
}

// write appends the first fragment to the last line and every following
// fragment as a new line, so streamed output coalesces onto one row.
func (s *surface) write(text string, style Style) {
	if text == "" {
		return
	}
	for i, fragment := range splitLines(text) {
		if i == 0 && len(s.lines) > 0 {
			s.extendLast(fragment)
			continue
		}
		s.appendLine(fragment, style)
	}
}

func (s *surface) extendLast(fragment string) {
	if fragment == "" {
		return
	}
	last := len(s.lines) - 1
	if s.placeholder {
		s.lines[last].Text = fragment
		s.placeholder = false
	} else {
		s.lines[last].Text += fragment
	}
	s.setRowCount(last)
	if s.autoscroll {
		s.scrollToBottom()
	}
}

func (s *surface) appendLine(fragment string, style Style) {
	s.placeholder = fragment == ""
	if s.placeholder {
		fragment = nbsp
	}
	s.lines = append(s.lines, OutputLine{Text: fragment, Style: style})
	s.rowCounts = append(s.rowCounts, 0)
	s.setRowCount(len(s.lines) - 1)
	if s.autoscroll {
		s.scrollToBottom()
	}
}

func (s *surface) setRowCount(i int) {
	n := rowCount(printable(s.lines[i].Text), s.width)
	s.totalRows += n - s.rowCounts[i]
	s.rowCounts[i] = n
}

// inputRows is the number of rows the input line takes.
func (s *surface) inputRows() int {
	if !s.inputVisible {
		return 0
	}
	return rowCount(printable(s.inputText()), s.width)
}

// inputText is the input line as painted: message, a space, then the text.
func (s *surface) inputText() string {
	if s.message == "" {
		return string(s.input)
	}
	return s.message + " " + string(s.input)
}

// rows is the number of rows the surface occupies, input line included.
func (s *surface) rows() int {
	return s.totalRows + s.inputRows()
}

func (s *surface) scrollToBottom() {
	s.top = max(0, s.rows()-s.height)
}

func (s *surface) scrollBy(delta int) {
	s.top = min(max(0, s.top+delta), max(0, s.rows()-s.height))
}

// resize changes the viewport. Non-positive values keep the current size.
func (s *surface) resize(width, height int) {
	if width > 0 && width != s.width {
		s.width = width
		s.totalRows = 0
		for i := range s.lines {
			s.rowCounts[i] = 0
			s.setRowCount(i)
		}
	}
	if height > 0 {
		s.height = height
	}
	if s.autoscroll {
		s.scrollToBottom()
	} else {
		s.scrollBy(0)
	}
}

func (s *surface) showInput(message string) {
	s.inputVisible = true
	s.inputFocused = true
	s.message = message
	s.input = s.input[:0]
}

// takeInput hides the input line and returns whatever was typed.
func (s *surface) takeInput() string {
	text := string(s.input)
	s.input = s.input[:0]
	s.message = ""
	s.inputVisible = false
	s.inputFocused = false
	return text
}

func (s *surface) setInput(text string) {
	s.input = []rune(text)
}

func (s *surface) insert(r rune) {
	s.input = append(s.input, r)
}

func (s *surface) deleteBack() bool {
	if len(s.input) == 0 {
		return false
	}
	s.input = s.input[:len(s.input)-1]
	return true
}

func (s *surface) inputLine() InputLine {
	return InputLine{
		Visible: s.inputVisible,
		Focused: s.inputFocused,
		Message: s.message,
		Text:    string(s.input),
	}
}

// frame returns the rows currently inside the viewport, wrapped to the
// width and made printable.
func (s *surface) frame() Frame {
	f := Frame{Height: s.height}
	end := s.top + s.height

	row := 0
	for i, line := range s.lines {
		if row >= end {
			break
		}
		n := s.rowCounts[i]
		if row+n <= s.top {
			row += n
			continue
		}
		for _, text := range wrapText(printable(line.Text), s.width) {
			if row >= s.top && row < end {
				f.Lines = append(f.Lines, OutputLine{Text: text, Style: line.Style})
			}
			row++
		}
	}

	if s.inputVisible && s.totalRows >= s.top && s.totalRows+s.inputRows() <= end {
		in := s.inputLine()
		in.Message = printable(in.Message)
		in.Text = printable(in.Text)
		f.Input = &in
	}
	return f
}

// Frame is the visible part of the surface.
type Frame struct {
	Height int
	Lines  []OutputLine
	Input  *InputLine // nil when the input line is hidden or scrolled away
}
