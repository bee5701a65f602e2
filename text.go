package console

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

const tabWidth = 8

// printable makes text safe to paint. Tabs expand to the next tab stop,
// C0 controls and DEL are shown in caret notation (ESC as "^[") and C1
// controls become U+FFFD, so output can never drive the terminal.
func printable(text string) string {
	if !needsEscaping(text) {
		return text
	}
	var b strings.Builder
	col := 0
	for _, r := range text {
		switch {
		case r == '\t':
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
		case r < 0x20 || r == 0x7f:
			b.WriteByte('^')
			b.WriteRune(r ^ 0x40)
			col += 2
		case r >= 0x80 && r <= 0x9f:
			b.WriteRune(utf8.RuneError)
			col++
		default:
			b.WriteRune(r)
			col += runewidth.RuneWidth(r)
		}
	}
	return b.String()
}

func needsEscaping(text string) bool {
	for _, r := range text {
		if r < 0x20 || (r >= 0x7f && r <= 0x9f) {
			return true
		}
	}
	return false
}

// wrapText splits printable text into rows of at most width columns. A
// width of zero or less disables wrapping. Empty text is one empty row.
func wrapText(text string, width int) []string {
	if width <= 0 || runewidth.StringWidth(text) <= width {
		return []string{text}
	}
	var rows []string
	var row strings.Builder
	col := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if col+w > width && col > 0 {
			rows = append(rows, row.String())
			row.Reset()
			col = 0
		}
		row.WriteRune(r)
		col += w
	}
	return append(rows, row.String())
}

// rowCount is the number of rows text occupies at width.
func rowCount(text string, width int) int {
	if width <= 0 {
		return 1
	}
	return len(wrapText(text, width))
}
