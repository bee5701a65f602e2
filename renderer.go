package console

import (
	"io"
	"strings"
)

// renderer draws frames of the surface with ANSI escape sequences.
//
// Each call repaints the viewport from the top-left corner: every row is
// cleared before it is written and whatever remains below the last row is
// erased. The whole frame goes out in one write to keep flicker down.
// Text is painted through printable, so control bytes in output show up
// literally instead of reaching the terminal.
type renderer struct {
	output      io.Writer    // Target output writer (typically stdout or colorable wrapper)
	colorScheme *ColorScheme // Color configuration for themed rendering
}

// newRenderer creates a new renderer with the given output and color scheme.
func newRenderer(output io.Writer, colorScheme *ColorScheme) *renderer {
	if colorScheme == nil {
		colorScheme = ThemeDefault
	}
	return &renderer{
		output:      output,
		colorScheme: colorScheme,
	}
}

// render paints f.
func (r *renderer) render(f Frame) error {
	var b strings.Builder

	b.WriteString("\x1b[?25l") // Hide cursor while painting
	b.WriteString("\x1b[H")    // Home
	if r.colorScheme.Background != nil {
		b.WriteString(r.colorScheme.Background.BackgroundANSI())
	}

	for i, line := range f.Lines {
		b.WriteString("\x1b[K")
		b.WriteString(r.colorScheme.StyleColor(line.Style).ToANSI())
		b.WriteString(printable(line.Text))
		b.WriteString(Reset())
		if i < len(f.Lines)-1 || f.Input != nil {
			b.WriteString("\r\n")
		}
	}

	if f.Input != nil {
		r.renderInputLine(&b, f.Input)
	}
	b.WriteString(Reset())
	b.WriteString("\x1b[J") // Clear everything below the cursor

	// The caret is always at the end of the input line, which is where
	// painting stopped.
	if f.Input != nil && f.Input.Focused {
		b.WriteString("\x1b[?25h")
	}

	_, err := io.WriteString(r.output, b.String())
	return err
}

// renderInputLine writes the prompt message followed by the typed text.
func (r *renderer) renderInputLine(b *strings.Builder, in *InputLine) {
	b.WriteString("\x1b[K")
	if r.colorScheme.Background != nil {
		b.WriteString(r.colorScheme.Background.BackgroundANSI())
	}
	b.WriteString(r.colorScheme.Prefix.ToANSI())
	b.WriteString(printable(in.Message))
	b.WriteString(Reset())
	if in.Message != "" {
		b.WriteString(" ")
	}
	b.WriteString(r.colorScheme.Input.ToANSI())
	b.WriteString(printable(in.Text))
}
