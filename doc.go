// Package console provides an embeddable, line-oriented interactive console.
//
// A Session owns a scrollback of output lines and a single input line. Hosts
// write output with Write and WriteLine, ask for input with Prompt, or run a
// read-eval-print loop with StartInteractive. Key events come from the
// terminal (Serve) or from the host (Dispatch).
//
// Key Features:
//
//   - One open prompt at a time; opening a new one quietly abandons the old
//   - Deferred prompt results (Pending) with context support
//   - Asynchronous handlers whose output lands in the scrollback
//   - Interactive loops that survive handler failures
//   - Bounded in-memory history on Up/Down
//   - Themes, autoscroll and ANSI rendering to any io.Writer
//   - Ready-made handlers for HTTP text, HTTP JSON and WebSocket backends
//
// Quick Start:
//
//	package main
//
//	import (
//		"context"
//		"log"
//		"strings"
//
//		"github.com/nao1215/console"
//	)
//
//	func main() {
//		s, err := console.New()
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer s.Close()
//
//		ctx, cancel := context.WithCancel(context.Background())
//		defer cancel()
//
//		s.WriteLine("Type something, Ctrl+C to quit")
//		loop := s.StartInteractive(ctx, console.HandleWith(console.Transform(strings.ToUpper)))
//		go s.Serve(ctx)
//		_ = loop.Wait(ctx)
//	}
//
// One-shot prompts:
//
//	p := s.Prompt(ctx, console.Message("name?"))
//	name, err := p.Wait(ctx)
//	switch {
//	case errors.Is(err, console.ErrInterrupted):
//		// Ctrl+C
//	case errors.Is(err, console.ErrAbandoned):
//		// Another prompt took over
//	}
//
// Key Bindings:
//
//   - Enter: Submit input
//   - Ctrl+C: Interrupt the prompt, writes "^C => Keyboard Interrupt"
//   - Up/Down: Navigate history
//   - Left/Right: Ignored, the caret stays at the end of the line
//   - Backspace: Delete character backwards
//   - Ctrl+U: Clear the line
//
// Error Handling:
//
//   - console.ErrInterrupted: User pressed Ctrl+C
//   - console.ErrAbandoned: The prompt was replaced or the loop was stopped
//   - console.ErrClosed: The session was closed
//   - *console.HandlerError: The handler failed; the interactive loop continues
//   - context errors: The prompt context was cancelled
//
// Thread Safety:
//
// Session methods may be called from any goroutine. Handlers run on their own
// goroutine and may call Write or WriteLine.
//
// Resource Management:
//
// Always call Close when done with a session. Close is safe to call multiple
// times.
package console
