package console

import (
	"context"
	"errors"
)

// Loop is a running interactive session started by StartInteractive.
type Loop struct {
	options []PromptOption
	done    chan struct{}
	err     error
}

// Done is closed when the loop has ended.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Err reports why the loop ended. It is nil after StopInteractive or Close,
// ErrInterrupted after Ctrl+C, ErrAbandoned when another prompt replaced the
// loop's prompt, and the context error on cancellation. Valid after Done.
func (l *Loop) Err() error {
	select {
	case <-l.done:
		return l.err
	default:
		return nil
	}
}

// Wait blocks until the loop ends and returns Err, or ctx.Err if ctx is done
// first.
func (l *Loop) Wait(ctx context.Context) error {
	select {
	case <-l.done:
		return l.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) finish(err error) {
	l.err = err
	close(l.done)
}

// StartInteractive runs a read-eval-print loop: it opens a prompt, waits for
// the submission and its handler, and opens the next prompt while the session
// stays interactive. A failing handler is reported in the scrollback and the
// loop continues. A loop that is already running is stopped first.
//
// Example:
//
//	loop := s.StartInteractive(ctx, console.HandleWith(console.Transform(strings.ToUpper)))
//	if err := loop.Wait(ctx); errors.Is(err, console.ErrInterrupted) {
//		fmt.Println("bye")
//	}
func (s *Session) StartInteractive(ctx context.Context, options ...PromptOption) *Loop {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := &Loop{
		options: options,
		done:    make(chan struct{}),
	}
	if s.closed {
		l.finish(ErrClosed)
		return l
	}
	s.stopInteractive()

	s.interactive = true
	s.loop = l
	first := s.open(ctx, s.promptOptions(options))
	s.logger.Debug("interactive loop started")

	go s.runLoop(ctx, l, first)
	return l
}

func (s *Session) runLoop(ctx context.Context, l *Loop, p *Pending) {
	for {
		_, err := p.Wait(ctx)

		s.mu.Lock()
		if s.loop != l || !s.interactive {
			s.mu.Unlock()
			l.finish(nil)
			return
		}
		var herr *HandlerError
		if err != nil && !errors.As(err, &herr) {
			s.interactive = false
			s.loop = nil
			s.mu.Unlock()
			s.logger.Debug("interactive loop ended", "reason", err)
			l.finish(err)
			return
		}
		p = s.open(ctx, s.promptOptions(l.options))
		s.mu.Unlock()
	}
}

// StopInteractive ends the interactive loop and abandons its open prompt
// without echo. It does nothing when the session is not interactive.
func (s *Session) StopInteractive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopInteractive()
}

// stopInteractive is StopInteractive for callers holding s.mu.
func (s *Session) stopInteractive() {
	if !s.interactive {
		return
	}
	s.interactive = false
	s.loop = nil
	if s.active != nil {
		s.abandon(s.active, ErrAbandoned)
	}
	s.render()
	s.logger.Debug("interactive loop stopped")
}

// Interactive reports whether an interactive loop is armed.
func (s *Session) Interactive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interactive
}
