package console

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Serve reads keys from the terminal and dispatches them until ctx is done or
// the input ends. The terminal is in raw mode while Serve runs.
//
// Serve returns ErrEOF when the input is exhausted, ctx.Err() on
// cancellation and ErrNoTerminal for headless sessions. The goroutine reading
// the terminal stays blocked until the next key arrives after cancellation.
func (s *Session) Serve(ctx context.Context) error {
	if s.terminal == nil {
		return ErrNoTerminal
	}
	if err := s.terminal.SetRaw(); err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}
	defer func() {
		if err := s.terminal.Restore(); err != nil {
			s.logger.Warn("failed to restore terminal state", "error", err)
		}
	}()

	if width, height, err := s.terminal.Size(); err == nil {
		s.mu.Lock()
		s.surface.resize(width, height)
		s.render()
		s.mu.Unlock()
	}

	events := make(chan InputEvent)
	readErr := make(chan error, 1)
	go func() {
		d := &decoder{read: s.readRune}
		for {
			ev, err := d.next()
			if err != nil {
				readErr <- err
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if ev.Key != KeyNone {
				s.Dispatch(ev)
			}
		case err := <-readErr:
			if errors.Is(err, io.EOF) {
				return ErrEOF
			}
			return fmt.Errorf("failed to read input: %w", err)
		}
	}
}

func (s *Session) readRune() (rune, error) {
	r, _, err := s.terminal.ReadRune()
	return r, err
}
