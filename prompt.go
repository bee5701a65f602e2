package console

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const defaultPrefix = ">>>"

// PromptOptions configures one prompt. Values not set by a PromptOption are
// taken from the session Config.
type PromptOptions struct {
	Message        string
	EchoInput      bool
	Handler        Handler
	HandlerTimeout time.Duration
}

// PromptOption overrides one prompt setting.
type PromptOption func(*PromptOptions)

// Message sets the text shown in front of the input line.
func Message(message string) PromptOption {
	return func(o *PromptOptions) {
		o.Message = message
	}
}

// EchoInput controls whether the submitted line is echoed into the scrollback.
func EchoInput(echo bool) PromptOption {
	return func(o *PromptOptions) {
		o.EchoInput = echo
	}
}

// HandleWith sets the handler called with the submitted text.
func HandleWith(handler Handler) PromptOption {
	return func(o *PromptOptions) {
		o.Handler = handler
	}
}

// HandlerTimeout bounds the handler call of this prompt.
func HandlerTimeout(timeout time.Duration) PromptOption {
	return func(o *PromptOptions) {
		o.HandlerTimeout = timeout
	}
}

func (s *Session) promptOptions(options []PromptOption) PromptOptions {
	o := PromptOptions{
		Message:        s.config.Prefix,
		EchoInput:      s.config.EchoInput,
		Handler:        s.config.Handler,
		HandlerTimeout: s.config.HandlerTimeout,
	}
	for _, option := range options {
		option(&o)
	}
	if o.Handler == nil {
		o.Handler = Identity()
	}
	return o
}

// Pending is the deferred result of one prompt. It settles exactly once.
type Pending struct {
	options PromptOptions
	ctx     context.Context
	stop    func() bool // detaches the context watcher

	once  sync.Once
	done  chan struct{}
	value string
	err   error
}

func newPending(ctx context.Context, options PromptOptions) *Pending {
	return &Pending{
		options: options,
		ctx:     ctx,
		done:    make(chan struct{}),
	}
}

func (p *Pending) settle(value string, err error) {
	p.once.Do(func() {
		p.value = value
		p.err = err
		close(p.done)
	})
}

// Message returns the prompt message.
func (p *Pending) Message() string {
	return p.options.Message
}

// Done is closed when the prompt has settled.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Result returns the settled value. It must only be called after Done is
// closed.
func (p *Pending) Result() (string, error) {
	return p.value, p.err
}

// Wait blocks until the prompt settles or ctx is done.
//
// The value is the handler result. Errors are ErrInterrupted, ErrAbandoned,
// ErrClosed, the prompt context error, or a *HandlerError.
func (p *Pending) Wait(ctx context.Context) (string, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Prompt opens an input request and returns its deferred result.
//
// A prompt that is still open is abandoned first: it fails with ErrAbandoned
// and leaves no trace in the scrollback. Cancelling ctx closes the prompt
// with the context error.
//
// Example:
//
//	p := s.Prompt(ctx, console.Message("name?"), console.EchoInput(false))
//	name, err := p.Wait(ctx)
//	if errors.Is(err, console.ErrInterrupted) {
//		return
//	}
func (s *Session) Prompt(ctx context.Context, options ...PromptOption) *Pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open(ctx, s.promptOptions(options))
}

// open makes p the active prompt. Callers hold s.mu.
func (s *Session) open(ctx context.Context, options PromptOptions) *Pending {
	p := newPending(ctx, options)
	if s.closed {
		p.settle("", ErrClosed)
		return p
	}
	if s.active != nil {
		s.abandon(s.active, ErrAbandoned)
	}

	s.active = p
	s.surface.showInput(options.Message)
	s.history.Reset()
	s.surface.scrollToBottom()
	s.logger.Debug("prompt opened", "message", options.Message)

	p.stop = context.AfterFunc(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.active != p {
			return
		}
		s.detach(p)
		s.surface.takeInput()
		s.render()
		s.logger.Debug("prompt cancelled", "message", options.Message, "error", ctx.Err())
		p.settle("", ctx.Err())
	})
	s.render()
	return p
}

// detach removes p as the receiver of input. Callers hold s.mu.
func (s *Session) detach(p *Pending) {
	if s.active == p {
		s.active = nil
	}
	if p.stop != nil {
		p.stop()
	}
}

// abandon closes p silently. Callers hold s.mu.
func (s *Session) abandon(p *Pending, reason error) {
	s.detach(p)
	s.surface.takeInput()
	s.logger.Debug("prompt abandoned", "message", p.options.Message, "reason", reason)
	p.settle("", reason)
}

// interrupt closes p after Ctrl+C. Callers hold s.mu.
func (s *Session) interrupt(p *Pending) {
	s.detach(p)
	s.surface.takeInput()
	s.surface.writeLine(interruptLine, StyleOutput)
	s.logger.Debug("prompt interrupted", "message", p.options.Message)
	p.settle("", ErrInterrupted)
}

// submit closes p with the typed text and starts its handler. Callers hold
// s.mu.
func (s *Session) submit(p *Pending) {
	s.detach(p)
	text := s.surface.takeInput()
	if p.options.EchoInput {
		s.surface.writeLine(p.options.Message+nbsp+text, StyleInput)
	}
	s.history.Add(text)
	s.logger.Debug("prompt submitted", "message", p.options.Message, "length", len(text))

	s.handlers.Add(1)
	go s.runHandler(p, text)
}

func (s *Session) runHandler(p *Pending, text string) {
	defer s.handlers.Done()

	ctx := p.ctx
	if p.options.HandlerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.options.HandlerTimeout)
		defer cancel()
	}
	out, err := callHandler(ctx, p.options.Handler, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		// The terminal is restored; keep the result off the screen.
		s.logger.Debug("handler finished after close", "message", p.options.Message, "error", err)
		if err != nil {
			p.settle("", &HandlerError{Input: text, Err: err})
		} else {
			p.settle(out, nil)
		}
		return
	}
	if err != nil {
		herr := &HandlerError{Input: text, Err: err}
		s.surface.writeLine(herr.Error(), StyleError)
		s.render()
		s.logger.Warn("console handler failed", "message", p.options.Message, "error", err)
		p.settle("", herr)
		return
	}
	s.surface.writeLine(out, StyleOutput)
	s.render()
	p.settle(out, nil)
}

// callHandler runs h and turns a panic into an error.
func callHandler(ctx context.Context, h Handler, text string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h(ctx, text)
}

// Dispatch delivers one key event to the open prompt and returns the action
// it triggered. Every action except ActionInsert replaces the key's default
// behavior. Without an open prompt the event is ignored.
func (s *Session) Dispatch(ev InputEvent) Action {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.active
	if p == nil {
		return ActionNone
	}

	action := s.keyMap.Action(ev)
	switch action {
	case ActionInsert:
		s.surface.insert(ev.Rune)
		s.history.Reset() // Typing starts a new draft
	case ActionDeleteBack:
		s.surface.deleteBack()
	case ActionClearLine:
		s.surface.setInput("")
	case ActionSubmit:
		s.submit(p)
	case ActionInterrupt:
		s.interrupt(p)
	case ActionHistoryPrev:
		if entry, ok := s.history.Prev(string(s.surface.input)); ok {
			s.surface.setInput(entry)
		}
	case ActionHistoryNext:
		if entry, ok := s.history.Next(); ok {
			s.surface.setInput(entry)
		}
	case ActionCaretLeft, ActionCaretRight:
		// The caret stays at the end of the line
	}
	s.render()
	return action
}

// DispatchAll delivers events in order.
func (s *Session) DispatchAll(events ...InputEvent) {
	for _, ev := range events {
		s.Dispatch(ev)
	}
}
