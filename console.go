package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Common errors
var (
	// ErrInterrupted is returned when the user presses Ctrl+C on an open prompt
	ErrInterrupted = errors.New("keyboard interrupt")
	// ErrAbandoned is returned when a prompt is closed without input because
	// another prompt replaced it or the interactive loop was stopped
	ErrAbandoned = errors.New("prompt abandoned")
	// ErrEOF is returned by Serve when the terminal input is exhausted
	ErrEOF = errors.New("EOF")
	// ErrClosed is returned when the session has been closed
	ErrClosed = errors.New("console closed")
	// ErrNoTerminal is returned by Serve on a headless session
	ErrNoTerminal = errors.New("console has no terminal")
)

// interruptLine is written to the scrollback when a prompt is interrupted.
const interruptLine = "^C => Keyboard Interrupt"

// HandlerError reports a failed handler. The interactive loop keeps running
// after one.
type HandlerError struct {
	Input string // Submitted text the handler was called with
	Err   error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler failed: %v", e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// Config holds the configuration for a session.
type Config struct {
	Prefix         string         // Default prompt message (default: ">>>")
	EchoInput      bool           // Echo submitted input into the scrollback (default: true)
	Handler        Handler        // Default handler (default: Identity)
	HandlerTimeout time.Duration  // Upper bound for one handler call (0 = none)
	Autoscroll     bool           // Follow new output (default: true)
	HistoryConfig  *HistoryConfig // History configuration (nil for default)
	KeyMap         *KeyMap        // Key bindings (nil for default)
	Theme          string         // Theme name resolved with LookupTheme
	Output         io.Writer      // Render target (nil = no rendering for headless sessions)
	Width          int            // Columns long lines wrap at (0 = no wrapping; terminals report their own)
	Height         int            // Viewport rows when there is no terminal to ask (default: 24)
	Logger         *slog.Logger   // Logger (nil = discard)
}

// Option represents a configuration option for a session
type Option func(*Config)

// DefaultConfig returns the configuration used when no option is given.
func DefaultConfig() Config {
	return Config{
		Prefix:     defaultPrefix,
		EchoInput:  true,
		Autoscroll: true,
		Theme:      ThemeDefault.Name,
	}
}

// WithPrefix sets the default prompt message
func WithPrefix(prefix string) Option {
	return func(c *Config) {
		c.Prefix = prefix
	}
}

// WithEchoInput controls whether submitted input is echoed by default
func WithEchoInput(echo bool) Option {
	return func(c *Config) {
		c.EchoInput = echo
	}
}

// WithHandler sets the default handler for prompts
func WithHandler(handler Handler) Option {
	return func(c *Config) {
		c.Handler = handler
	}
}

// WithHandlerTimeout bounds how long a single handler call may run.
func WithHandlerTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.HandlerTimeout = timeout
	}
}

// WithAutoscroll enables or disables following new output
func WithAutoscroll(autoscroll bool) Option {
	return func(c *Config) {
		c.Autoscroll = autoscroll
	}
}

// WithHistory configures history settings with the provided configuration.
func WithHistory(historyConfig *HistoryConfig) Option {
	return func(c *Config) {
		c.HistoryConfig = historyConfig
	}
}

// WithMemoryHistory is a convenience function for a bounded history.
//
// Example:
//
//	console.New(console.WithMemoryHistory(100))
func WithMemoryHistory(maxEntries int) Option {
	return func(c *Config) {
		if maxEntries <= 0 {
			maxEntries = 1000 // Default
		}
		c.HistoryConfig = &HistoryConfig{
			Enabled:    true,
			MaxEntries: maxEntries,
		}
	}
}

// WithKeyMap sets the key bindings
func WithKeyMap(keyMap *KeyMap) Option {
	return func(c *Config) {
		c.KeyMap = keyMap
	}
}

// WithTheme sets the initial theme name
func WithTheme(name string) Option {
	return func(c *Config) {
		c.Theme = name
	}
}

// WithOutput renders the surface to w after every change.
func WithOutput(w io.Writer) Option {
	return func(c *Config) {
		c.Output = w
	}
}

// WithWidth sets the column count long lines wrap at when no terminal
// reports one.
func WithWidth(columns int) Option {
	return func(c *Config) {
		c.Width = columns
	}
}

// WithHeight sets the viewport height used when no terminal reports one.
func WithHeight(rows int) Option {
	return func(c *Config) {
		c.Height = rows
	}
}

// WithLogger sets the logger for lifecycle and handler events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

func newConfig(options []Option) Config {
	config := DefaultConfig()
	for _, option := range options {
		option(&config)
	}
	if config.HistoryConfig == nil {
		config.HistoryConfig = DefaultHistoryConfig()
	}
	if config.KeyMap == nil {
		config.KeyMap = NewDefaultKeyMap()
	}
	if config.Handler == nil {
		config.Handler = Identity()
	}
	if config.Height <= 0 {
		config.Height = defaultHeight
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return config
}

// Session is one console: a display surface, at most one open prompt and an
// optional interactive loop.
//
// All methods are safe for concurrent use. Handlers run on their own
// goroutines and may call back into the session.
type Session struct {
	mu          sync.Mutex
	config      Config
	surface     *surface
	history     *History
	keyMap      *KeyMap
	theme       string
	active      *Pending // the only prompt receiving input, nil when idle
	interactive bool
	loop        *Loop
	closed      bool

	renderer *renderer
	terminal terminalInterface
	logger   *slog.Logger
	handlers sync.WaitGroup
}

// New creates a session bound to the controlling terminal.
//
// Example:
//
//	s, err := console.New(console.WithTheme("dracula"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer s.Close()
//
//	loop := s.StartInteractive(ctx)
//	go s.Serve(ctx)
//	if err := loop.Wait(ctx); err != nil {
//		fmt.Println("loop ended:", err)
//	}
func New(options ...Option) (*Session, error) {
	config := newConfig(options)

	terminal, err := newRealTerminal()
	if err != nil {
		return nil, fmt.Errorf("failed to create terminal: %w", err)
	}
	if config.Output == nil {
		config.Output = terminal.Output()
	}
	if width, height, err := terminal.Size(); err == nil {
		config.Width = width
		config.Height = height
	}
	return newSession(config, terminal), nil
}

// NewHeadless creates a session without a terminal. The host delivers key
// events with Dispatch and reads the surface with Lines, Input and Frame, or
// attaches a writer with WithOutput.
func NewHeadless(options ...Option) *Session {
	return newSession(newConfig(options), nil)
}

func newSession(config Config, terminal terminalInterface) *Session {
	s := &Session{
		config:   config,
		surface:  newSurface(config.Width, config.Height, config.Autoscroll),
		history:  NewHistory(config.HistoryConfig),
		keyMap:   config.KeyMap,
		theme:    config.Theme,
		terminal: terminal,
		logger:   config.Logger,
	}
	if config.Output != nil {
		s.renderer = newRenderer(config.Output, LookupTheme(config.Theme))
	}
	return s
}

// WriteLine appends text to the scrollback, one line per line break. Empty
// lines are kept visible. The style defaults to StyleOutput.
func (s *Session) WriteLine(text string, style ...Style) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surface.writeLine(text, pickStyle(style))
	s.render()
}

// Write appends text to the last scrollback line. Text after a line break
// starts new lines.
func (s *Session) Write(text string, style ...Style) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surface.write(text, pickStyle(style))
	s.render()
}

func pickStyle(style []Style) Style {
	if len(style) > 0 && style[0] != "" {
		return style[0]
	}
	return StyleOutput
}

// Lines returns a copy of the scrollback.
func (s *Session) Lines() []OutputLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]OutputLine{}, s.surface.lines...)
}

// Input returns the state of the input line.
func (s *Session) Input() InputLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface.inputLine()
}

// Frame returns the rows inside the viewport.
func (s *Session) Frame() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface.frame()
}

// ScrollToBottom moves the viewport to the newest row.
func (s *Session) ScrollToBottom() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surface.scrollToBottom()
	s.render()
}

// ScrollBy moves the viewport by delta rows; negative values scroll back.
func (s *Session) ScrollBy(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surface.scrollBy(delta)
	s.render()
}

// SetAutoscroll enables or disables following new output.
func (s *Session) SetAutoscroll(autoscroll bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surface.autoscroll = autoscroll
}

// Autoscroll reports whether the viewport follows new output.
func (s *Session) Autoscroll() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface.autoscroll
}

// SetTheme changes the theme name. The renderer resolves the name with
// LookupTheme; the session itself attaches no meaning to it.
func (s *Session) SetTheme(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = name
	if s.renderer != nil {
		s.renderer.colorScheme = LookupTheme(name)
	}
	s.render()
}

// Theme returns the current theme name.
func (s *Session) Theme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// History returns the recorded submissions, oldest first.
func (s *Session) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Entries()
}

// AddHistory adds a command to the history
func (s *Session) AddHistory(command string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.Add(command)
}

// ClearHistory clears the command history
func (s *Session) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.Clear()
}

// Close stops the interactive loop, abandons the open prompt and releases
// the terminal. It is safe to call Close multiple times.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.stopInteractive()
	if s.active != nil {
		s.abandon(s.active, ErrClosed)
	}
	s.closed = true
	renderer := s.renderer
	s.mu.Unlock()

	if renderer != nil {
		// Restore cursor visibility and leave the cursor below the frame
		fmt.Fprint(renderer.output, "\x1b[?25h\r\n")
	}
	if s.terminal != nil {
		return s.terminal.Close()
	}
	return nil
}

// render redraws the frame. Callers hold s.mu.
func (s *Session) render() {
	if s.renderer == nil || s.closed {
		return
	}
	if err := s.renderer.render(s.surface.frame()); err != nil {
		s.logger.Warn("failed to render console", "error", err)
	}
}

// WaitHandlers blocks until every running handler has returned or ctx is
// done.
func (s *Session) WaitHandlers(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.handlers.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
