package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/nao1215/console"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type replOptions struct {
	config   string
	handler  string
	endpoint string
	theme    string
	prefix   string
	noEcho   bool
	timeout  time.Duration
}

func newReplCmd(root *rootOptions) *cobra.Command {
	opts := &replOptions{}
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive console",
		Long: `Start an interactive console. Every submitted line goes to a handler:

  echo       show the line again (default)
  text       POST the line as text/plain to --endpoint
  json       POST {"ping": line} to --endpoint and show "pong"
  websocket  send the line over a WebSocket to --endpoint

Ctrl+C ends the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRepl(cmd.Context(), root, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "YAML console profile")
	cmd.Flags().StringVar(&opts.handler, "handler", "", "handler kind: echo, discard, text, json, websocket")
	cmd.Flags().StringVar(&opts.endpoint, "endpoint", "", "handler endpoint URL")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "color theme")
	cmd.Flags().StringVar(&opts.prefix, "prefix", "", "prompt message")
	cmd.Flags().BoolVar(&opts.noEcho, "no-echo", false, "do not echo submitted lines")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "handler timeout")
	return cmd
}

// profile merges the config file with command line flags. Flags win.
func (o *replOptions) profile() (*console.FileConfig, error) {
	fc := &console.FileConfig{}
	if o.config != "" {
		loaded, err := console.LoadConfig(o.config)
		if err != nil {
			return nil, err
		}
		fc = loaded
	}
	if o.handler != "" {
		fc.Handler.Kind = o.handler
	}
	if o.endpoint != "" {
		fc.Handler.Endpoint = o.endpoint
	}
	if o.timeout > 0 {
		fc.Handler.Timeout = o.timeout
	}
	if o.theme != "" {
		fc.Theme = o.theme
	}
	if o.prefix != "" {
		fc.Prefix = o.prefix
	}
	if o.noEcho {
		echo := false
		fc.EchoInput = &echo
	}
	if err := fc.Validate(); err != nil {
		return nil, err
	}
	return fc, nil
}

func runRepl(ctx context.Context, root *rootOptions, opts *replOptions) error {
	fc, err := opts.profile()
	if err != nil {
		return err
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	logOut := io.Writer(os.Stderr)
	if interactive && root.logFile == "" {
		// Log lines would tear through the repainted frame
		logOut = io.Discard
	}
	logger, closeLog, err := newLogger(root.logLevel, root.logFile, logOut)
	if err != nil {
		return err
	}
	defer closeLog()

	handler, closeHandler, err := fc.NewHandler(nil)
	if err != nil {
		return err
	}
	defer closeHandler()

	options := append(fc.Options(), console.WithHandler(handler), console.WithLogger(logger))
	if !interactive {
		return runPlain(ctx, os.Stdin, os.Stdout, options)
	}

	s, err := console.New(options...)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.WriteLine("console: Ctrl+C to quit")
	loop := s.StartInteractive(ctx)
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.Serve(ctx)
	}()

	select {
	case <-loop.Done():
		err = loop.Err()
	case err = <-serveErr:
	}
	cancel()
	if errors.Is(err, console.ErrInterrupted) || errors.Is(err, console.ErrEOF) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// runPlain drives a headless session from line-oriented input, for pipes and
// scripts.
func runPlain(ctx context.Context, in io.Reader, out io.Writer, options []console.Option) error {
	s := console.NewHeadless(options...)
	defer s.Close()

	printed := 0
	flush := func() {
		lines := s.Lines()
		for _, line := range lines[printed:] {
			fmt.Fprintln(out, line.Text)
		}
		printed = len(lines)
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		p := s.Prompt(ctx)
		s.DispatchAll(console.TypeEvents(scanner.Text())...)
		s.Dispatch(console.KeyEvent(console.KeyEnter))
		// Handler failures are already in the scrollback
		var herr *console.HandlerError
		if _, err := p.Wait(ctx); err != nil && !errors.As(err, &herr) {
			return err
		}
		flush()
	}
	return scanner.Err()
}
