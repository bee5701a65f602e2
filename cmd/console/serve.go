package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/console/internal/echoserver"
	"github.com/spf13/cobra"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	cfg := echoserver.Config{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo echo backend",
		Long: `Run a backend for the text, json and websocket handlers.

  POST /api/text  replies "Hello back from server, you sent '<body>'"
  POST /api/json  replies {"pong": <ping>}
  GET  /api/ws    echoes WebSocket text messages`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, closeLog, err := newLogger(root.logLevel, root.logFile, os.Stderr)
			if err != nil {
				return err
			}
			defer closeLog()
			cfg.Logger = logger

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return echoserver.New(cfg).ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&cfg.Addr, "addr", ":3000", "listen address")
	cmd.Flags().StringVar(&cfg.StaticDir, "static", "", "directory served at /")
	return cmd
}
