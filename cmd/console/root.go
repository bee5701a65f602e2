package main

import (
	"github.com/spf13/cobra"
)

type rootOptions struct {
	logLevel string
	logFile  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "console",
		Short:         "Interactive line console and demo echo backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "write logs to this file instead of stderr")

	cmd.AddCommand(newReplCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	return cmd
}
