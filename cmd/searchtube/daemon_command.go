package main

import (
	"github.com/spf13/cobra"

	"searchtube/internal/daemonrun"
)

func newDaemonCommand(ctx *commandContext) *cobra.Command {
	var logLevel string

	daemonCmd := &cobra.Command{
		Use:   "daemon",
		Short: "Daemon process control",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the searchtube daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return daemonrun.Run(cmd.Context(), cfg, daemonrun.Options{LogLevel: logLevel})
		},
	}
	runCmd.Flags().StringVar(&logLevel, "log-level", "", "Override log level (debug, info, warn, error)")

	daemonCmd.AddCommand(runCmd)
	return daemonCmd
}
