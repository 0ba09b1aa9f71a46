package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"searchtube/internal/api"
	"searchtube/internal/preflight"
	"searchtube/internal/queue"
	"searchtube/internal/queueaccess"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon, dependency, and queue status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			for _, line := range renderSectionHeader("Daemon", colorize) {
				fmt.Fprintln(stdout, line)
			}
			client := api.NewClient(cfg.Paths.APIBind)
			daemonStatus, daemonErr := client.Status(cmd.Context())
			switch {
			case daemonErr != nil:
				fmt.Fprintln(stdout, renderStatusLine("Daemon", statusWarn, "not running", colorize))
			case daemonStatus.Workflow.Running:
				fmt.Fprintln(stdout, renderStatusLine("Daemon", statusOK, fmt.Sprintf("running (pid %d)", daemonStatus.PID), colorize))
			default:
				fmt.Fprintln(stdout, renderStatusLine("Daemon", statusWarn, "running, workflow stopped", colorize))
			}
			if daemonErr == nil {
				for _, health := range daemonStatus.Workflow.StageHealth {
					kind := statusOK
					if !health.Ready {
						kind = statusError
					}
					fmt.Fprintln(stdout, renderStatusLine("Stage "+health.Name, kind, health.Detail, colorize))
				}
			}
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("System Checks", colorize) {
				fmt.Fprintln(stdout, line)
			}
			for _, result := range preflight.RunAll(cmd.Context(), cfg, nil) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				fmt.Fprintln(stdout, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Dependencies", colorize) {
				fmt.Fprintln(stdout, line)
			}
			for _, status := range preflight.CheckSystemDeps(cfg) {
				kind := statusOK
				detail := status.Command
				if !status.Available {
					kind = statusError
					detail = status.Detail
				}
				fmt.Fprintln(stdout, renderStatusLine(status.Name, kind, detail, colorize))
			}
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Queue", colorize) {
				fmt.Fprintln(stdout, line)
			}
			if daemonErr == nil {
				printQueueSummary(stdout, daemonStatus.Workflow.QueueStats, colorize)
				return nil
			}
			err = ctx.withAccess(cmd.Context(), func(access queueaccess.Access) error {
				stats, statsErr := access.Stats(cmd.Context())
				if statsErr != nil {
					return statsErr
				}
				printQueueSummary(stdout, stats, colorize)
				return nil
			})
			return err
		},
	}
}

func printQueueSummary(out io.Writer, stats map[string]int, colorize bool) {
	total := 0
	for _, state := range queue.AllStates() {
		count := stats[string(state)]
		total += count
		if count == 0 {
			continue
		}
		fmt.Fprintln(out, renderStatusLine(stateLabel(string(state)), statusInfo, fmt.Sprintf("%d", count), colorize))
	}
	if total == 0 {
		fmt.Fprintln(out, renderStatusLine("Queue", statusInfo, "empty", colorize))
	}
}
