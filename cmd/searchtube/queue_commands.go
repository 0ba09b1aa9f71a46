package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"searchtube/internal/api"
	"searchtube/internal/queue"
	"searchtube/internal/queueaccess"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the job queue",
	}

	queueCmd.AddCommand(newQueueStatusCommand(ctx))
	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueShowCommand(ctx))
	queueCmd.AddCommand(newQueueClearCommand(ctx))
	queueCmd.AddCommand(newQueueClearErrorsCommand(ctx))
	queueCmd.AddCommand(newQueueHealthCommand(ctx))

	return queueCmd
}

func newQueueStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show job counts per state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withAccess(cmd.Context(), func(access queueaccess.Access) error {
				stats, err := access.Stats(cmd.Context())
				if err != nil {
					return err
				}
				rows := buildQueueStatusRows(stats)
				if len(rows) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
					return nil
				}
				out := renderTable([]string{"State", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
}

func buildQueueStatusRows(stats map[string]int) [][]string {
	total := 0
	rows := make([][]string, 0, len(stats)+1)
	for _, state := range queue.AllStates() {
		count := stats[string(state)]
		total += count
		if count == 0 {
			continue
		}
		rows = append(rows, []string{stateLabel(string(state)), fmt.Sprintf("%d", count)})
	}
	if total == 0 {
		return nil
	}
	rows = append(rows, []string{"Total", fmt.Sprintf("%d", total)})
	return rows
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var listStates []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queued jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, state := range listStates {
				if _, ok := queue.ParseState(state); !ok {
					return fmt.Errorf("unknown state %q", state)
				}
			}
			return ctx.withAccess(cmd.Context(), func(access queueaccess.Access) error {
				jobs, err := access.List(cmd.Context(), listStates)
				if err != nil {
					return err
				}
				if len(jobs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
					return nil
				}
				out := renderTable(
					[]string{"ID", "Title", "State", "Attempts", "Updated"},
					buildQueueListRows(jobs),
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&listStates, "state", "s", nil, "Filter by job state (repeatable)")
	return cmd
}

func buildQueueListRows(jobs []api.QueueJob) [][]string {
	rows := make([][]string, 0, len(jobs))
	for _, job := range jobs {
		rows = append(rows, []string{
			job.ID,
			truncate(job.Title, 48),
			stateLabel(job.State),
			fmt.Sprintf("%d", job.Attempts),
			job.UpdatedAt,
		})
	}
	return rows
}

func newQueueShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show full details for one job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withAccess(cmd.Context(), func(access queueaccess.Access) error {
				job, err := access.Describe(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:         %s\n", job.ID)
				fmt.Fprintf(out, "State:      %s\n", stateLabel(job.State))
				if job.Title != "" {
					fmt.Fprintf(out, "Title:      %s\n", job.Title)
				}
				if len(job.Keywords) > 0 {
					fmt.Fprintf(out, "Keywords:   %v\n", job.Keywords)
				}
				if job.RejectReason != "" {
					fmt.Fprintf(out, "Rejected:   %s\n", job.RejectReason)
				}
				if job.ArtifactPath != "" {
					fmt.Fprintf(out, "Artifact:   %s\n", job.ArtifactPath)
				}
				if job.TranscriptPath != "" {
					fmt.Fprintf(out, "Transcript: %s\n", job.TranscriptPath)
				}
				if job.Attempts > 0 {
					fmt.Fprintf(out, "Attempts:   %d\n", job.Attempts)
				}
				if job.LastError != "" {
					fmt.Fprintf(out, "Last error: %s\n", job.LastError)
				}
				fmt.Fprintf(out, "Created:    %s\n", job.CreatedAt)
				fmt.Fprintf(out, "Updated:    %s\n", job.UpdatedAt)
				return nil
			})
		},
	}
}

func newQueueClearErrorsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-errors",
		Short: "Reset recorded failure details on all jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := queue.Open(cfg)
			if err != nil {
				return fmt.Errorf("open job store: %w", err)
			}
			defer store.Close()

			cleared, err := store.ClearErrors(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared error details on %d job(s)\n", cleared)
			return nil
		},
	}
}

func newQueueClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove finished and rejected jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withAccess(cmd.Context(), func(access queueaccess.Access) error {
				removed, err := access.ClearTerminal(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d job(s)\n", removed)
				return nil
			})
		},
	}
}
