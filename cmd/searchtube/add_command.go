package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"searchtube/internal/queueaccess"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add URL [URL...]",
		Short: "Submit video URLs for transcription",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withAccess(cmd.Context(), func(access queueaccess.Access) error {
				result, err := access.Ingest(cmd.Context(), args)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Accepted: %d\n", result.Accepted)
				if result.Duplicate > 0 {
					fmt.Fprintf(out, "Already queued: %d\n", result.Duplicate)
				}
				if result.Malformed > 0 {
					fmt.Fprintf(out, "Dropped (unrecognized): %d\n", result.Malformed)
				}
				return nil
			})
		},
	}
}
