package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newIDCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "id",
		Short: "Show the daemon's node id and version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.newClient()
			if err != nil {
				return err
			}
			callCtx, cancel := ctx.callContext(cmd)
			defer cancel()

			identity, err := client.Identify(callCtx)
			if err != nil {
				return ctx.friendlyRPCError(err)
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, identity)
			}

			out := cmd.OutOrStdout()
			if isTerminal(out) {
				fmt.Fprintln(out, renderTable(
					[]string{"Field", "Value"},
					[][]string{
						{"id", identity.NodeID},
						{"version", identity.Version},
					},
					[]columnAlignment{alignLeft, alignLeft},
				))
				return nil
			}
			fmt.Fprintf(out, "id       %s\n", identity.NodeID)
			fmt.Fprintf(out, "version  %s\n", identity.Version)
			return nil
		},
	}
}
