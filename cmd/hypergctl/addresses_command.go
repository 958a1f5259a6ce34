package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newAddressesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "addresses",
		Short: "Show the endpoint the daemon advertises to peers",
		Long: `Show the endpoint the daemon advertises for peer-to-peer transfers.

This is the address other nodes connect to when fetching published files,
distinct from the local RPC port hypergctl itself talks to.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.newClient()
			if err != nil {
				return err
			}
			callCtx, cancel := ctx.callContext(cmd)
			defer cancel()

			spec, err := client.Addresses(callCtx)
			if err != nil {
				return ctx.friendlyRPCError(err)
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, spec)
			}

			out := cmd.OutOrStdout()
			if isTerminal(out) {
				fmt.Fprintln(out, renderTable(
					[]string{"Transport", "Address", "Port"},
					[][]string{{string(spec.Kind), spec.Host, strconv.Itoa(spec.Port)}},
					[]columnAlignment{alignLeft, alignLeft, alignRight},
				))
				return nil
			}
			fmt.Fprintln(out, spec.String())
			return nil
		},
	}
}
