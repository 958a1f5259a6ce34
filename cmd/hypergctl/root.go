package main

import (
	"github.com/spf13/cobra"
)

const cliVersion = "0.1.0"

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}
	ctx := newCommandContext(flags)

	rootCmd := &cobra.Command{
		Use:           "hypergctl",
		Short:         "Command-line client for the hyperg file-distribution daemon",
		Version:       cliVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().IntVar(&flags.rpcPort, "rpc-port", 0, "RPC port of the local hyperg daemon (default 3292)")
	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&flags.jsonOutput, "json", false, "Emit machine-readable JSON output")
	rootCmd.PersistentFlags().StringVar(&flags.nodeID, "node-id", "", "Node identity attached to every request")
	rootCmd.PersistentFlags().StringVar(&flags.nodeName, "node-name", "", "Friendly node name reported alongside --node-id")
	rootCmd.PersistentFlags().StringVar(&flags.env, "env", "", "Environment classifier: mainnet or testnet (default testnet)")
	rootCmd.PersistentFlags().StringVar(&flags.golemVersion, "golem-version", "", "Golem version reported alongside --node-id")

	rootCmd.AddCommand(newIDCommand(ctx))
	rootCmd.AddCommand(newAddressesCommand(ctx))
	rootCmd.AddCommand(newUploadCommand(ctx))
	rootCmd.AddCommand(newDownloadCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
