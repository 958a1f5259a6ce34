package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"hypergctl/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigValidateCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set node_id in the file (or export HYPERG_NODE_ID) to tag requests with your node identity.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved effective configuration",
		Long: `Show configuration after every layer is merged.

Values come from defaults, then the config file, then HYPERG_* environment
variables, then command-line flags; later layers win.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]any{
					"config_path":   ctx.configPath,
					"config_exists": ctx.configExists,
					"rpc": map[string]any{
						"port":            cfg.RPC.Port,
						"timeout_seconds": cfg.RPC.TimeoutSeconds,
					},
					"telemetry": map[string]any{
						"node_id":       cfg.Telemetry.NodeID,
						"node_name":     cfg.Telemetry.NodeName,
						"env":           cfg.Telemetry.Env,
						"golem_version": cfg.Telemetry.GolemVersion,
					},
					"logging": map[string]any{
						"format": cfg.Logging.Format,
						"level":  cfg.Logging.Level,
						"file":   cfg.Logging.File,
					},
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s (exists: %s)\n", ctx.configPath, yesNo(ctx.configExists))

			rows := [][]string{
				{"rpc.port", strconv.Itoa(cfg.RPC.Port)},
				{"rpc.timeout_seconds", strconv.FormatFloat(cfg.RPC.TimeoutSeconds, 'f', -1, 64)},
				{"telemetry.node_id", cfg.Telemetry.NodeID},
				{"telemetry.node_name", cfg.Telemetry.NodeName},
				{"telemetry.env", cfg.Telemetry.Env},
				{"telemetry.golem_version", cfg.Telemetry.GolemVersion},
				{"logging.format", cfg.Logging.Format},
				{"logging.level", cfg.Logging.Level},
				{"logging.file", cfg.Logging.File},
			}
			if isTerminal(out) {
				fmt.Fprintln(out, renderTable([]string{"Setting", "Value"}, rows, []columnAlignment{alignLeft, alignLeft}))
				return nil
			}
			for _, row := range rows {
				fmt.Fprintf(out, "%-24s %s\n", row[0], row[1])
			}
			return nil
		},
	}
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", ctx.configPath)
			if !ctx.configExists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
