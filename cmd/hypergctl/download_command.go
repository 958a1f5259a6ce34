package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"golang.org/x/sys/unix"

	"hypergctl/internal/config"
	"hypergctl/internal/hyperg"
)

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var timeoutSeconds float64

	cmd := &cobra.Command{
		Use:   "download <hash> <outdir> <peer>...",
		Short: "Fetch a published file set from candidate peers",
		Long: `Fetch the file set named by hash into outdir.

Peers are given as host[:port]; the port defaults to 3282, the transfer
port hyperg nodes listen on. Bracket IPv6 literals: [2001:db8::1]:3282.
The output directory is created when missing.

Examples:
  hypergctl download 3e1867bc09... ./incoming 192.0.2.10
  hypergctl download 3e1867bc09... /srv/files 192.0.2.10:3282 [2001:db8::1]:3282`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			filesHash := strings.TrimSpace(args[0])
			if filesHash == "" {
				return errors.New("file-set hash is required")
			}

			// Peers parse before the output directory is touched so a bad
			// address leaves no side effects behind.
			peers := make([]hyperg.PeerAddress, 0, len(args)-2)
			for _, raw := range args[2:] {
				peer, err := hyperg.ParsePeerAddr(raw)
				if err != nil {
					return err
				}
				peers = append(peers, peer)
			}

			outdir, err := prepareOutputDir(args[1])
			if err != nil {
				return err
			}

			var timeout *float64
			if cmd.Flags().Changed("timeout") {
				timeout = &timeoutSeconds
			}

			client, err := ctx.newClient()
			if err != nil {
				return err
			}
			callCtx, cancel := ctx.callContext(cmd)
			defer cancel()

			files, err := client.Download(callCtx, filesHash, outdir, peers, timeout)
			if err != nil {
				return ctx.friendlyRPCError(err)
			}

			if ctx.JSONMode() {
				if files == nil {
					files = []json.RawMessage{}
				}
				return writeJSON(cmd, map[string]any{"files": files})
			}

			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintln(out, "No files delivered")
				return nil
			}
			if isTerminal(out) {
				rows := make([][]string, 0, len(files))
				for _, file := range files {
					rows = append(rows, []string{fileLabel(file)})
				}
				fmt.Fprintln(out, renderTable([]string{"File"}, rows, []columnAlignment{alignLeft}))
				return nil
			}
			for _, file := range files {
				fmt.Fprintln(out, fileLabel(file))
			}
			return nil
		},
	}

	cmd.Flags().Float64VarP(&timeoutSeconds, "timeout", "t", 0, "Transfer deadline in seconds (default: wait indefinitely)")
	return cmd
}

// prepareOutputDir expands, creates, and access-checks the destination
// before the daemon is asked to write into it.
func prepareOutputDir(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", errors.New("output directory is required")
	}
	path, err := config.ExpandPath(arg)
	if err != nil {
		return "", fmt.Errorf("resolve output directory: %w", err)
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", fmt.Errorf("create output directory %q: %w", path, err)
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return "", fmt.Errorf("output directory %s: insufficient permissions: %w", path, err)
	}
	return path, nil
}

// fileLabel renders one daemon file entry. Entries are opaque JSON; plain
// strings display without quoting, anything else passes through verbatim.
func fileLabel(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
