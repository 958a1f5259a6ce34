package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"golang.org/x/sys/unix"
)

func newUploadCommand(ctx *commandContext) *cobra.Command {
	var timeoutSeconds float64

	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Publish local files and print the resulting file-set hash",
		Long: `Publish local files through the hyperg daemon.

The daemon hashes the file set and serves it to peers under that hash;
the hash is printed on success. Each file is shared under its basename,
and paths are resolved to absolute form before they reach the daemon.

Examples:
  hypergctl upload report.pdf
  hypergctl upload -t 3600 build/image.tar.gz build/image.sig`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := resolveUploadPaths(args)
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

			hash, err := client.Upload(callCtx, paths, timeout)
			if err != nil {
				return ctx.friendlyRPCError(err)
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]any{"hash": hash})
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	cmd.Flags().Float64VarP(&timeoutSeconds, "timeout", "t", 0, "Sharing time in seconds (default: share indefinitely)")
	return cmd
}

// resolveUploadPaths makes every argument absolute and verifies it names a
// readable regular file before any request is issued.
func resolveUploadPaths(args []string) ([]string, error) {
	paths := make([]string, 0, len(args))
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			return nil, errors.New("file path is required")
		}
		path, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("resolve path %q: %w", arg, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("inspect file %q: %w", path, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory, not a file", path)
		}
		if err := unix.Access(path, unix.R_OK); err != nil {
			return nil, fmt.Errorf("file %s is not readable: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
