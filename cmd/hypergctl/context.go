package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"hypergctl/internal/config"
	"hypergctl/internal/hyperg"
	"hypergctl/internal/logging"
)

// rootFlags carries the persistent flag values shared by every subcommand.
// Zero values mean "not given"; resolution against the loaded configuration
// happens in ensureConfig so flags always win over file and environment.
type rootFlags struct {
	rpcPort      int
	configPath   string
	logLevel     string
	jsonOutput   bool
	nodeID       string
	nodeName     string
	env          string
	golemVersion string
}

type commandContext struct {
	flags *rootFlags

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(flags *rootFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.flags != nil {
			path = strings.TrimSpace(c.flags.configPath)
		}
		cfg, resolvedPath, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.applyFlags(cfg)
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolvedPath
		c.configExists = exists
	})
	return c.config, c.configErr
}

// applyFlags overlays persistent flag values onto the loaded configuration.
// The merged result is re-validated by ensureConfig, so a bad flag value
// fails the same way a bad file value does.
func (c *commandContext) applyFlags(cfg *config.Config) {
	if c.flags == nil {
		return
	}
	if c.flags.rpcPort > 0 {
		cfg.RPC.Port = c.flags.rpcPort
	}
	if level := strings.TrimSpace(c.flags.logLevel); level != "" {
		cfg.Logging.Level = strings.ToLower(level)
	}
	if nodeID := strings.TrimSpace(c.flags.nodeID); nodeID != "" {
		cfg.Telemetry.NodeID = nodeID
	}
	if nodeName := strings.TrimSpace(c.flags.nodeName); nodeName != "" {
		cfg.Telemetry.NodeName = nodeName
	}
	if env := strings.TrimSpace(c.flags.env); env != "" {
		cfg.Telemetry.Env = strings.ToLower(env)
	}
	if golemVersion := strings.TrimSpace(c.flags.golemVersion); golemVersion != "" {
		cfg.Telemetry.GolemVersion = golemVersion
	}
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// JSONMode reports whether the invocation asked for machine-readable output.
func (c *commandContext) JSONMode() bool {
	return c.flags != nil && c.flags.jsonOutput
}

// newClient builds an RPC client from the resolved configuration, wiring in
// telemetry and logging when configured.
func (c *commandContext) newClient() (*hyperg.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}

	opts := []hyperg.Option{
		hyperg.WithRPCPort(cfg.RPC.Port),
		hyperg.WithLogger(logger),
	}
	telemetry, err := telemetryFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	if telemetry != nil {
		opts = append(opts, hyperg.WithTelemetry(telemetry))
	}
	return hyperg.New(opts...), nil
}

// telemetryFromConfig builds the telemetry context, or nil when no node id
// is configured: requests from anonymous operators stay untagged.
func telemetryFromConfig(cfg *config.Config) (*hyperg.TelemetryContext, error) {
	nodeID := strings.TrimSpace(cfg.Telemetry.NodeID)
	if nodeID == "" {
		return nil, nil
	}
	env, err := hyperg.ParseEnvironment(cfg.Telemetry.Env)
	if err != nil {
		return nil, err
	}
	return hyperg.NewTelemetryContext(nodeID, env, cfg.Telemetry.NodeName, cfg.Telemetry.GolemVersion), nil
}

// callContext derives the context for a single RPC, applying the configured
// per-call timeout when one is set. Zero means no transport deadline, which
// long downloads need.
func (c *commandContext) callContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	cfg := c.configValue()
	if cfg == nil || cfg.RPC.TimeoutSeconds <= 0 {
		return context.WithCancel(parent)
	}
	timeout := time.Duration(cfg.RPC.TimeoutSeconds * float64(time.Second))
	return context.WithTimeout(parent, timeout)
}

// friendlyRPCError augments connection failures with a hint naming the
// endpoint the client expected to find a daemon on.
func (c *commandContext) friendlyRPCError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		port := hyperg.DefaultRPCPort
		if cfg := c.configValue(); cfg != nil {
			port = cfg.RPC.Port
		}
		return fmt.Errorf("%w; no hyperg daemon is listening on 127.0.0.1:%d (start hyperg or pass --rpc-port)", err, port)
	}
	return err
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
