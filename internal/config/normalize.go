package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeRPC()
	c.normalizeTelemetry()
	return c.normalizeLogging()
}

func (c *Config) normalizeRPC() {
	if c.RPC.Port == 0 {
		c.RPC.Port = defaultRPCPort
	}
}

func (c *Config) normalizeTelemetry() {
	c.Telemetry.NodeID = strings.TrimSpace(c.Telemetry.NodeID)
	c.Telemetry.NodeName = strings.TrimSpace(c.Telemetry.NodeName)
	c.Telemetry.GolemVersion = strings.TrimSpace(c.Telemetry.GolemVersion)
	c.Telemetry.Env = strings.ToLower(strings.TrimSpace(c.Telemetry.Env))
	if c.Telemetry.Env == "" {
		c.Telemetry.Env = defaultTelemetryEnv
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.File = strings.TrimSpace(c.Logging.File)
	if c.Logging.File != "" {
		var err error
		if c.Logging.File, err = expandPath(c.Logging.File); err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
	}
	return nil
}
