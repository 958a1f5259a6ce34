package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRPC(); err != nil {
		return err
	}
	return c.validateTelemetry()
}

func (c *Config) validateRPC() error {
	if c.RPC.Port < 1 || c.RPC.Port > 65535 {
		return fmt.Errorf("rpc.port must be between 1 and 65535, got %d", c.RPC.Port)
	}
	if c.RPC.TimeoutSeconds < 0 {
		return errors.New("rpc.timeout_seconds must be >= 0 (0 waits indefinitely)")
	}
	return nil
}

func (c *Config) validateTelemetry() error {
	switch c.Telemetry.Env {
	case "mainnet", "testnet":
		return nil
	default:
		return fmt.Errorf("telemetry.env must be \"mainnet\" or \"testnet\", got %q", c.Telemetry.Env)
	}
}
