package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultEnvPrefix is the prefix shared by all environment overrides.
const DefaultEnvPrefix = "HYPERG_"

// EnvLoader provides type-safe environment variable loading.
type EnvLoader struct {
	prefix string
	vars   map[string]string
}

// NewEnvLoader creates a new environment variable loader with the given prefix.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix: prefix,
		vars:   make(map[string]string),
	}
}

// LoadAll loads all environment variables with the configured prefix.
func (e *EnvLoader) LoadAll() {
	for _, env := range os.Environ() {
		if parts := strings.SplitN(env, "=", 2); len(parts) == 2 {
			key := parts[0]
			if strings.HasPrefix(key, e.prefix) {
				e.vars[key] = parts[1]
			}
		}
	}
}

// GetString returns a string value from environment variables.
func (e *EnvLoader) GetString(key string, defaultValue string) string {
	fullKey := e.prefix + key
	if val, ok := e.vars[fullKey]; ok {
		return val
	}
	return defaultValue
}

// GetInt returns an integer value from environment variables.
func (e *EnvLoader) GetInt(key string, defaultValue int) (int, error) {
	if val := e.GetString(key, ""); val != "" {
		return strconv.Atoi(val)
	}
	return defaultValue, nil
}

// GetFloat64 returns a float64 value from environment variables.
func (e *EnvLoader) GetFloat64(key string, defaultValue float64) (float64, error) {
	if val := e.GetString(key, ""); val != "" {
		return strconv.ParseFloat(val, 64)
	}
	return defaultValue, nil
}

// applyEnv overlays HYPERG_* environment variables onto the config. A .env
// file in the working directory is honoured when present.
func (c *Config) applyEnv() error {
	_ = godotenv.Load()

	loader := NewEnvLoader(DefaultEnvPrefix)
	loader.LoadAll()

	var err error
	if c.RPC.Port, err = loader.GetInt("RPC_PORT", c.RPC.Port); err != nil {
		return fmt.Errorf("%sRPC_PORT: %w", DefaultEnvPrefix, err)
	}
	if c.RPC.TimeoutSeconds, err = loader.GetFloat64("RPC_TIMEOUT_SECONDS", c.RPC.TimeoutSeconds); err != nil {
		return fmt.Errorf("%sRPC_TIMEOUT_SECONDS: %w", DefaultEnvPrefix, err)
	}

	c.Telemetry.NodeID = loader.GetString("NODE_ID", c.Telemetry.NodeID)
	c.Telemetry.NodeName = loader.GetString("NODE_NAME", c.Telemetry.NodeName)
	c.Telemetry.Env = loader.GetString("ENV", c.Telemetry.Env)
	c.Telemetry.GolemVersion = loader.GetString("GOLEM_VERSION", c.Telemetry.GolemVersion)

	c.Logging.Format = loader.GetString("LOG_FORMAT", c.Logging.Format)
	c.Logging.Level = loader.GetString("LOG_LEVEL", c.Logging.Level)
	c.Logging.File = loader.GetString("LOG_FILE", c.Logging.File)

	return nil
}
