package config

const (
	defaultRPCPort      = 3292
	defaultTelemetryEnv = "testnet"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		RPC: RPC{
			Port: defaultRPCPort,
		},
		Telemetry: Telemetry{
			Env: defaultTelemetryEnv,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
