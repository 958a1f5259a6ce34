package hyperg

import (
	"fmt"
	"strings"
)

// Environment classifies the network a node participates in.
type Environment string

const (
	// EnvMainnet identifies the production network.
	EnvMainnet Environment = "mainnet"
	// EnvTestnet identifies the test network.
	EnvTestnet Environment = "testnet"
)

// ParseEnvironment converts user input into an Environment.
func ParseEnvironment(value string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(EnvMainnet):
		return EnvMainnet, nil
	case string(EnvTestnet):
		return EnvTestnet, nil
	default:
		return "", fmt.Errorf("unknown environment %q (expected %s or %s)", value, EnvMainnet, EnvTestnet)
	}
}

const (
	// Node ids at or above this length are shortened for display.
	nodeIDTruncateAt = 35
	// Number of leading and trailing characters kept when shortening.
	nodeIDEdgeLen = 16
)

// TelemetryContext identifies the calling node on every request so the
// daemon can attribute log and crash reports. Construct with
// NewTelemetryContext; immutable afterwards.
type TelemetryContext struct {
	nodeID       string
	env          Environment
	nodeName     string
	golemVersion string
}

// NewTelemetryContext builds the context attached to outgoing requests.
// Node ids of 35 characters or more are shortened once, irreversibly, to
// the first and last 16 characters joined by "...", matching the display
// form the daemon records. nodeName and golemVersion may be empty; empty
// values are omitted from the wire form entirely.
func NewTelemetryContext(nodeID string, env Environment, nodeName, golemVersion string) *TelemetryContext {
	if runes := []rune(nodeID); len(runes) >= nodeIDTruncateAt {
		nodeID = string(runes[:nodeIDEdgeLen]) + "..." + string(runes[len(runes)-nodeIDEdgeLen:])
	}
	return &TelemetryContext{
		nodeID:       nodeID,
		env:          env,
		nodeName:     nodeName,
		golemVersion: golemVersion,
	}
}

// NodeID returns the node identifier in its (possibly shortened) display form.
func (t *TelemetryContext) NodeID() string { return t.nodeID }

// Env returns the network environment classifier.
func (t *TelemetryContext) Env() Environment { return t.env }

// wireUser renders the context as the protocol's "user" object. A nil
// receiver yields nil so requests without telemetry omit the key.
func (t *TelemetryContext) wireUser() *wireUser {
	if t == nil {
		return nil
	}
	return &wireUser{
		ID:           t.nodeID,
		Env:          t.env,
		NodeName:     t.nodeName,
		GolemVersion: t.golemVersion,
	}
}
