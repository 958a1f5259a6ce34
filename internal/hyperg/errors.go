package hyperg

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTransport marks failures to reach the daemon at all: connection
	// refused, reset connections, or an expired context deadline.
	ErrTransport = errors.New("transport failure")
	// ErrProtocol marks daemon replies the client cannot interpret: bodies
	// that are not JSON or that lack a field the operation requires.
	ErrProtocol = errors.New("protocol failure")
	// ErrMalformedAddress marks peer address strings that fail the
	// host[:port] grammar. It is raised before any request is sent.
	ErrMalformedAddress = errors.New("malformed peer address")
)

// wrapOp builds an error that links the failing command and cause while
// tagging it with the provided marker for errors.Is classification. The
// marker should be one of the exported sentinel errors above.
func wrapOp(marker error, command, message string, err error) error {
	detail := buildDetail(command, message)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(command, message string) string {
	parts := make([]string, 0, 2)
	if command = strings.TrimSpace(command); command != "" {
		parts = append(parts, command+" command")
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "rpc failure"
	}
	return strings.Join(parts, ": ")
}
