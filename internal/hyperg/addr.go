package hyperg

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// DefaultPeerPort is the transfer port remote daemons listen on when a peer
// address omits one. It is distinct from DefaultRPCPort: the RPC port is the
// local control plane, the peer port is what other nodes expose for
// transfers.
const DefaultPeerPort = 3282

// PeerAddress locates a remote daemon's transfer endpoint.
type PeerAddress struct {
	Host string
	Port int
}

// String renders the address in host:port form, bracketing IPv6 literals.
func (p PeerAddress) String() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

// ParsePeerAddr parses a host[:port] string into a PeerAddress, applying
// DefaultPeerPort when the port is omitted. IPv6 literals must be bracketed
// ("[::1]:9000", or "[::1]" for the default port); unbracketed multi-colon
// strings are rejected rather than mis-split. The function is pure and never
// touches the network.
func ParsePeerAddr(addr string) (PeerAddress, error) {
	trimmed := strings.TrimSpace(addr)
	if trimmed == "" {
		return PeerAddress{}, wrapOp(ErrMalformedAddress, "", "empty address", nil)
	}
	if !strings.Contains(trimmed, ":") {
		return PeerAddress{Host: trimmed, Port: DefaultPeerPort}, nil
	}
	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		host := trimmed[1 : len(trimmed)-1]
		if host == "" {
			return PeerAddress{}, wrapOp(ErrMalformedAddress, "", fmt.Sprintf("empty host in %q", addr), nil)
		}
		return PeerAddress{Host: host, Port: DefaultPeerPort}, nil
	}
	host, portText, err := net.SplitHostPort(trimmed)
	if err != nil {
		return PeerAddress{}, wrapOp(ErrMalformedAddress, "", fmt.Sprintf("%q (bracket IPv6 literals as [host]:port)", addr), err)
	}
	if host == "" {
		return PeerAddress{}, wrapOp(ErrMalformedAddress, "", fmt.Sprintf("empty host in %q", addr), nil)
	}
	port, err := strconv.Atoi(portText)
	if err != nil || port < 0 || port > 65535 {
		return PeerAddress{}, wrapOp(ErrMalformedAddress, "", fmt.Sprintf("invalid port %q in %q", portText, addr), nil)
	}
	return PeerAddress{Host: host, Port: port}, nil
}
