// Package hyperg speaks the local JSON command protocol of a hyperg
// file-distribution daemon.
//
// It owns the request and response DTOs, peer address parsing, and the
// telemetry identity attached to outgoing commands. The Client posts one
// JSON envelope per operation to the daemon's loopback /api endpoint and
// classifies failures as transport (nothing usable came back) or protocol
// (the daemon answered with something unexpected) so callers can choose
// recovery and exit codes without matching error strings.
//
// Reuse these types when adding new daemon commands to keep the wire
// contract stable across CLI surfaces.
package hyperg
