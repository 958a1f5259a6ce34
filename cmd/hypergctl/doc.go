// Package main hosts the hypergctl CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into JSON
// commands against a local hyperg daemon: identity lookup, endpoint
// discovery, file publication, and file-set retrieval, plus configuration
// scaffolding. It centralizes configuration resolution, flag precedence,
// and structured logging setup so subcommands can focus on user experience
// instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
// That separation keeps the CLI declarative while the protocol work lives
// in internal/hyperg.
package main
