// Package cli parses command-line arguments and environment defaults into a
// Config, and runs the flowgraph command: load flow files, publish them,
// persist their snapshots and optionally serve them over HTTP.
package cli
