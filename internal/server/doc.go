// Package server implements the MCP (Model Context Protocol) server that
// exposes the line and region detection tools over stdio.
//
// The server speaks JSON-RPC 2.0, one message per line, reading requests
// from stdin and writing responses to stdout. Logging goes to stderr so it
// never corrupts the protocol stream.
//
// # Supported Methods
//
//   - initialize: Protocol handshake and server identification
//   - tools/list: Returns the tool catalog with JSON schemas
//   - tools/call: Executes a tool and returns its JSON result
//   - ping: Liveness check
//
// # Tools
//
// The tool surface is thin: each handler unmarshals its arguments, applies
// defaults, loads the image through the shared cache, and calls into the
// imaging/detection/export packages. All detection state lives for one
// call; only the decoded source images are cached across calls.
//
// # Error Handling
//
// Malformed tools/call params become a -32602 JSON-RPC error response. Any
// failure inside a tool, including tool arguments that do not decode,
// becomes a -32000 error response. A failure of the optional redraw output is NOT an
// execution error: line detection results are still valid and are returned
// with a sink_error note attached.
package server
