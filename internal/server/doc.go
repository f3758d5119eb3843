// Package server implements the MCP (Model Context Protocol) server for image export tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the export package
// through the MCP protocol, so an MCP client can write image collections to
// local directories or object stores.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image Exports:
//   - images_export_png: One PNG file per image
//   - images_export_tiff: One TIFF file per image
//   - images_export_binary: Raw .bin files, conf.json and SUCCESS
//
// Manifest Operations:
//   - images_write_config: Write conf.json and SUCCESS only
//   - images_read_binary: Inspect a completed binary export
//
// Export tools take their images either from "sources", a list of image
// files whose index becomes the key, or from "source_binary", an earlier
// binary export. Unset prefix, overwrite, parallelism and compression
// arguments fall back to the loaded configuration.
//
// # Image Caching
//
// Source files are decoded through an imaging.ImageCache keyed by path and
// reused across tool calls for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(version, cfg, logger)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
