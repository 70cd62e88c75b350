// Package main provides the entry point for relaymesh-server.
//
// The server hosts the RelayMesh service:
//
//   - HTTP API for login, administration and operational status
//   - Websocket channel gateway for real-time message relay
//   - Prometheus metrics endpoint
//
// Usage:
//
//	relaymesh-server [flags]
//	relaymesh-server --config /path/to/config.yaml
//
// Configuration comes from the optional YAML file overridden by
// RELAYMESH_-prefixed environment variables.
package main
