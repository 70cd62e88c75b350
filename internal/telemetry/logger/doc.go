// Package logger provides structured logging for RelayMesh.
//
// This package wraps log/slog for structured JSON logging:
//
//   - logger.go: Logger configuration and initialization
//   - context.go: Context-aware logging with request IDs
//   - redact.go: Sensitive data redaction
//
// Features:
//
//   - JSON and text output formats
//   - Log level filtering with runtime adjustment
//   - Automatic masking of tokens and secrets
//   - Context propagation for request correlation
package logger
