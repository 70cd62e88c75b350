// Package main provides the entry point for relaymesh-cli.
//
// The CLI tool provides command-line access to a RelayMesh server for:
//
//   - Login and session handling
//   - Credential management (add, hash, list, remove)
//   - Server status and administration
//   - Interactive chat over the channel gateway
//
// Usage:
//
//	relaymesh-cli [command] [flags]
//	relaymesh-cli login alice
//	relaymesh-cli --output json status
//	relaymesh-cli chat
//
// Global flags read RELAYMESH_* environment variables as fallbacks,
// and the login command saves a session under ~/.relaymesh/ so
// follow-up commands need no --token.
package main
