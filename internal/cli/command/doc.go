// Package command provides CLI command definitions for relaymesh-cli.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: App construction and global flags
//   - login.go: Authenticate and save a session
//   - admin.go: Admin greeting and server status
//   - chat.go: Interactive channel mode
//   - user.go: Credential management (API or local store)
//
// Commands follow a consistent pattern of parsing flags, calling the
// session controller, and formatting output.
package command
