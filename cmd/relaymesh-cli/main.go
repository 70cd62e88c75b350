// Package main provides the entry point for relaymesh-cli.
//
// relaymesh-cli is the command-line client for RelayMesh: login,
// administration, credential management, and an interactive chat mode
// over the channel gateway.
package main

import (
	"fmt"
	"os"

	"github.com/yndnr/relaymesh-go/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
