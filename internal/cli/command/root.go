// Package command provides CLI command definitions for relaymesh-cli.
//
// It uses urfave/cli/v2 for command parsing. Commands talk to the
// server through the internal/client session controller.
package command

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/relaymesh-go/internal/cli/config"
	"github.com/yndnr/relaymesh-go/internal/client"
	"github.com/yndnr/relaymesh-go/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "relaymesh-cli",
		Usage:   "RelayMesh command-line client",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			LoginCommand(),
			AdminCommand(),
			StatusCommand(),
			ChatCommand(),
			UserCommand(),
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "RelayMesh server URL (e.g., http://localhost:8080)",
			EnvVars: []string{"RELAYMESH_SERVER"},
		},
		&cli.StringFlag{
			Name:    "token",
			Aliases: []string{"t"},
			Usage:   "Bearer token (defaults to the session saved by login)",
			EnvVars: []string{"RELAYMESH_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "CLI config file path",
			EnvVars: []string{"RELAYMESH_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.StringFlag{
			Name:    "ca-file",
			Usage:   "Custom root CA for https/wss connections",
			EnvVars: []string{"RELAYMESH_CA_FILE"},
		},
		&cli.BoolFlag{
			Name:  "insecure",
			Usage: "Skip server certificate verification",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Value: 30 * time.Second,
			Usage: "Per-request timeout",
		},
	}
}

// GlobalFlags holds parsed global flags.
type GlobalFlags struct {
	Server     string
	Token      string
	ConfigPath string
	Output     string
	Wide       bool
	CAFile     string
	Insecure   bool
	Timeout    time.Duration
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Server:     c.String("server"),
		Token:      c.String("token"),
		ConfigPath: c.String("config"),
		Output:     c.String("output"),
		Wide:       c.Bool("wide"),
		CAFile:     c.String("ca-file"),
		Insecure:   c.Bool("insecure"),
		Timeout:    c.Duration("timeout"),
	}
}

// newClient builds the session controller from flags and the saved
// CLI config. Flag values win over config values.
func newClient(flags *GlobalFlags) (*client.Client, error) {
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return nil, err
	}

	server := flags.Server
	if server == "" {
		server = cfg.Server
	}

	return client.New(client.Config{
		ServerURL:          server,
		Timeout:            flags.Timeout,
		TLSCAFile:          flags.CAFile,
		InsecureSkipVerify: flags.Insecure,
	})
}

// resolveToken returns the bearer token: the --token flag first, then
// the session saved by the login command.
func resolveToken(flags *GlobalFlags) (string, error) {
	if flags.Token != "" {
		return flags.Token, nil
	}

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return "", err
	}
	if cfg.Session.Valid() {
		return cfg.Session.Token, nil
	}
	if cfg.Session.Token != "" {
		return "", fmt.Errorf("saved session expired at %s; run 'relaymesh-cli login' again",
			cfg.Session.ExpiresAt.Format(time.RFC3339))
	}
	return "", fmt.Errorf("not logged in; run 'relaymesh-cli login' or pass --token")
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
