package command

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/relaymesh-go/internal/cli/config"
)

// LoginCommand returns the login command.
func LoginCommand() *cli.Command {
	return &cli.Command{
		Name:      "login",
		Usage:     "Authenticate and save a session token",
		ArgsUsage: "IDENTITY",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "secret",
				Usage:   "Login secret (prompted when omitted)",
				EnvVars: []string{"RELAYMESH_SECRET"},
			},
			&cli.BoolFlag{
				Name:  "no-save",
				Usage: "Print the token without saving the session",
			},
		},
		Action: loginAction,
	}
}

func loginAction(c *cli.Context) error {
	identity := c.Args().First()
	if identity == "" {
		return fmt.Errorf("identity required")
	}

	secret := c.String("secret")
	if secret == "" {
		fmt.Print("Secret: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("read secret: %w", err)
		}
		secret = strings.TrimSpace(line)
	}

	flags := ParseGlobalFlags(c)
	cl, err := newClient(flags)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), flags.Timeout)
	defer cancel()

	sess, err := cl.Login(ctx, identity, secret)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Printf("Logged in as %s (scope: %s), token expires %s\n",
		sess.Subject, sess.Scope, sess.ExpiresAt.Format("2006-01-02 15:04:05"))

	if c.Bool("no-save") {
		fmt.Printf("Token: %s\n", sess.Token)
		return nil
	}

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return err
	}
	cfg.Session = config.SavedSession{
		Token:     sess.Token,
		Subject:   sess.Subject,
		Scope:     sess.Scope,
		ExpiresAt: sess.ExpiresAt,
	}
	if flags.Server != "" {
		cfg.Server = flags.Server
	}
	if err := config.Save(cfg, flags.ConfigPath); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	fmt.Println("Session saved.")
	return nil
}
