package command

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/relaymesh-go/internal/cli/output"
	"github.com/yndnr/relaymesh-go/internal/core/domain"
	"github.com/yndnr/relaymesh-go/internal/storage"
	"github.com/yndnr/relaymesh-go/internal/storage/badgerstore"
)

// UserCommand returns the user subcommand group.
//
// Commands operate through the admin API by default. With --data-dir
// they open the server's credential store directly, for bootstrapping
// users before the server has ever run.
func UserCommand() *cli.Command {
	dataDirFlag := &cli.StringFlag{
		Name:    "data-dir",
		Usage:   "Operate on a local credential store instead of the admin API",
		EnvVars: []string{"RELAYMESH_DATA_DIR"},
	}

	return &cli.Command{
		Name:  "user",
		Usage: "Manage login credentials",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Register a new user",
				ArgsUsage: "IDENTITY",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "secret",
						Usage:    "Login secret",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "scope",
						Usage: "Privilege scope: user or admin",
						Value: "user",
					},
					dataDirFlag,
				},
				Action: userAdd,
			},
			{
				Name:      "hash",
				Usage:     "Print the argon2 hash of a secret, for config seeds",
				ArgsUsage: "SECRET",
				Action:    userHash,
			},
			{
				Name:   "list",
				Usage:  "List registered users",
				Flags:  []cli.Flag{dataDirFlag},
				Action: userList,
			},
			{
				Name:      "remove",
				Usage:     "Remove a user",
				ArgsUsage: "IDENTITY",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Skip confirmation",
					},
					dataDirFlag,
				},
				Action: userRemove,
			},
		},
	}
}

// userEntry is a list row. The secret hash never leaves the store.
type userEntry struct {
	Identity  string    `json:"identity"`
	Scope     string    `json:"scope"`
	CreatedAt time.Time `json:"created_at"`
}

func userAdd(c *cli.Context) error {
	identity := c.Args().First()
	if identity == "" {
		return fmt.Errorf("identity required")
	}
	secret := c.String("secret")
	scope := c.String("scope")

	if dir := c.String("data-dir"); dir != "" {
		store, err := openLocalStore(dir)
		if err != nil {
			return err
		}
		defer store.Close()

		parsedScope, err := domain.ParseScope(scope)
		if err != nil {
			return err
		}
		cred, err := domain.NewCredential(identity, secret, parsedScope)
		if err != nil {
			return err
		}
		if err := store.Create(context.Background(), cred); err != nil {
			return err
		}
		fmt.Printf("User %s (%s) added to %s\n", identity, scope, dir)
		return nil
	}

	flags := ParseGlobalFlags(c)
	token, err := resolveToken(flags)
	if err != nil {
		return err
	}
	cl, err := newClient(flags)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), flags.Timeout)
	defer cancel()

	user, err := cl.CreateUser(ctx, token, identity, secret, scope)
	if err != nil {
		return err
	}

	fmt.Printf("User %s (%s) created\n", user.Identity, user.Scope)
	return nil
}

func userHash(c *cli.Context) error {
	secret := c.Args().First()
	if secret == "" {
		return fmt.Errorf("secret required")
	}

	hash, err := domain.HashSecret(secret)
	if err != nil {
		return err
	}

	fmt.Println(hash)
	return nil
}

func userList(c *cli.Context) error {
	flags := ParseGlobalFlags(c)

	var entries []userEntry

	if dir := c.String("data-dir"); dir != "" {
		store, err := openLocalStore(dir)
		if err != nil {
			return err
		}
		defer store.Close()

		creds, err := store.List(context.Background())
		if err != nil {
			return err
		}
		for _, cred := range creds {
			entries = append(entries, userEntry{
				Identity:  cred.Identity,
				Scope:     string(cred.Scope),
				CreatedAt: cred.CreatedAtTime(),
			})
		}
	} else {
		token, err := resolveToken(flags)
		if err != nil {
			return err
		}
		cl, err := newClient(flags)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), flags.Timeout)
		defer cancel()

		users, err := cl.ListUsers(ctx, token)
		if err != nil {
			return err
		}
		for _, u := range users {
			entries = append(entries, userEntry{
				Identity:  u.Identity,
				Scope:     u.Scope,
				CreatedAt: u.CreatedAt,
			})
		}
	}

	formatter := output.NewFormatter(output.Format(flags.Output), flags.Wide)
	return formatter.Format(os.Stdout, entries)
}

func userRemove(c *cli.Context) error {
	identity := c.Args().First()
	if identity == "" {
		return fmt.Errorf("identity required")
	}

	if !c.Bool("force") {
		fmt.Printf("Remove user '%s'? [y/N]: ", identity)
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "y" && confirm != "Y" {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if dir := c.String("data-dir"); dir != "" {
		store, err := openLocalStore(dir)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(context.Background(), identity); err != nil {
			return err
		}
		fmt.Printf("User %s removed\n", identity)
		return nil
	}

	flags := ParseGlobalFlags(c)
	token, err := resolveToken(flags)
	if err != nil {
		return err
	}
	cl, err := newClient(flags)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), flags.Timeout)
	defer cancel()

	if err := cl.DeleteUser(ctx, token, identity); err != nil {
		return err
	}

	fmt.Printf("User %s removed\n", identity)
	return nil
}

// openLocalStore opens the badger-backed credential store directly.
// Badger's own chatter is discarded; CLI output stays clean.
func openLocalStore(dir string) (storage.CredentialStore, error) {
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	return badgerstore.New(badgerstore.DefaultConfig(dir), quiet)
}
