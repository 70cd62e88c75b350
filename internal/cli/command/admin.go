package command

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/relaymesh-go/internal/cli/output"
)

// AdminCommand returns the admin command.
func AdminCommand() *cli.Command {
	return &cli.Command{
		Name:   "admin",
		Usage:  "Fetch the admin greeting (requires admin scope)",
		Action: adminAction,
	}
}

func adminAction(c *cli.Context) error {
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

	message, err := cl.Admin(ctx, token)
	if err != nil {
		return err
	}

	fmt.Println(message)
	return nil
}

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show server status (requires admin scope)",
		Action: statusAction,
	}
}

func statusAction(c *cli.Context) error {
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

	summary, err := cl.StatusSummary(ctx, token)
	if err != nil {
		return err
	}

	formatter := output.NewFormatter(output.Format(flags.Output), flags.Wide)
	return formatter.Format(os.Stdout, summary)
}
