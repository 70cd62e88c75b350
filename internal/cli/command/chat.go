package command

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/relaymesh-go/internal/cli/chat"
	"github.com/yndnr/relaymesh-go/internal/cli/output"
	"github.com/yndnr/relaymesh-go/internal/client"
)

// ChatCommand returns the interactive chat command.
func ChatCommand() *cli.Command {
	return &cli.Command{
		Name:  "chat",
		Usage: "Open a channel and relay messages interactively",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "history-file",
				Usage: "Chat input history file",
				Value: chat.DefaultHistoryFile(),
			},
		},
		Action: chatAction,
	}
}

func chatAction(c *cli.Context) error {
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

	spinner := output.NewSpinner(os.Stderr, "connecting to "+cl.BaseURL())
	spinner.Start()

	handle, err := cl.Connect(ctx, token)
	if err != nil {
		spinner.Fail("connect failed")
		return err
	}
	spinner.Stop()
	defer handle.Close()

	loop := chat.New(handle, chat.Options{
		Input:       os.Stdin,
		Output:      os.Stdout,
		HistoryFile: c.String("history-file"),
	})

	handle.OnMessage(func(m client.Message) {
		loop.ShowMessage(m.Seq, m.Payload, m.SentAt)
	})
	handle.OnStateChange(func(s client.State) {
		loop.ShowEvent(fmt.Sprintf("channel %s", s))
	})

	return loop.Run()
}
