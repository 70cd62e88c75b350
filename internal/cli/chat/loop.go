// Package chat provides the interactive channel mode for relaymesh-cli.
//
// The loop reads lines from the terminal and relays them over an open
// channel; messages delivered by the server are printed as they
// arrive. Slash commands control the session (/help, /status, /quit).
package chat

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Channel is the subset of the session controller's channel handle
// the loop drives.
type Channel interface {
	Send(text string) error
	ChannelID() string
	Subject() string
}

// Options configures a Loop.
type Options struct {
	Input       io.Reader
	Output      io.Writer
	HistoryFile string // empty disables history persistence
}

// Loop is the interactive read-send loop over an open channel.
type Loop struct {
	channel   Channel
	input     io.Reader
	completer *Completer
	history   *History

	mu  sync.Mutex // guards output interleaving with incoming messages
	out io.Writer
}

// New creates a chat loop over the given channel.
func New(ch Channel, opts Options) *Loop {
	return &Loop{
		channel:   ch,
		input:     opts.Input,
		out:       opts.Output,
		completer: NewCompleter(),
		history:   NewHistory(opts.HistoryFile),
	}
}

// ShowMessage prints a delivered message. Safe to call from the
// channel's receive goroutine while Run is reading input.
func (l *Loop) ShowMessage(seq uint64, text string, at time.Time) {
	l.printf("%s  #%d  %s\n", at.Format("15:04:05"), seq, text)
}

// ShowEvent prints a session event such as a state change.
func (l *Loop) ShowEvent(text string) {
	l.printf("* %s\n", text)
}

// Run reads lines until EOF or /quit. Each non-command line is sent
// over the channel.
func (l *Loop) Run() error {
	l.history.Load()
	defer l.history.Save()

	l.printf("connected as %s on %s (/help for commands)\n", l.channel.Subject(), l.channel.ChannelID())

	reader := bufio.NewReader(l.input)
	for {
		l.printf("%s> ", l.channel.Subject())

		line, err := reader.ReadString('\n')
		if err == io.EOF {
			l.printf("\n")
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		l.history.Add(line)

		if strings.HasPrefix(line, "/") {
			if quit := l.command(line); quit {
				return nil
			}
			continue
		}

		if err := l.channel.Send(line); err != nil {
			l.printf("send failed: %v\n", err)
		}
	}
}

// command handles a slash command, reporting whether to exit.
func (l *Loop) command(line string) bool {
	switch line {
	case "/quit", "/exit":
		return true
	case "/status":
		l.printf("channel: %s\nsubject: %s\n", l.channel.ChannelID(), l.channel.Subject())
	case "/help":
		l.printf("commands: /status /help /quit\nanything else is sent to the channel\n")
	default:
		l.printf("unknown command %s\n", line)
		if suggestions := l.completer.Complete(line); len(suggestions) > 0 {
			l.printf("did you mean: %s\n", strings.Join(suggestions, " "))
		}
	}
	return false
}

func (l *Loop) printf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, format, args...)
}
