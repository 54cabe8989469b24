package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/kutbudev/pharm-cli/internal/daemon"
	"github.com/kutbudev/pharm-cli/internal/notify"
)

// NewDaemonCommand runs the reminder loop in the foreground.
func NewDaemonCommand() *cli.Command {
	return &cli.Command{
		Name:    "daemon",
		Aliases: []string{"d"},
		Usage:   "Start the background daemon for reminders",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "notifier", Usage: "Override the notifier (desktop|log)"},
		},
		Action: func(c *cli.Context) error {
			e, err := envFrom(c)
			if err != nil {
				return err
			}

			kind := e.cfg.Notifier
			if c.IsSet("notifier") {
				kind = c.String("notifier")
			}
			notifier, err := notify.New(kind, e.logger)
			if err != nil {
				return err
			}
			urgency, err := notify.ParseUrgency(e.cfg.Urgency)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(c.App.Writer, "💊 Reminder daemon watching %s (Ctrl+C to stop)\n", e.store.Path())
			d := daemon.New(e.svc, notifier, daemon.Options{
				Interval: e.cfg.PollInterval,
				Urgency:  urgency,
				Logger:   e.logger,
			})
			return d.Run(ctx)
		},
	}
}
