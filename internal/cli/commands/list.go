package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/kutbudev/pharm-cli/internal/medication"
)

// NewListCommand shows active, archived or currently due medications.
func NewListCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"l", "s", "show"},
		Usage:   "List all medications",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "archived", Aliases: []string{"a"}, Usage: "Show archived medications instead of active ones"},
			&cli.BoolFlag{Name: "due", Usage: "Show only medications that are due now (past scheduled time and interval)"},
		},
		Action: func(c *cli.Context) error {
			e, err := envFrom(c)
			if err != nil {
				return err
			}

			archived := c.Bool("archived")
			due := c.Bool("due")
			meds := e.svc.List(medication.ListQuery{Archived: archived, DueOnly: due})

			w := c.App.Writer
			if len(meds) == 0 {
				switch {
				case due:
					fmt.Fprintln(w, "🎉 No medications are currently due.")
				case archived:
					fmt.Fprintln(w, "No archived medications found.")
				default:
					fmt.Fprintln(w, "No active medications found. Use 'pharm add' to add one.")
				}
				return nil
			}

			heading := "Active Medications:"
			switch {
			case due:
				heading = "Medications Due Now:"
			case archived:
				heading = "Archived Medications:"
			}
			renderMedications(w, heading, meds, archived, isDueAt(e.svc))
			return nil
		},
	}
}

// NewHistoryCommand prints dose history with adherence.
func NewHistoryCommand() *cli.Command {
	return &cli.Command{
		Name:      "history",
		Aliases:   []string{"h"},
		Usage:     "View medication history",
		ArgsUsage: "[--days N] [--archived] [name]",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "days", Aliases: []string{"d"}, Usage: "Number of days to show (adherence uses history_days when unset)"},
			&cli.BoolFlag{Name: "archived", Aliases: []string{"a"}, Usage: "Show only archived medications"},
		},
		Action: func(c *cli.Context) error {
			e, err := envFrom(c)
			if err != nil {
				return err
			}
			days := c.Int("days")
			if days < 0 {
				return fmt.Errorf("--days must not be negative")
			}

			reports, err := e.svc.History(medication.HistoryQuery{
				Name:         c.Args().First(),
				Days:         days,
				ArchivedOnly: c.Bool("archived"),
			})
			if err != nil {
				return fail(c, err)
			}

			w := c.App.Writer
			if len(reports) == 0 {
				if c.Bool("archived") {
					fmt.Fprintln(w, "No archived medications found.")
				} else {
					fmt.Fprintln(w, "No medications found.")
				}
				return nil
			}
			for _, r := range reports {
				renderHistory(w, r)
			}
			fmt.Fprintln(w)
			return nil
		},
	}
}
