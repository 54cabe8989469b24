package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/kutbudev/pharm-cli/internal/medication"
)

// NewEditCommand changes dose, time, frequency or notes in place.
func NewEditCommand() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Aliases:   []string{"e"},
		Usage:     "Edit an existing medication",
		ArgsUsage: "[--dose D] [--time T] [--freq F] [--notes N] name",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dose", Usage: "New dosage"},
			&cli.StringFlag{Name: "time", Usage: "New time to take"},
			&cli.StringFlag{Name: "freq", Usage: "New frequency"},
			&cli.StringFlag{Name: "notes", Usage: "New notes (use \"\" to clear)"},
		},
		Action: func(c *cli.Context) error {
			e, err := envFrom(c)
			if err != nil {
				return err
			}
			name, err := nameArg(c)
			if err != nil {
				return err
			}
			if err := flagsAfterName(c, "pharm edit --dose 1000mg Metformin"); err != nil {
				return err
			}

			var req medication.EditRequest
			if c.IsSet("dose") {
				req.Dose = stringPtr(c.String("dose"))
			}
			if c.IsSet("time") {
				req.Time = stringPtr(c.String("time"))
			}
			if c.IsSet("freq") {
				req.Frequency = stringPtr(c.String("freq"))
			}
			if c.IsSet("notes") {
				req.Notes = stringPtr(c.String("notes"))
			}

			result, err := e.svc.Edit(name, req)
			if errors.Is(err, medication.ErrNoChanges) {
				fmt.Fprintf(c.App.Writer, "No changes specified for '%s'\n", result.Medication.Name)
				fmt.Fprintln(c.App.Writer, "💡 Use --dose, --time, --freq or --notes")
				return nil
			}
			if err != nil {
				return fail(c, err)
			}

			fmt.Fprintf(c.App.Writer, "✏️  Updated '%s': %s\n", result.Medication.Name, strings.Join(result.Changes, ", "))
			return nil
		},
	}
}
