package commands

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/kutbudev/pharm-cli/internal/medication"
)

func nameArg(c *cli.Context) (string, error) {
	if c.NArg() == 0 {
		return "", fmt.Errorf("medication name is required")
	}
	return c.Args().First(), nil
}

// NewRemoveCommand archives a medication with its history.
func NewRemoveCommand() *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Aliases:   []string{"r"},
		Usage:     "Remove (archive) a medication",
		ArgsUsage: "[name]",
		Action: func(c *cli.Context) error {
			e, err := envFrom(c)
			if err != nil {
				return err
			}
			name, err := nameArg(c)
			if err != nil {
				return err
			}

			med, err := e.svc.Remove(name)
			if err != nil {
				return fail(c, err)
			}

			w := c.App.Writer
			fmt.Fprintf(w, "📦 Archived medication: %s\n", med.Name)
			if n := len(med.History); n > 0 {
				fmt.Fprintf(w, "   Preserved %d dose %s in archive\n", n, plural(n, "record"))
				fmt.Fprintf(w, "   View with: pharm history --archived \"%s\"\n", med.Name)
			}
			return nil
		},
	}
}

// NewTakeCommand marks a medication as taken now.
func NewTakeCommand() *cli.Command {
	return &cli.Command{
		Name:      "take",
		Aliases:   []string{"t"},
		Usage:     "Mark a medication as taken",
		ArgsUsage: "[name]",
		Action: func(c *cli.Context) error {
			e, err := envFrom(c)
			if err != nil {
				return err
			}
			name, err := nameArg(c)
			if err != nil {
				return err
			}

			med, err := e.svc.Take(name)
			if errors.Is(err, medication.ErrAlreadyTaken) {
				fmt.Fprintf(c.App.Writer, "ℹ️  '%s' is already marked as taken at %s\n", med.Name, med.TakenAt)
				return nil
			}
			if err != nil {
				return fail(c, err)
			}
			fmt.Fprintf(c.App.Writer, "✅ Marked '%s' as taken at %s\n", med.Name, med.TakenAt)
			return nil
		},
	}
}

// NewUntakeCommand undoes the last take.
func NewUntakeCommand() *cli.Command {
	return &cli.Command{
		Name:      "untake",
		Aliases:   []string{"u"},
		Usage:     "Mark a medication as NOT taken (undo)",
		ArgsUsage: "[name]",
		Action: func(c *cli.Context) error {
			e, err := envFrom(c)
			if err != nil {
				return err
			}
			name, err := nameArg(c)
			if err != nil {
				return err
			}

			med, err := e.svc.Untake(name)
			if errors.Is(err, medication.ErrNotTaken) {
				fmt.Fprintf(c.App.Writer, "ℹ️  '%s' is not currently marked as taken\n", med.Name)
				return nil
			}
			if err != nil {
				return fail(c, err)
			}
			fmt.Fprintf(c.App.Writer, "↩️  Unmarked '%s' as taken\n", med.Name)
			return nil
		},
	}
}

// NewTakeAllCommand marks every active medication as taken.
func NewTakeAllCommand() *cli.Command {
	return &cli.Command{
		Name:    "take-all",
		Aliases: []string{"ta"},
		Usage:   "Mark ALL medications as taken",
		Action: func(c *cli.Context) error {
			e, err := envFrom(c)
			if err != nil {
				return err
			}

			outcomes, err := e.svc.TakeAll()
			if err != nil {
				return fail(c, err)
			}

			w := c.App.Writer
			if len(outcomes) == 0 {
				fmt.Fprintln(w, "No medications to mark as taken.")
				return nil
			}

			taken := 0
			for _, o := range outcomes {
				if o.AlreadyTaken {
					fmt.Fprintf(w, "ℹ️  '%s' was already taken at %s\n", o.Name, o.TakenAt)
					continue
				}
				taken++
				fmt.Fprintf(w, "✅ Marked '%s' as taken at %s\n", o.Name, o.TakenAt)
			}
			fmt.Fprintf(w, "\n%d of %d %s marked as taken\n", taken, len(outcomes), plural(len(outcomes), "medication"))
			return nil
		},
	}
}
