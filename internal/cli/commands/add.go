package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/kutbudev/pharm-cli/internal/medication"
	"github.com/kutbudev/pharm-cli/internal/schedule"
)

// NewAddCommand adds a medication, or brings an archived one back.
func NewAddCommand() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Aliases:   []string{"a", "ad"},
		Usage:     "Add a new medication",
		ArgsUsage: "[--dose D --time T --freq F] [name]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dose", Aliases: []string{"d"}, Usage: "Dosage (e.g. \"500mg\", \"10ml\")"},
			&cli.StringFlag{Name: "time", Aliases: []string{"t"}, Usage: "Time to take (e.g. \"8:00\", \"08:30\", \"8\" or \"morning\", \"noon\", \"evening\")"},
			&cli.StringFlag{Name: "freq", Aliases: []string{"f"}, Usage: "How often (e.g. \"daily\", \"every 2 days\", \"weekly\", \"as needed\")"},
			&cli.StringFlag{Name: "notes", Aliases: []string{"n"}, Usage: "Optional notes"},
			&cli.BoolFlag{Name: "interactive", Aliases: []string{"i"}, Usage: "Prompt for missing fields"},
		},
		Action: func(c *cli.Context) error {
			e, err := envFrom(c)
			if err != nil {
				return err
			}

			if err := flagsAfterName(c, "pharm add --dose 500mg --time 8:00 --freq daily Metformin"); err != nil {
				return err
			}

			req := medication.AddRequest{
				Name:      c.Args().First(),
				Dose:      c.String("dose"),
				Time:      c.String("time"),
				Frequency: c.String("freq"),
			}
			if c.IsSet("notes") {
				req.Notes = stringPtr(c.String("notes"))
			}

			if c.Bool("interactive") {
				if !term.IsTerminal(int(os.Stdin.Fd())) {
					return errors.New("interactive mode needs a terminal")
				}
				if err := promptAdd(&req); err != nil {
					return fmt.Errorf("interactive add failed: %w", err)
				}
			} else if err := requireAddFields(req); err != nil {
				return err
			}

			result, err := e.svc.Add(req)
			if err != nil {
				return fail(c, err)
			}

			w := c.App.Writer
			name := result.Medication.Name
			if result.Unarchived {
				fmt.Fprintf(w, "♻️  Unarchived medication: %s\n", name)
				if result.RestoredDoses > 0 {
					fmt.Fprintf(w, "   Restored %d dose %s from archive\n", result.RestoredDoses, plural(result.RestoredDoses, "record"))
					fmt.Fprintf(w, "   View history with: pharm history \"%s\"\n", name)
				}
				return nil
			}
			fmt.Fprintf(w, "✅ Added medication: %s\n", name)
			return nil
		},
	}
}

func requireAddFields(req medication.AddRequest) error {
	var missing []string
	if strings.TrimSpace(req.Name) == "" {
		missing = append(missing, "name")
	}
	if req.Dose == "" {
		missing = append(missing, "--dose")
	}
	if req.Time == "" {
		missing = append(missing, "--time")
	}
	if req.Frequency == "" {
		missing = append(missing, "--freq")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s (flags go before the name, or use --interactive)", strings.Join(missing, ", "))
	}
	return nil
}

func validateTime(ans interface{}) error {
	s, _ := ans.(string)
	if _, ok := schedule.ParseTime(s); !ok {
		return fmt.Errorf("invalid time format '%s'", s)
	}
	return nil
}

// promptAdd asks for every field not given on the command line.
func promptAdd(req *medication.AddRequest) error {
	var qs []*survey.Question
	if strings.TrimSpace(req.Name) == "" {
		qs = append(qs, &survey.Question{
			Name:     "name",
			Prompt:   &survey.Input{Message: "Medication name:"},
			Validate: survey.Required,
		})
	}
	if req.Dose == "" {
		qs = append(qs, &survey.Question{
			Name:     "dose",
			Prompt:   &survey.Input{Message: "Dose (e.g. 500mg):"},
			Validate: survey.Required,
		})
	}
	if req.Time == "" {
		qs = append(qs, &survey.Question{
			Name:     "time",
			Prompt:   &survey.Input{Message: "Time to take:", Default: "morning", Help: schedule.TimeFormatHelp},
			Validate: survey.ComposeValidators(survey.Required, validateTime),
		})
	}
	if req.Frequency == "" {
		qs = append(qs, &survey.Question{
			Name:     "freq",
			Prompt:   &survey.Input{Message: "How often:", Default: "daily", Help: "daily, every N days, weekly, as needed"},
			Validate: survey.Required,
		})
	}
	if req.Notes == nil {
		qs = append(qs, &survey.Question{
			Name:   "notes",
			Prompt: &survey.Input{Message: "Notes (optional):"},
		})
	}

	answers := struct {
		Name  string `survey:"name"`
		Dose  string `survey:"dose"`
		Time  string `survey:"time"`
		Freq  string `survey:"freq"`
		Notes string `survey:"notes"`
	}{}
	if err := survey.Ask(qs, &answers); err != nil {
		return err
	}

	if answers.Name != "" {
		req.Name = answers.Name
	}
	if answers.Dose != "" {
		req.Dose = answers.Dose
	}
	if answers.Time != "" {
		req.Time = answers.Time
	}
	if answers.Freq != "" {
		req.Frequency = answers.Freq
	}
	if req.Notes == nil && answers.Notes != "" {
		req.Notes = stringPtr(answers.Notes)
	}
	return nil
}
