package commands

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/kutbudev/pharm-cli/internal/medication"
	"github.com/kutbudev/pharm-cli/internal/schedule"
)

// hintFor returns guidance printed under a failed command, or "".
func hintFor(err error) string {
	var merr *medication.Error
	errors.As(err, &merr)

	switch {
	case errors.Is(err, medication.ErrArchived) && merr != nil:
		return fmt.Sprintf("💡 It is in the archive. Use 'pharm add --dose ... --time ... --freq ... \"%s\"' to reactivate it.", merr.Name)
	case errors.Is(err, medication.ErrNotFound):
		return "💡 Use 'pharm list' to see your medications."
	case errors.Is(err, medication.ErrValidation) && merr != nil && merr.Field == "time":
		return schedule.TimeFormatHelp
	}
	return ""
}

// fail prints the error's guidance to stderr and hands the error back to
// urfave/cli.
func fail(c *cli.Context, err error) error {
	if hint := hintFor(err); hint != "" {
		fmt.Fprintln(c.App.ErrWriter, hint)
	}
	return err
}
