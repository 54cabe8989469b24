package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/urfave/cli/v2"
)

// NewExportCommand writes the medication database as JSON.
func NewExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all medications and history as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Write to this file instead of stdout"},
			&cli.BoolFlag{Name: "clipboard", Aliases: []string{"c"}, Usage: "Copy to the clipboard"},
		},
		Action: func(c *cli.Context) error {
			e, err := envFrom(c)
			if err != nil {
				return err
			}

			db := e.svc.Export()
			db.Normalize()
			data, err := json.MarshalIndent(db, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode medications: %w", err)
			}

			output := c.String("output")
			toClipboard := c.Bool("clipboard")

			if output != "" {
				if err := os.WriteFile(output, append(data, '\n'), 0o600); err != nil {
					return fmt.Errorf("failed to write %s: %w", output, err)
				}
				fmt.Fprintf(c.App.Writer, "✅ Exported %d active and %d archived medications to %s\n",
					len(db.Medications), len(db.ArchivedMedications), output)
			}
			if toClipboard {
				if err := clipboard.WriteAll(string(data)); err != nil {
					return fmt.Errorf("failed to copy to clipboard: %w", err)
				}
				fmt.Fprintln(c.App.Writer, "📋 Copied to clipboard")
			}
			if output == "" && !toClipboard {
				fmt.Fprintln(c.App.Writer, string(data))
			}
			return nil
		},
	}
}
