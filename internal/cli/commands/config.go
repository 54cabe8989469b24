package commands

import (
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/kutbudev/pharm-cli/internal/config"
)

// NewConfigCommand prints the effective configuration.
func NewConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show the effective configuration",
		Action: func(c *cli.Context) error {
			e, err := envFrom(c)
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(configView(e.cfg))
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}

			w := c.App.Writer
			fmt.Fprintf(w, "# config file: %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
			fmt.Fprintln(w, "# environment overrides use the PHARM_ prefix, e.g. PHARM_DATA_FILE")
			fmt.Fprint(w, string(out))
			return nil
		},
	}
}

func configView(cfg *config.Config) map[string]interface{} {
	return map[string]interface{}{
		"data_file":     cfg.DataFile,
		"poll_interval": cfg.PollInterval.String(),
		"notifier":      cfg.Notifier,
		"urgency":       cfg.Urgency,
		"history_days":  cfg.HistoryDays,
		"log_level":     cfg.LogLevel,
		"log_format":    cfg.LogFormat,
	}
}
