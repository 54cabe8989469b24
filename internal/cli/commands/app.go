package commands

import (
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/kutbudev/pharm-cli/internal/config"
	"github.com/kutbudev/pharm-cli/internal/logging"
	"github.com/kutbudev/pharm-cli/internal/medication"
	"github.com/kutbudev/pharm-cli/internal/store"
)

const envKey = "pharm.env"

// env is what every command action works with, built once in Before.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *store.Store
	svc    *medication.Service
}

// NewApp builds the pharm command line application.
func NewApp(version string) *cli.App {
	return &cli.App{
		Name:    "pharm",
		Usage:   "CLI-first medication management tool",
		Version: version,
		Description: "A simple CLI tool to help remind you to take your medication and maintain " +
			"medication compliance. Everything is saved as JSON for easy import/export.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "file",
				Usage: "medication data file (overrides data_file from config)",
			},
		},
		// the built-in help command would claim "h", which history uses
		HideHelpCommand: true,
		Metadata:        map[string]interface{}{},
		Before:          setup,
		Commands: []*cli.Command{
			NewAddCommand(),
			NewRemoveCommand(),
			NewTakeCommand(),
			NewUntakeCommand(),
			NewTakeAllCommand(),
			NewEditCommand(),
			NewListCommand(),
			NewHistoryCommand(),
			NewDaemonCommand(),
			NewExportCommand(),
			NewConfigCommand(),
			NewMcpCommand(),
		},
	}
}

func setup(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if file := c.String("file"); file != "" {
		cfg.DataFile = file
	}

	logger := logging.New(c.App.ErrWriter, cfg.LogLevel, cfg.LogFormat)
	st := store.New(cfg.DataFile, logger)
	c.App.Metadata[envKey] = &env{
		cfg:    cfg,
		logger: logger,
		store:  st,
		svc:    medication.NewService(st, medication.WithHistoryDays(cfg.HistoryDays)),
	}
	return nil
}

func envFrom(c *cli.Context) (*env, error) {
	e, ok := c.App.Metadata[envKey].(*env)
	if !ok {
		return nil, fmt.Errorf("pharm is not initialised")
	}
	return e, nil
}
