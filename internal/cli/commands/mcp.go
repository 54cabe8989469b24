package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/kutbudev/pharm-cli/internal/mcp"
)

func NewMcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "MCP (Model Context Protocol) server management",
		Subcommands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start MCP server (stdio)",
				Action: func(c *cli.Context) error {
					e, err := envFrom(c)
					if err != nil {
						return err
					}
					return mcp.ServeStdio(c.Context, e.svc, c.App.Version)
				},
			},
			{
				Name:  "config",
				Usage: "Print MCP config examples for clients",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "client",
						Aliases: []string{"c"},
						Usage:   "target client (generic|codex)",
						Value:   "generic",
					},
				},
				Action: func(c *cli.Context) error {
					switch strings.ToLower(c.String("client")) {
					case "codex":
						printCodexConfig(c)
					default:
						printGenericConfig(c)
					}
					return nil
				},
			},
			{
				Name:  "tools",
				Usage: "List available MCP tools",
				Action: func(c *cli.Context) error {
					b, err := json.MarshalIndent(mcp.ToolDefinitions(), "", "  ")
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, string(b))
					return nil
				},
			},
		},
	}
}

func printGenericConfig(c *cli.Context) {
	cfg := map[string]interface{}{
		"mcpServers": map[string]interface{}{
			"pharm": map[string]interface{}{
				"command": "pharm",
				"args":    []string{"mcp", "serve"},
			},
		},
	}
	b, _ := json.MarshalIndent(cfg, "", "  ")
	fmt.Fprintln(c.App.Writer, string(b))
}

func printCodexConfig(c *cli.Context) {
	w := c.App.Writer
	fmt.Fprintln(w, "# Add the following to ~/.codex/config.toml (merge with existing settings)")
	fmt.Fprintln(w, "[mcp_servers.pharm]")
	fmt.Fprintln(w, "command = \"pharm\"")
	fmt.Fprintln(w, "args = [\"mcp\", \"serve\"]")
	fmt.Fprintln(w, "enabled = true")
}
