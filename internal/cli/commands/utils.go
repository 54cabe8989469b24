package commands

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
)

// Helper functions shared across commands

func stringPtr(s string) *string {
	return &s
}

func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// flagsAfterName fails when a flag follows the positional name. urfave/cli
// stops parsing flags at the first argument, so "add Metformin --dose 5mg"
// would otherwise lose every flag.
func flagsAfterName(c *cli.Context, example string) error {
	args := c.Args().Slice()
	for i := 1; i < len(args); i++ {
		if strings.HasPrefix(args[i], "-") {
			return fmt.Errorf("flag %s was given after the name %q; put flags before the name, e.g. '%s'", args[i], args[0], example)
		}
	}
	return nil
}
