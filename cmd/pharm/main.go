package main

import (
	"log"
	"os"

	"github.com/kutbudev/pharm-cli/internal/cli/commands"
)

// Version will be set during build with ldflags
var Version = "0.3.0"

func main() {
	app := commands.NewApp(Version)

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
