package main

import (
	"os"

	"github.com/finfeed-dev/finfeed/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
