package main

import (
	"os"

	"github.com/vortechstudio/appinstall/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
