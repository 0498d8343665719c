package main

import (
	"os"

	"socialfi/cmd/socialfi/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
