package main

import (
	"os"

	"vaultwire/cmd/vaultwire/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
