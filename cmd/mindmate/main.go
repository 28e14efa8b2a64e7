package main

import (
	"os"

	"github.com/mindmate/triage-client/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
