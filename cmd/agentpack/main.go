package main

import (
	"os"

	"github.com/agentpack/agentpack/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
