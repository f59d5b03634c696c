package main

import (
	"os"

	"github.com/subfmt/subfmt/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
