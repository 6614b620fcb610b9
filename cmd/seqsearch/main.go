package main

import (
	"os"

	"github.com/custodia-labs/seqsearch-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
