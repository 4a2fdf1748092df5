// Package main is the entry point for the resell-valuator.
package main

import (
	"os"

	"github.com/donaldgifford/resell-valuator/cmd/resell-valuator/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
