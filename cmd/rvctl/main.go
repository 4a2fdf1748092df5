// Package main is the entry point for the rvctl CLI client.
package main

import (
	"github.com/donaldgifford/resell-valuator/cmd/rvctl/cmd"
)

func main() {
	cmd.Execute()
}
