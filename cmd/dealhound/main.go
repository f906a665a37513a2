// Package main is the entry point for dealhound.
package main

import (
	"os"

	"github.com/donaldgifford/dealhound/cmd/dealhound/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
