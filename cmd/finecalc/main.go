package main

import (
	"os"

	"github.com/jask/finecalc/cmd/finecalc/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
