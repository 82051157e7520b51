package main

import (
	"os"

	"github.com/thiagokokada/loggraph/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
