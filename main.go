package main

import (
	"os"

	"github.com/floodlab/riskdispatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
