package main

import (
	"os"

	"github.com/mindcheck/mindcheck/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
