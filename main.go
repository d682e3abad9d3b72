package main

import (
	"os"

	"github.com/abhisek/gifted/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
