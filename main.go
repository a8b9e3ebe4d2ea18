package main

import (
	"os"

	"github.com/dogfinder/dogmatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
