package main

import (
	"os"

	"github.com/TFMV/echograph3d/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
