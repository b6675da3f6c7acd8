package main

import (
	"os"

	"github.com/omnidive/omnidive/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
