package main

import (
	"os"

	"github.com/Nathan-Luevano/Sift/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
