package main

import (
	"os"

	"github.com/msto63/wavetype/cmd/wavetype/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
