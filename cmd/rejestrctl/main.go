package main

import (
	"os"

	"github.com/pweat/rejestr-prac/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
