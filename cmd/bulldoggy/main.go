package main

import (
	"fmt"
	"os"

	"github.com/eleven-am/bulldoggy/internal/cli"
	"github.com/eleven-am/bulldoggy/pkg/bulldoggy"
)

// Set through -ldflags "-X main.commit=... -X main.date=...".
var (
	commit string
	date   string
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func Execute() error {
	bulldoggy.SetBuildInfo(commit, date)

	cmd := cli.NewRootCommand()
	return cmd.Execute()
}
