package main

import (
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophid/internal/identctl"
)

func main() {
	if err := identctl.NewRootCommand(os.Stdin, os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "identctl:", err)
		os.Exit(1)
	}
}
