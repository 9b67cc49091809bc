package main

import (
	"fmt"
	"os"

	"fontpair/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "fontpair:", err)
		os.Exit(1)
	}
}
