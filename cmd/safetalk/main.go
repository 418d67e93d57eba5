package main

import (
	"fmt"
	"os"

	"github.com/soyeahso/safetalk/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "safetalk:", err)
		os.Exit(1)
	}
}
