// Package main is the entry point for the wartsdump decoder CLI.
package main

import (
	"fmt"
	"os"

	"firestige.xyz/warts/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
