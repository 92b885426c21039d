// Package main provides the openingweeks CLI tool for classifying chess games
// by opening and aggregating them by ISO week.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
