// Command wxvis is a terminal visualizer for scatter plots and daily
// weather station maps.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
