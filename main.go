// Package main provides the entry point for the video segmenter CLI.
package main

import (
	"fmt"
	"os"

	"github.com/maauso/video-segmenter/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
