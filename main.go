// insights scores websites and estimates keyword metrics. It serves an HTTP
// API and offers the same analyses from the command line.
package main

import (
	"os"

	"github.com/seo-optimizer/insights/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
