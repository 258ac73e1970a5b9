// Command sparkfmt formats the Spark SQL embedded in notebook cells.
package main

import (
	"os"

	"github.com/sparkfmt/sparkfmt/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
