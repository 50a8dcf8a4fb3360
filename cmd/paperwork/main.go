// Command paperwork runs the bookkeeping HTTP API and maintenance commands.
package main

import (
	"os"

	"github.com/warp/paperwork/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr))
}
