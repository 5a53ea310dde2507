// Package main is the entry point for the azml CLI binary.
package main

import (
	"os"

	cli "azmlclient/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
