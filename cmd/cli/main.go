// Package main is the entry point for the admissions CLI binary.
package main

import (
	"os"

	cli "admissions-explorer/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
