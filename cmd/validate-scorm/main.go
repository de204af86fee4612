package main

import (
	"os"

	"github.com/alexanderramin/scormbuilder/internal/cli"
)

func main() {
	os.Exit(cli.RunValidateScorm(os.Args[1:], os.Stdout, os.Stderr))
}
