package main

import (
	"os"

	"github.com/idilsaglam/todoboard/internal/cli"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

func main() {
	os.Exit(cli.Execute(version))
}
