package main

import "github.com/ksyq12/siteman/internal/cli"

// Set via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.Execute()
}
