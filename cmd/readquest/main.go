// Package main is the single-binary entrypoint for ReadQuest.
package main

import "github.com/readquest/readquest/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
