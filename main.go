package main

import (
	"shireesh.com/bootgen/cmd"
	"shireesh.com/bootgen/internal/generator"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	generator.Version = version
	cmd.Execute()
}
