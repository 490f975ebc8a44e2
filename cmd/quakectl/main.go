package main

import (
	"os"
)

// Version is set at build time
var Version = "dev"

func main() {
	root := newRootCmd()
	root.Version = Version
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
