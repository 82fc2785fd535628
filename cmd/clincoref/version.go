package main

import (
	"fmt"
)

// Set with -ldflags "-X main.BuildTag=... -X main.BuildCommit=..."
var (
	BuildTag    = "dev"
	BuildCommit = "none"
)

func versionCommand(ui UI) error {
	_, err := fmt.Fprintf(ui.Out, "clincoref version %s (commit: %s)\n", BuildTag, BuildCommit)
	return err
}
