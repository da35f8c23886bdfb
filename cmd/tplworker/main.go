// Command tplworker renders each stdin line through every configured template
// engine and answers with one JSON object per line followed by __END__.
package main

import (
	"context"
	"fmt"
	"os"
)

// Build information injected via ldflags at build time.
var version = "dev"

func main() {
	cmd := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	cmd.Version = version
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "tplworker:", err)
		os.Exit(1)
	}
}
