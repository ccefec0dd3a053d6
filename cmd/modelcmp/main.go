package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/vvk-labs/modelcmp/internal/cli"
	"github.com/vvk-labs/modelcmp/pkg/modelcmp"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(modelcmp.ExitPanic)
		}
	}()

	if err := cli.Execute(); err != nil {
		os.Exit(modelcmp.ExitCodeForError(err))
	}
}
