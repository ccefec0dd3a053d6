package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vvk-labs/modelcmp/pkg/modelcmp"
)

// AutoConfirmer implements the Confirmer interface for unattended runs where
// the operator pre-approved the upgrade with the --yes flag. It echoes the
// prompt so the decision is still visible in logs, then answers yes.
type AutoConfirmer struct {
	out io.Writer
}

// NewAutoConfirmer creates a new AutoConfirmer writing to stderr.
func NewAutoConfirmer() *AutoConfirmer {
	return &AutoConfirmer{out: os.Stderr}
}

// Confirm echoes the prompt and approves.
func (a *AutoConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintf(a.out, "\n%s\n", prompt)
	fmt.Fprintln(a.out, "Auto-accepting (--yes).")
	return true, nil
}

// Verify AutoConfirmer implements the Confirmer interface at compile time
var _ modelcmp.Confirmer = (*AutoConfirmer)(nil)
