// Package ui provides console implementations of the modelcmp.Confirmer
// interface.
package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vvk-labs/modelcmp/pkg/modelcmp"
)

// ConsoleConfirmer implements the Confirmer interface with a plain yes/no
// prompt on the terminal. Used when stdin is interactive but a full TUI is
// not wanted.
type ConsoleConfirmer struct {
	in  io.Reader
	out io.Writer
}

// NewConsoleConfirmer creates a ConsoleConfirmer reading stdin and writing
// stderr.
func NewConsoleConfirmer() *ConsoleConfirmer {
	return &ConsoleConfirmer{in: os.Stdin, out: os.Stderr}
}

// Confirm prints the prompt and reads a yes/no answer. Anything other than
// an explicit yes is treated as a decline; dismissal (EOF) declines too.
func (c *ConsoleConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	fmt.Fprintf(c.out, "\n%s [y/N]: ", prompt)

	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		reader := bufio.NewReader(c.in)
		input, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				inputChan <- strings.TrimSpace(input)
				return
			}
			errChan <- err
			return
		}
		inputChan <- strings.TrimSpace(input)
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-errChan:
		return false, fmt.Errorf("failed to read input: %w", err)
	case input := <-inputChan:
		switch strings.ToLower(input) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	}
}

// Verify ConsoleConfirmer implements the Confirmer interface at compile time
var _ modelcmp.Confirmer = (*ConsoleConfirmer)(nil)
