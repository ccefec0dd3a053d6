package tui

import (
	"os"

	"golang.org/x/term"
)

// Mode says whether modelcmp may put questions to the operator. The only
// question it ever asks is the compatibility-upgrade prompt, so the mode
// decides between prompting and skipping negotiation entirely.
type Mode int

const (
	// ModeNonInteractive suppresses all prompts (pipelines, scripts, piped IO).
	ModeNonInteractive Mode = iota
	// ModeInteractive allows the upgrade prompt to be shown.
	ModeInteractive
)

// DetectMode inspects the environment and the standard streams.
//
// The explicit opt-out MODELCMP_NON_INTERACTIVE=1 wins, then the usual
// automation markers (CI, NO_COLOR), and finally both stdin and stdout must
// be terminals, since the prompt reads one and renders on the other.
func DetectMode() Mode {
	if os.Getenv("MODELCMP_NON_INTERACTIVE") == "1" {
		return ModeNonInteractive
	}
	if os.Getenv("CI") != "" {
		return ModeNonInteractive
	}
	if os.Getenv("NO_COLOR") != "" {
		return ModeNonInteractive
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return ModeNonInteractive
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return ModeNonInteractive
	}

	return ModeInteractive
}

// IsInteractive reports whether DetectMode allows prompting.
func IsInteractive() bool {
	return DetectMode() == ModeInteractive
}
