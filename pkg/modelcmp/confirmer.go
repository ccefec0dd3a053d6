package modelcmp

import "context"

// Confirmer handles the single interactive decision point: whether to raise
// the target endpoint's compatibility level to match the source.
//
// Implementations:
//   - ui.ConsoleConfirmer: prompts on the terminal for a yes/no answer
//   - ui.AutoConfirmer: always answers yes (--yes flag)
//   - tui confirm model: full-screen prompt when a terminal is available
type Confirmer interface {
	// Confirm presents the prompt and returns the operator's answer.
	//
	// Returns:
	//   - bool: true to proceed with the upgrade, false to decline
	//   - error: any error that occurred while gathering the answer,
	//     including ctx cancellation
	Confirm(ctx context.Context, prompt string) (bool, error)
}
