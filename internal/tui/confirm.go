// Package tui contains the terminal user interface pieces of modelcmp:
// interactive-mode detection and the full-terminal confirmation prompt.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vvk-labs/modelcmp/pkg/modelcmp"
)

// ConfirmPrompt is a Confirmer backed by a bubbletea yes/no selector. It is
// used when a full terminal is available; plain-pipe sessions fall back to
// the console confirmer.
type ConfirmPrompt struct{}

// NewConfirmPrompt creates a ConfirmPrompt.
func NewConfirmPrompt() *ConfirmPrompt {
	return &ConfirmPrompt{}
}

// Confirm runs the prompt and returns the operator's choice. Quitting the
// prompt (esc, q, ctrl+c) counts as a decline, mirroring a dismissed dialog.
func (p *ConfirmPrompt) Confirm(ctx context.Context, prompt string) (bool, error) {
	model := newConfirmModel(prompt)
	program := tea.NewProgram(model, tea.WithContext(ctx))

	final, err := program.Run()
	if err != nil {
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}

	m, ok := final.(confirmModel)
	if !ok {
		return false, nil
	}
	return m.accepted, nil
}

// Verify ConfirmPrompt implements the Confirmer interface at compile time
var _ modelcmp.Confirmer = (*ConfirmPrompt)(nil)

type confirmModel struct {
	prompt   string
	cursor   int
	accepted bool
	done     bool
	keyMap   confirmKeyMap
	styles   confirmStyles
}

type confirmKeyMap struct {
	Toggle key.Binding
	Select key.Binding
	Quit   key.Binding
}

type confirmStyles struct {
	Prompt     lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Help       lipgloss.Style
}

func defaultConfirmStyles() confirmStyles {
	return confirmStyles{
		Prompt:     lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Selected:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		Unselected: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Help:       lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1),
	}
}

func defaultConfirmKeyMap() confirmKeyMap {
	return confirmKeyMap{
		Toggle: key.NewBinding(
			key.WithKeys("left", "right", "h", "l", "tab"),
			key.WithHelp("←/→", "toggle"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q/esc", "abort"),
		),
	}
}

func newConfirmModel(prompt string) confirmModel {
	return confirmModel{
		prompt: prompt,
		cursor: 1, // default to No
		keyMap: defaultConfirmKeyMap(),
		styles: defaultConfirmStyles(),
	}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keyMap.Toggle):
		m.cursor = 1 - m.cursor
	case key.Matches(keyMsg, m.keyMap.Select):
		m.accepted = m.cursor == 0
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keyMap.Quit):
		m.accepted = false
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}

	yes := "  Yes  "
	no := "  No  "
	if m.cursor == 0 {
		yes = m.styles.Selected.Render("> Yes <")
		no = m.styles.Unselected.Render(no)
	} else {
		yes = m.styles.Unselected.Render(yes)
		no = m.styles.Selected.Render("> No <")
	}

	return m.styles.Prompt.Render(m.prompt) + "\n" +
		yes + "   " + no + "\n" +
		m.styles.Help.Render("←/→ toggle • enter select • esc abort")
}
