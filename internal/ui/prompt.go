package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// RunCommandMsg is sent when the prompt is submitted.
type RunCommandMsg struct {
	Line string
}

// DismissPromptMsg is sent when the prompt is cancelled (Esc).
type DismissPromptMsg struct{}

// PromptView reads one method call, e.g. "insert 1 #zeta".
type PromptView struct {
	input textinput.Model
}

var _ View = (*PromptView)(nil)

// NewPromptView creates a focused prompt.
func NewPromptView() *PromptView {
	in := textinput.New()
	in.Prompt = ":"
	in.Placeholder = "method args…"
	in.CharLimit = 256
	in.Focus()
	return &PromptView{input: in}
}

// Init implements View.
func (p *PromptView) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements View.
func (p *PromptView) Update(msg tea.Msg) (View, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return p, func() tea.Msg { return DismissPromptMsg{} }
		case "enter":
			line := strings.TrimSpace(p.input.Value())
			if line == "" {
				return p, func() tea.Msg { return DismissPromptMsg{} }
			}
			return p, func() tea.Msg { return RunCommandMsg{Line: line} }
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

// View implements View.
func (p *PromptView) View() string {
	return p.input.View()
}

// Value returns the text typed so far.
func (p *PromptView) Value() string {
	return p.input.Value()
}
