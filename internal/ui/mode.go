package ui

// Mode is the carousel's input mode.
type Mode int

const (
	// ModeBrowse drives an attached container.
	ModeBrowse Mode = iota
	// ModePrompt routes keys to the command prompt.
	ModePrompt
	// ModeDetached is entered once the container has been destroyed.
	ModeDetached
)

func (m Mode) String() string {
	switch m {
	case ModeBrowse:
		return "Browse"
	case ModePrompt:
		return "Prompt"
	case ModeDetached:
		return "Detached"
	default:
		return "Unknown"
	}
}
