package ui

import tea "github.com/charmbracelet/bubbletea"

// View is a region of the carousel screen (the event log, the ":" prompt)
// that the Carousel model owns and forwards messages to. Update returns the
// region itself so overlays can swap it in place.
type View interface {
	Init() tea.Cmd
	Update(tea.Msg) (View, tea.Cmd)
	View() string
}
