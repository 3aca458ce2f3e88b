package ui

import tea "github.com/charmbracelet/bubbletea"

// Overlay is a View that takes keys ahead of the deck until its dismiss
// key is pressed.
type Overlay struct {
	View    View
	Dismiss string
}

// OverlayStack holds open overlays; the last one pushed gets input.
type OverlayStack struct {
	open []Overlay
}

func (s *OverlayStack) Push(o Overlay) { s.open = append(s.open, o) }

func (s *OverlayStack) Len() int { return len(s.open) }

// Peek returns the overlay receiving input.
func (s *OverlayStack) Peek() (Overlay, bool) {
	if n := len(s.open); n > 0 {
		return s.open[n-1], true
	}
	return Overlay{}, false
}

// Pop closes the overlay receiving input.
func (s *OverlayStack) Pop() (Overlay, bool) {
	top, ok := s.Peek()
	if ok {
		s.open = s.open[:len(s.open)-1]
	}
	return top, ok
}

// UpdateTop routes msg to the top overlay. The dismiss key closes it
// instead. It reports false when no overlay is open, so the deck handles
// msg.
func (s *OverlayStack) UpdateTop(msg tea.Msg) (tea.Cmd, bool) {
	n := len(s.open)
	if n == 0 {
		return nil, false
	}
	top := &s.open[n-1]
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == top.Dismiss {
		s.Pop()
		return nil, true
	}
	var cmd tea.Cmd
	top.View, cmd = top.View.Update(msg)
	return cmd, true
}
