package ui

import "slices"

// Focus targets.
const (
	FocusDeck = "deck"
	FocusLog  = "log"
)

// FocusManager tracks and rotates focus across the carousel's regions.
type FocusManager struct {
	Current  string   // ID of the focused region
	Order    []string // Tab order for focus rotation
	OnChange func(from, to string)
}

// Next advances focus to the next region in order and returns it.
func (f *FocusManager) Next() string {
	return f.step(1)
}

// Prev moves focus to the previous region in order and returns it.
func (f *FocusManager) Prev() string {
	return f.step(-1)
}

// Is reports whether id has focus.
func (f *FocusManager) Is(id string) bool {
	return f.Current == id
}

func (f *FocusManager) step(delta int) string {
	if len(f.Order) == 0 {
		return ""
	}
	idx := slices.Index(f.Order, f.Current)
	if idx < 0 && delta < 0 {
		idx = 0
	}
	n := len(f.Order)
	f.set(f.Order[((idx+delta)%n+n)%n])
	return f.Current
}

func (f *FocusManager) set(id string) {
	from := f.Current
	f.Current = id
	if f.OnChange != nil && from != id {
		f.OnChange(from, id)
	}
}
