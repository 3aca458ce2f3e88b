package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tectonic/internal/dom"
	"tectonic/internal/layout"
)

// SlideName is the registry name of the slide layout.
const SlideName = "slide"

// SlideDoneMsg is delivered when a slide animation finishes.
type SlideDoneMsg struct {
	ID int
}

// Slide is a layout that confirms every content operation after Delay.
// The DOM change and the commit happen together when the tick arrives,
// so the container shows each step only once it has "landed".
//
// Hooks queue tea.Tick commands; the model collects them with Cmds after
// every container call and hands each SlideDoneMsg back to Done.
type Slide struct {
	Delay time.Duration

	seq     int
	waiting map[int]func()
	cmds    []tea.Cmd
}

var _ layout.Strategy = (*Slide)(nil)

// NewSlide creates a slide layout.
func NewSlide(delay time.Duration) *Slide {
	return &Slide{Delay: delay, waiting: make(map[int]func())}
}

func (s *Slide) Setup(ctx layout.Context)    { layout.Default.Setup(ctx) }
func (s *Slide) Teardown(ctx layout.Context) { layout.Default.Teardown(ctx) }

func (s *Slide) Insert(ctx layout.Context, confirm layout.Confirm) layout.Result {
	return s.hold(func() { layout.Place(ctx) }, confirm)
}

func (s *Slide) Remove(ctx layout.Context, confirm layout.Confirm) layout.Result {
	return s.hold(func() { dom.Detach(ctx.Item) }, confirm)
}

func (s *Slide) Select(ctx layout.Context, confirm layout.Confirm) layout.Result {
	return s.hold(func() { layout.Highlight(ctx) }, confirm)
}

func (s *Slide) Move(ctx layout.Context, confirm layout.Confirm) layout.Result {
	return s.hold(func() { layout.Place(ctx) }, confirm)
}

func (s *Slide) hold(apply func(), confirm layout.Confirm) layout.Result {
	if s.Delay <= 0 {
		apply()
		return layout.Confirmed
	}
	s.seq++
	id := s.seq
	s.waiting[id] = func() {
		apply()
		confirm()
	}
	s.cmds = append(s.cmds, tea.Tick(s.Delay, func(time.Time) tea.Msg {
		return SlideDoneMsg{ID: id}
	}))
	return layout.Pending
}

// Done lands the animation id. It reports false for unknown or already
// landed ids.
func (s *Slide) Done(id int) bool {
	fn, ok := s.waiting[id]
	if !ok {
		return false
	}
	delete(s.waiting, id)
	fn()
	return true
}

// Settle lands every waiting animation in the order it started, including
// ones proposed while settling, and returns how many it landed. It drives
// the slide layout outside a Bubble Tea program.
func (s *Slide) Settle() int {
	landed := 0
	for len(s.waiting) > 0 {
		next := 0
		for id := range s.waiting {
			if next == 0 || id < next {
				next = id
			}
		}
		s.Done(next)
		landed++
	}
	s.cmds = nil
	return landed
}

// Cmds returns and clears the ticks queued since the last call.
func (s *Slide) Cmds() []tea.Cmd {
	out := s.cmds
	s.cmds = nil
	return out
}

// Waiting returns the number of animations still in flight.
func (s *Slide) Waiting() int {
	return len(s.waiting)
}
