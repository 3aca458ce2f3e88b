package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tectonic/internal/dom"
	"tectonic/internal/event"
	"tectonic/internal/layout"
	"tectonic/internal/tectonic"
)

func newTestCarousel(t *testing.T, opts tectonic.Options) (*Carousel, *Slide) {
	t.Helper()
	root, err := dom.ParseString(`<ul id="deck"><li id="a">A</li><li id="b">B</li></ul>`)
	if err != nil {
		t.Fatal(err)
	}
	slide := NewSlide(time.Second)
	reg := layout.NewRegistry()
	reg.Register("default", layout.Default)
	reg.Register(SlideName, slide)
	m := NewCarousel(CarouselConfig{
		Plugin:  tectonic.NewPlugin(tectonic.Config{Registry: reg}),
		Element: root,
		Options: opts,
		Slide:   slide,
		Layouts: reg.Names(),
	})
	return m, slide
}

// press sends a key and feeds the bound command's message back in.
func press(m *Carousel, keys ...string) {
	for _, k := range keys {
		_, cmd := m.Update(keyMsg(k))
		if cmd == nil {
			continue
		}
		if msg := cmd(); msg != nil {
			if _, ok := msg.(tea.QuitMsg); !ok {
				m.Update(msg)
			}
		}
	}
}

// submit types line into an open prompt and presses enter.
func submit(m *Carousel, line string) {
	for _, r := range line {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	_, cmd := m.Update(keyMsg("enter"))
	if cmd != nil {
		m.Update(cmd())
	}
}

func labels(m *Carousel) string {
	return strings.Join(dom.Labels(m.Container().All()), " ")
}

func TestCarousel_SelectionWraps(t *testing.T) {
	m, _ := newTestCarousel(t, tectonic.Options{tectonic.OptSelectedIndex: 0})
	c := m.Container()

	press(m, "right")
	if c.SelectedIndex() != 1 {
		t.Fatalf("after right: selected %d, want 1", c.SelectedIndex())
	}
	if !dom.HasClass(c.Get(1), layout.ActiveClass) || dom.HasClass(c.Get(0), layout.ActiveClass) {
		t.Error("highlight did not follow the selection")
	}
	press(m, "right")
	if c.SelectedIndex() != 0 {
		t.Errorf("right should wrap to 0, got %d", c.SelectedIndex())
	}
	press(m, "left")
	if c.SelectedIndex() != 1 {
		t.Errorf("left should wrap to 1, got %d", c.SelectedIndex())
	}
}

func TestCarousel_NoSelectionStartsAtEnds(t *testing.T) {
	m, _ := newTestCarousel(t, nil)
	press(m, "left")
	if m.Container().SelectedIndex() != 1 {
		t.Errorf("left with no selection = %d, want last", m.Container().SelectedIndex())
	}
}

func TestCarousel_EditKeys(t *testing.T) {
	m, _ := newTestCarousel(t, tectonic.Options{tectonic.OptSelectedIndex: 0})

	press(m, "a")
	if got := labels(m); got != "a b item-1" {
		t.Fatalf("after append: %s", got)
	}
	press(m, "i")
	if got := labels(m); got != "item-2 a b item-1" {
		t.Fatalf("after insert: %s", got)
	}
	// Selection stays on a, now at index 1.
	press(m, "]")
	if got := labels(m); got != "item-2 b a item-1" {
		t.Fatalf("after move right: %s", got)
	}
	press(m, "[", "[")
	if got := labels(m); got != "a item-2 b item-1" {
		t.Fatalf("after move left twice: %s", got)
	}
	press(m, "[")
	if got := labels(m); got != "a item-2 b item-1" {
		t.Fatalf("move left at the front should do nothing: %s", got)
	}
	press(m, "x")
	if got := labels(m); got != "item-2 b item-1" {
		t.Fatalf("after remove: %s", got)
	}
	press(m, "x")
	if status, _ := m.Status(); status != "nothing selected" {
		t.Errorf("remove with no selection: status %q", status)
	}

	log := m.Events().Events()
	counts := map[event.Type]int{}
	for _, e := range log {
		counts[e.Type]++
	}
	if counts[event.Add] != 2 || counts[event.Move] != 3 || counts[event.Remove] != 1 {
		t.Errorf("event counts = %v", counts)
	}
}

func TestCarousel_LeaderEmptyAndLayout(t *testing.T) {
	m, _ := newTestCarousel(t, tectonic.Options{tectonic.OptLayout: "default"})

	press(m, " ", "l")
	if v, _ := m.Container().Option(tectonic.OptLayout); v != SlideName {
		t.Errorf("layout after SPC l = %v, want slide", v)
	}
	press(m, " ", "l")
	if v, _ := m.Container().Option(tectonic.OptLayout); v != "default" {
		t.Errorf("layout should cycle back to default, got %v", v)
	}

	press(m, " ", "e")
	if m.Container().Len() != 0 {
		t.Errorf("SPC e should empty the container, len %d", m.Container().Len())
	}
	if !strings.Contains(m.View(), "no items") {
		t.Error("empty deck not rendered")
	}
}

func TestCarousel_SlideLayoutShowsPending(t *testing.T) {
	m, slide := newTestCarousel(t, tectonic.Options{tectonic.OptLayout: SlideName})

	press(m, "a")
	c := m.Container()
	if !c.Busy() || c.Len() != 2 {
		t.Fatalf("busy=%v len=%d, want pending append", c.Busy(), c.Len())
	}
	if !strings.Contains(m.View(), "waiting for confirmation") {
		t.Error("pending confirmation not rendered")
	}
	press(m, "a")
	if c.Backlog() != 1 {
		t.Errorf("second append should be queued, backlog %d", c.Backlog())
	}
	if !strings.Contains(m.View(), "(1 queued)") {
		t.Error("backlog not rendered")
	}

	m.Update(SlideDoneMsg{ID: 1})
	m.Update(SlideDoneMsg{ID: 2})
	if c.Busy() || c.Len() != 4 {
		t.Errorf("after landing: busy=%v len=%d", c.Busy(), c.Len())
	}
	if slide.Waiting() != 0 {
		t.Errorf("slides still waiting: %d", slide.Waiting())
	}
}

func TestCarousel_PromptDispatchesThroughPlugin(t *testing.T) {
	m, _ := newTestCarousel(t, nil)

	press(m, ":")
	if m.mode() != ModePrompt {
		t.Fatalf("mode = %v, want prompt", m.mode())
	}
	submit(m, "length")
	if status, err := m.Status(); err != nil || status != "length: 2" {
		t.Errorf("length: status=%q err=%v", status, err)
	}
	if m.mode() != ModeBrowse {
		t.Errorf("prompt should close after submit, mode %v", m.mode())
	}

	press(m, ":")
	submit(m, "insert 1 #zeta")
	if got := labels(m); got != "a zeta b" {
		t.Errorf("after insert: %s", got)
	}

	press(m, ":")
	submit(m, "_private")
	if _, err := m.Status(); !errors.Is(err, tectonic.ErrNoSuchMethod) {
		t.Errorf("internal method: err = %v", err)
	}

	press(m, ":")
	submit(m, "get nope")
	if _, err := m.Status(); !errors.Is(err, tectonic.ErrBadArgument) {
		t.Errorf("bad argument: err = %v", err)
	}
}

func TestCarousel_PromptEscCancels(t *testing.T) {
	m, _ := newTestCarousel(t, nil)
	press(m, ":")
	m.Update(keyMsg("a"))
	m.Update(keyMsg("esc"))
	if m.mode() != ModeBrowse {
		t.Errorf("esc should close the prompt, mode %v", m.mode())
	}
	if m.Container().Len() != 2 {
		t.Error("keys typed into the prompt reached the container")
	}
}

func TestCarousel_DestroyAndReattach(t *testing.T) {
	m, _ := newTestCarousel(t, nil)
	press(m, ":")
	submit(m, "destroy")
	if m.Container() != nil || m.mode() != ModeDetached {
		t.Fatalf("container=%v mode=%v after destroy", m.Container(), m.mode())
	}
	if !strings.Contains(m.View(), "container destroyed") {
		t.Error("detached state not rendered")
	}

	press(m, "a")
	press(m, ":")
	submit(m, "length")
	if _, err := m.Status(); !errors.Is(err, tectonic.ErrNotInitialized) {
		t.Errorf("call after destroy: err = %v", err)
	}

	press(m, "r")
	if m.Container() == nil || m.Container().Len() != 2 {
		t.Fatal("r should reattach a container over the same element")
	}
}

func TestCarousel_TabFocusesLog(t *testing.T) {
	m, _ := newTestCarousel(t, nil)
	press(m, "tab")
	if !m.focus.Is(FocusLog) {
		t.Error("tab should focus the event log")
	}
	press(m, "tab")
	if !m.focus.Is(FocusDeck) {
		t.Error("tab should cycle back to the deck")
	}
}

func TestCarousel_Quit(t *testing.T) {
	m, _ := newTestCarousel(t, nil)
	for _, k := range []string{"q", "ctrl+c"} {
		_, cmd := m.Update(keyMsg(k))
		if cmd == nil {
			t.Fatalf("%s: no command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s should quit", k)
		}
	}
}
