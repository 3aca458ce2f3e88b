package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/net/html"

	"tectonic/internal/dom"
	"tectonic/internal/event"
	"tectonic/internal/layout"
	"tectonic/internal/tectonic"
	"tectonic/internal/ui/textutil"
)

const (
	cardWidth   = 12
	defaultItem = "li"
)

// Carousel key actions.
type (
	stepSelectionMsg struct{ delta int }
	shiftItemMsg     struct{ delta int }
	appendItemMsg    struct{}
	insertItemMsg    struct{}
	removeItemMsg    struct{}
	emptyMsg         struct{}
	cycleLayoutMsg   struct{}
	openPromptMsg    struct{}
	focusNextMsg     struct{}
	reattachMsg      struct{}
)

// CarouselConfig configures NewCarousel.
type CarouselConfig struct {
	Plugin  *tectonic.Plugin
	Element *html.Node
	Options tectonic.Options
	// Slide receives SlideDoneMsg ticks. Nil when the slide layout is not registered.
	Slide *Slide
	// Layouts are the names SPC l cycles through.
	Layouts []string
	Logger  *slog.Logger
}

// Carousel renders one container as a row of cards and drives it from
// the keyboard and the ":" prompt.
type Carousel struct {
	plugin  *tectonic.Plugin
	elem    *html.Node
	opts    tectonic.Options
	slide   *Slide
	layouts []string
	logger  *slog.Logger

	events   *EventLog
	keys     *KeyHandler
	help     help.Model
	spinner  spinner.Model
	overlays OverlayStack
	focus    FocusManager

	status  string
	err     error
	created int
}

var _ tea.Model = (*Carousel)(nil)

// NewCarousel attaches a container to cfg.Element and wraps it in a model.
func NewCarousel(cfg CarouselConfig) *Carousel {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	m := &Carousel{
		plugin:  cfg.Plugin,
		elem:    cfg.Element,
		slide:   cfg.Slide,
		layouts: cfg.Layouts,
		logger:  logger,
		events:  NewEventLog(),
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(Styles.Pending)),
		focus:   FocusManager{Current: FocusDeck, Order: []string{FocusDeck, FocusLog}},
	}
	m.opts = maps.Clone(cfg.Options)
	if m.opts == nil {
		m.opts = tectonic.Options{}
	}
	for _, t := range event.Types {
		m.opts[string(t)] = event.Handler(m.events.Notify)
	}
	m.help.Styles.ShortKey = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHighlight)).Bold(true)
	m.help.Styles.ShortDesc = Styles.Hint
	m.help.Styles.ShortSeparator = Styles.Hint
	m.keys = NewKeyHandler(m.bindings())
	m.plugin.Attach(m.elem, m.opts)
	return m
}

func (m *Carousel) bindings() *KeybindRegistry {
	send := func(msg tea.Msg) tea.Cmd { return func() tea.Msg { return msg } }
	reg := NewKeybindRegistry()
	reg.BindWithDesc("q", tea.Quit, "quit")
	reg.BindWithDesc("SPC q", tea.Quit, "quit")
	reg.BindWithDesc(":", send(openPromptMsg{}), "command")
	reg.BindWithDesc("left", send(stepSelectionMsg{delta: -1}), "prev", ModeBrowse)
	reg.BindWithDesc("right", send(stepSelectionMsg{delta: 1}), "next", ModeBrowse)
	reg.BindWithDesc("h", send(stepSelectionMsg{delta: -1}), "", ModeBrowse)
	reg.BindWithDesc("l", send(stepSelectionMsg{delta: 1}), "", ModeBrowse)
	reg.BindWithDesc("a", send(appendItemMsg{}), "append", ModeBrowse)
	reg.BindWithDesc("i", send(insertItemMsg{}), "insert", ModeBrowse)
	reg.BindWithDesc("x", send(removeItemMsg{}), "remove", ModeBrowse)
	reg.BindWithDesc("[", send(shiftItemMsg{delta: -1}), "move left", ModeBrowse)
	reg.BindWithDesc("]", send(shiftItemMsg{delta: 1}), "move right", ModeBrowse)
	reg.BindWithDesc("tab", send(focusNextMsg{}), "focus", ModeBrowse)
	reg.BindWithDesc("SPC l", send(cycleLayoutMsg{}), "layout", ModeBrowse)
	reg.BindWithDesc("SPC e", send(emptyMsg{}), "empty", ModeBrowse)
	reg.BindWithDesc("r", send(reattachMsg{}), "reattach", ModeDetached)
	return reg
}

// Container returns the attached container, or nil after destroy.
func (m *Carousel) Container() *tectonic.Container {
	c, _ := m.plugin.Instance(m.elem)
	return c
}

// Events returns the event log.
func (m *Carousel) Events() *EventLog {
	return m.events
}

// Status returns the last status message and command error.
func (m *Carousel) Status() (string, error) {
	return m.status, m.err
}

func (m *Carousel) mode() Mode {
	switch {
	case m.overlays.Len() > 0:
		return ModePrompt
	case m.Container() == nil:
		return ModeDetached
	default:
		return ModeBrowse
	}
}

// Init implements tea.Model.
func (m *Carousel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.events.Init(), m.flush())
}

// Update implements tea.Model.
func (m *Carousel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.keys.Mode = m.mode()
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		_, cmd := m.events.Update(msg)
		return m, cmd
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case SlideDoneMsg:
		if m.slide != nil && m.slide.Done(msg.ID) {
			m.logger.Debug("slide landed", "id", msg.ID)
		}
		return m, m.flush()
	case RunCommandMsg:
		m.overlays.Pop()
		m.run(msg.Line)
		return m, m.flush()
	case DismissPromptMsg:
		m.overlays.Pop()
		return m, nil
	case openPromptMsg:
		p := NewPromptView()
		m.overlays.Push(Overlay{View: p, Dismiss: "esc"})
		return m, p.Init()
	case focusNextMsg:
		m.focus.Next()
		return m, nil
	case reattachMsg:
		m.plugin.Attach(m.elem, m.opts)
		m.setStatus("attached", nil)
		return m, m.flush()
	case stepSelectionMsg, shiftItemMsg, appendItemMsg, insertItemMsg, removeItemMsg, emptyMsg, cycleLayoutMsg:
		if c := m.Container(); c != nil {
			m.apply(c, msg)
		}
		return m, m.flush()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if cmd, ok := m.overlays.UpdateTop(msg); ok {
			return m, cmd
		}
		if consumed, cmd := m.keys.Handle(msg); consumed {
			return m, cmd
		}
		if m.focus.Is(FocusLog) {
			_, cmd := m.events.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	if cmd, ok := m.overlays.UpdateTop(msg); ok {
		return m, cmd
	}
	return m, nil
}

func (m *Carousel) apply(c *tectonic.Container, msg tea.Msg) {
	switch msg := msg.(type) {
	case stepSelectionMsg:
		n := c.Len()
		if n == 0 {
			return
		}
		i := c.SelectedIndex()
		switch {
		case i >= 0:
			i = ((i+msg.delta)%n + n) % n
		case msg.delta > 0:
			i = 0
		default:
			i = n - 1
		}
		c.SetSelectedIndex(i)
	case appendItemMsg:
		h := m.newItem("")
		c.Append(h)
		m.setStatus("append "+dom.Label(h), nil)
	case insertItemMsg:
		h := m.newItem("")
		i := max(c.SelectedIndex(), 0)
		c.Insert(i, h)
		m.setStatus(fmt.Sprintf("insert %s at %d", dom.Label(h), i), nil)
	case removeItemMsg:
		i := c.SelectedIndex()
		if i < 0 {
			m.setStatus("nothing selected", nil)
			return
		}
		c.RemoveAt(i)
	case emptyMsg:
		c.Empty()
	case shiftItemMsg:
		h := c.Value()
		if h == nil {
			m.setStatus("nothing selected", nil)
			return
		}
		// Insert places h in front of the item at the target index.
		target := c.Index(h) + 2
		if msg.delta < 0 {
			target = c.Index(h) - 1
		}
		if target < 0 {
			return
		}
		c.Insert(target, h)
	case cycleLayoutMsg:
		if len(m.layouts) == 0 {
			return
		}
		cur, _ := c.Option(tectonic.OptLayout)
		name, _ := cur.(string)
		idx := slices.Index(m.layouts, strings.ToLower(strings.TrimSpace(name)))
		next := m.layouts[(idx+1)%len(m.layouts)]
		c.SetOption(tectonic.OptLayout, next)
		m.setStatus("layout "+next, nil)
	}
}

// run dispatches a prompt line through the plugin's method bridge.
func (m *Carousel) run(line string) {
	name, args, err := parseCommand(line, m.elem, m.newItem)
	if err != nil {
		m.setStatus("", err)
		return
	}
	res, err := m.plugin.Call(m.elem, name, args...)
	if err != nil {
		m.logger.Debug("command failed", "line", line, "err", err)
		if errors.Is(err, tectonic.ErrNotInitialized) {
			err = fmt.Errorf("%w (press r to reattach)", err)
		}
		m.setStatus("", err)
		return
	}
	m.setStatus(name+": "+FormatResult(res), nil)
}

func (m *Carousel) setStatus(s string, err error) {
	m.status = s
	m.err = err
}

// newItem creates a detached element shaped like the container's items.
func (m *Carousel) newItem(id string) *html.Node {
	if id == "" {
		m.created++
		id = fmt.Sprintf("item-%d", m.created)
	}
	tag := defaultItem
	if first := m.elem.FirstChild; first != nil {
		for n := first; n != nil; n = n.NextSibling {
			if n.Type == html.ElementNode {
				tag = n.Data
				break
			}
		}
	}
	return dom.NewElement(tag, id, id)
}

// flush collects the ticks queued by the slide layout.
func (m *Carousel) flush() tea.Cmd {
	if m.slide == nil {
		return nil
	}
	return tea.Batch(m.slide.Cmds()...)
}

// View implements tea.Model.
func (m *Carousel) View() string {
	var b strings.Builder
	c := m.Container()

	b.WriteString(Styles.Title.Render("tectonic"))
	if c != nil {
		name, _ := c.Option(tectonic.OptLayout)
		if name == nil || name == "" {
			name = "default"
		}
		if _, ok := name.(string); !ok {
			name = "custom"
		}
		b.WriteString(Styles.Muted.Render(fmt.Sprintf("  layout: %v  items: %d  selected: %d", name, c.Len(), c.SelectedIndex())))
	} else {
		b.WriteString(Styles.Muted.Render("  detached"))
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderDeck(c))
	b.WriteString("\n")
	b.WriteString(m.renderStatus(c))
	b.WriteString("\n")

	logStyle := Styles.Box
	if m.focus.Is(FocusLog) {
		logStyle = Styles.Focused
	}
	b.WriteString(logStyle.Render(m.events.View()))
	b.WriteString("\n")

	if top, ok := m.overlays.Peek(); ok {
		b.WriteString(top.View.View())
		b.WriteString("\n")
		b.WriteString(m.help.ShortHelpView([]key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}))
		return b.String()
	}
	m.keys.Mode = m.mode()
	b.WriteString(m.help.View(NewKeyMap(m.keys)))
	return b.String()
}

func (m *Carousel) renderDeck(c *tectonic.Container) string {
	if c == nil {
		return Styles.Empty.Render("container destroyed")
	}
	selector, _ := c.Option(tectonic.OptSelector)
	sel, _ := selector.(string)
	children := dom.Children(m.elem, sel)
	if len(children) == 0 {
		return Styles.Empty.Render("no items")
	}
	cards := make([]string, 0, len(children))
	for _, n := range children {
		style := Styles.Item
		if dom.HasClass(n, layout.ActiveClass) {
			style = Styles.Active
		}
		cards = append(cards, style.Render(textutil.Center(dom.Label(n), cardWidth)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m *Carousel) renderStatus(c *tectonic.Container) string {
	switch {
	case c != nil && c.Busy():
		s := m.spinner.View() + " " + Styles.Pending.Render("waiting for confirmation")
		if n := c.Backlog(); n > 0 {
			s += Styles.Muted.Render(fmt.Sprintf(" (%d queued)", n))
		}
		return s
	case m.err != nil:
		return Styles.Error.Render(m.err.Error())
	default:
		return Styles.Status.Render(m.status)
	}
}
