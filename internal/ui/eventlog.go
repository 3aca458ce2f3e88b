package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"tectonic/internal/dom"
	"tectonic/internal/event"
)

const (
	defaultLogWidth  = 60
	defaultLogHeight = 6
	maxLogEvents     = 200
)

// EventLog displays container events with scrollback. It is the
// container's notifier in the TUI.
type EventLog struct {
	events   []event.Event
	viewport viewport.Model
}

var (
	_ View           = (*EventLog)(nil)
	_ event.Notifier = (*EventLog)(nil)
)

// NewEventLog creates an empty event log.
func NewEventLog() *EventLog {
	l := &EventLog{viewport: viewport.New(defaultLogWidth, defaultLogHeight)}
	l.refreshContent()
	return l
}

// Notify implements event.Notifier.
func (l *EventLog) Notify(e event.Event) {
	l.events = append(l.events, e)
	if len(l.events) > maxLogEvents {
		l.events = l.events[len(l.events)-maxLogEvents:]
	}
	l.refreshContent()
}

// Events returns the logged events, oldest first.
func (l *EventLog) Events() []event.Event {
	return l.events
}

// Init implements View.
func (l *EventLog) Init() tea.Cmd {
	return l.viewport.Init()
}

// Update implements View.
func (l *EventLog) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case event.Event:
		l.Notify(msg)
		return l, nil
	case tea.WindowSizeMsg:
		w := msg.Width - 4
		if w < 20 {
			w = 20
		}
		l.viewport.Width = w
		l.refreshContent()
		return l, nil
	}
	var cmd tea.Cmd
	l.viewport, cmd = l.viewport.Update(msg)
	return l, cmd
}

// View implements View.
func (l *EventLog) View() string {
	return l.viewport.View()
}

func (l *EventLog) refreshContent() {
	lines := make([]string, 0, len(l.events))
	for _, ev := range l.events {
		lines = append(lines, formatEvent(ev))
	}
	content := strings.Join(lines, "\n")
	if content == "" {
		content = Styles.Empty.Render("No events yet")
	}
	l.viewport.SetContent(content)
	l.viewport.GotoBottom()
}

func formatEvent(ev event.Event) string {
	ts := ev.Time.Format("15:04:05")
	item := "none"
	if ev.Item != nil {
		item = dom.Label(ev.Item)
	}
	return fmt.Sprintf("[%s] %s %s %s index=%d", ts, eventIcon(ev.Type), ev.Name(), item, ev.Index)
}

func eventIcon(t event.Type) string {
	switch t {
	case event.Add:
		return "+"
	case event.Remove:
		return "-"
	case event.Move:
		return "↔"
	case event.Select:
		return "●"
	default:
		return "•"
	}
}
