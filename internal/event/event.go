// Package event defines the notifications a container emits, one per
// committed mutation, and a few sinks for them.
package event

import (
	"sync"
	"time"

	"golang.org/x/net/html"
)

// Type distinguishes the mutation that was committed.
type Type string

const (
	Add    Type = "add"
	Remove Type = "remove"
	Move   Type = "move"
	Select Type = "select"
)

// Types lists every event type in a stable order.
var Types = []Type{Add, Remove, Move, Select}

// Prefix is prepended to a Type to form the generic notification name.
const Prefix = "tectonic"

// Event describes one committed mutation.
type Event struct {
	Type Type
	// Item is nil for a select-to-none event.
	Item *html.Node
	// Index is the committed position; -1 for a select-to-none event.
	Index int
	Time  time.Time
}

// Name returns the generic notification name, e.g. "tectonicadd".
func (e Event) Name() string {
	return Prefix + string(e.Type)
}

// Handler is a per-type callback configured through container options.
type Handler func(Event)

// Notifier receives every event a container emits.
type Notifier interface {
	Notify(Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Event)

// Notify implements Notifier.
func (f NotifierFunc) Notify(e Event) { f(e) }

// Multi fans an event out to several notifiers in order. Nil entries are skipped.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(e Event) {
	for _, n := range m {
		if n != nil {
			n.Notify(e)
		}
	}
}

// ChanEmitter sends events to a channel.
type ChanEmitter struct {
	Ch chan<- Event
}

// Notify sends the event to the channel (non-blocking; drops if full).
func (e *ChanEmitter) Notify(ev Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	select {
	case e.Ch <- ev:
	default:
		// Channel full; a slow reader must not stall the commit path
	}
}

// Log keeps the most recent events in memory.
type Log struct {
	mu     sync.Mutex
	events []Event
	limit  int
}

// NewLog creates a log holding at most limit events (default 100).
func NewLog(limit int) *Log {
	if limit <= 0 {
		limit = 100
	}
	return &Log{limit: limit}
}

// Notify implements Notifier.
func (l *Log) Notify(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
	if over := len(l.events) - l.limit; over > 0 {
		l.events = append(l.events[:0:0], l.events[over:]...)
	}
}

// Events returns a copy of the recorded events, oldest first.
func (l *Log) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event(nil), l.events...)
}

// Types returns the recorded event types, oldest first.
func (l *Log) Types() []Type {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Type, len(l.events))
	for i, e := range l.events {
		out[i] = e.Type
	}
	return out
}

// Count returns how many recorded events have type t.
func (l *Log) Count(t Type) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

// Len returns the number of recorded events.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// Reset drops the recorded events.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
}
