package event

import (
	"slices"
	"testing"
	"time"
)

func TestEventName(t *testing.T) {
	for _, typ := range Types {
		e := Event{Type: typ}
		if got, want := e.Name(), "tectonic"+string(typ); got != want {
			t.Errorf("Event{%s}.Name() = %q, want %q", typ, got, want)
		}
	}
}

func TestChanEmitter_Nonblocking(t *testing.T) {
	ch := make(chan Event, 1)
	e := &ChanEmitter{Ch: ch}
	e.Notify(Event{Type: Add})
	e.Notify(Event{Type: Remove}) // dropped, channel full

	got := <-ch
	if got.Type != Add {
		t.Errorf("received %v, want add", got.Type)
	}
	if got.Time.IsZero() {
		t.Error("ChanEmitter: expected timestamp to be filled in")
	}
	select {
	case extra := <-ch:
		t.Errorf("unexpected second event %v", extra.Type)
	default:
	}
}

func TestMulti(t *testing.T) {
	var a, b []Type
	m := Multi{
		NotifierFunc(func(e Event) { a = append(a, e.Type) }),
		nil,
		NotifierFunc(func(e Event) { b = append(b, e.Type) }),
	}
	m.Notify(Event{Type: Move})
	if !slices.Equal(a, []Type{Move}) || !slices.Equal(b, []Type{Move}) {
		t.Errorf("Multi: a=%v b=%v, want [move] each", a, b)
	}
}

func TestLog_Bounded(t *testing.T) {
	l := NewLog(2)
	l.Notify(Event{Type: Add, Time: time.Now()})
	l.Notify(Event{Type: Move})
	l.Notify(Event{Type: Select})

	if got := l.Types(); !slices.Equal(got, []Type{Move, Select}) {
		t.Errorf("Types() = %v, want [move select]", got)
	}
	if l.Count(Add) != 0 || l.Count(Select) != 1 {
		t.Errorf("Count: add=%d select=%d", l.Count(Add), l.Count(Select))
	}
	if l.Len() != 2 || len(l.Events()) != 2 {
		t.Errorf("Len() = %d, want 2", l.Len())
	}
	l.Reset()
	if l.Len() != 0 {
		t.Errorf("Reset: Len() = %d, want 0", l.Len())
	}
}

func TestNewLog_Default(t *testing.T) {
	if l := NewLog(0); l.limit != 100 {
		t.Errorf("NewLog(0): limit = %d, want 100", l.limit)
	}
}
