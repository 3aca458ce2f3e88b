package tectonic

import (
	"slices"
	"time"

	"golang.org/x/net/html"

	"tectonic/internal/collection"
	"tectonic/internal/event"
	"tectonic/internal/layout"
)

// job is one queued public operation. It must call done exactly once, when
// its last step has been committed.
type job func(done func())

// step is a single-item proposal.
type step struct {
	op    layout.Op
	item  *html.Node
	index int
}

// chain proposes steps one at a time; next is asked for the following step
// only after the previous one has been committed.
type chain struct {
	c    *Container
	next func() (step, bool)
	done func()
}

// enqueue runs j now if nothing is in flight, otherwise after the jobs
// queued before it.
func (c *Container) enqueue(j job) {
	c.backlog = append(c.backlog, j)
	if c.busy {
		c.logger.Debug("operation queued behind pending confirmation", "backlog", len(c.backlog))
	}
	c.drain()
}

// drain starts queued jobs until one of them is left waiting for a
// deferred confirmation. Re-entrant calls return immediately; the outer
// loop picks up whatever they queued.
func (c *Container) drain() {
	if c.draining {
		return
	}
	c.draining = true
	defer func() { c.draining = false }()

	for !c.busy && !c.destroyed && len(c.backlog) > 0 {
		j := c.backlog[0]
		c.backlog = c.backlog[1:]
		c.busy = true
		c.guard(func() { j(c.finish) })
	}
}

// finish marks the in-flight job complete and starts the next one.
func (c *Container) finish() {
	c.busy = false
	c.drain()
}

// guard runs fn and clears the in-flight state if fn panics, so a failing
// strategy hook aborts only the current operation.
func (c *Container) guard(fn func()) {
	completed := false
	defer func() {
		if !completed {
			c.busy = false
		}
	}()
	fn()
	completed = true
}

func (c *Container) insert(base func() int, handles []*html.Node) {
	handles = slices.DeleteFunc(slices.Clone(handles), func(h *html.Node) bool { return h == nil })
	if len(handles) == 0 {
		return
	}
	c.enqueue(func(done func()) {
		// Handles go in last to first, each in front of the one committed
		// before it, so the batch ends up in order starting at base.
		k := base()
		rest := handles
		var last *html.Node
		c.run(func() (step, bool) {
			if last != nil {
				k = c.items.IndexOf(last)
			}
			if len(rest) == 0 {
				return step{}, false
			}
			h := rest[len(rest)-1]
			rest = rest[:len(rest)-1]
			last = h
			op := layout.OpInsert
			if c.items.Contains(h) {
				op = layout.OpMove
			}
			return step{op: op, item: h, index: k}, true
		}, done)
	})
}

func (c *Container) remove(resolve func() []*html.Node) {
	c.enqueue(func(done func()) {
		rest := resolve()
		c.run(func() (step, bool) {
			for len(rest) > 0 {
				h := rest[0]
				rest = rest[1:]
				if i := c.items.IndexOf(h); i != collection.NotFound {
					return step{op: layout.OpRemove, item: h, index: i}, true
				}
			}
			return step{}, false
		}, done)
	})
}

func (c *Container) selectItem(resolve func() (*html.Node, int)) {
	c.enqueue(func(done func()) {
		h, i := resolve()
		if h == c.items.Selected() {
			done()
			return
		}
		proposed := false
		c.run(func() (step, bool) {
			if proposed {
				return step{}, false
			}
			proposed = true
			return step{op: layout.OpSelect, item: h, index: i}, true
		}, done)
	})
}

func (c *Container) run(next func() (step, bool), done func()) {
	ch := &chain{c: c, next: next, done: done}
	ch.run()
}

// run stops without calling done once the container is destroyed, which
// an event handler may do partway through a batch.
func (ch *chain) run() {
	for {
		if ch.c.destroyed {
			return
		}
		s, ok := ch.next()
		if !ok {
			ch.done()
			return
		}
		if !ch.c.propose(s, ch.resume) {
			return
		}
	}
}

// resume continues the chain after a deferred confirmation.
func (ch *chain) resume() {
	ch.c.guard(ch.run)
}

// propose offers s to the strategy. It reports true when s was confirmed
// and committed synchronously; otherwise the protocol is suspended until
// the confirmation callback fires, which commits s and calls resume.
func (c *Container) propose(s step, resume func()) bool {
	p := c.nextProposal(s.op, s.item, s.index)
	var (
		calling  = true
		resolved bool
		early    bool
	)
	confirm := layout.Confirm(func() {
		if resolved {
			return
		}
		resolved = true
		if calling {
			early = true
			return
		}
		if c.destroyed {
			c.logger.Debug("confirmation after destroy ignored", "op", s.op.String(), "seq", p.Seq)
			return
		}
		c.commit(s)
		c.resolved(p, true)
		resume()
	})

	c.observe(p)
	res := layout.Propose(c.strategy, s.op, layout.Context{
		Container: c.element,
		Item:      s.item,
		Index:     s.index,
		Items:     c.items.All(),
	}, confirm)
	calling = false

	if res == layout.Confirmed || early {
		resolved = true
		c.commit(s)
		c.resolved(p, early && res != layout.Confirmed)
		return true
	}
	c.logger.Debug("awaiting confirmation", "op", s.op.String(), "seq", p.Seq, "index", s.index)
	return false
}

// commit applies a confirmed step and emits its event.
func (c *Container) commit(s step) {
	switch s.op {
	case layout.OpInsert:
		c.items.CommitInsert(s.item, s.index)
		c.emit(event.Add, s.item, s.index)
	case layout.OpMove:
		c.items.CommitMove(s.item, s.index)
		c.emit(event.Move, s.item, s.index)
	case layout.OpRemove:
		c.items.CommitRemove(s.item)
		c.emit(event.Remove, s.item, s.index)
	case layout.OpSelect:
		c.items.CommitSelect(s.item)
		index := s.index
		if s.item == nil {
			index = collection.NotFound
		}
		c.emit(event.Select, s.item, index)
	}
}

// emit dispatches the per-type option handler, then the generic notifier.
func (c *Container) emit(typ event.Type, item *html.Node, index int) {
	e := event.Event{Type: typ, Item: item, Index: index, Time: time.Now()}
	if h := handlerFor(c.options[string(typ)]); h != nil {
		h(e)
	}
	if c.notifier != nil {
		c.notifier.Notify(e)
	}
}

func (c *Container) nextProposal(op layout.Op, item *html.Node, index int) Proposal {
	c.seq++
	return Proposal{Seq: c.seq, Op: op, Item: item, Index: index}
}

func (c *Container) observe(p Proposal) {
	if c.observer != nil {
		c.observer.Proposed(p)
	}
}

func (c *Container) resolved(p Proposal, deferred bool) {
	if c.observer != nil {
		c.observer.Resolved(p, deferred)
	}
}
