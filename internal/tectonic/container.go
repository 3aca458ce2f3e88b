// Package tectonic manages an ordered collection of HTML element handles
// attached to a container element, delegating placement to a pluggable
// layout strategy.
//
// Every mutation is proposed to the active strategy one item at a time and
// committed only once the strategy confirms it, either by returning
// layout.Confirmed or by calling the confirmation callback later. Batch
// operations issued while an earlier one waits for confirmation are queued
// and run in order once it finishes.
//
// A Container is not safe for concurrent use. Deferred confirmations must
// be delivered on the goroutine that owns the container (a Bubble Tea
// Update loop, for example).
package tectonic

import (
	"log/slog"
	"slices"
	"sort"

	"golang.org/x/net/html"

	"tectonic/internal/collection"
	"tectonic/internal/dom"
	"tectonic/internal/event"
	"tectonic/internal/layout"
)

// Container owns the collection and selection for one container element.
type Container struct {
	element  *html.Node
	items    *collection.Collection
	registry *layout.Registry
	strategy layout.Strategy
	options  Options
	notifier event.Notifier
	observer Observer
	logger   *slog.Logger

	busy      bool
	draining  bool
	backlog   []job
	seq       uint64
	destroyed bool
}

// New collects the element children of elem (filtered by the "selector"
// option), applies the "selectedIndex" option and sets up the "layout"
// option's strategy.
func New(elem *html.Node, cfg Config) *Container {
	if elem == nil {
		panic("tectonic: nil container element")
	}
	c := &Container{
		element:  elem,
		registry: cfg.Registry,
		options:  cfg.Options.clone(),
		notifier: cfg.Notifier,
		observer: cfg.Observer,
		logger:   cfg.logger(),
	}

	selector, _ := c.options[OptSelector].(string)
	c.items = collection.New(dom.Children(elem, selector))
	if i, ok := toInt(c.options[OptSelectedIndex]); ok {
		c.items.CommitSelect(c.items.Get(i))
	}
	delete(c.options, OptSelectedIndex)

	c.setLayout(c.options[OptLayout])
	return c
}

func (c *Container) live() {
	if c.destroyed {
		panic(ErrDestroyed)
	}
}

// Element returns the container element.
func (c *Container) Element() *html.Node {
	c.live()
	return c.element
}

// Len returns the number of committed items.
func (c *Container) Len() int {
	c.live()
	return c.items.Len()
}

// All returns a snapshot of the committed items in layout order.
func (c *Container) All() []*html.Node {
	c.live()
	return c.items.All()
}

// Get returns the item at a signed index (-1 is the last), or nil.
func (c *Container) Get(index int) *html.Node {
	c.live()
	return c.items.Get(index)
}

// Index returns the position of h, or -1.
func (c *Container) Index(h *html.Node) int {
	c.live()
	return c.items.IndexOf(h)
}

// Append inserts handles at the end of the collection.
func (c *Container) Append(handles ...*html.Node) {
	c.live()
	c.insert(func() int { return c.items.Len() }, handles)
}

// Prepend inserts handles at the start of the collection.
func (c *Container) Prepend(handles ...*html.Node) {
	c.live()
	c.insert(func() int { return 0 }, handles)
}

// Insert places handles starting at index, clamped to [0, Len]. Negative
// indices count from the end. Handles already in the collection are moved.
func (c *Container) Insert(index int, handles ...*html.Node) {
	c.live()
	c.insert(func() int { return c.items.ClampInsert(index) }, handles)
}

// Remove removes handles front to back. Non-members are skipped.
func (c *Container) Remove(handles ...*html.Node) {
	c.live()
	handles = slices.Clone(handles)
	c.remove(func() []*html.Node { return handles })
}

// RemoveAt removes the item at a signed index, resolved when the removal
// runs. Out of range is a no-op.
func (c *Container) RemoveAt(index int) {
	c.live()
	c.remove(func() []*html.Node {
		if h := c.items.Get(index); h != nil {
			return []*html.Node{h}
		}
		return nil
	})
}

// Empty removes every item.
func (c *Container) Empty() {
	c.live()
	c.remove(c.items.All)
}

// SelectedIndex returns the position of the selection, or -1.
func (c *Container) SelectedIndex() int {
	c.live()
	return c.items.SelectedIndex()
}

// SetSelectedIndex selects the item at index. Indices do not wrap; an
// out-of-range index selects nothing.
func (c *Container) SetSelectedIndex(index int) {
	c.live()
	c.selectItem(func() (*html.Node, int) {
		if h := c.items.At(index); h != nil {
			return h, index
		}
		return nil, collection.NotFound
	})
}

// Value returns the selected item, or nil.
func (c *Container) Value() *html.Node {
	c.live()
	return c.items.Selected()
}

// SetValue selects h. A handle that is not a member selects nothing.
func (c *Container) SetValue(h *html.Node) {
	c.live()
	c.selectItem(func() (*html.Node, int) {
		if i := c.items.IndexOf(h); i != collection.NotFound {
			return h, i
		}
		return nil, collection.NotFound
	})
}

// Option returns a configuration value. "selectedIndex" always reports the
// live selection.
func (c *Container) Option(name string) (any, bool) {
	c.live()
	if name == OptSelectedIndex {
		return c.items.SelectedIndex(), true
	}
	v, ok := c.options[name]
	return v, ok
}

// Options returns a copy of the stored options.
func (c *Container) Options() Options {
	c.live()
	out := c.options.clone()
	out[OptSelectedIndex] = c.items.SelectedIndex()
	return out
}

// SetOption stores a configuration value. Setting "selectedIndex" selects,
// setting "layout" tears down the current strategy and sets up the new one.
func (c *Container) SetOption(name string, value any) {
	c.live()
	switch name {
	case OptSelectedIndex:
		i, ok := toInt(value)
		if !ok {
			i = collection.NotFound
		}
		c.SetSelectedIndex(i)
		return
	case OptLayout:
		c.setLayout(value)
	}
	c.options[name] = value
}

// SetOptions applies every entry of opts in key order.
func (c *Container) SetOptions(opts Options) {
	c.live()
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		c.SetOption(k, opts[k])
	}
}

// Layout returns the active strategy.
func (c *Container) Layout() layout.Strategy {
	c.live()
	return c.strategy
}

// Busy reports whether an operation is waiting for confirmation.
func (c *Container) Busy() bool {
	c.live()
	return c.busy
}

// Backlog returns the number of operations queued behind the in-flight one.
func (c *Container) Backlog() int {
	c.live()
	return len(c.backlog)
}

// Destroy tears down the layout and releases every reference. Any later use
// of the container panics with ErrDestroyed; late confirmations are ignored.
func (c *Container) Destroy() {
	c.live()
	c.shutdownLayout()
	c.items.Reset()
	c.backlog = nil
	c.options = nil
	c.notifier = nil
	c.observer = nil
	c.registry = nil
	c.element = nil
	c.destroyed = true
}

func (c *Container) setLayout(v any) {
	c.shutdownLayout()
	c.strategy = c.registry.Resolve(v)
	c.hook(layout.OpSetup)
}

func (c *Container) shutdownLayout() {
	if c.strategy == nil {
		return
	}
	c.hook(layout.OpTeardown)
	c.strategy = nil
}

// hook runs setup or teardown. Neither is gated on confirmation.
func (c *Container) hook(op layout.Op) {
	p := c.nextProposal(op, c.items.Selected(), c.items.SelectedIndex())
	c.observe(p)
	layout.Propose(c.strategy, op, layout.Context{
		Container: c.element,
		Item:      p.Item,
		Index:     p.Index,
	}, nil)
	c.resolved(p, false)
	c.logger.Debug("layout hook", "op", op.String(), "selected_index", p.Index)
}
