// Package collection holds the ordered set of item handles behind a
// container, plus its single optional selection.
//
// Handles are compared by pointer identity. The Commit methods are the only
// way to mutate a Collection; the container calls them once a layout
// strategy has confirmed the matching operation.
package collection

import (
	"slices"

	"golang.org/x/net/html"
)

// NotFound is the index reported for absent handles and empty selections.
const NotFound = -1

// Collection is an ordered sequence of handles without gaps.
// It is not safe for concurrent use.
type Collection struct {
	items    []*html.Node
	selected *html.Node
}

// New returns a collection holding a copy of items.
func New(items []*html.Node) *Collection {
	return &Collection{items: slices.Clone(items)}
}

// Len returns the number of handles.
func (c *Collection) Len() int {
	return len(c.items)
}

// All returns a snapshot of the handles in layout order.
func (c *Collection) All() []*html.Node {
	return slices.Clone(c.items)
}

// Resolve maps a signed index onto [0, Len). Negative values count from the
// end once (-1 is the last handle). ok is false when the result is out of range.
func (c *Collection) Resolve(index int) (int, bool) {
	if index < 0 {
		index += len(c.items)
	}
	if index < 0 || index >= len(c.items) {
		return NotFound, false
	}
	return index, true
}

// Get returns the handle at a signed index, or nil when out of range.
func (c *Collection) Get(index int) *html.Node {
	i, ok := c.Resolve(index)
	if !ok {
		return nil
	}
	return c.items[i]
}

// At returns the handle at a raw index without wrap-around, or nil.
func (c *Collection) At(index int) *html.Node {
	if index < 0 || index >= len(c.items) {
		return nil
	}
	return c.items[index]
}

// IndexOf returns the position of h, or NotFound.
func (c *Collection) IndexOf(h *html.Node) int {
	if h == nil {
		return NotFound
	}
	return slices.Index(c.items, h)
}

// Contains reports whether h is a member.
func (c *Collection) Contains(h *html.Node) bool {
	return c.IndexOf(h) != NotFound
}

// ClampInsert turns a signed insertion index into a position in [0, Len].
func (c *Collection) ClampInsert(index int) int {
	if index < 0 {
		index += len(c.items)
	}
	return min(max(index, 0), len(c.items))
}

// CommitInsert inserts h at index, clamped to [0, Len].
func (c *Collection) CommitInsert(h *html.Node, index int) {
	index = min(max(index, 0), len(c.items))
	c.items = slices.Insert(c.items, index, h)
}

// CommitRemove removes h if present. Removing the selected handle clears
// the selection in the same step.
func (c *Collection) CommitRemove(h *html.Node) {
	i := c.IndexOf(h)
	if i == NotFound {
		return
	}
	c.items = slices.Delete(c.items, i, i+1)
	if c.selected == h {
		c.selected = nil
	}
}

// CommitMove places h in front of the handle currently at index (or at the
// end when index is past the last slot). A handle that is not a member is
// inserted instead. The selection is left untouched.
func (c *Collection) CommitMove(h *html.Node, index int) {
	old := c.IndexOf(h)
	if old == NotFound {
		c.CommitInsert(h, index)
		return
	}
	index = min(max(index, 0), len(c.items))
	c.items = slices.Delete(c.items, old, old+1)
	if old < index {
		index--
	}
	c.items = slices.Insert(c.items, index, h)
}

// CommitSelect sets the selection. h need not be a member; nil clears it.
func (c *Collection) CommitSelect(h *html.Node) {
	c.selected = h
}

// Selected returns the selected handle, or nil.
func (c *Collection) Selected() *html.Node {
	return c.selected
}

// SelectedIndex returns the position of the selection, or NotFound when
// nothing is selected or the selected handle is not a member.
func (c *Collection) SelectedIndex() int {
	return c.IndexOf(c.selected)
}

// Reset drops every handle and the selection.
func (c *Collection) Reset() {
	c.items = nil
	c.selected = nil
}
