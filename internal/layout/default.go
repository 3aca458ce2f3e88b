package layout

import (
	"golang.org/x/net/html"

	"tectonic/internal/dom"
)

const (
	// ContainerClass marks a container with an active layout.
	ContainerClass = "tectonic"
	// ActiveClass marks the selected item.
	ActiveClass = "tectonic-active"
)

// Default is the strategy used when none is configured or a name cannot be
// resolved. Every operation confirms synchronously after the minimal
// structural change.
var Default Strategy = defaultStrategy{}

type defaultStrategy struct{}

func (defaultStrategy) Setup(ctx Context) {
	dom.AddClass(ContainerClass, ctx.Container)
	dom.AddClass(ActiveClass, ctx.Item)
}

func (defaultStrategy) Teardown(ctx Context) {
	dom.RemoveClass(ContainerClass, ctx.Container)
}

func (defaultStrategy) Insert(ctx Context, _ Confirm) Result {
	Place(ctx)
	return Confirmed
}

func (defaultStrategy) Remove(ctx Context, _ Confirm) Result {
	dom.Detach(ctx.Item)
	return Confirmed
}

func (defaultStrategy) Select(ctx Context, _ Confirm) Result {
	Highlight(ctx)
	return Confirmed
}

func (defaultStrategy) Move(ctx Context, _ Confirm) Result {
	Place(ctx)
	return Confirmed
}

// Place puts ctx.Item in front of the item currently at ctx.Index, or
// appends it to the container when there is none.
func Place(ctx Context) {
	item := ctx.Item
	if item == nil || ctx.Container == nil {
		return
	}
	sibling := ctx.ItemAt(ctx.Index)
	if sibling == item {
		return
	}
	dom.Detach(item)
	if sibling != nil && sibling.Parent != nil {
		sibling.Parent.InsertBefore(item, sibling)
		return
	}
	ctx.Container.AppendChild(item)
}

// Highlight moves ActiveClass onto the item at ctx.Index.
func Highlight(ctx Context) {
	var marked []*html.Node
	for _, n := range ctx.Items {
		if dom.HasClass(n, ActiveClass) {
			marked = append(marked, n)
		}
	}
	dom.RemoveClass(ActiveClass, marked...)
	dom.AddClass(ActiveClass, ctx.ItemAt(ctx.Index))
}
