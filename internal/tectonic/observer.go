package tectonic

import (
	"golang.org/x/net/html"

	"tectonic/internal/layout"
)

// Proposal is one single-item operation offered to the layout strategy.
type Proposal struct {
	// Seq increases by one per proposal on a container.
	Seq   uint64
	Op    layout.Op
	Item  *html.Node
	Index int
}

// Observer sees proposals as they are made and resolved. A proposal that is
// never confirmed is never resolved.
type Observer interface {
	Proposed(p Proposal)
	// Resolved is called after the commit. deferred is true when the
	// strategy confirmed through the callback rather than its return value.
	Resolved(p Proposal, deferred bool)
}
