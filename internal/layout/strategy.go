// Package layout defines the pluggable placement strategy a container
// delegates to, along with the always-confirming default and a name
// registry.
//
// A strategy is proposed one operation at a time. Content operations
// (insert, remove, select, move) either confirm synchronously by returning
// Confirmed, or return Pending and call the supplied Confirm later. The
// container commits only after confirmation.
package layout

import "golang.org/x/net/html"

// Op names a strategy hook.
type Op int

const (
	OpSetup Op = iota
	OpTeardown
	OpInsert
	OpRemove
	OpSelect
	OpMove
)

var opNames = [...]string{"setup", "teardown", "insert", "remove", "select", "move"}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return "unknown"
	}
	return opNames[o]
}

// Result is a strategy's answer to a content operation.
type Result int

const (
	// Pending leaves the operation uncommitted until Confirm is called.
	Pending Result = iota
	// Confirmed commits the operation immediately.
	Confirmed
)

func (r Result) String() string {
	if r == Confirmed {
		return "confirmed"
	}
	return "pending"
}

// Confirm resolves a pending operation. Only the first resolution counts;
// later calls, and calls after a Confirmed return, do nothing.
type Confirm func()

// Context describes the operation being proposed.
type Context struct {
	Container *html.Node
	// Item is the handle involved; for setup and teardown it is the current
	// selection and may be nil.
	Item *html.Node
	// Index is the target position, or the selected index for setup and
	// teardown. -1 when there is none.
	Index int
	// Items is the ordered collection before the operation is committed.
	// Empty for setup and teardown.
	Items []*html.Node
}

// ItemAt returns Items[i], or nil when i is out of range.
func (c Context) ItemAt(i int) *html.Node {
	if i < 0 || i >= len(c.Items) {
		return nil
	}
	return c.Items[i]
}

// Strategy governs visual placement and gates commits.
type Strategy interface {
	Setup(ctx Context)
	Teardown(ctx Context)
	Insert(ctx Context, confirm Confirm) Result
	Remove(ctx Context, confirm Confirm) Result
	Select(ctx Context, confirm Confirm) Result
	Move(ctx Context, confirm Confirm) Result
}

// Propose invokes the content hook for op on s.
// Setup and teardown are not content operations; Propose reports them Confirmed
// after running the hook.
func Propose(s Strategy, op Op, ctx Context, confirm Confirm) Result {
	switch op {
	case OpInsert:
		return s.Insert(ctx, confirm)
	case OpRemove:
		return s.Remove(ctx, confirm)
	case OpSelect:
		return s.Select(ctx, confirm)
	case OpMove:
		return s.Move(ctx, confirm)
	case OpSetup:
		s.Setup(ctx)
	case OpTeardown:
		s.Teardown(ctx)
	}
	return Confirmed
}
