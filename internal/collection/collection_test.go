package collection

import (
	"slices"
	"testing"

	"golang.org/x/net/html"
)

func nodes(ids ...string) []*html.Node {
	out := make([]*html.Node, len(ids))
	for i, id := range ids {
		out[i] = &html.Node{Type: html.ElementNode, Data: "span", Attr: []html.Attribute{{Key: "id", Val: id}}}
	}
	return out
}

func ids(ns []*html.Node) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.Attr[0].Val
	}
	return out
}

func TestGet_NegativeWrapAround(t *testing.T) {
	items := nodes("a", "b", "c")
	c := New(items)
	for i := 0; i < c.Len(); i++ {
		if c.Get(i) != c.Get(i-c.Len()) {
			t.Errorf("Get(%d) != Get(%d)", i, i-c.Len())
		}
		if c.Get(i) != items[i] {
			t.Errorf("Get(%d) = %v, want %v", i, c.Get(i), items[i])
		}
	}
	for _, idx := range []int{3, 4, -4, -10} {
		if got := c.Get(idx); got != nil {
			t.Errorf("Get(%d) = %v, want nil", idx, got)
		}
	}
	if New(nil).Get(-1) != nil {
		t.Error("Get(-1) on empty collection: expected nil")
	}
}

func TestNew_CopiesInput(t *testing.T) {
	items := nodes("a", "b")
	c := New(items)
	items[0] = nil
	if c.Get(0) == nil {
		t.Error("New: collection shares the caller's slice")
	}
	all := c.All()
	all[1] = nil
	if c.Get(1) == nil {
		t.Error("All: snapshot shares the collection's slice")
	}
}

func TestIndexOf(t *testing.T) {
	items := nodes("a", "b", "c")
	c := New(items)
	for i, n := range items {
		if got := c.IndexOf(n); got != i {
			t.Errorf("IndexOf(%s) = %d, want %d", ids([]*html.Node{n})[0], got, i)
		}
	}
	if got := c.IndexOf(nodes("x")[0]); got != NotFound {
		t.Errorf("IndexOf(non-member) = %d, want %d", got, NotFound)
	}
	if got := c.IndexOf(nil); got != NotFound {
		t.Errorf("IndexOf(nil) = %d, want %d", got, NotFound)
	}
}

func TestCommitInsert_AtEveryPosition(t *testing.T) {
	for k := 0; k <= 3; k++ {
		c := New(nodes("a", "b", "c"))
		h := nodes("x")[0]
		c.CommitInsert(h, k)
		if got := c.IndexOf(h); got != k {
			t.Errorf("CommitInsert(x, %d): IndexOf = %d", k, got)
		}
		if c.Len() != 4 {
			t.Errorf("CommitInsert(x, %d): Len = %d, want 4", k, c.Len())
		}
	}
}

func TestCommitInsert_Clamps(t *testing.T) {
	c := New(nodes("a", "b"))
	c.CommitInsert(nodes("x")[0], 99)
	c.CommitInsert(nodes("y")[0], -5)
	if got := ids(c.All()); !slices.Equal(got, []string{"y", "a", "b", "x"}) {
		t.Errorf("All() = %v, want [y a b x]", got)
	}
}

func TestClampInsert(t *testing.T) {
	c := New(nodes("a", "b", "c"))
	tests := []struct {
		in, want int
	}{
		{0, 0}, {2, 2}, {3, 3}, {7, 3}, {-1, 2}, {-3, 0}, {-9, 0},
	}
	for _, tt := range tests {
		if got := c.ClampInsert(tt.in); got != tt.want {
			t.Errorf("ClampInsert(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCommitRemove_ClearsSelection(t *testing.T) {
	items := nodes("a", "b", "c")
	c := New(items)
	c.CommitSelect(items[1])
	if c.SelectedIndex() != 1 {
		t.Fatalf("SelectedIndex() = %d, want 1", c.SelectedIndex())
	}

	c.CommitRemove(items[1])
	if got := ids(c.All()); !slices.Equal(got, []string{"a", "c"}) {
		t.Errorf("All() = %v, want [a c]", got)
	}
	if c.SelectedIndex() != NotFound || c.Selected() != nil {
		t.Errorf("selection after removal: index=%d handle=%v", c.SelectedIndex(), c.Selected())
	}
}

func TestCommitRemove_NonMemberIsNoop(t *testing.T) {
	items := nodes("a", "b")
	c := New(items)
	c.CommitSelect(items[0])
	c.CommitRemove(nodes("x")[0])
	if c.Len() != 2 || c.Selected() != items[0] {
		t.Errorf("CommitRemove(non-member) changed state: len=%d selected=%v", c.Len(), c.Selected())
	}
}

func TestCommitMove(t *testing.T) {
	tests := []struct {
		name string
		from int
		to   int
		want []string
	}{
		{"forward before c", 0, 2, []string{"b", "a", "c"}},
		{"to end", 0, 3, []string{"b", "c", "a"}},
		{"past end", 0, 10, []string{"b", "c", "a"}},
		{"backward", 2, 0, []string{"c", "a", "b"}},
		{"same slot", 1, 1, []string{"a", "b", "c"}},
		{"next slot", 0, 1, []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := nodes("a", "b", "c")
			c := New(items)
			c.CommitMove(items[tt.from], tt.to)
			if got := ids(c.All()); !slices.Equal(got, tt.want) {
				t.Errorf("CommitMove(%d -> %d) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestCommitMove_KeepsSelection(t *testing.T) {
	items := nodes("a", "b", "c")
	c := New(items)
	c.CommitSelect(items[0])
	c.CommitMove(items[0], 3)
	if c.Selected() != items[0] || c.SelectedIndex() != 2 {
		t.Errorf("after move: selected=%v index=%d, want a at 2", c.Selected(), c.SelectedIndex())
	}
}

func TestCommitSelect_NonMember(t *testing.T) {
	c := New(nodes("a"))
	outsider := nodes("x")[0]
	c.CommitSelect(outsider)
	if c.Selected() != outsider {
		t.Error("CommitSelect(non-member): expected selection to be recorded")
	}
	if c.SelectedIndex() != NotFound {
		t.Errorf("SelectedIndex() = %d, want %d", c.SelectedIndex(), NotFound)
	}
	c.CommitSelect(nil)
	if c.Selected() != nil || c.SelectedIndex() != NotFound {
		t.Error("CommitSelect(nil): expected empty selection")
	}
}

func TestReset(t *testing.T) {
	items := nodes("a", "b")
	c := New(items)
	c.CommitSelect(items[0])
	c.Reset()
	if c.Len() != 0 || c.Selected() != nil {
		t.Errorf("Reset: len=%d selected=%v", c.Len(), c.Selected())
	}
}
