// Package dom holds the small HTML node toolkit the container is built on.
// Item handles and containers are *html.Node values from golang.org/x/net/html;
// identity is pointer equality. Class and selector handling goes through goquery.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse reads a markup fragment and returns its container node.
// A fragment with exactly one top-level element is returned as-is;
// anything else is wrapped in a <div>.
func Parse(r io.Reader) (*html.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, body)
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}

	var kept []*html.Node
	for _, n := range nodes {
		if n.Type == html.TextNode && strings.TrimSpace(n.Data) == "" {
			continue
		}
		kept = append(kept, n)
	}
	if len(kept) == 1 && kept[0].Type == html.ElementNode {
		return kept[0], nil
	}

	root := NewElement("div", "", "")
	for _, n := range kept {
		root.AppendChild(n)
	}
	return root, nil
}

// ParseString is Parse for an in-memory string.
func ParseString(markup string) (*html.Node, error) {
	return Parse(strings.NewReader(markup))
}

// NewElement builds a detached element with an optional id and text content.
func NewElement(tag, id, text string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	if id != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "id", Val: id})
	}
	if text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
	return n
}

// Children returns the element children of n, filtered by a CSS selector
// when one is given.
func Children(n *html.Node, selector string) []*html.Node {
	if n == nil {
		return nil
	}
	sel := goquery.NewDocumentFromNode(n).Children()
	if selector != "" {
		sel = sel.Filter(selector)
	}
	return append([]*html.Node(nil), sel.Nodes...)
}

// Detach removes n from its parent, if it has one.
func Detach(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// HasClass reports whether n carries the given class.
func HasClass(n *html.Node, class string) bool {
	if n == nil {
		return false
	}
	return goquery.NewDocumentFromNode(n).HasClass(class)
}

// AddClass adds class to every non-nil node.
func AddClass(class string, nodes ...*html.Node) {
	for _, n := range nodes {
		if n != nil {
			goquery.NewDocumentFromNode(n).AddClass(class)
		}
	}
}

// RemoveClass removes class from every non-nil node.
func RemoveClass(class string, nodes ...*html.Node) {
	for _, n := range nodes {
		if n != nil {
			goquery.NewDocumentFromNode(n).RemoveClass(class)
		}
	}
}

// Attr returns the value of the named attribute, or "".
func Attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// Label returns a short human-readable name for n: its id, else its
// trimmed text, else its tag name.
func Label(n *html.Node) string {
	if n == nil {
		return ""
	}
	if id := Attr(n, "id"); id != "" {
		return id
	}
	if text := strings.TrimSpace(goquery.NewDocumentFromNode(n).Text()); text != "" {
		return text
	}
	return n.Data
}

// Labels maps Label over nodes.
func Labels(nodes []*html.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = Label(n)
	}
	return out
}

// Render serializes n as HTML.
func Render(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", fmt.Errorf("render markup: %w", err)
	}
	return buf.String(), nil
}
