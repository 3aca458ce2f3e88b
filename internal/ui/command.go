package ui

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"tectonic/internal/dom"
	"tectonic/internal/tectonic"
)

// errUnbalanced is returned for a quote or tag left open.
var errUnbalanced = errors.New("unbalanced quote or tag")

// parseCommand splits a prompt line into a method name and arguments.
//
// Argument forms:
//
//	7, -1        integers
//	true, false  booleans
//	nil          nil
//	#id          the item with that id, or a new element when none exists
//	<li>x</li>   parsed markup
//	"a b", word  strings
func parseCommand(line string, container *html.Node, newItem func(id string) *html.Node) (string, []any, error) {
	tokens, err := splitArgs(line)
	if err != nil {
		return "", nil, err
	}
	if len(tokens) == 0 {
		return "", nil, errors.New("empty command")
	}
	args := make([]any, 0, len(tokens)-1)
	for _, tok := range tokens[1:] {
		v, err := parseArg(tok, container, newItem)
		if err != nil {
			return "", nil, err
		}
		args = append(args, v)
	}
	return tokens[0], args, nil
}

// ResolveArg converts a decoded argument (from a JSON script, say) the way
// the prompt does: strings use the prompt's argument forms, other values
// pass through.
func ResolveArg(v any, container *html.Node, newItem func(id string) *html.Node) (any, error) {
	s, ok := v.(string)
	if !ok || strings.HasPrefix(s, `"`) {
		return v, nil
	}
	return parseArg(s, container, newItem)
}

func parseArg(tok string, container *html.Node, newItem func(id string) *html.Node) (any, error) {
	switch {
	case tok == "nil":
		return nil, nil
	case tok == "true" || tok == "false":
		return tok == "true", nil
	case strings.HasPrefix(tok, `"`):
		s, err := strconv.Unquote(tok)
		if err != nil {
			return nil, fmt.Errorf("bad string %s: %w", tok, err)
		}
		return s, nil
	case strings.HasPrefix(tok, "<"):
		n, err := dom.ParseString(tok)
		if err != nil {
			return nil, fmt.Errorf("bad markup %s: %w", tok, err)
		}
		return n, nil
	case strings.HasPrefix(tok, "#") && len(tok) > 1:
		return findOrCreate(tok[1:], container, newItem), nil
	}
	if i, err := strconv.Atoi(tok); err == nil {
		return i, nil
	}
	return tok, nil
}

func findOrCreate(id string, container *html.Node, newItem func(id string) *html.Node) *html.Node {
	if container != nil {
		found := goquery.NewDocumentFromNode(container).Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
			v, _ := s.Attr("id")
			return v == id
		})
		if found.Length() > 0 {
			return found.Get(0)
		}
	}
	return newItem(id)
}

// splitArgs splits on whitespace outside of quotes and markup.
func splitArgs(line string) ([]string, error) {
	var (
		out   []string
		cur   strings.Builder
		depth int
		quote bool
	)
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case quote:
			cur.WriteByte(ch)
			if ch == '\\' && i+1 < len(line) {
				i++
				cur.WriteByte(line[i])
			} else if ch == '"' {
				quote = false
			}
		case ch == '"' && depth == 0:
			quote = true
			cur.WriteByte(ch)
		case ch == '<':
			depth++
			cur.WriteByte(ch)
		case ch == '>' && depth > 0:
			cur.WriteByte(ch)
			// A closing tag ends the markup token once every tag is closed.
			if closesMarkup(cur.String()) {
				depth = 0
			}
		case (ch == ' ' || ch == '\t') && depth == 0:
			flush()
		default:
			cur.WriteByte(ch)
		}
	}
	if quote || depth > 0 {
		return nil, errUnbalanced
	}
	flush()
	return out, nil
}

// closesMarkup reports whether s holds as many closing tags as opening
// ones, counting self-closing tags as both.
func closesMarkup(s string) bool {
	opens := strings.Count(s, "<") - strings.Count(s, "</")
	closes := strings.Count(s, "</") + strings.Count(s, "/>")
	return closes >= opens
}

// FormatResult renders a method's return value for the status line.
func FormatResult(v any) string {
	switch v := v.(type) {
	case nil:
		return "ok"
	case *html.Node:
		if v == nil {
			return "none"
		}
		return dom.Label(v)
	case []*html.Node:
		if len(v) == 0 {
			return "[]"
		}
		return "[" + strings.Join(dom.Labels(v), " ") + "]"
	case tectonic.Options:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, describe(v[k])))
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprint(v)
	}
}

func describe(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case int, bool:
		return fmt.Sprint(v)
	case nil:
		return "nil"
	default:
		return fmt.Sprintf("%T", v)
	}
}
