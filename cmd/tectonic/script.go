package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/net/html"

	"tectonic/internal/jsonutil"
	"tectonic/internal/tectonic"
	"tectonic/internal/ui"
)

// scriptCall is one entry of a --script file:
//
//	[{"method": "insert", "args": [1, "#zeta"]}, {"method": "length"}]
//
// String arguments use the same forms as the TUI prompt.
type scriptCall struct {
	Method string `json:"method"`
	Args   []any  `json:"args,omitempty"`
}

func loadScript(path string) ([]scriptCall, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return jsonutil.UnmarshalArrayAllowEmpty[scriptCall](data, "parse script "+path)
}

// runScript dispatches each call through the plugin, letting settle land
// deferred steps in between, and prints every result.
func runScript(out io.Writer, p *tectonic.Plugin, root *html.Node, calls []scriptCall, newItem func(string) *html.Node, settle func()) error {
	for i, call := range calls {
		args := make([]any, 0, len(call.Args))
		for _, a := range call.Args {
			v, err := ui.ResolveArg(a, root, newItem)
			if err != nil {
				return fmt.Errorf("script call %d (%s): %w", i+1, call.Method, err)
			}
			args = append(args, v)
		}
		res, err := p.Call(root, call.Method, args...)
		if err != nil {
			return fmt.Errorf("script call %d: %w", i+1, err)
		}
		settle()
		fmt.Fprintf(out, "call: %s -> %s\n", call.Method, ui.FormatResult(res))
	}
	return nil
}
