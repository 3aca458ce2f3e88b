package tectonic

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"golang.org/x/net/html"
)

// Plugin attaches at most one container per element and dispatches
// methods to it by name.
type Plugin struct {
	mu        sync.Mutex
	base      Config
	instances map[*html.Node]*Container
}

// NewPlugin returns a plugin whose containers share base's collaborators.
// base.Options are the defaults every Attach starts from.
func NewPlugin(base Config) *Plugin {
	return &Plugin{
		base:      base,
		instances: make(map[*html.Node]*Container),
	}
}

// Attach creates the container for elem. If one exists, opts are applied
// to it instead. The lock is not held while the container runs, so
// handlers may call back into the plugin.
func (p *Plugin) Attach(elem *html.Node, opts Options) *Container {
	p.mu.Lock()
	c, ok := p.instances[elem]
	cfg := p.base
	cfg.Options = p.base.Options.clone()
	p.mu.Unlock()
	if ok {
		if len(opts) > 0 {
			c.SetOptions(opts)
		}
		return c
	}

	maps.Copy(cfg.Options, opts)
	c = New(elem, cfg)

	p.mu.Lock()
	existing, ok := p.instances[elem]
	if !ok {
		p.instances[elem] = c
	}
	p.mu.Unlock()
	if ok {
		// Attached from a setup hook while this one was being built.
		c.Destroy()
		if len(opts) > 0 {
			existing.SetOptions(opts)
		}
		return existing
	}
	return c
}

// Instance returns the container attached to elem.
func (p *Plugin) Instance(elem *html.Node) (*Container, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.instances[elem]
	return c, ok
}

// Detach destroys the container attached to elem. It reports whether
// there was one.
func (p *Plugin) Detach(elem *html.Node) bool {
	p.mu.Lock()
	c, ok := p.instances[elem]
	delete(p.instances, elem)
	p.mu.Unlock()
	if ok {
		c.Destroy()
	}
	return ok
}

// Methods returns the names Call accepts, sorted.
func Methods() []string {
	names := slices.Collect(maps.Keys(methods))
	slices.Sort(names)
	return names
}

// Call invokes the named method on elem's container. Mutating methods
// return a nil value.
func (p *Plugin) Call(elem *html.Node, name string, args ...any) (any, error) {
	c, ok := p.Instance(elem)
	if !ok {
		return nil, fmt.Errorf("cannot call methods on tectonic prior to initialization; attempted to call method %q: %w", name, ErrNotInitialized)
	}
	m, ok := methods[name]
	if !ok || strings.HasPrefix(name, "_") {
		return nil, fmt.Errorf("no such method %q for tectonic instance: %w", name, ErrNoSuchMethod)
	}
	if name == "destroy" {
		p.Detach(elem)
		return nil, nil
	}
	return m(c, args)
}

type method func(c *Container, args []any) (any, error)

var methods = map[string]method{
	"length": func(c *Container, _ []any) (any, error) { return c.Len(), nil },
	"all":    func(c *Container, _ []any) (any, error) { return c.All(), nil },
	"get": func(c *Container, args []any) (any, error) {
		i, err := intArg("get", args, 0)
		if err != nil {
			return nil, err
		}
		return c.Get(i), nil
	},
	"index": func(c *Container, args []any) (any, error) {
		hs, err := handleArgs("index", args)
		if err != nil {
			return nil, err
		}
		if len(hs) == 0 {
			return -1, nil
		}
		return c.Index(hs[0]), nil
	},
	"append": func(c *Container, args []any) (any, error) {
		hs, err := handleArgs("append", args)
		if err != nil {
			return nil, err
		}
		c.Append(hs...)
		return nil, nil
	},
	"prepend": func(c *Container, args []any) (any, error) {
		hs, err := handleArgs("prepend", args)
		if err != nil {
			return nil, err
		}
		c.Prepend(hs...)
		return nil, nil
	},
	"insert": func(c *Container, args []any) (any, error) {
		i, err := intArg("insert", args, 0)
		if err != nil {
			return nil, err
		}
		hs, err := handleArgs("insert", args[1:])
		if err != nil {
			return nil, err
		}
		c.Insert(i, hs...)
		return nil, nil
	},
	"remove": func(c *Container, args []any) (any, error) {
		if len(args) == 1 {
			if i, ok := toInt(args[0]); ok {
				c.RemoveAt(i)
				return nil, nil
			}
		}
		hs, err := handleArgs("remove", args)
		if err != nil {
			return nil, err
		}
		c.Remove(hs...)
		return nil, nil
	},
	"empty": func(c *Container, _ []any) (any, error) {
		c.Empty()
		return nil, nil
	},
	"selectedIndex": func(c *Container, args []any) (any, error) {
		if len(args) == 0 {
			return c.SelectedIndex(), nil
		}
		if args[0] == nil {
			c.SetSelectedIndex(-1)
			return nil, nil
		}
		i, err := intArg("selectedIndex", args, 0)
		if err != nil {
			return nil, err
		}
		c.SetSelectedIndex(i)
		return nil, nil
	},
	"value": func(c *Container, args []any) (any, error) {
		if len(args) == 0 {
			return c.Value(), nil
		}
		hs, err := handleArgs("value", args[:1])
		if err != nil {
			return nil, err
		}
		if len(hs) == 0 {
			c.SetValue(nil)
			return nil, nil
		}
		c.SetValue(hs[0])
		return nil, nil
	},
	"option": func(c *Container, args []any) (any, error) {
		switch len(args) {
		case 0:
			return c.Options(), nil
		case 1:
			switch v := args[0].(type) {
			case string:
				val, _ := c.Option(v)
				return val, nil
			case Options:
				c.SetOptions(v)
				return nil, nil
			case map[string]any:
				c.SetOptions(v)
				return nil, nil
			}
		default:
			if name, ok := args[0].(string); ok {
				c.SetOption(name, args[1])
				return nil, nil
			}
		}
		return nil, fmt.Errorf("option: want name, name and value, or options map: %w", ErrBadArgument)
	},
	// Handled by Plugin.Call so the instance is detached as well.
	"destroy": func(c *Container, _ []any) (any, error) {
		c.Destroy()
		return nil, nil
	},
}

func intArg(name string, args []any, i int) (int, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("%s: missing index argument: %w", name, ErrBadArgument)
	}
	n, ok := toInt(args[i])
	if !ok {
		return 0, fmt.Errorf("%s: index argument %v is not an integer: %w", name, args[i], ErrBadArgument)
	}
	return n, nil
}

// handleArgs flattens *html.Node and []*html.Node arguments.
func handleArgs(name string, args []any) ([]*html.Node, error) {
	var out []*html.Node
	for _, a := range args {
		switch v := a.(type) {
		case *html.Node:
			out = append(out, v)
		case []*html.Node:
			out = append(out, v...)
		case nil:
		default:
			return nil, fmt.Errorf("%s: argument of type %T is not an element: %w", name, a, ErrBadArgument)
		}
	}
	return out, nil
}
