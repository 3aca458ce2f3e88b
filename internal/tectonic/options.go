package tectonic

import (
	"log/slog"
	"maps"
	"math"
	"strconv"
	"strings"

	"tectonic/internal/event"
	"tectonic/internal/layout"
)

// Recognized option keys. Event types ("add", "remove", "move", "select")
// are also recognized and hold an event.Handler.
const (
	OptSelector      = "selector"
	OptSelectedIndex = "selectedIndex"
	OptLayout        = "layout"
)

// Options is the generic key/value configuration of a container.
// Unknown keys are kept and returned verbatim.
type Options map[string]any

// Config carries a container's options and its collaborators.
type Config struct {
	Options Options
	// Registry resolves layout names. Nil resolves everything to layout.Default.
	Registry *layout.Registry
	// Notifier receives every event after the per-type option handler.
	Notifier event.Notifier
	Observer Observer
	// Logger defaults to a discarding logger.
	Logger *slog.Logger
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func (o Options) clone() Options {
	if o == nil {
		return Options{}
	}
	return maps.Clone(o)
}

// handlerFor extracts a per-type handler from an option value.
func handlerFor(v any) event.Handler {
	switch h := v.(type) {
	case event.Handler:
		return h
	case func(event.Event):
		return h
	}
	return nil
}

// toInt converts the integer-like values options and method arguments
// arrive as.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case float64:
		if n == math.Trunc(n) {
			return int(n), true
		}
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err == nil {
			return i, true
		}
	}
	return 0, false
}
