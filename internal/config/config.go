// Package config loads the YAML settings for the tectonic command.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/andybalholm/cascadia"
	"gopkg.in/yaml.v3"

	"tectonic/internal/tectonic"
)

// DefaultMarkup is the container shown when no markup is configured.
const DefaultMarkup = `<ul id="deck">
  <li id="north">North</li>
  <li id="east">East</li>
  <li id="south">South</li>
  <li id="west">West</li>
</ul>`

const defaultSlideDelay = 250 * time.Millisecond

// Config is the on-disk configuration.
type Config struct {
	// Markup is the HTML fragment whose root element becomes the container.
	Markup string `yaml:"markup"`
	// Selector filters which children of the container are items.
	Selector string `yaml:"selector"`
	// SelectedIndex is the initially selected item; nil selects nothing.
	SelectedIndex *int `yaml:"selected_index"`
	// Layout names a registered strategy.
	Layout string `yaml:"layout"`
	// SlideDelay is how long the slide layout waits before confirming.
	SlideDelay string `yaml:"slide_delay"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	zero := 0
	return Config{
		Markup:        DefaultMarkup,
		SelectedIndex: &zero,
		Layout:        "default",
		SlideDelay:    defaultSlideDelay.String(),
	}
}

// Load reads path over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Defaults()
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Delay parses SlideDelay. An empty value means the default.
func (c Config) Delay() (time.Duration, error) {
	if strings.TrimSpace(c.SlideDelay) == "" {
		return defaultSlideDelay, nil
	}
	d, err := time.ParseDuration(c.SlideDelay)
	if err != nil {
		return 0, fmt.Errorf("slide_delay: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("slide_delay: must not be negative, got %s", d)
	}
	return d, nil
}

// Validate checks the configuration. When layouts is non-empty, Layout
// must be one of them.
func (c Config) Validate(layouts ...string) error {
	if strings.TrimSpace(c.Markup) == "" {
		return errors.New("config: markup required")
	}
	if c.Selector != "" {
		if _, err := cascadia.Parse(c.Selector); err != nil {
			return fmt.Errorf("config: selector %q: %w", c.Selector, err)
		}
	}
	if _, err := c.Delay(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	name := strings.ToLower(strings.TrimSpace(c.Layout))
	if name != "" && len(layouts) > 0 && !slices.Contains(layouts, name) {
		return fmt.Errorf("config: unknown layout %q (have %s)", c.Layout, strings.Join(layouts, ", "))
	}
	return nil
}

// Options converts the configuration into container options.
func (c Config) Options() tectonic.Options {
	opts := tectonic.Options{}
	if c.Selector != "" {
		opts[tectonic.OptSelector] = c.Selector
	}
	if c.SelectedIndex != nil {
		opts[tectonic.OptSelectedIndex] = *c.SelectedIndex
	}
	if c.Layout != "" {
		opts[tectonic.OptLayout] = c.Layout
	}
	return opts
}
