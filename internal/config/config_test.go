package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tectonic/internal/tectonic"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tectonic.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
	require.NotNil(t, cfg.SelectedIndex)
	assert.Equal(t, 0, *cfg.SelectedIndex)

	d, err := cfg.Delay()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, d)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
markup: "<div><p>a</p><p>b</p></div>"
selector: p
selected_index: 1
layout: slide
slide_delay: 1s
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "<div><p>a</p><p>b</p></div>", cfg.Markup)
	assert.Equal(t, "p", cfg.Selector)
	assert.Equal(t, "slide", cfg.Layout)
	require.NoError(t, cfg.Validate("default", "slide"))

	d, err := cfg.Delay()
	require.NoError(t, err)
	assert.Equal(t, time.Second, d)

	assert.Equal(t, tectonic.Options{
		tectonic.OptSelector:      "p",
		tectonic.OptSelectedIndex: 1,
		tectonic.OptLayout:        "slide",
	}, cfg.Options())
}

func TestLoad_KeepsDefaultsForMissingKeys(t *testing.T) {
	cfg, err := Load(writeConfig(t, "layout: slide\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultMarkup, cfg.Markup)
	assert.Equal(t, "slide", cfg.Layout)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "lay0ut: slide\n"))
	assert.Error(t, err, "unknown keys are rejected")

	_, err = Load(writeConfig(t, "selected_index: [1\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		layouts []string
		wantErr string
	}{
		{"empty markup", func(c *Config) { c.Markup = "  " }, nil, "markup required"},
		{"bad selector", func(c *Config) { c.Selector = "li[" }, nil, "selector"},
		{"bad delay", func(c *Config) { c.SlideDelay = "soon" }, nil, "slide_delay"},
		{"negative delay", func(c *Config) { c.SlideDelay = "-1s" }, nil, "negative"},
		{"unknown layout", func(c *Config) { c.Layout = "grid" }, []string{"default"}, "unknown layout"},
		{"layout unchecked without names", func(c *Config) { c.Layout = "grid" }, nil, ""},
		{"layout name normalized", func(c *Config) { c.Layout = " Default " }, []string{"default"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate(tt.layouts...)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOptions_NoSelection(t *testing.T) {
	cfg := Config{Markup: "<div></div>"}
	assert.Empty(t, cfg.Options())
}
