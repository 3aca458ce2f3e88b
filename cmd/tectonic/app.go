package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
	"golang.org/x/net/html"

	"tectonic/internal/config"
	"tectonic/internal/dom"
	"tectonic/internal/event"
	"tectonic/internal/layout"
	"tectonic/internal/tectonic"
	"tectonic/internal/trace"
	"tectonic/internal/ui"
)

// logEnv names a file that receives debug logs.
const logEnv = "TECTONIC_LOG"

// session is everything one invocation builds from flags and config.
type session struct {
	cfg      config.Config
	root     *html.Node
	registry *layout.Registry
	slide    *ui.Slide
	logger   *slog.Logger
	observer tectonic.Observer
	closers  []func()
}

func (s *session) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func (s *session) config() tectonic.Config {
	return tectonic.Config{
		Registry: s.registry,
		Observer: s.observer,
		Logger:   s.logger,
	}
}

func newApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "tectonic",
		Usage:     "Arrange an element's children through a pluggable layout",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file"},
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "read container markup from `PATH`"},
			&cli.StringFlag{Name: "layout", Aliases: []string{"l"}, Usage: "layout name (see the layouts command)"},
			&cli.StringFlag{Name: "selector", Aliases: []string{"s"}, Usage: "CSS selector for item children"},
			&cli.IntFlag{Name: "selected", Usage: "initially selected index (-1 counts from the end)"},
			&cli.DurationFlag{Name: "delay", Usage: "slide layout confirmation delay"},
		},
		Action: runTUI,
		Commands: []*cli.Command{
			{
				Name:  "render",
				Usage: "Apply operations without a terminal UI and print the result",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "append", Aliases: []string{"a"}, Usage: "append an item by id or markup (repeatable)"},
					&cli.StringSliceFlag{Name: "remove", Aliases: []string{"r"}, Usage: "remove the item with this id (repeatable)"},
					&cli.StringFlag{Name: "script", Usage: "JSON list of method calls to run after the edits"},
				},
				Action: runRender,
			},
			{
				Name:   "layouts",
				Usage:  "List the registered layouts",
				Action: runLayouts,
			},
		},
	}
}

// openSession resolves config and flags, then builds the collaborators
// every command shares.
func openSession(ctx context.Context, cmd *cli.Command) (*session, error) {
	cfg := config.Defaults()
	if path := cmd.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if path := cmd.String("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read markup: %w", err)
		}
		cfg.Markup = string(data)
	}
	if cmd.IsSet("layout") {
		cfg.Layout = cmd.String("layout")
	}
	if cmd.IsSet("selector") {
		cfg.Selector = cmd.String("selector")
	}
	if cmd.IsSet("selected") {
		i := cmd.Int("selected")
		cfg.SelectedIndex = &i
	}
	if cmd.IsSet("delay") {
		cfg.SlideDelay = cmd.Duration("delay").String()
	}

	s := &session{cfg: cfg, logger: slog.New(slog.DiscardHandler)}
	delay, err := cfg.Delay()
	if err != nil {
		return nil, err
	}
	s.slide = ui.NewSlide(delay)
	s.registry = layout.NewRegistry()
	s.registry.Register("default", layout.Default)
	s.registry.Register(ui.SlideName, s.slide)
	if err := cfg.Validate(s.registry.Names()...); err != nil {
		return nil, err
	}
	if s.root, err = dom.ParseString(cfg.Markup); err != nil {
		return nil, err
	}

	if path := os.Getenv(logEnv); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", logEnv, err)
		}
		s.logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
		s.closers = append(s.closers, func() { _ = f.Close() })
	}

	tp, err := trace.NewProvider(ctx)
	if err != nil {
		s.close()
		return nil, err
	}
	if tp != nil {
		rec := trace.NewRecorder(ctx, tp.Tracer(trace.TracerName))
		s.observer = rec
		s.closers = append(s.closers, func() {
			rec.Close()
			if err := tp.Shutdown(context.Background()); err != nil {
				s.logger.Warn("trace shutdown failed", "err", err)
			}
		})
	}
	s.logger.Debug("session ready", "layout", cfg.Layout, "selector", cfg.Selector, "delay", delay)
	return s, nil
}

func runTUI(ctx context.Context, cmd *cli.Command) error {
	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.close()

	model := ui.NewCarousel(ui.CarouselConfig{
		Plugin:  tectonic.NewPlugin(s.config()),
		Element: s.root,
		Options: s.cfg.Options(),
		Slide:   s.slide,
		Layouts: s.registry.Names(),
		Logger:  s.logger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

func runRender(ctx context.Context, cmd *cli.Command) error {
	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.close()

	var calls []scriptCall
	if path := cmd.String("script"); path != "" {
		if calls, err = loadScript(path); err != nil {
			return err
		}
	}

	events := event.NewLog(0)
	cfg := s.config()
	cfg.Notifier = events
	plugin := tectonic.NewPlugin(cfg)
	c := plugin.Attach(s.root, s.cfg.Options())

	tag := "li"
	if first := c.Get(0); first != nil {
		tag = first.Data
	}
	newItem := func(id string) *html.Node { return dom.NewElement(tag, id, id) }
	for _, v := range cmd.StringSlice("append") {
		h, err := itemFrom(v, newItem)
		if err != nil {
			return err
		}
		c.Append(h)
	}
	for _, id := range cmd.StringSlice("remove") {
		for _, h := range c.All() {
			if dom.Attr(h, "id") == id {
				c.Remove(h)
			}
		}
	}
	settle := func() {
		if n := s.slide.Settle(); n > 0 {
			s.logger.Debug("settled slide layout", "steps", n)
		}
	}
	settle()

	out := cmd.Root().Writer
	if err := runScript(out, plugin, s.root, calls, newItem, settle); err != nil {
		return err
	}

	if c, ok := plugin.Instance(s.root); ok {
		fmt.Fprintf(out, "items: %s\n", strings.Join(dom.Labels(c.All()), " "))
		if v := c.Value(); v != nil {
			fmt.Fprintf(out, "selected: %d (%s)\n", c.SelectedIndex(), dom.Label(v))
		} else {
			fmt.Fprintln(out, "selected: none")
		}
	} else {
		fmt.Fprintln(out, "destroyed")
	}
	for _, e := range events.Events() {
		fmt.Fprintf(out, "event: %s %s index=%d\n", e.Name(), dom.Label(e.Item), e.Index)
	}
	markup, err := dom.Render(s.root)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, markup)
	return nil
}

func runLayouts(ctx context.Context, cmd *cli.Command) error {
	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.close()
	for _, name := range s.registry.Names() {
		fmt.Fprintln(cmd.Root().Writer, name)
	}
	return nil
}

// itemFrom turns an --append value into a handle: markup is parsed,
// anything else becomes a new element with that id.
func itemFrom(v string, newItem func(string) *html.Node) (*html.Node, error) {
	if strings.HasPrefix(strings.TrimSpace(v), "<") {
		return dom.ParseString(v)
	}
	return newItem(v), nil
}
