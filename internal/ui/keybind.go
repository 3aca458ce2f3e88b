package ui

import (
	"slices"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeybindRegistry maps key sequences to commands.
// Key sequences use spacemacs-style notation: "SPC" for space, "SPC l" for SPC then l.
// Single keys: "left", "a", "esc", "ctrl+c", "enter".
type KeybindRegistry struct {
	bindings     map[string]tea.Cmd
	descriptions map[string]string
	modeFilter   map[string][]Mode // nil/empty = applies to all modes
}

// NewKeybindRegistry creates an empty registry.
func NewKeybindRegistry() *KeybindRegistry {
	return &KeybindRegistry{
		bindings:     make(map[string]tea.Cmd),
		descriptions: make(map[string]string),
		modeFilter:   make(map[string][]Mode),
	}
}

// Bind registers a key sequence to a command.
// Overwrites any existing binding for the sequence.
func (r *KeybindRegistry) Bind(seq string, cmd tea.Cmd) {
	r.BindWithDesc(seq, cmd, "")
}

// BindWithDesc registers a key sequence with a description for the help line.
func (r *KeybindRegistry) BindWithDesc(seq string, cmd tea.Cmd, desc string, modes ...Mode) {
	n := normalizeSeq(seq)
	r.bindings[n] = cmd
	if desc != "" {
		r.descriptions[n] = desc
	}
	if len(modes) > 0 {
		r.modeFilter[n] = modes
	}
}

// Lookup returns the command for a key sequence, or nil if not bound.
func (r *KeybindRegistry) Lookup(seq string) tea.Cmd {
	return r.bindings[normalizeSeq(seq)]
}

// LookupMode is Lookup restricted to bindings that apply to mode.
func (r *KeybindRegistry) LookupMode(seq string, mode Mode) tea.Cmd {
	n := normalizeSeq(seq)
	if !r.appliesToMode(n, mode) {
		return nil
	}
	return r.bindings[n]
}

// HasPrefix returns true if any binding starts with seq and a space (i.e. more keys follow).
func (r *KeybindRegistry) HasPrefix(seq string) bool {
	prefix := normalizeSeq(seq) + " "
	for k := range r.bindings {
		if strings.HasPrefix(k, prefix) {
			return true
		}
	}
	return false
}

// Hints returns the described bindings that apply to mode. With an empty
// prefix only single-key bindings are returned; with a prefix such as
// "SPC", the keys that may follow it.
func (r *KeybindRegistry) Hints(prefix string, mode Mode) map[string]string {
	out := make(map[string]string)
	if prefix != "" {
		prefix = normalizeSeq(prefix) + " "
	}
	for seq, cmd := range r.bindings {
		if cmd == nil || !r.appliesToMode(seq, mode) {
			continue
		}
		desc, ok := r.descriptions[seq]
		if !ok {
			continue
		}
		if prefix == "" {
			if !strings.Contains(seq, " ") {
				out[seq] = desc
			}
			continue
		}
		if rest, ok := strings.CutPrefix(seq, prefix); ok {
			next, _, _ := strings.Cut(rest, " ")
			if r.HasPrefix(prefix + next) {
				desc = next + "…"
			}
			out[next] = desc
		}
	}
	return out
}

func (r *KeybindRegistry) appliesToMode(seq string, mode Mode) bool {
	modes, ok := r.modeFilter[seq]
	return !ok || len(modes) == 0 || slices.Contains(modes, mode)
}

// normalizeSeq converts tea key strings to our canonical format.
// "space" -> "SPC", "ctrl+c" -> "ctrl+c", "j" -> "j".
func normalizeSeq(seq string) string {
	parts := strings.Fields(seq)
	for i, p := range parts {
		parts[i] = keyToSeqPart(p)
	}
	return strings.Join(parts, " ")
}

// KeyHandler manages leader key state and dispatches to the registry.
type KeyHandler struct {
	Registry      *KeybindRegistry
	LeaderKey     string   // " " (tea.KeyMsg.String() format)
	LeaderSeq     string   // "SPC" (our format)
	LeaderWaiting bool     // true when waiting for key after leader
	Buffer        []string // accumulated sequence in leader mode
	Mode          Mode     // bindings filtered to this mode
}

// NewKeyHandler creates a handler with SPC as leader.
// Bubble Tea reports space as " " (KeySpace), not "space".
func NewKeyHandler(reg *KeybindRegistry) *KeyHandler {
	return &KeyHandler{
		Registry:  reg,
		LeaderKey: " ",
		LeaderSeq: "SPC",
	}
}

// Handle processes a KeyMsg. Returns (consumed, cmd).
// If consumed is true, the key was handled by the keybind system and should not be passed to views.
func (h *KeyHandler) Handle(msg tea.KeyMsg) (consumed bool, cmd tea.Cmd) {
	s := msg.String()

	if s == "esc" {
		if h.LeaderWaiting {
			h.reset()
			return true, nil
		}
		return false, nil
	}

	if s == h.LeaderKey && !h.LeaderWaiting {
		h.LeaderWaiting = true
		h.Buffer = []string{h.LeaderSeq}
		return true, nil
	}

	if h.LeaderWaiting {
		h.Buffer = append(h.Buffer, keyToSeqPart(s))
		seq := strings.Join(h.Buffer, " ")
		if c := h.Registry.LookupMode(seq, h.Mode); c != nil {
			h.reset()
			return true, c
		}
		// Stay in leader mode if a longer binding exists
		if !h.Registry.HasPrefix(seq) {
			h.reset()
		}
		return true, nil
	}

	if c := h.Registry.LookupMode(s, h.Mode); c != nil {
		return true, c
	}
	return false, nil
}

// Sequence returns the keys typed since the leader, or "".
func (h *KeyHandler) Sequence() string {
	return strings.Join(h.Buffer, " ")
}

func (h *KeyHandler) reset() {
	h.LeaderWaiting = false
	h.Buffer = nil
}

// keyToSeqPart converts a tea key string to our sequence part.
func keyToSeqPart(s string) string {
	if s == " " || s == "space" {
		return "SPC"
	}
	return s
}

// KeyMap adapts the registry to bubbles/help. It shows the leader
// continuation while a sequence is being typed, single keys otherwise.
type KeyMap struct {
	handler *KeyHandler
}

var _ help.KeyMap = (*KeyMap)(nil)

// NewKeyMap creates a KeyMap over handler, filtered by handler.Mode.
func NewKeyMap(handler *KeyHandler) *KeyMap {
	return &KeyMap{handler: handler}
}

// ShortHelp implements help.KeyMap.
func (km *KeyMap) ShortHelp() []key.Binding {
	if km.handler == nil || km.handler.Registry == nil {
		return nil
	}
	mode := km.handler.Mode
	prefix := ""
	if km.handler.LeaderWaiting {
		prefix = km.handler.Sequence()
	}
	hints := km.handler.Registry.Hints(prefix, mode)
	keys := make([]string, 0, len(hints))
	for k := range hints {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bindings := make([]key.Binding, 0, len(keys)+1)
	for _, k := range keys {
		bindings = append(bindings, key.NewBinding(key.WithKeys(k), key.WithHelp(k, hints[k])))
	}
	if prefix != "" {
		bindings = append(bindings, key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")))
	}
	return bindings
}

// FullHelp implements help.KeyMap with a single column.
func (km *KeyMap) FullHelp() [][]key.Binding {
	short := km.ShortHelp()
	if len(short) == 0 {
		return nil
	}
	return [][]key.Binding{short}
}
