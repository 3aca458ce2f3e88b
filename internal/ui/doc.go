// Package ui is the terminal front end for a tectonic container.
//
// Core pieces:
//   - Carousel: the root tea.Model; renders the container's items as cards
//   - Slide: a layout that confirms each step on a tea.Tick
//   - EventLog: scrollback of container events; also the container's notifier
//   - PromptView: ":" command line dispatched through the plugin method bridge
//   - KeybindRegistry/KeyHandler: spacemacs-style bindings with an SPC leader
package ui
