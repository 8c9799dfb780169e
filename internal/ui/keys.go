// Package ui provides the terminal user interface for alarmdemo.
// This file defines key bindings using the Bubble Tea key package for
// type-safe key matching, help text generation, and customization.
package ui

import (
	"strings"

	"alarmdemo/internal/config"

	"github.com/charmbracelet/bubbles/key"
)

// parseKeys splits a comma-separated string into individual keys.
// If the input is empty, returns the default keys.
func parseKeys(customKeys string, defaultKeys ...string) []string {
	if customKeys == "" {
		return defaultKeys
	}
	keys := strings.Split(customKeys, ",")
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		trimmed := strings.TrimSpace(k)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// newBinding binds keys and labels the binding with the first of them, so
// rebound keys show up in help.
func newBinding(keys []string, desc string) key.Binding {
	label := ""
	if len(keys) > 0 {
		label = keys[0]
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, desc))
}

// =============================================================================
// Form Keys
// =============================================================================

// FormKeyMap defines the keys of the alarm form. None of them produce
// printable characters, so they work while a text field has focus.
type FormKeyMap struct {
	Quit      key.Binding
	Help      key.Binding
	NextField key.Binding
	PrevField key.Binding
	Set       key.Binding
	Cancel    key.Binding
	Confirm   key.Binding
}

// DefaultFormKeyMap returns the default form key bindings.
func DefaultFormKeyMap() FormKeyMap {
	return NewFormKeyMap(&config.KeysConfig{})
}

// NewFormKeyMap creates form key bindings from config.
func NewFormKeyMap(cfg *config.KeysConfig) FormKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return FormKeyMap{
		Quit:      newBinding(parseKeys(cfg.Quit, "ctrl+c"), "quit"),
		Help:      newBinding(parseKeys(cfg.Help, "f1"), "help"),
		NextField: newBinding(parseKeys(cfg.NextField, "tab", "down"), "next field"),
		PrevField: newBinding(parseKeys(cfg.PrevField, "shift+tab", "up"), "previous field"),
		Set:       newBinding(parseKeys(cfg.Set, "ctrl+s"), "set alarm"),
		Cancel:    newBinding(parseKeys(cfg.Cancel, "ctrl+x"), "cancel alarm"),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "press button / next field"),
		),
	}
}

// ShortHelp returns the short help for the form (implements help.KeyMap).
func (k FormKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Set, k.Cancel, k.NextField, k.Help, k.Quit}
}

// FullHelp returns the full help for the form (implements help.KeyMap).
func (k FormKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Set, k.Cancel, k.Confirm},
		{k.NextField, k.PrevField},
		{k.Help, k.Quit},
	}
}

// =============================================================================
// Help Overlay Keys
// =============================================================================

// HelpKeyMap defines keys for the help overlay.
type HelpKeyMap struct {
	Close key.Binding
}

// DefaultHelpKeyMap returns the default help overlay key bindings.
func DefaultHelpKeyMap() HelpKeyMap {
	return HelpKeyMap{
		Close: key.NewBinding(
			key.WithKeys("f1", "esc", "q", "enter", " "),
			key.WithHelp("any key", "close"),
		),
	}
}
