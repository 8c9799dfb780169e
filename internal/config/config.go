// Package config handles configuration loading and defaults for alarmdemo.
// Configuration is loaded from XDG-compliant paths (typically ~/.config/alarmdemo/config.yaml).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// Notifications configures how a fired alarm is presented
	Notifications NotificationConfig `yaml:"notifications"`

	// Telegram configures the telegram backend
	Telegram TelegramConfig `yaml:"telegram,omitempty"`

	// Log configures the log sink
	Log LogConfig `yaml:"log"`

	// Theme customizes the visual appearance
	Theme ThemeConfig `yaml:"theme,omitempty"`

	// Keys customizes keyboard shortcuts
	Keys KeysConfig `yaml:"keys,omitempty"`
}

// NotificationConfig defines notification settings.
type NotificationConfig struct {
	// Backend is one of auto, desktop, telegram, terminal, none
	Backend string `yaml:"backend,omitempty"`

	// Title is the fixed notification title
	Title string `yaml:"title,omitempty"`

	// AppName identifies the sender to the notification server
	AppName string `yaml:"app_name,omitempty"`

	// Icon is an icon name or path
	Icon string `yaml:"icon,omitempty"`

	// Sound enables the notification sound
	Sound bool `yaml:"sound"`

	// Timezone used to interpret the entered date and time (IANA name, empty = local)
	Timezone string `yaml:"timezone,omitempty"`

	// Channel describes the notification channel
	Channel ChannelConfig `yaml:"channel"`
}

// ChannelConfig describes the channel notifications are posted to.
type ChannelConfig struct {
	ID          string `yaml:"id,omitempty"`
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`
	Lights      bool   `yaml:"lights"`
	LightColor  string `yaml:"light_color,omitempty"`
	Vibration   bool   `yaml:"vibration"`
}

// TelegramConfig defines the telegram backend settings.
type TelegramConfig struct {
	Token  string `yaml:"token,omitempty"`
	ChatID int64  `yaml:"chat_id,omitempty"`
}

// LogConfig defines logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level,omitempty"`

	// File receives JSON log lines in TUI mode
	File string `yaml:"file"`
}

// ThemeConfig defines color and style settings.
type ThemeConfig struct {
	// Primary color for focused elements (hex, e.g., "#FF5733")
	Primary string `yaml:"primary,omitempty"`

	// Accent color for highlights (hex)
	Accent string `yaml:"accent,omitempty"`

	// Muted color for secondary text (hex)
	Muted string `yaml:"muted,omitempty"`

	// Text color (hex)
	Text string `yaml:"text,omitempty"`
}

// KeysConfig defines customizable keyboard shortcuts.
// Each field accepts a comma-separated list of key bindings.
// Examples: "ctrl+c,esc", "tab", "ctrl+s"
type KeysConfig struct {
	Quit      string `yaml:"quit,omitempty"`       // default: "ctrl+c"
	Help      string `yaml:"help,omitempty"`       // default: "f1"
	NextField string `yaml:"next_field,omitempty"` // default: "tab,down"
	PrevField string `yaml:"prev_field,omitempty"` // default: "shift+tab,up"
	Set       string `yaml:"set,omitempty"`        // default: "ctrl+s"
	Cancel    string `yaml:"cancel,omitempty"`     // default: "ctrl+x"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Notifications: NotificationConfig{
			Backend: "auto",
			Title:   "AlarmDemo",
			AppName: "alarmdemo",
			Icon:    "alarm-symbolic",
			Sound:   true,
			Channel: ChannelConfig{
				ID:          "primary_notification_channel",
				Name:        "Alarm notifications",
				Description: "Notifies when the alarm time is reached",
				Lights:      true,
				LightColor:  "#FF0000",
				Vibration:   true,
			},
		},
		Log: LogConfig{
			Level: "info",
			File:  defaultLogFile(),
		},
		Theme: ThemeConfig{
			Primary: "#7C3AED", // Violet
			Accent:  "#10B981", // Emerald
			Muted:   "#6B7280", // Gray
		},
	}
}

// defaultLogFile returns the default log file path (XDG state dir).
func defaultLogFile() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "alarmdemo", "alarmdemo.log")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "alarmdemo.log"
	}
	return filepath.Join(home, ".local", "state", "alarmdemo", "alarmdemo.log")
}

// configDir returns the configuration directory path (XDG compliant).
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "alarmdemo")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "alarmdemo")
}

// Path returns the path to the config file, or "" when no home directory is known.
func Path() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads configuration from the default path, merging with defaults.
// If no config file exists, returns default configuration.
func Load() (*Config, error) {
	return LoadFile(Path())
}

// LoadFile reads configuration from path, merging with defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	var userCfg Config
	if err := yaml.Unmarshal(data, &userCfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var doc yaml.Node
	_ = yaml.Unmarshal(data, &doc) // best-effort; fall back to conservative merge if this fails

	cfg.mergeFromYAML(&userCfg, &doc)

	return cfg, nil
}

// mergeNonEmpty applies non-empty values from other to c.
// Booleans are left alone; they need presence-aware merging.
func (c *Config) mergeNonEmpty(other *Config) {
	n, o := &c.Notifications, &other.Notifications
	setString(&n.Backend, o.Backend)
	setString(&n.Title, o.Title)
	setString(&n.AppName, o.AppName)
	setString(&n.Icon, o.Icon)
	setString(&n.Timezone, o.Timezone)
	setString(&n.Channel.ID, o.Channel.ID)
	setString(&n.Channel.Name, o.Channel.Name)
	setString(&n.Channel.Description, o.Channel.Description)
	setString(&n.Channel.LightColor, o.Channel.LightColor)

	setString(&c.Telegram.Token, other.Telegram.Token)
	if other.Telegram.ChatID != 0 {
		c.Telegram.ChatID = other.Telegram.ChatID
	}

	setString(&c.Log.Level, other.Log.Level)
	setString(&c.Log.File, other.Log.File)

	setString(&c.Theme.Primary, other.Theme.Primary)
	setString(&c.Theme.Accent, other.Theme.Accent)
	setString(&c.Theme.Muted, other.Theme.Muted)
	setString(&c.Theme.Text, other.Theme.Text)

	setString(&c.Keys.Quit, other.Keys.Quit)
	setString(&c.Keys.Help, other.Keys.Help)
	setString(&c.Keys.NextField, other.Keys.NextField)
	setString(&c.Keys.PrevField, other.Keys.PrevField)
	setString(&c.Keys.Set, other.Keys.Set)
	setString(&c.Keys.Cancel, other.Keys.Cancel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (c *Config) mergeFromYAML(other *Config, doc *yaml.Node) {
	c.mergeNonEmpty(other)

	// Without a document we cannot tell an explicit false from an absent key.
	if doc == nil || len(doc.Content) == 0 {
		return
	}

	if yamlHasPath(doc, "notifications", "sound") {
		c.Notifications.Sound = other.Notifications.Sound
	}
	if yamlHasPath(doc, "notifications", "channel", "lights") {
		c.Notifications.Channel.Lights = other.Notifications.Channel.Lights
	}
	if yamlHasPath(doc, "notifications", "channel", "vibration") {
		c.Notifications.Channel.Vibration = other.Notifications.Channel.Vibration
	}
	// An explicit empty file path disables file logging.
	if yamlHasPath(doc, "log", "file") {
		c.Log.File = other.Log.File
	}
}

func yamlHasPath(doc *yaml.Node, path ...string) bool {
	if doc == nil || len(path) == 0 {
		return false
	}

	// Document -> root mapping.
	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	for _, key := range path {
		if n == nil || n.Kind != yaml.MappingNode {
			return false
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			v := n.Content[i+1]
			if k.Kind == yaml.ScalarNode && k.Value == key {
				next = v
				break
			}
		}
		if next == nil {
			return false
		}
		n = next
	}
	return true
}

// Location resolves the configured timezone. Empty means time.Local.
func (c *Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Notifications.Timezone)
	if tz == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("notifications.timezone %q: %w", tz, err)
	}
	return loc, nil
}

// LogFile returns the resolved log file path with ~ expanded.
func (c *Config) LogFile() string {
	return expandHome(c.Log.File)
}

func expandHome(p string) string {
	if p == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return p
	}
	if strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}
