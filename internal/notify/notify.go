// Package notify presents notifications to the user.
// It uses the freedesktop notification service over D-Bus on Linux,
// osascript on macOS, and can post to Telegram or a terminal instead.
package notify

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"alarmdemo/internal/logx"
)

// ErrUnsupported is returned when a backend cannot run on this system.
var ErrUnsupported = errors.New("notification backend not supported")

// Priority ranks how intrusive a notification is.
type Priority int

const (
	PriorityLow Priority = iota - 1
	PriorityDefault
	PriorityHigh
)

// Defaults selects the alert behaviors applied when a notification is shown.
type Defaults uint8

const (
	DefaultSound Defaults = 1 << iota
	DefaultVibrate
	DefaultLights

	DefaultAll = DefaultSound | DefaultVibrate | DefaultLights
)

// Channel is the pre-registered category a notification is posted to.
type Channel struct {
	ID          string
	Name        string
	Description string
	Importance  Priority
	Lights      bool
	LightColor  string
	Vibration   bool
}

// Notification is what a Presenter shows.
type Notification struct {
	Title    string
	Body     string
	Icon     string
	Priority Priority

	// Action runs when the user activates the notification. May be nil.
	Action func()

	// AutoDismiss removes the notification once it is activated.
	AutoDismiss bool

	Defaults Defaults
	Channel  Channel
}

// Presenter shows and clears notifications.
type Presenter interface {
	// Present shows n under id, replacing whatever is visible under the same id.
	Present(id int, n Notification) error

	// ClearAll removes every notification this presenter has shown.
	ClearAll() error

	// IsSupported returns true if the presenter can show notifications here.
	IsSupported() bool
}

type noopPresenter struct{}

func (noopPresenter) Present(int, Notification) error { return nil }
func (noopPresenter) ClearAll() error                 { return nil }
func (noopPresenter) IsSupported() bool               { return false }

// Backend names accepted by New.
const (
	BackendAuto     = "auto"
	BackendDesktop  = "desktop"
	BackendTelegram = "telegram"
	BackendTerminal = "terminal"
	BackendNone     = "none"
)

// Config selects and configures a backend.
type Config struct {
	Backend  string
	AppName  string
	Telegram TelegramConfig

	// Out receives terminal notifications; defaults to stdout.
	Out io.Writer
	Log logx.Logger
}

// New creates the presenter selected by cfg.Backend. The auto backend uses
// the desktop when available and falls back to the terminal.
func New(cfg Config) (Presenter, error) {
	if cfg.AppName == "" {
		cfg.AppName = "alarmdemo"
	}
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendAuto:
		if p := newPlatformPresenter(cfg.AppName, cfg.Log); p != nil && p.IsSupported() {
			return p, nil
		}
		cfg.Log.Info("desktop notifications unavailable, using terminal")
		return NewTerminal(out), nil
	case BackendDesktop:
		p := newPlatformPresenter(cfg.AppName, cfg.Log)
		if p == nil || !p.IsSupported() {
			return nil, fmt.Errorf("desktop: %w", ErrUnsupported)
		}
		return p, nil
	case BackendTelegram:
		return NewTelegram(cfg.Telegram, cfg.Log)
	case BackendTerminal:
		return NewTerminal(out), nil
	case BackendNone:
		return noopPresenter{}, nil
	default:
		return nil, fmt.Errorf("unknown notification backend %q", cfg.Backend)
	}
}
