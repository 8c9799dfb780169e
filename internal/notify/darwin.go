//go:build darwin

// Package notify provides desktop notification support.
// This file implements macOS notifications using osascript.
package notify

import (
	"fmt"
	"os/exec"
	"strings"

	"alarmdemo/internal/logx"
)

// darwinPresenter implements notifications for macOS using osascript.
// Notification Center offers no scripting hook for replace, clear or click
// actions, so those degrade to plain posting.
type darwinPresenter struct {
	log logx.Logger
}

// newPlatformPresenter creates the macOS presenter.
func newPlatformPresenter(_ string, log logx.Logger) Presenter {
	return &darwinPresenter{log: log.With(logx.String("backend", "osascript"))}
}

// IsSupported returns true if osascript is available.
func (p *darwinPresenter) IsSupported() bool {
	_, err := exec.LookPath("osascript")
	return err == nil
}

// Present posts a notification to Notification Center.
func (p *darwinPresenter) Present(id int, n Notification) error {
	title := escapeAppleScript(n.Title)
	body := escapeAppleScript(n.Body)

	script := fmt.Sprintf(`display notification "%s" with title "%s"`, body, title)
	if n.Defaults&DefaultSound != 0 {
		script += ` sound name "default"`
	}

	cmd := exec.Command("osascript", "-e", script)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("osascript failed: %w", err)
	}
	return nil
}

// ClearAll is a no-op; delivered notifications stay in Notification Center.
func (p *darwinPresenter) ClearAll() error {
	p.log.Debug("clear not supported by osascript")
	return nil
}

// escapeAppleScript escapes special characters for AppleScript strings.
func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}
