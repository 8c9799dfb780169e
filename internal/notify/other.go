//go:build !darwin && !linux

// Package notify provides desktop notification support.
// This file provides the fallback for platforms without a desktop backend.
package notify

import "alarmdemo/internal/logx"

// newPlatformPresenter returns nil; New falls back to the terminal.
func newPlatformPresenter(string, logx.Logger) Presenter {
	return nil
}
