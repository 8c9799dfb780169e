// Package ui provides the terminal user interface for alarmdemo.
// This file defines message types for alarm operations using the Bubble Tea
// command pattern. Scheduling and cancelling run as commands so the event
// loop never blocks on a notification backend.
package ui

import (
	"time"

	"alarmdemo/internal/alarm"
)

// alarmScheduledMsg is sent when a Schedule call completes.
type alarmScheduledMsg struct {
	scheduled alarm.Scheduled
	err       error
}

// alarmCancelledMsg is sent when a Cancel call completes.
type alarmCancelledMsg struct {
	err error
}

// alarmFiredMsg is sent from the facility's goroutine after delivery.
// err is set when the notification could not be shown.
type alarmFiredMsg struct {
	payload alarm.Payload
	err     error
}

// openedFromNotificationMsg is sent when the user activates the notification.
type openedFromNotificationMsg struct{}

// tickMsg is sent periodically for the countdown and status expiry.
type tickMsg time.Time
