// Package ui provides the terminal user interface for alarmdemo.
// This file contains tea.Cmd factories that wrap scheduler operations. Each
// command returns a corresponding message type defined in messages.go.
package ui

import (
	"context"
	"time"

	"alarmdemo/internal/alarm"

	tea "github.com/charmbracelet/bubbletea"
)

// commandTimeout bounds a single scheduler call.
const commandTimeout = 10 * time.Second

// AlarmScheduler is the part of *alarm.Scheduler the UI drives.
type AlarmScheduler interface {
	Schedule(ctx context.Context, dateText, timeText, message string) (alarm.Scheduled, error)
	Cancel(ctx context.Context) error
	State() alarm.State
	Pending() (alarm.Request, bool)
}

// scheduleAlarmCmd returns a command that registers an alarm.
func scheduleAlarmCmd(s AlarmScheduler, dateText, timeText, message string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		scheduled, err := s.Schedule(ctx, dateText, timeText, message)
		return alarmScheduledMsg{scheduled: scheduled, err: err}
	}
}

// cancelAlarmCmd returns a command that withdraws the alarm and clears
// notifications.
func cancelAlarmCmd(s AlarmScheduler) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		return alarmCancelledMsg{err: s.Cancel(ctx)}
	}
}

// tickCmd returns a command that sends a tick every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
