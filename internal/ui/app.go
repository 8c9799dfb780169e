// Package ui provides the terminal user interface for alarmdemo.
// This file contains the main App model which owns the alarm form and
// routes messages using the Bubble Tea architecture.
package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"alarmdemo/internal/alarm"
	"alarmdemo/internal/config"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// AppConfig holds user configuration for the app behavior.
type AppConfig struct {
	Keys *config.KeysConfig

	// Now is the clock used for prefilling, the countdown and status expiry.
	Now func() time.Time
}

// App is the main application model.
type App struct {
	scheduler   AlarmScheduler
	styles      *Styles
	config      *AppConfig
	form        *AlarmForm
	helpOverlay *HelpOverlay
	busy        bool
	showHelp    bool
	width       int
	height      int
	status      string
	statusErr   bool
	statusUntil time.Time
	quitting    bool

	// Key bindings
	keys     FormKeyMap
	helpKeys HelpKeyMap

	// Y coordinate where the form starts (after the title bar)
	contentTop int
}

// NewApp creates a new application around s.
func NewApp(s AlarmScheduler, styles *Styles, cfg *AppConfig) *App {
	if cfg == nil {
		cfg = &AppConfig{}
	}
	if cfg.Keys == nil {
		cfg.Keys = &config.KeysConfig{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	keys := NewFormKeyMap(cfg.Keys)
	return &App{
		scheduler:   s,
		styles:      styles,
		config:      cfg,
		form:        NewAlarmForm(styles, cfg.Now()),
		helpOverlay: NewHelpOverlay(styles, keys),
		keys:        keys,
		helpKeys:    DefaultHelpKeyMap(),
		contentTop:  2,
	}
}

// Init starts the clock and the cursor blink.
func (a *App) Init() tea.Cmd {
	return tea.Batch(tickCmd(), a.form.SetFocus(FieldDate))
}

// Update handles all messages and routes them appropriately.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case alarmScheduledMsg:
		a.busy = false
		if msg.err != nil {
			var verr *alarm.ValidationError
			if errors.As(msg.err, &verr) {
				a.SetStatus(verr.Error(), true)
			} else {
				a.SetStatus("Set alarm: "+msg.err.Error(), true)
			}
			return a, nil
		}
		a.SetStatus(msg.scheduled.Status(), false)
		return a, nil

	case alarmCancelledMsg:
		a.busy = false
		if msg.err != nil {
			a.SetStatus("Cancel alarm: "+msg.err.Error(), true)
			return a, nil
		}
		a.SetStatus("Alarm cancelled", false)
		return a, nil

	case alarmFiredMsg:
		if msg.err != nil {
			a.SetStatus("Alarm fired, notification failed: "+msg.err.Error(), true)
			return a, nil
		}
		a.SetStatus("Alarm fired: "+msg.payload.Body, false)
		return a, nil

	case openedFromNotificationMsg:
		a.showHelp = false
		a.SetStatus("Opened from notification", false)
		return a, a.form.SetFocus(FieldMessage)

	case tickMsg:
		if a.status != "" && !a.statusUntil.IsZero() && a.config.Now().After(a.statusUntil) {
			a.status = ""
			a.statusErr = false
			a.statusUntil = time.Time{}
		}
		return a, tickCmd()

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case tea.MouseMsg:
		return a, a.handleMouse(msg)
	}

	return a, a.form.Update(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	// Help overlay takes priority
	if a.showHelp {
		if key.Matches(msg, a.helpKeys.Close) {
			a.showHelp = false
		}
		return nil
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		a.quitting = true
		return tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.showHelp = true
		return nil

	case key.Matches(msg, a.keys.Set):
		return a.set()

	case key.Matches(msg, a.keys.Cancel):
		return a.cancel()

	case key.Matches(msg, a.keys.NextField):
		return a.form.Next()

	case key.Matches(msg, a.keys.PrevField):
		return a.form.Prev()

	case key.Matches(msg, a.keys.Confirm):
		switch a.form.Focused() {
		case FieldSet:
			return a.set()
		case FieldCancel:
			return a.cancel()
		default:
			return a.form.Next()
		}
	}

	return a.form.Update(msg)
}

func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	// Any click closes help
	if a.showHelp {
		a.showHelp = false
		return nil
	}

	switch a.form.ButtonAt(msg.X, msg.Y-a.contentTop) {
	case ButtonSet:
		return tea.Batch(a.form.SetFocus(FieldSet), a.set())
	case ButtonCancel:
		return tea.Batch(a.form.SetFocus(FieldCancel), a.cancel())
	}
	return nil
}

// set schedules the alarm from the current field values.
func (a *App) set() tea.Cmd {
	if a.busy {
		a.SetStatus("Busy, try again", true)
		return nil
	}
	a.busy = true
	dateText, timeText, message := a.form.Values()
	return scheduleAlarmCmd(a.scheduler, dateText, timeText, message)
}

// cancel withdraws the alarm and clears notifications.
func (a *App) cancel() tea.Cmd {
	if a.busy {
		a.SetStatus("Busy, try again", true)
		return nil
	}
	a.busy = true
	return cancelAlarmCmd(a.scheduler)
}

// updateLayout recalculates sizes based on terminal dimensions.
func (a *App) updateLayout() {
	a.helpOverlay.SetSize(a.width, a.height)
	a.form.SetSize(min(a.width, 72))
}

// View renders the entire app.
func (a *App) View() string {
	if a.quitting {
		return a.renderGoodbye()
	}

	if a.showHelp {
		return a.helpOverlay.View()
	}

	var b strings.Builder

	b.WriteString(a.renderTitleBar())
	b.WriteString("\n\n")

	var pending *alarm.Request
	if req, ok := a.scheduler.Pending(); ok {
		pending = &req
	}
	b.WriteString(a.form.View(pending))
	b.WriteString("\n")

	b.WriteString(a.renderHelpBar())

	return b.String()
}

// renderGoodbye shows an exit message. Alarms live only as long as the
// process, so a pending one is called out.
func (a *App) renderGoodbye() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  See you later!\n")
	if req, ok := a.scheduler.Pending(); ok {
		b.WriteString(fmt.Sprintf("  Pending alarm for %s was discarded.\n", req.FireAt.Format(dateFormat+" "+timeFormat)))
	}
	b.WriteString("\n")
	return b.String()
}

// renderTitleBar creates the top title bar with the alarm state and clock.
func (a *App) renderTitleBar() string {
	title := a.styles.TitleStyle.Render(" alarmdemo ")
	state := a.renderState()

	now := a.config.Now()
	date := a.styles.DateStyle.Render(now.Format("Mon Jan 2 · 15:04"))

	usedWidth := lipgloss.Width(title) + lipgloss.Width(state) + lipgloss.Width(date)
	spacerWidth := a.width - usedWidth - 2
	if spacerWidth < 2 {
		spacerWidth = 2
	}

	return title + "  " + state + strings.Repeat(" ", spacerWidth) + date
}

// renderState renders "Idle" or "Armed · mm:ss left".
func (a *App) renderState() string {
	state := a.scheduler.State()
	req, ok := a.scheduler.Pending()
	if state != alarm.Armed || !ok {
		return a.styles.StateIdleStyle.Render(alarm.Idle.String())
	}
	left := req.FireAt.Sub(a.config.Now())
	return a.styles.StateArmedStyle.Render(fmt.Sprintf("%s · %s left", state, formatCountdown(left)))
}

// renderHelpBar creates the bottom help bar, replaced by the status line
// while one is showing.
func (a *App) renderHelpBar() string {
	if a.status != "" {
		if a.statusErr {
			return a.styles.ErrorStyle.Render(a.status)
		}
		return a.styles.StatusStyle.Render(a.status)
	}

	k := a.keys
	return a.styles.RenderHelp(
		k.Set.Help().Key, "set",
		k.Cancel.Help().Key, "cancel",
		k.NextField.Help().Key, "next",
		k.Help.Help().Key, "help",
		k.Quit.Help().Key, "quit",
	)
}

// SetStatus sets a status message to display to the user.
func (a *App) SetStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
	ttl := 5 * time.Second
	if isErr {
		ttl = 8 * time.Second
	}
	a.statusUntil = a.config.Now().Add(ttl)
}

// formatCountdown formats d as mm:ss, or h:mm:ss from one hour on.
// Negative durations show as 00:00.
func formatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// Run starts the Bubble Tea program. Events from outside the event loop
// reach it through bridge while it runs.
func Run(s AlarmScheduler, styles *Styles, cfg *AppConfig, bridge *Bridge) error {
	app := NewApp(s, styles, cfg)
	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if bridge != nil {
		bridge.attach(p)
		defer bridge.detach()
	}
	_, err := p.Run()
	return err
}
