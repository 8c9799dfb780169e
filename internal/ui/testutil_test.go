package ui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"alarmdemo/internal/alarm"
	"alarmdemo/internal/config"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// testNow is the fixed clock used by UI tests.
var testNow = time.Date(2030, 12, 25, 7, 56, 48, 0, time.UTC)

// setupTest prepares the test environment for deterministic rendering.
func setupTest(t *testing.T) {
	t.Helper()
	// Use ASCII profile to disable all color codes in output
	lipgloss.SetColorProfile(termenv.Ascii)
}

// createTestStyles creates a default Styles instance for testing.
func createTestStyles() *Styles {
	return NewStylesFromTheme(&config.ThemeConfig{})
}

// stubFacility keeps requests in memory; nothing fires on its own.
type stubFacility struct {
	mu      sync.Mutex
	pending map[alarm.ID]alarm.Request
}

func newStubFacility() *stubFacility {
	return &stubFacility{pending: map[alarm.ID]alarm.Request{}}
}

func (f *stubFacility) Register(_ context.Context, req alarm.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending[req.ID] = req
	return nil
}

func (f *stubFacility) Withdraw(id alarm.ID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.pending[id]
	delete(f.pending, id)
	return ok
}

func (f *stubFacility) Pending(id alarm.ID) (alarm.Request, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.pending[id]
	return req, ok
}

func (f *stubFacility) Close() context.Context { return context.Background() }

// createTestApp builds an App around a real scheduler backed by a stub facility.
func createTestApp(t *testing.T) (*App, *stubFacility) {
	t.Helper()
	facility := newStubFacility()
	sched := alarm.NewScheduler(facility, nil, alarm.SchedulerConfig{
		Title:    "AlarmDemo",
		Location: time.UTC,
		Now:      func() time.Time { return testNow },
	})
	app := NewApp(sched, createTestStyles(), &AppConfig{
		Now: func() time.Time { return testNow },
	})
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return app, facility
}

// runCmd executes cmd and feeds the resulting message back into the app.
func runCmd(t *testing.T, app *App, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	app.Update(cmd())
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "f1":
		return tea.KeyMsg{Type: tea.KeyF1}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
