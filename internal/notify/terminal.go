package notify

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Terminal prints notifications to a writer. It is used by the headless
// command and whenever no desktop notification service is reachable.
type Terminal struct {
	mu      sync.Mutex
	out     io.Writer
	visible map[int]Notification
	box     lipgloss.Style
	title   lipgloss.Style
}

// NewTerminal creates a presenter writing to out.
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{
		out:     out,
		visible: map[int]Notification{},
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7C3AED")).
			Padding(0, 1),
		title: lipgloss.NewStyle().Bold(true),
	}
}

// IsSupported always returns true.
func (t *Terminal) IsSupported() bool { return true }

// Present prints n. A sound default rings the terminal bell.
func (t *Terminal) Present(id int, n Notification) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var b strings.Builder
	if n.Defaults&DefaultSound != 0 {
		b.WriteString("\a")
	}
	b.WriteString(t.box.Render(t.title.Render(n.Title) + "\n" + n.Body))
	b.WriteString("\n")

	if _, err := io.WriteString(t.out, b.String()); err != nil {
		return fmt.Errorf("write notification: %w", err)
	}
	t.visible[id] = n
	return nil
}

// ClearAll forgets every printed notification. Printed output stays on screen.
func (t *Terminal) ClearAll() error {
	t.mu.Lock()
	t.visible = map[int]Notification{}
	t.mu.Unlock()
	return nil
}

// Visible returns the number of notifications shown since the last ClearAll,
// counting replaced ids once.
func (t *Terminal) Visible() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.visible)
}
