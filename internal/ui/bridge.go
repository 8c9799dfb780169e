package ui

import (
	"sync"

	"alarmdemo/internal/alarm"

	tea "github.com/charmbracelet/bubbletea"
)

// sender is the part of *tea.Program the bridge needs.
type sender interface {
	Send(msg tea.Msg)
}

// Bridge forwards events raised outside the event loop (an alarm firing on
// the facility's goroutine, a notification being clicked) into the running
// program. Events raised while no program is attached are dropped.
type Bridge struct {
	mu sync.Mutex
	p  sender
}

// NewBridge returns a detached bridge.
func NewBridge() *Bridge {
	return &Bridge{}
}

// Fired reports that payload has fired. err is the delivery error, if any.
func (b *Bridge) Fired(payload alarm.Payload, err error) {
	b.send(alarmFiredMsg{payload: payload, err: err})
}

// Opened reports that the user activated the notification.
func (b *Bridge) Opened() {
	b.send(openedFromNotificationMsg{})
}

func (b *Bridge) attach(p sender) {
	b.mu.Lock()
	b.p = p
	b.mu.Unlock()
}

func (b *Bridge) detach() {
	b.attach(nil)
}

func (b *Bridge) send(msg tea.Msg) {
	b.mu.Lock()
	p := b.p
	b.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}
