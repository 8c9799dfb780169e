//go:build linux

// Package notify provides desktop notification support.
// This file implements Linux notifications over the freedesktop D-Bus API.
package notify

import (
	"fmt"
	"sync"

	"alarmdemo/internal/logx"

	"github.com/godbus/dbus/v5"
)

const (
	fdoDest      = "org.freedesktop.Notifications"
	fdoPath      = dbus.ObjectPath("/org/freedesktop/Notifications")
	fdoInterface = "org.freedesktop.Notifications"

	// defaultAction is invoked when the notification body is clicked.
	defaultAction = "default"
)

// dbusPresenter implements notifications for Linux desktops.
type dbusPresenter struct {
	appName string
	log     logx.Logger

	mu      sync.Mutex
	conn    *dbus.Conn
	connErr error
	shown   map[int]uint32          // our id -> server id
	pending map[uint32]Notification // server id -> notification (for actions)
}

// newPlatformPresenter creates the Linux presenter. The session bus is
// connected lazily.
func newPlatformPresenter(appName string, log logx.Logger) Presenter {
	return &dbusPresenter{
		appName: appName,
		log:     log.With(logx.String("backend", "dbus")),
		shown:   map[int]uint32{},
		pending: map[uint32]Notification{},
	}
}

// IsSupported returns true if a notification server owns its bus name.
func (p *dbusPresenter) IsSupported() bool {
	conn, err := p.connect()
	if err != nil {
		return false
	}
	var hasOwner bool
	err = conn.BusObject().Call("org.freedesktop.DBus.NameHasOwner", 0, fdoDest).Store(&hasOwner)
	return err == nil && hasOwner
}

func (p *dbusPresenter) connect() (*dbus.Conn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil || p.connErr != nil {
		return p.conn, p.connErr
	}

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		p.connErr = fmt.Errorf("connect session bus: %w", err)
		return nil, p.connErr
	}
	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(fdoPath),
		dbus.WithMatchInterface(fdoInterface),
	); err != nil {
		_ = conn.Close()
		p.connErr = fmt.Errorf("subscribe notification signals: %w", err)
		return nil, p.connErr
	}

	signals := make(chan *dbus.Signal, 16)
	conn.Signal(signals)
	go p.watch(conn, signals)

	p.conn = conn
	return conn, nil
}

// watch dispatches ActionInvoked and NotificationClosed signals until the
// connection closes.
func (p *dbusPresenter) watch(conn *dbus.Conn, signals <-chan *dbus.Signal) {
	for sig := range signals {
		if sig == nil || len(sig.Body) < 2 {
			continue
		}
		serverID, ok := sig.Body[0].(uint32)
		if !ok {
			continue
		}

		switch sig.Name {
		case fdoInterface + ".ActionInvoked":
			key, _ := sig.Body[1].(string)
			p.mu.Lock()
			n, found := p.pending[serverID]
			p.mu.Unlock()
			if !found || key != defaultAction {
				continue
			}
			p.log.Debug("notification activated", logx.Int64("server_id", int64(serverID)))
			if n.AutoDismiss {
				_ = conn.Object(fdoDest, fdoPath).Call(fdoInterface+".CloseNotification", 0, serverID).Err
			}
			if n.Action != nil {
				n.Action()
			}

		case fdoInterface + ".NotificationClosed":
			p.forget(serverID)
		}
	}
}

func (p *dbusPresenter) forget(serverID uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.pending, serverID)
	for id, sid := range p.shown {
		if sid == serverID {
			delete(p.shown, id)
		}
	}
}

// Present shows n, replacing the notification previously shown under id.
func (p *dbusPresenter) Present(id int, n Notification) error {
	conn, err := p.connect()
	if err != nil {
		return err
	}

	p.mu.Lock()
	replaces := p.shown[id]
	p.mu.Unlock()

	var actions []string
	if n.Action != nil {
		actions = []string{defaultAction, "Open"}
	}

	var serverID uint32
	call := conn.Object(fdoDest, fdoPath).Call(fdoInterface+".Notify", 0,
		p.appName,
		replaces,
		n.Icon,
		n.Title,
		n.Body,
		actions,
		dbusHints(p.appName, n),
		int32(-1), // server default expiry
	)
	if err := call.Store(&serverID); err != nil {
		return fmt.Errorf("notify: %w", err)
	}

	p.mu.Lock()
	if replaces != 0 && replaces != serverID {
		delete(p.pending, replaces)
	}
	p.shown[id] = serverID
	p.pending[serverID] = n
	p.mu.Unlock()
	return nil
}

// ClearAll closes every notification shown by this process.
func (p *dbusPresenter) ClearAll() error {
	p.mu.Lock()
	conn := p.conn
	ids := make([]uint32, 0, len(p.shown))
	for _, sid := range p.shown {
		ids = append(ids, sid)
	}
	p.shown = map[int]uint32{}
	p.pending = map[uint32]Notification{}
	p.mu.Unlock()

	if conn == nil {
		return nil
	}
	obj := conn.Object(fdoDest, fdoPath)
	for _, sid := range ids {
		if err := obj.Call(fdoInterface+".CloseNotification", 0, sid).Err; err != nil {
			return fmt.Errorf("close notification %d: %w", sid, err)
		}
	}
	return nil
}

// dbusHints maps a Notification onto freedesktop hints.
func dbusHints(appName string, n Notification) map[string]dbus.Variant {
	hints := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(urgency(n.Priority)),
		"desktop-entry": dbus.MakeVariant(appName),
	}
	if n.Defaults&DefaultSound != 0 {
		hints["sound-name"] = dbus.MakeVariant("alarm-clock-elapsed")
	} else {
		hints["suppress-sound"] = dbus.MakeVariant(true)
	}
	if !n.AutoDismiss {
		hints["resident"] = dbus.MakeVariant(true)
	}
	if n.Channel.ID != "" {
		hints["category"] = dbus.MakeVariant("x-" + appName + "." + n.Channel.ID)
	}
	return hints
}

// urgency maps Priority onto the freedesktop urgency byte (0 low, 1 normal, 2 critical).
func urgency(p Priority) byte {
	switch {
	case p >= PriorityHigh:
		return 2
	case p <= PriorityLow:
		return 0
	default:
		return 1
	}
}
