// Package alarm schedules a single one-shot notification.
//
// A Scheduler turns user input into a Request and registers it with a
// Facility. When the request fires, the Facility hands its Payload to the
// Receiver it was built with (normally a Deliverer), which presents the
// notification. Scheduler and Deliverer never reference each other; the
// payload is the only thing they share.
package alarm

import (
	"context"
	"time"
)

// ID identifies a request and the notification it produces.
type ID int

// NotificationID is the only identity ever used. Reusing it keeps at most one
// alarm outstanding: scheduling again replaces the pending request, and a
// second delivery replaces the visible notification.
const NotificationID ID = 0

// WakePolicy tells the facility how to treat a sleeping device.
type WakePolicy int

const (
	// RTC fires on the wall clock, but not before the device is awake.
	RTC WakePolicy = iota
	// WakeRTC fires on the wall clock and wakes the device if needed.
	WakeRTC
)

func (w WakePolicy) String() string {
	if w == WakeRTC {
		return "rtc_wakeup"
	}
	return "rtc"
}

// Payload is relayed unchanged from Register to the Receiver.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Request is a deferred-delivery registration.
type Request struct {
	ID      ID         `json:"id"`
	FireAt  time.Time  `json:"fire_at"`
	Wake    WakePolicy `json:"wake"`
	Payload Payload    `json:"payload"`
}

// Receiver is invoked when a registered request fires.
type Receiver interface {
	Receive(ctx context.Context, p Payload)
}

// ReceiverFunc adapts a function to Receiver.
type ReceiverFunc func(ctx context.Context, p Payload)

func (f ReceiverFunc) Receive(ctx context.Context, p Payload) { f(ctx, p) }
