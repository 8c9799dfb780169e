package alarm

import (
	"context"
	"fmt"

	"alarmdemo/internal/logx"
	"alarmdemo/internal/notify"
)

// DelivererConfig configures a Deliverer.
type DelivererConfig struct {
	Icon    string
	Channel notify.Channel

	// Sound turns the notification sound on. Vibration and lights follow
	// the channel.
	Sound bool

	// OnOpen runs when the user activates the notification. May be nil.
	OnOpen func()

	Log logx.Logger
}

// Deliverer turns a fired payload into a visible notification.
type Deliverer struct {
	presenter notify.Presenter
	cfg       DelivererConfig
	log       logx.Logger
}

// NewDeliverer returns a Deliverer that shows notifications through p.
func NewDeliverer(p notify.Presenter, cfg DelivererConfig) *Deliverer {
	return &Deliverer{
		presenter: p,
		cfg:       cfg,
		log:       cfg.Log.With(logx.String("component", "alarm.deliverer")),
	}
}

// Receive implements Receiver. Title and body are passed on verbatim.
func (d *Deliverer) Receive(_ context.Context, p Payload) {
	_ = d.Deliver(p.Title, p.Body)
}

// Deliver presents a high-priority notification under NotificationID,
// replacing the one already visible.
func (d *Deliverer) Deliver(title, body string) error {
	n := notify.Notification{
		Title:       title,
		Body:        body,
		Icon:        d.cfg.Icon,
		Priority:    notify.PriorityHigh,
		Action:      d.cfg.OnOpen,
		AutoDismiss: true,
		Defaults:    d.defaults(),
		Channel:     d.cfg.Channel,
	}
	if err := d.presenter.Present(int(NotificationID), n); err != nil {
		d.log.Error("deliver notification failed", logx.Err(err))
		return fmt.Errorf("deliver notification: %w", err)
	}
	d.log.Info("notification delivered", logx.String("title", title))
	return nil
}

func (d *Deliverer) defaults() notify.Defaults {
	var f notify.Defaults
	if d.cfg.Sound {
		f |= notify.DefaultSound
	}
	if d.cfg.Channel.Vibration {
		f |= notify.DefaultVibrate
	}
	if d.cfg.Channel.Lights {
		f |= notify.DefaultLights
	}
	return f
}
