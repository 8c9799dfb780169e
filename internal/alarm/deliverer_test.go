package alarm

import (
	"context"
	"errors"
	"testing"

	"alarmdemo/internal/logx"
	"alarmdemo/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliverer_Deliver(t *testing.T) {
	presenter := newMemPresenter()
	opened := 0
	channel := notify.Channel{ID: "primary_notification_channel", Lights: true, Vibration: true}
	d := NewDeliverer(presenter, DelivererConfig{
		Icon:    "alarm-symbolic",
		Channel: channel,
		Sound:   true,
		OnOpen:  func() { opened++ },
		Log:     logx.Nop(),
	})

	require.NoError(t, d.Deliver("AlarmDemo", "Wake up"))

	n, ok := presenter.get(int(NotificationID))
	require.True(t, ok)
	assert.Equal(t, "AlarmDemo", n.Title)
	assert.Equal(t, "Wake up", n.Body)
	assert.Equal(t, "alarm-symbolic", n.Icon)
	assert.Equal(t, notify.PriorityHigh, n.Priority)
	assert.True(t, n.AutoDismiss)
	assert.Equal(t, notify.DefaultAll, n.Defaults)
	assert.Equal(t, channel, n.Channel)

	require.NotNil(t, n.Action)
	n.Action()
	assert.Equal(t, 1, opened)
}

func TestDeliverer_ReplacesVisibleNotification(t *testing.T) {
	presenter := newMemPresenter()
	d := NewDeliverer(presenter, DelivererConfig{})

	require.NoError(t, d.Deliver("AlarmDemo", "first"))
	require.NoError(t, d.Deliver("AlarmDemo", "second"))

	assert.Equal(t, 1, presenter.count())
	n, _ := presenter.get(int(NotificationID))
	assert.Equal(t, "second", n.Body)
}

func TestDeliverer_EmptyFieldsVerbatim(t *testing.T) {
	presenter := newMemPresenter()
	d := NewDeliverer(presenter, DelivererConfig{})

	d.Receive(context.Background(), Payload{})

	n, ok := presenter.get(int(NotificationID))
	require.True(t, ok)
	assert.Empty(t, n.Title)
	assert.Empty(t, n.Body)
}

func TestDeliverer_Defaults(t *testing.T) {
	tests := []struct {
		name string
		cfg  DelivererConfig
		want notify.Defaults
	}{
		{"none", DelivererConfig{}, 0},
		{"sound only", DelivererConfig{Sound: true}, notify.DefaultSound},
		{"channel without sound", DelivererConfig{Channel: notify.Channel{Lights: true, Vibration: true}}, notify.DefaultLights | notify.DefaultVibrate},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NewDeliverer(newMemPresenter(), tc.cfg).defaults())
		})
	}
}

func TestDeliverer_PresentError(t *testing.T) {
	presenter := newMemPresenter()
	presenter.err = errors.New("no notification server")
	d := NewDeliverer(presenter, DelivererConfig{})

	err := d.Deliver("AlarmDemo", "Wake up")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no notification server")

	// Receive swallows the error; it has already been logged.
	assert.NotPanics(t, func() { d.Receive(context.Background(), Payload{Title: "a"}) })
}
