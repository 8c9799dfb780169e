package alarm

import (
	"context"
	"errors"
	"testing"
	"time"

	"alarmdemo/internal/logx"
	"alarmdemo/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2030, 12, 25, 7, 56, 48, 0, time.UTC)

// newTestScheduler wires a scheduler and a deliverer to in-memory fakes the
// same way the application wires them to real backends.
func newTestScheduler(t *testing.T) (*Scheduler, *memFacility, *memPresenter) {
	t.Helper()
	presenter := newMemPresenter()
	deliverer := NewDeliverer(presenter, DelivererConfig{Sound: true, Log: logx.Nop()})
	facility := newMemFacility(deliverer)
	s := NewScheduler(facility, presenter, SchedulerConfig{
		Title:    "AlarmDemo",
		Location: time.UTC,
		Log:      logx.Nop(),
		Now:      func() time.Time { return fixedNow },
	})
	return s, facility, presenter
}

func TestScheduler_InitialStateIdle(t *testing.T) {
	s, _, _ := newTestScheduler(t)
	assert.Equal(t, Idle, s.State())

	_, ok := s.Pending()
	assert.False(t, ok)
}

func TestScheduler_ScheduleRegistersRequest(t *testing.T) {
	s, facility, _ := newTestScheduler(t)

	got, err := s.Schedule(context.Background(), "25.12.2030", "08:00", "Wake up")
	require.NoError(t, err)

	req, ok := facility.Pending(NotificationID)
	require.True(t, ok)
	assert.Equal(t, NotificationID, req.ID)
	assert.Equal(t, WakeRTC, req.Wake)
	assert.True(t, time.Date(2030, 12, 25, 8, 0, 0, 0, time.UTC).Equal(req.FireAt))
	assert.Equal(t, Payload{Title: "AlarmDemo", Body: "Wake up"}, req.Payload)

	assert.Equal(t, req, got.Request)
	assert.Equal(t, Delay{Minutes: 3, Seconds: 12}, got.Delay)
	assert.Equal(t, "Alarm (Wake up) starts in 3 minutes and 12 seconds", got.Status())
	assert.Equal(t, Armed, s.State())
}

func TestScheduler_ScheduleThenFireDeliversOnce(t *testing.T) {
	s, facility, presenter := newTestScheduler(t)

	_, err := s.Schedule(context.Background(), "25.12.2030", "08:00", "Wake up")
	require.NoError(t, err)

	require.True(t, facility.fire(NotificationID))
	assert.Equal(t, Idle, s.State())

	n, ok := presenter.get(int(NotificationID))
	require.True(t, ok)
	assert.Equal(t, "AlarmDemo", n.Title)
	assert.Equal(t, "Wake up", n.Body)
	assert.Equal(t, 1, presenter.count())
	assert.Equal(t, 1, presenter.presents)
}

func TestScheduler_SecondScheduleReplacesFirst(t *testing.T) {
	s, facility, presenter := newTestScheduler(t)
	ctx := context.Background()

	_, err := s.Schedule(ctx, "25.12.2030", "08:00", "first")
	require.NoError(t, err)
	_, err = s.Schedule(ctx, "25.12.2030", "09:30", "second")
	require.NoError(t, err)

	req, ok := s.Pending()
	require.True(t, ok)
	assert.Equal(t, "second", req.Payload.Body)
	assert.Len(t, facility.pending, 1)

	facility.fire(NotificationID)
	assert.False(t, facility.fire(NotificationID), "only one request may ever fire")

	n, _ := presenter.get(int(NotificationID))
	assert.Equal(t, "second", n.Body)
	assert.Equal(t, 1, presenter.presents)
}

func TestScheduler_ScheduleThenCancel(t *testing.T) {
	s, facility, presenter := newTestScheduler(t)
	ctx := context.Background()

	_, err := s.Schedule(ctx, "25.12.2030", "08:00", "Wake up")
	require.NoError(t, err)
	require.NoError(t, s.Cancel(ctx))

	assert.Equal(t, Idle, s.State())
	assert.False(t, facility.fire(NotificationID), "cancelled alarm must not fire")
	assert.Equal(t, 0, presenter.count())
}

func TestScheduler_CancelWhenIdle(t *testing.T) {
	s, _, presenter := newTestScheduler(t)

	require.NoError(t, s.Cancel(context.Background()))
	assert.Equal(t, Idle, s.State())
	assert.Equal(t, 0, presenter.count())
}

func TestScheduler_CancelClearsVisibleNotification(t *testing.T) {
	s, facility, presenter := newTestScheduler(t)
	ctx := context.Background()

	_, err := s.Schedule(ctx, "25.12.2030", "08:00", "Wake up")
	require.NoError(t, err)
	facility.fire(NotificationID)
	require.Equal(t, 1, presenter.count())

	require.NoError(t, s.Cancel(ctx))
	assert.Equal(t, 0, presenter.count())
}

func TestScheduler_InvalidInputRegistersNothing(t *testing.T) {
	s, facility, _ := newTestScheduler(t)

	_, err := s.Schedule(context.Background(), "31.13.2099", "99:99", "Wake up")
	require.Error(t, err)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Empty(t, facility.pending)
	assert.Equal(t, Idle, s.State())
}

func TestScheduler_InvalidInputKeepsPendingAlarm(t *testing.T) {
	s, _, _ := newTestScheduler(t)
	ctx := context.Background()

	_, err := s.Schedule(ctx, "25.12.2030", "08:00", "keep me")
	require.NoError(t, err)
	_, err = s.Schedule(ctx, "bad", "input", "lost")
	require.Error(t, err)

	req, ok := s.Pending()
	require.True(t, ok)
	assert.Equal(t, "keep me", req.Payload.Body)
}

func TestScheduler_EmptyMessageAllowed(t *testing.T) {
	s, facility, presenter := newTestScheduler(t)

	_, err := s.Schedule(context.Background(), "25.12.2030", "08:00", "")
	require.NoError(t, err)
	facility.fire(NotificationID)

	n, ok := presenter.get(int(NotificationID))
	require.True(t, ok)
	assert.Equal(t, "", n.Body)
}

func TestScheduler_RegisterError(t *testing.T) {
	s, facility, _ := newTestScheduler(t)
	facility.regErr = errors.New("facility down")

	_, err := s.Schedule(context.Background(), "25.12.2030", "08:00", "Wake up")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "facility down")
}

func TestScheduler_CancelClearError(t *testing.T) {
	s, _, presenter := newTestScheduler(t)
	presenter.err = errors.New("bus gone")

	err := s.Cancel(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bus gone")
}

func TestScheduler_CancelledContext(t *testing.T) {
	s, _, _ := newTestScheduler(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Cancel(ctx), context.Canceled)
}

func TestScheduler_NilClearer(t *testing.T) {
	facility := newMemFacility(nil)
	s := NewScheduler(facility, nil, SchedulerConfig{Location: time.UTC})

	_, err := s.Schedule(context.Background(), "25.12.2030", "08:00", "x")
	require.NoError(t, err)
	require.NoError(t, s.Cancel(context.Background()))
	assert.Equal(t, Idle, s.State())
}

var _ notify.Presenter = (*memPresenter)(nil)
