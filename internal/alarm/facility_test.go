package alarm

import (
	"context"
	"testing"
	"time"

	"alarmdemo/internal/logx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chanReceiver forwards every payload it receives.
type chanReceiver chan Payload

func (c chanReceiver) Receive(_ context.Context, p Payload) { c <- p }

func newTestFacility(t *testing.T) (*CronFacility, chanReceiver) {
	t.Helper()
	got := make(chanReceiver, 4)
	f := NewCronFacility(got, time.UTC, logx.Nop())
	t.Cleanup(func() { <-f.Close().Done() })
	return f, got
}

func waitPayload(t *testing.T, got chanReceiver) Payload {
	t.Helper()
	select {
	case p := <-got:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("alarm did not fire")
		return Payload{}
	}
}

func assertNoPayload(t *testing.T, got chanReceiver, wait time.Duration) {
	t.Helper()
	select {
	case p := <-got:
		t.Fatalf("unexpected delivery %+v", p)
	case <-time.After(wait):
	}
}

func TestCronFacility_FiresOnce(t *testing.T) {
	f, got := newTestFacility(t)

	req := Request{ID: NotificationID, FireAt: time.Now().Add(50 * time.Millisecond), Payload: Payload{Title: "AlarmDemo", Body: "Wake up"}}
	require.NoError(t, f.Register(context.Background(), req))

	pending, ok := f.Pending(NotificationID)
	require.True(t, ok)
	assert.Equal(t, req, pending)

	assert.Equal(t, req.Payload, waitPayload(t, got))
	assertNoPayload(t, got, 200*time.Millisecond)

	_, ok = f.Pending(NotificationID)
	assert.False(t, ok, "fired request is dropped")
}

func TestCronFacility_PastFiresImmediately(t *testing.T) {
	f, got := newTestFacility(t)

	req := Request{ID: NotificationID, FireAt: time.Now().Add(-time.Hour), Payload: Payload{Body: "late"}}
	require.NoError(t, f.Register(context.Background(), req))

	assert.Equal(t, "late", waitPayload(t, got).Body)
	assertNoPayload(t, got, 200*time.Millisecond)
}

func TestCronFacility_WithdrawPreventsFire(t *testing.T) {
	f, got := newTestFacility(t)

	req := Request{ID: NotificationID, FireAt: time.Now().Add(100 * time.Millisecond)}
	require.NoError(t, f.Register(context.Background(), req))

	assert.True(t, f.Withdraw(NotificationID))
	assert.False(t, f.Withdraw(NotificationID), "second withdraw finds nothing")
	assertNoPayload(t, got, 300*time.Millisecond)
}

func TestCronFacility_RegisterReplaces(t *testing.T) {
	f, got := newTestFacility(t)
	ctx := context.Background()

	require.NoError(t, f.Register(ctx, Request{ID: NotificationID, FireAt: time.Now().Add(80 * time.Millisecond), Payload: Payload{Body: "first"}}))
	require.NoError(t, f.Register(ctx, Request{ID: NotificationID, FireAt: time.Now().Add(150 * time.Millisecond), Payload: Payload{Body: "second"}}))

	assert.Equal(t, "second", waitPayload(t, got).Body)
	assertNoPayload(t, got, 250*time.Millisecond)
}

func TestCronFacility_WithdrawEmpty(t *testing.T) {
	f, _ := newTestFacility(t)
	assert.False(t, f.Withdraw(NotificationID))
}

func TestCronFacility_RegisterValidation(t *testing.T) {
	f, _ := newTestFacility(t)

	err := f.Register(context.Background(), Request{ID: NotificationID})
	assert.Error(t, err, "zero fire time")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = f.Register(ctx, Request{ID: NotificationID, FireAt: time.Now().Add(time.Hour)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCronFacility_RegisterAfterClose(t *testing.T) {
	f := NewCronFacility(chanReceiver(make(chan Payload, 1)), time.UTC, logx.Nop())
	<-f.Close().Done()

	err := f.Register(context.Background(), Request{ID: NotificationID, FireAt: time.Now().Add(time.Hour)})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestCronFacility_ReceiverPanicRecovered(t *testing.T) {
	done := make(chan struct{})
	f := NewCronFacility(ReceiverFunc(func(context.Context, Payload) {
		defer close(done)
		panic("boom")
	}), time.UTC, logx.Nop())
	t.Cleanup(func() { <-f.Close().Done() })

	require.NoError(t, f.Register(context.Background(), Request{ID: NotificationID, FireAt: time.Now()}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("receiver was not called")
	}
}

func TestOnceSchedule(t *testing.T) {
	at := time.Date(2030, 12, 25, 8, 0, 0, 0, time.UTC)

	s := &onceSchedule{at: at}
	assert.Equal(t, at, s.Next(at.Add(time.Hour)), "first call always yields the instant")
	assert.True(t, s.Next(at).IsZero(), "no repeat once the instant is reached")

	s = &onceSchedule{at: at}
	assert.Equal(t, at, s.Next(at.Add(-time.Hour)))
	assert.Equal(t, at, s.Next(at.Add(-time.Minute)), "still ahead")
	assert.True(t, s.Next(at.Add(time.Second)).IsZero())
}

func TestWakePolicyString(t *testing.T) {
	assert.Equal(t, "rtc_wakeup", WakeRTC.String())
	assert.Equal(t, "rtc", RTC.String())
}
