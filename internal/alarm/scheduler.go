package alarm

import (
	"context"
	"fmt"
	"time"

	"alarmdemo/internal/logx"
)

// State is the front-end's view of the single alarm.
type State int

const (
	Idle State = iota
	Armed
)

func (s State) String() string {
	if s == Armed {
		return "Armed"
	}
	return "Idle"
}

// Clearer removes every notification shown by the application.
// notify.Presenter satisfies it.
type Clearer interface {
	ClearAll() error
}

// Scheduled describes a registered alarm.
type Scheduled struct {
	Request Request
	Delay   Delay
}

// Status is the user-facing confirmation text.
func (s Scheduled) Status() string {
	return StatusText(s.Request.Payload.Body, s.Delay)
}

// SchedulerConfig configures a Scheduler.
type SchedulerConfig struct {
	// Title is put on every notification.
	Title string

	// Location interprets the entered date and time. Nil means time.Local.
	Location *time.Location

	Log logx.Logger

	// Now overrides the clock used for the delay. Nil means time.Now.
	Now func() time.Time
}

// Scheduler registers and cancels the one alarm.
type Scheduler struct {
	facility Facility
	clearer  Clearer
	title    string
	loc      *time.Location
	log      logx.Logger
	now      func() time.Time
}

// NewScheduler returns a Scheduler that registers requests with f and clears
// notifications through c on Cancel.
func NewScheduler(f Facility, c Clearer, cfg SchedulerConfig) *Scheduler {
	s := &Scheduler{
		facility: f,
		clearer:  c,
		title:    cfg.Title,
		loc:      cfg.Location,
		log:      cfg.Log.With(logx.String("component", "alarm.scheduler")),
		now:      cfg.Now,
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Schedule parses dateText and timeText, registers a wake-up request carrying
// message, and replaces any request already pending. Invalid input returns a
// *ValidationError and registers nothing.
func (s *Scheduler) Schedule(ctx context.Context, dateText, timeText, message string) (Scheduled, error) {
	fireAt, err := ParseFireAt(dateText, timeText, s.loc)
	if err != nil {
		s.log.Warn("rejected alarm input", logx.Err(err))
		return Scheduled{}, err
	}

	req := Request{
		ID:     NotificationID,
		FireAt: fireAt,
		Wake:   WakeRTC,
		Payload: Payload{
			Title: s.title,
			Body:  message,
		},
	}
	if err := s.facility.Register(ctx, req); err != nil {
		return Scheduled{}, fmt.Errorf("schedule alarm: %w", err)
	}

	out := Scheduled{Request: req, Delay: DelayUntil(fireAt, s.now())}
	s.log.Info(out.Status(), logx.Time("fire_at", fireAt))
	return out, nil
}

// Cancel withdraws the pending alarm, if any, and clears every visible
// notification. Cancelling with nothing pending is not an error.
func (s *Scheduler) Cancel(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	withdrawn := s.facility.Withdraw(NotificationID)

	if s.clearer != nil {
		if err := s.clearer.ClearAll(); err != nil {
			s.log.Error("clear notifications failed", logx.Err(err))
			return fmt.Errorf("cancel alarm: %w", err)
		}
	}
	s.log.Info("Alarm cancelled", logx.Bool("withdrawn", withdrawn))
	return nil
}

// State reports Armed while a request is pending.
func (s *Scheduler) State() State {
	if _, ok := s.facility.Pending(NotificationID); ok {
		return Armed
	}
	return Idle
}

// Pending returns the outstanding request.
func (s *Scheduler) Pending() (Request, bool) {
	return s.facility.Pending(NotificationID)
}
