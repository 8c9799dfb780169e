package alarm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"alarmdemo/internal/logx"

	"github.com/robfig/cron/v3"
)

// Facility holds deferred-delivery requests and hands their payload to a
// Receiver when they fire. A fired or withdrawn request is gone.
type Facility interface {
	// Register replaces any request with the same ID.
	Register(ctx context.Context, req Request) error

	// Withdraw removes the request with id. It returns false when none was pending.
	Withdraw(id ID) bool

	// Pending returns the outstanding request with id.
	Pending(id ID) (Request, bool)

	// Close stops the facility. The returned context is done once running
	// deliveries have finished.
	Close() context.Context
}

// ErrClosed is returned by Register after Close.
var ErrClosed = errors.New("alarm facility closed")

// CronFacility runs each request as a one-shot cron entry.
type CronFacility struct {
	cron     *cron.Cron
	receiver Receiver
	log      logx.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	entries map[ID]*entry
	closed  bool
}

type entry struct {
	id  cron.EntryID
	req Request
}

// NewCronFacility starts a facility that delivers fired payloads to r.
// A nil loc means time.Local.
func NewCronFacility(r Receiver, loc *time.Location, log logx.Logger) *CronFacility {
	if loc == nil {
		loc = time.Local
	}
	log = log.With(logx.String("component", "alarm.facility"))
	clog := cronLogger{log: log}

	ctx, cancel := context.WithCancel(context.Background())
	f := &CronFacility{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(clog),
			cron.WithChain(cron.Recover(clog)),
		),
		receiver: r,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
		entries:  map[ID]*entry{},
	}
	f.cron.Start()
	return f
}

// Register schedules req, replacing any request pending under the same ID.
// An instant in the past fires at once.
func (f *CronFacility) Register(ctx context.Context, req Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if req.FireAt.IsZero() {
		return fmt.Errorf("register alarm %d: fire time not set", req.ID)
	}

	// Held across cron.Schedule so a job that fires at once sees its entry.
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}

	if prev, ok := f.entries[req.ID]; ok {
		f.cron.Remove(prev.id)
		delete(f.entries, req.ID)
		f.log.Debug("replaced pending alarm", logx.Int("id", int(req.ID)))
	}
	if req.Wake == WakeRTC {
		f.log.Debug("wake-up requested; fires when the process is running", logx.Int("id", int(req.ID)))
	}

	e := &entry{req: req}
	e.id = f.cron.Schedule(&onceSchedule{at: req.FireAt}, cron.FuncJob(func() { f.fire(e) }))
	f.entries[req.ID] = e

	f.log.Info("alarm registered",
		logx.Int("id", int(req.ID)),
		logx.Time("fire_at", req.FireAt),
		logx.String("wake", req.Wake.String()),
	)
	return nil
}

func (f *CronFacility) fire(e *entry) {
	f.mu.Lock()
	if f.entries[e.req.ID] != e {
		f.mu.Unlock()
		return
	}
	delete(f.entries, e.req.ID)
	f.cron.Remove(e.id)
	f.mu.Unlock()

	f.log.Info("alarm fired", logx.Int("id", int(e.req.ID)))
	f.receiver.Receive(f.ctx, e.req.Payload)
}

// Withdraw removes the request pending under id and reports whether there
// was one.
func (f *CronFacility) Withdraw(id ID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.entries[id]
	if !ok {
		return false
	}
	f.cron.Remove(e.id)
	delete(f.entries, id)
	f.log.Info("alarm withdrawn", logx.Int("id", int(id)))
	return true
}

// Pending returns the request waiting under id.
func (f *CronFacility) Pending(id ID) (Request, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.entries[id]
	if !ok {
		return Request{}, false
	}
	return e.req, true
}

// Close drops every pending request and stops the timer. The returned
// context is done once a running delivery has returned.
func (f *CronFacility) Close() context.Context {
	f.mu.Lock()
	f.closed = true
	for id, e := range f.entries {
		f.cron.Remove(e.id)
		delete(f.entries, id)
	}
	f.mu.Unlock()

	done := f.cron.Stop()
	go func() {
		<-done.Done()
		f.cancel()
	}()
	return done
}

// onceSchedule yields its instant on the first call and afterwards only while
// that instant is still ahead. An instant already in the past fires exactly
// once, immediately.
type onceSchedule struct {
	mu     sync.Mutex
	at     time.Time
	called bool
}

func (s *onceSchedule) Next(t time.Time) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.called {
		s.called = true
		return s.at
	}
	if t.Before(s.at) {
		return s.at
	}
	return time.Time{}
}

// cronLogger routes cron's own logging into logx.
type cronLogger struct {
	log logx.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, kvFields(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: "+msg, append(kvFields(keysAndValues), logx.Err(err))...)
}

func kvFields(kv []interface{}) []logx.Field {
	fields := make([]logx.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			k = fmt.Sprint(kv[i])
		}
		fields = append(fields, logx.Any(k, kv[i+1]))
	}
	return fields
}
