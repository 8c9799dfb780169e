package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"alarmdemo/internal/alarm"
	"alarmdemo/internal/config"
	"alarmdemo/internal/logx"
	"alarmdemo/internal/notify"
)

// shutdownTimeout bounds how long close waits for a running delivery.
const shutdownTimeout = 5 * time.Second

// wiring selects how a runtime talks to its surroundings.
type wiring struct {
	// headless logs to stderr as well as the log file.
	headless bool

	// out receives terminal notifications.
	out io.Writer

	// onOpen runs when the notification is activated.
	onOpen func()

	// onFired runs after a fired alarm has been handed to the presenter.
	// err is non-nil when nothing was shown.
	onFired func(p alarm.Payload, err error)
}

// runtime is a fully wired alarm stack.
type runtime struct {
	log       logx.Logger
	logCloser io.Closer
	presenter notify.Presenter
	facility  *alarm.CronFacility
	scheduler *alarm.Scheduler
}

func newRuntime(cfg *config.Config, w wiring) (*runtime, error) {
	log, logCloser, err := logx.New(logx.Config{
		Level:   cfg.Log.Level,
		Console: w.headless,
		File:    cfg.LogFile(),
	})
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		_ = logCloser.Close()
		return nil, err
	}

	n := cfg.Notifications
	presenter, err := notify.New(notify.Config{
		Backend: n.Backend,
		AppName: n.AppName,
		Telegram: notify.TelegramConfig{
			Token:  cfg.Telegram.Token,
			ChatID: cfg.Telegram.ChatID,
		},
		Out: w.out,
		Log: log,
	})
	if err != nil {
		_ = logCloser.Close()
		return nil, fmt.Errorf("notification backend: %w", err)
	}

	deliverer := alarm.NewDeliverer(presenter, alarm.DelivererConfig{
		Icon: n.Icon,
		Channel: notify.Channel{
			ID:          n.Channel.ID,
			Name:        n.Channel.Name,
			Description: n.Channel.Description,
			Importance:  notify.PriorityHigh,
			Lights:      n.Channel.Lights,
			LightColor:  n.Channel.LightColor,
			Vibration:   n.Channel.Vibration,
		},
		Sound:  n.Sound,
		OnOpen: w.onOpen,
		Log:    log,
	})

	receiver := alarm.ReceiverFunc(func(_ context.Context, p alarm.Payload) {
		err := deliverer.Deliver(p.Title, p.Body)
		if w.onFired != nil {
			w.onFired(p, err)
		}
	})

	facility := alarm.NewCronFacility(receiver, loc, log)
	scheduler := alarm.NewScheduler(facility, presenter, alarm.SchedulerConfig{
		Title:    n.Title,
		Location: loc,
		Log:      log,
	})

	log.Debug("runtime ready",
		logx.String("backend", n.Backend),
		logx.String("location", loc.String()),
	)

	return &runtime{
		log:       log,
		logCloser: logCloser,
		presenter: presenter,
		facility:  facility,
		scheduler: scheduler,
	}, nil
}

// close stops the facility, waiting briefly for a running delivery, and
// releases the log file.
func (r *runtime) close() {
	select {
	case <-r.facility.Close().Done():
	case <-time.After(shutdownTimeout):
		r.log.Warn("delivery still running at shutdown")
	}
	_ = r.logCloser.Close()
}
