package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"alarmdemo/internal/alarm"
	"alarmdemo/internal/logx"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/spf13/cobra"
)

type setArgs struct {
	date    string
	time    string
	message string
}

func newSetCmd(opts *options) *cobra.Command {
	var args setArgs

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Schedule an alarm and wait until it is delivered",
		Long: `Schedule an alarm and keep running until the notification has been
delivered. Interrupting the command cancels the alarm and clears the
notification. Under a systemd Type=notify unit, readiness is reported once
the alarm is armed.`,
		Example: `  alarmdemo set --date 25.12.2030 --time 08:00 --message "Wake up"
  alarmdemo set --time 17:30 --message "Stand-up" --backend terminal`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runSet(ctx, cmd.OutOrStdout(), opts, args)
		},
	}

	cmd.Flags().StringVar(&args.date, "date", "", "date as TT.MM.JJJJ (default today)")
	cmd.Flags().StringVar(&args.time, "time", "", "time as hh:mm, 24-hour clock")
	cmd.Flags().StringVarP(&args.message, "message", "m", "", "notification text")
	_ = cmd.MarkFlagRequired("time")

	return cmd
}

func runSet(ctx context.Context, out io.Writer, opts *options, args setArgs) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	// The presenter writes from the facility's goroutine.
	out = &lockedWriter{w: out}

	delivered := make(chan error, 1)
	rt, err := newRuntime(cfg, wiring{
		headless: true,
		out:      out,
		onFired: func(_ alarm.Payload, err error) {
			select {
			case delivered <- err:
			default:
			}
		},
	})
	if err != nil {
		return err
	}
	defer rt.close()

	dateText := args.date
	if dateText == "" {
		loc, _ := cfg.Location()
		dateText = time.Now().In(loc).Format("02.01.2006")
	}

	scheduled, err := rt.scheduler.Schedule(ctx, dateText, args.time, args.message)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, scheduled.Status())
	sdNotify(rt.log, daemon.SdNotifyReady)

	select {
	case err := <-delivered:
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "Alarm delivered")
		return nil
	case <-ctx.Done():
		sdNotify(rt.log, daemon.SdNotifyStopping)
		if err := rt.scheduler.Cancel(context.Background()); err != nil {
			return err
		}
		fmt.Fprintln(out, "Alarm cancelled")
		return nil
	}
}

// sdNotify reports state to systemd when running under a notify unit.
func sdNotify(log logx.Logger, state string) {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		log.Warn("sd_notify failed", logx.String("state", state), logx.Err(err))
		return
	}
	if sent {
		log.Debug("sd_notify sent", logx.String("state", state))
	}
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
