package alarm

import (
	"fmt"
	"time"
)

// Delay is the time left until an alarm fires, in whole minutes and the
// remaining seconds.
type Delay struct {
	Minutes int64
	Seconds int64
}

// DelayUntil splits fireAt-now into minutes and seconds. Sub-second parts are
// truncated toward zero, so an instant in the past yields negative fields.
// The difference is taken in epoch milliseconds; time.Duration saturates
// after about 292 years.
func DelayUntil(fireAt, now time.Time) Delay {
	secs := (fireAt.UnixMilli() - now.UnixMilli()) / 1000
	return Delay{Minutes: secs / 60, Seconds: secs % 60}
}

// Duration converts d back to a time.Duration.
func (d Delay) Duration() time.Duration {
	return time.Duration(d.Minutes)*time.Minute + time.Duration(d.Seconds)*time.Second
}

func (d Delay) String() string {
	return fmt.Sprintf("%d minutes and %d seconds", d.Minutes, d.Seconds)
}

// StatusText is the line shown after a successful Schedule.
func StatusText(message string, d Delay) string {
	return fmt.Sprintf("Alarm (%s) starts in %s", message, d)
}
