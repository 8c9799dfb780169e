package alarm

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateTimeLayout is the input format: day.month.year and a 24-hour clock.
// Day, month and hour take one or two digits; minutes take two.
const DateTimeLayout = "2.1.2006 15:04"

// ErrInvalidDateTime reports date/time text that does not match DateTimeLayout.
var ErrInvalidDateTime = errors.New("invalid date/time")

// ValidationError describes rejected user input.
type ValidationError struct {
	Input string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v %q, expected TT.MM.JJJJ hh:mm", ErrInvalidDateTime, e.Input)
}

func (e *ValidationError) Unwrap() []error {
	return []error{ErrInvalidDateTime, e.Err}
}

// ParseFireAt joins date and time with a single space and parses the result
// with DateTimeLayout in loc. A nil loc means time.Local. Surrounding
// whitespace of each field is ignored; nothing else is normalized.
func ParseFireAt(dateText, timeText string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	combined := strings.TrimSpace(dateText) + " " + strings.TrimSpace(timeText)

	t, err := time.ParseInLocation(DateTimeLayout, combined, loc)
	if err != nil {
		return time.Time{}, &ValidationError{Input: combined, Err: err}
	}
	return t, nil
}
