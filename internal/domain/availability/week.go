package availability

import (
	"fmt"
	"strings"
	"time"

	"github.com/ehr/staffconsole/internal/platform/validation"
)

// Weekday is a day of the recurring week. Monday is the first bucket of the
// weekly view, unlike time.Weekday which starts on Sunday.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// Week lists every day in display order.
var Week = [7]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayNames = map[Weekday]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

func (d Weekday) String() string {
	if name, ok := weekdayNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Weekday(%d)", int(d))
}

// Valid reports whether d is one of Monday..Sunday.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

// ParseWeekday accepts a full English day name, case-insensitively.
func ParseWeekday(s string) (Weekday, error) {
	name := strings.TrimSpace(s)
	for _, d := range Week {
		if strings.EqualFold(name, d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid day of week %q", s)
}

func (d Weekday) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid day of week %d", int(d))
	}
	return []byte(d.String()), nil
}

func (d *Weekday) UnmarshalText(b []byte) error {
	parsed, err := ParseWeekday(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Clock is a wall-clock time of day at minute resolution, stored as minutes
// since midnight. It has no date or timezone component.
type Clock int

// ParseClock reads an "HH:MM" time.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse(validation.ClockLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	return Clock(t.Hour()*60 + t.Minute()), nil
}

// MustClock is ParseClock for literals known to be valid.
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(b []byte) error {
	parsed, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
