package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout defines the canonical fixture date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

var clockLayouts = []string{"15:04", "15:04:05"}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// ParseKickoff combines a fixture date with an optional HH:MM[:SS] clock in UTC.
// A missing clock resolves to midnight.
func ParseKickoff(date, clock string) (time.Time, error) {
	day, err := ParseDate(strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, err
	}
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return day, nil
	}
	for _, layout := range clockLayouts {
		if tod, err := time.Parse(layout, clock); err == nil {
			return day.Add(time.Duration(tod.Hour())*time.Hour +
				time.Duration(tod.Minute())*time.Minute +
				time.Duration(tod.Second())*time.Second), nil
		}
	}
	return time.Time{}, fmt.Errorf("timeutil: invalid clock %q", clock)
}
