package despertador

import (
	"strings"
	"time"
)

// Weekdays is a set of days of the week. Bit i is set when time.Weekday(i)
// belongs to the set. The zero value is the empty set, which marks a
// one-shot alarm.
type Weekdays uint8

const allWeekdays Weekdays = 1<<7 - 1

// Everyday is the set of all seven days.
const Everyday = allWeekdays

// NewWeekdays returns the set holding days.
func NewWeekdays(days ...time.Weekday) Weekdays {
	var w Weekdays
	for _, d := range days {
		w = w.With(d)
	}
	return w
}

// Contains reports whether d is in the set.
func (w Weekdays) Contains(d time.Weekday) bool {
	if d < time.Sunday || d > time.Saturday {
		return false
	}
	return w&(1<<uint(d)) != 0
}

// With returns a copy of the set with d added.
func (w Weekdays) With(d time.Weekday) Weekdays {
	if d < time.Sunday || d > time.Saturday {
		return w
	}
	return w | 1<<uint(d)
}

// Len returns the number of days in the set.
func (w Weekdays) Len() int {
	n := 0
	for d := time.Sunday; d <= time.Saturday; d++ {
		if w.Contains(d) {
			n++
		}
	}
	return n
}

// Empty reports whether the set holds no day.
func (w Weekdays) Empty() bool {
	return w&allWeekdays == 0
}

// String lists the days starting on Monday, e.g. "Mon,Wed,Fri".
func (w Weekdays) String() string {
	if w.Empty() {
		return ""
	}
	var names []string
	for i := 1; i <= 7; i++ {
		d := time.Weekday(i % 7)
		if w.Contains(d) {
			names = append(names, d.String()[:3])
		}
	}
	return strings.Join(names, ",")
}

// ParseWeekdays parses a comma-separated list of day names. Both three
// letter abbreviations and full names are accepted, case-insensitively, as
// well as the keywords "daily" and "weekdays".
func ParseWeekdays(s string) (Weekdays, error) {
	var w Weekdays
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		switch part {
		case "":
			continue
		case "daily", "everyday":
			w |= Everyday
			continue
		case "weekdays":
			w |= NewWeekdays(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)
			continue
		case "weekend":
			w |= NewWeekdays(time.Saturday, time.Sunday)
			continue
		}
		found := false
		for d := time.Sunday; d <= time.Saturday; d++ {
			name := strings.ToLower(d.String())
			if part == name || part == name[:3] {
				w = w.With(d)
				found = true
				break
			}
		}
		if !found {
			return 0, Errorf(ErrInvalid, "unknown weekday %q", part)
		}
	}
	return w, nil
}
