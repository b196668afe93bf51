package despertador

import (
	"time"
)

// Definition is a user-authored alarm template.
type Definition struct {
	ID      string   `json:"id"`
	Enabled bool     `json:"enabled"`
	Hour    int      `json:"hour"`
	Minute  int      `json:"minute"`
	Days    Weekdays `json:"days"`

	// Date of a one-shot alarm. Ignored when Days is not empty.
	Year  int        `json:"year,omitempty"`
	Month time.Month `json:"month,omitempty"`
	Day   int        `json:"day,omitempty"`

	Label           string    `json:"label"`
	Ringtone        string    `json:"ringtone"`
	DeleteAfterFire bool      `json:"deleteAfterFire"`
	Overrides       Overrides `json:"overrides"`
}

// Overrides holds per-alarm settings. A nil field falls back to the global
// default when an instance is created.
type Overrides struct {
	Snooze            *time.Duration `json:"snooze,omitempty"`
	Crescendo         *time.Duration `json:"crescendo,omitempty"`
	Volume            *float64       `json:"volume,omitempty"`
	Vibration         *string        `json:"vibration,omitempty"`
	MissedRepeatLimit *int           `json:"missedRepeatLimit,omitempty"`

	// AutoSilence of zero means the alarm rings until dismissed.
	AutoSilence *time.Duration `json:"autoSilence,omitempty"`
}

// Defaults are the global settings applied where a definition carries no
// override.
type Defaults struct {
	Snooze            time.Duration
	Crescendo         time.Duration
	Volume            float64
	Vibration         string
	MissedRepeatLimit int
	AutoSilence       time.Duration
}

// DefaultDefaults returns the settings used when nothing else is configured.
func DefaultDefaults() Defaults {
	return Defaults{
		Snooze:            10 * time.Minute,
		Crescendo:         0,
		Volume:            1,
		Vibration:         "default",
		MissedRepeatLimit: 3,
		AutoSilence:       10 * time.Minute,
	}
}

// OneShot reports whether the alarm rings a single time.
func (d *Definition) OneShot() bool {
	return d.Days.Empty()
}

func (d *Definition) Validate() error {
	switch {
	case d.Hour < 0 || d.Hour > 23:
		return Errorf(ErrInvalid, "hour %d out of range", d.Hour)
	case d.Minute < 0 || d.Minute > 59:
		return Errorf(ErrInvalid, "minute %d out of range", d.Minute)
	case d.OneShot() && (d.Year == 0 || d.Month < time.January || d.Month > time.December || d.Day < 1 || d.Day > 31):
		return Errorf(ErrInvalid, "one-shot alarm needs a date")
	case d.OneShot() && !dateExists(d.Year, d.Month, d.Day):
		return Errorf(ErrInvalid, "date %04d-%02d-%02d does not exist", d.Year, int(d.Month), d.Day)
	}
	return d.Overrides.validate()
}

// dateExists reports whether time.Date keeps y-m-d as is instead of
// rolling it over into the next month.
func dateExists(y int, m time.Month, d int) bool {
	cy, cm, cd := time.Date(y, m, d, 12, 0, 0, 0, time.UTC).Date()
	return cy == y && cm == m && cd == d
}

func (o *Overrides) validate() error {
	switch {
	case o.Snooze != nil && *o.Snooze <= 0:
		return Errorf(ErrInvalid, "snooze must be positive")
	case o.Crescendo != nil && *o.Crescendo < 0:
		return Errorf(ErrInvalid, "crescendo must be non-negative")
	case o.AutoSilence != nil && *o.AutoSilence < 0:
		return Errorf(ErrInvalid, "auto-silence must be non-negative")
	case o.Volume != nil && (*o.Volume < 0 || *o.Volume > 1):
		return Errorf(ErrInvalid, "volume must be within [0, 1]")
	case o.MissedRepeatLimit != nil && *o.MissedRepeatLimit < 0:
		return Errorf(ErrInvalid, "missed repeat limit must be non-negative")
	}
	return nil
}

// Matches reports whether inst is an occurrence d can produce: same
// time of day, and either a day in the repeat set or the one-shot date.
func (d *Definition) Matches(inst *Instance) bool {
	if inst.Hour != d.Hour || inst.Minute != d.Minute {
		return false
	}
	if d.OneShot() {
		return inst.Year == d.Year && inst.Month == d.Month && inst.Day == d.Day
	}
	wd := time.Date(inst.Year, inst.Month, inst.Day, 12, 0, 0, 0, time.UTC).Weekday()
	return d.Days.Contains(wd)
}

// maxScanDays bounds the repeating search: the repeat set has a period of
// at most a week, so eight days always cover a full cycle past after.
const maxScanDays = 8

// NextOccurrence returns the first instant strictly after after at which d
// should ring, evaluated in loc. Occurrences matching a Predismissed
// instance in skip are passed over. It reports false when d has no further
// occurrence.
func NextOccurrence(d *Definition, after time.Time, loc *time.Location, skip []*Instance) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	after = after.In(loc)

	if d.OneShot() {
		at := time.Date(d.Year, d.Month, d.Day, d.Hour, d.Minute, 0, 0, loc)
		if !at.After(after) || predismissed(skip, d.Year, d.Month, d.Day, d.Hour, d.Minute) {
			return time.Time{}, false
		}
		return at, true
	}

	y, m, day := after.Date()
	for i := 0; i < maxScanDays; i++ {
		// Noon never falls into a DST gap, so the weekday is stable.
		noon := time.Date(y, m, day+i, 12, 0, 0, 0, loc)
		if !d.Days.Contains(noon.Weekday()) {
			continue
		}
		cy, cm, cd := noon.Date()
		at := time.Date(cy, cm, cd, d.Hour, d.Minute, 0, 0, loc)
		if !at.After(after) {
			continue
		}
		if predismissed(skip, cy, cm, cd, d.Hour, d.Minute) {
			continue
		}
		return at, true
	}
	return time.Time{}, false
}

func predismissed(skip []*Instance, y int, m time.Month, d, hour, minute int) bool {
	for _, inst := range skip {
		if inst.State != Predismissed {
			continue
		}
		if inst.Year == y && inst.Month == m && inst.Day == d && inst.Hour == hour && inst.Minute == minute {
			return true
		}
	}
	return false
}

// NextDate returns the date on which hour:minute next happens after now,
// i.e. today if still ahead, tomorrow otherwise.
func NextDate(hour, minute int, now time.Time, loc *time.Location) (int, time.Month, int) {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)
	y, m, d := now.Date()
	at := time.Date(y, m, d, hour, minute, 0, 0, loc)
	if !at.After(now) {
		at = time.Date(y, m, d+1, hour, minute, 0, 0, loc)
	}
	return at.Date()
}
