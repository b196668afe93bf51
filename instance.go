package despertador

import (
	"time"

	"github.com/google/uuid"
)

// AlarmState is the lifecycle state of an Instance.
type AlarmState int

const (
	Silent AlarmState = iota
	LowNotification
	HighNotification
	Fired
	Snoozed
	Missed
	Dismissed
	Predismissed
)

var stateNames = [...]string{
	Silent:           "SILENT",
	LowNotification:  "LOW_NOTIFICATION",
	HighNotification: "HIGH_NOTIFICATION",
	Fired:            "FIRED",
	Snoozed:          "SNOOZED",
	Missed:           "MISSED",
	Dismissed:        "DISMISSED",
	Predismissed:     "PREDISMISSED",
}

func (s AlarmState) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "UNKNOWN"
	}
	return stateNames[s]
}

// ParseAlarmState is the inverse of AlarmState.String.
func ParseAlarmState(s string) (AlarmState, error) {
	for i, name := range stateNames {
		if name == s {
			return AlarmState(i), nil
		}
	}
	return 0, Errorf(ErrInvalid, "unknown alarm state %q", s)
}

// Terminal reports whether no further transition leaves s.
func (s AlarmState) Terminal() bool {
	return s == Dismissed || s == Predismissed
}

// Active is the negation of Terminal.
func (s AlarmState) Active() bool {
	return !s.Terminal()
}

// preFire reports whether s is one of the states leading up to the first
// ring, whose alert time follows the definition's wall clock.
func (s AlarmState) preFire() bool {
	return s == Silent || s == LowNotification || s == HighNotification
}

func (s AlarmState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *AlarmState) UnmarshalText(b []byte) error {
	v, err := ParseAlarmState(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Instance is one concrete occurrence of a Definition. Settings are copied
// from the definition when the instance is created, so later edits of the
// definition don't affect it.
type Instance struct {
	ID           string `json:"id"`
	DefinitionID string `json:"definitionId"`

	// Wall clock of the occurrence in the local time zone.
	Year   int        `json:"year"`
	Month  time.Month `json:"month"`
	Day    int        `json:"day"`
	Hour   int        `json:"hour"`
	Minute int        `json:"minute"`

	State AlarmState `json:"state"`

	Label             string        `json:"label"`
	Ringtone          string        `json:"ringtone"`
	Snooze            time.Duration `json:"snooze"`
	Crescendo         time.Duration `json:"crescendo"`
	Volume            float64       `json:"volume"`
	Vibration         string        `json:"vibration"`
	MissedRepeatLimit int           `json:"missedRepeatLimit"`
	AutoSilence       time.Duration `json:"autoSilence"`

	AlertTime   time.Time `json:"alertTime"`
	SnoozeCount int       `json:"snoozeCount"`

	MissedAt            time.Time `json:"missedAt,omitempty"`
	MissedNotifications int       `json:"missedNotifications,omitempty"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// NewInstance creates the Silent instance of def ringing at at. This is the
// only place where overrides are resolved against defaults.
//
// The occurrence keeps the date of at and the time of day of def, so an
// occurrence inside a DST gap still records the wall clock that was asked
// for while AlertTime holds the normalised instant.
func NewInstance(def *Definition, at time.Time, defaults Defaults) *Instance {
	o := def.Overrides
	y, m, d := at.Date()
	inst := &Instance{
		ID:           uuid.NewString(),
		DefinitionID: def.ID,
		Year:         y,
		Month:        m,
		Day:          d,
		Hour:         def.Hour,
		Minute:       def.Minute,
		State:        Silent,
		Label:        def.Label,
		Ringtone:     def.Ringtone,

		Snooze:            orDefault(o.Snooze, defaults.Snooze),
		Crescendo:         orDefault(o.Crescendo, defaults.Crescendo),
		Volume:            orDefault(o.Volume, defaults.Volume),
		Vibration:         orDefault(o.Vibration, defaults.Vibration),
		MissedRepeatLimit: orDefault(o.MissedRepeatLimit, defaults.MissedRepeatLimit),
		AutoSilence:       orDefault(o.AutoSilence, defaults.AutoSilence),

		AlertTime: at,
	}
	if inst.Snooze <= 0 {
		inst.Snooze = DefaultDefaults().Snooze
	}
	return inst
}

func orDefault[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}

// ScheduledAt returns the occurrence's wall clock interpreted in loc.
func (inst *Instance) ScheduledAt(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(inst.Year, inst.Month, inst.Day, inst.Hour, inst.Minute, 0, 0, loc)
}

// Clone returns a copy of inst.
func (inst *Instance) Clone() *Instance {
	c := *inst
	return &c
}
