package despertador_test

import (
	"testing"
	"time"
	_ "time/tzdata"

	"bsid.es/despertador"
)

func TestDefinitionValidate(t *testing.T) {
	negative := -time.Minute
	loud := 1.5
	tests := []struct {
		name string
		def  despertador.Definition
	}{{
		name: "hour out of range",
		def:  despertador.Definition{Hour: 24, Days: despertador.Everyday},
	}, {
		name: "minute out of range",
		def:  despertador.Definition{Hour: 7, Minute: 60, Days: despertador.Everyday},
	}, {
		name: "one-shot without date",
		def:  despertador.Definition{Hour: 7},
	}, {
		name: "date that does not exist",
		def:  despertador.Definition{Hour: 7, Year: 2025, Month: time.February, Day: 30},
	}, {
		name: "leap day outside a leap year",
		def:  despertador.Definition{Hour: 7, Year: 2025, Month: time.February, Day: 29},
	}, {
		name: "negative snooze",
		def: despertador.Definition{
			Days:      despertador.Everyday,
			Overrides: despertador.Overrides{Snooze: &negative},
		},
	}, {
		name: "volume above one",
		def: despertador.Definition{
			Days:      despertador.Everyday,
			Overrides: despertador.Overrides{Volume: &loud},
		},
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.def.Validate(); err == nil {
				t.Error("expected error")
			} else if got, want := despertador.ErrorCode(err), despertador.ErrInvalid; got != want {
				t.Errorf("wrong error code\ngot:  %s\nwant: %s", got, want)
			}
		})
	}

	leap := despertador.Definition{Hour: 7, Year: 2024, Month: time.February, Day: 29}
	if err := leap.Validate(); err != nil {
		t.Errorf("leap day rejected: %v", err)
	}
}

func mustLoadLocation(tb testing.TB, name string) *time.Location {
	tb.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		tb.Fatal(err)
	}
	return loc
}

func TestNextOccurrence(t *testing.T) {
	madrid := mustLoadLocation(t, "Europe/Madrid")
	mwf := despertador.NewWeekdays(time.Monday, time.Wednesday, time.Friday)

	// 2024-03-05 is a Tuesday.
	tue := func(hour, minute int) time.Time {
		return time.Date(2024, 3, 5, hour, minute, 0, 0, madrid)
	}
	predismissed := func(y int, m time.Month, d, hour, minute int) *despertador.Instance {
		return &despertador.Instance{
			Year: y, Month: m, Day: d, Hour: hour, Minute: minute,
			State: despertador.Predismissed,
		}
	}

	tests := []struct {
		name  string
		def   despertador.Definition
		after time.Time
		skip  []*despertador.Instance
		want  time.Time
	}{{
		name:  "next repeat day",
		def:   despertador.Definition{Hour: 7, Days: mwf},
		after: tue(8, 0),
		want:  time.Date(2024, 3, 6, 7, 0, 0, 0, madrid),
	}, {
		name:  "later today",
		def:   despertador.Definition{Hour: 9, Minute: 15, Days: despertador.Everyday},
		after: tue(8, 0),
		want:  tue(9, 15),
	}, {
		name:  "exactly now is not an occurrence",
		def:   despertador.Definition{Hour: 8, Days: despertador.Everyday},
		after: tue(8, 0),
		want:  time.Date(2024, 3, 6, 8, 0, 0, 0, madrid),
	}, {
		name:  "same weekday next week",
		def:   despertador.Definition{Hour: 7, Days: despertador.NewWeekdays(time.Tuesday)},
		after: tue(8, 0),
		want:  time.Date(2024, 3, 12, 7, 0, 0, 0, madrid),
	}, {
		name:  "skip predismissed occurrence",
		def:   despertador.Definition{Hour: 7, Days: mwf},
		after: tue(8, 0),
		skip: []*despertador.Instance{
			predismissed(2024, time.March, 6, 7, 0),
		},
		want: time.Date(2024, 3, 8, 7, 0, 0, 0, madrid),
	}, {
		name:  "predismissed at another time does not skip",
		def:   despertador.Definition{Hour: 7, Days: mwf},
		after: tue(8, 0),
		skip: []*despertador.Instance{
			predismissed(2024, time.March, 6, 6, 30),
		},
		want: time.Date(2024, 3, 6, 7, 0, 0, 0, madrid),
	}, {
		name:  "one-shot in the future",
		def:   despertador.Definition{Hour: 10, Year: 2024, Month: time.March, Day: 20},
		after: tue(8, 0),
		want:  time.Date(2024, 3, 20, 10, 0, 0, 0, madrid),
	}, {
		name:  "one-shot in the past",
		def:   despertador.Definition{Hour: 10, Year: 2024, Month: time.March, Day: 1},
		after: tue(8, 0),
	}, {
		name:  "one-shot predismissed",
		def:   despertador.Definition{Hour: 10, Year: 2024, Month: time.March, Day: 20},
		after: tue(8, 0),
		skip: []*despertador.Instance{
			predismissed(2024, time.March, 20, 10, 0),
		},
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := despertador.NextOccurrence(&tt.def, tt.after, madrid, tt.skip)
			if want := !tt.want.IsZero(); ok != want {
				t.Fatalf("wrong ok\ngot:  %v\nwant: %v", ok, want)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("wrong occurrence\ngot:  %v\nwant: %v", got, tt.want)
			}
		})
	}
}

func TestNextOccurrenceDST(t *testing.T) {
	madrid := mustLoadLocation(t, "Europe/Madrid")
	def := despertador.Definition{Hour: 2, Minute: 30, Days: despertador.Everyday}

	// Clocks jump from 02:00 to 03:00 on 2024-03-31.
	after := time.Date(2024, 3, 30, 12, 0, 0, 0, madrid)
	got, ok := despertador.NextOccurrence(&def, after, madrid, nil)
	if !ok {
		t.Fatal("expected an occurrence")
	}
	if y, m, d := got.Date(); y != 2024 || m != time.March || d != 31 {
		t.Errorf("wrong day\ngot:  %v", got)
	}
	if !got.After(after) {
		t.Errorf("occurrence %v not after %v", got, after)
	}

	// The UTC instant differs across the change but the wall clock doesn't.
	before := time.Date(2024, 3, 29, 12, 0, 0, 0, madrid)
	prev, _ := despertador.NextOccurrence(&def, before, madrid, nil)
	if prev.Hour() != 2 || prev.Minute() != 30 {
		t.Errorf("wrong wall clock\ngot:  %v", prev)
	}
}

func TestDefinitionMatches(t *testing.T) {
	def := despertador.Definition{Hour: 7, Days: despertador.NewWeekdays(time.Monday)}
	mon := &despertador.Instance{Year: 2024, Month: time.March, Day: 4, Hour: 7}
	tue := &despertador.Instance{Year: 2024, Month: time.March, Day: 5, Hour: 7}
	if !def.Matches(mon) {
		t.Error("expected monday instance to match")
	}
	if def.Matches(tue) {
		t.Error("expected tuesday instance not to match")
	}
	def.Minute = 5
	if def.Matches(mon) {
		t.Error("expected instance at another minute not to match")
	}
}

func TestNewInstanceOverrides(t *testing.T) {
	snooze := 3 * time.Minute
	vibration := "none"
	def := &despertador.Definition{
		ID:    "def",
		Hour:  7,
		Days:  despertador.Everyday,
		Label: "gym",
		Overrides: despertador.Overrides{
			Snooze:    &snooze,
			Vibration: &vibration,
		},
	}
	at := time.Date(2024, 3, 5, 7, 0, 0, 0, time.UTC)
	inst := despertador.NewInstance(def, at, despertador.DefaultDefaults())

	switch {
	case inst.State != despertador.Silent:
		t.Errorf("wrong state\ngot:  %v\nwant: %v", inst.State, despertador.Silent)
	case inst.Snooze != snooze:
		t.Errorf("wrong snooze\ngot:  %v\nwant: %v", inst.Snooze, snooze)
	case inst.Vibration != vibration:
		t.Errorf("wrong vibration\ngot:  %v\nwant: %v", inst.Vibration, vibration)
	case inst.AutoSilence != despertador.DefaultDefaults().AutoSilence:
		t.Errorf("wrong auto-silence\ngot:  %v", inst.AutoSilence)
	case inst.DefinitionID != "def" || inst.Label != "gym":
		t.Errorf("wrong snapshot\ngot:  %+v", inst)
	case !inst.AlertTime.Equal(at) || inst.Day != 5 || inst.Hour != 7:
		t.Errorf("wrong occurrence\ngot:  %+v", inst)
	}
}
