package despertador_test

import (
	"testing"
	"time"

	"bsid.es/despertador"
)

func TestParseWeekdays(t *testing.T) {
	tests := []struct {
		in   string
		want despertador.Weekdays
	}{
		{"", 0},
		{"mon", despertador.NewWeekdays(time.Monday)},
		{"Mon, Wednesday,FRI", despertador.NewWeekdays(time.Monday, time.Wednesday, time.Friday)},
		{"daily", despertador.Everyday},
		{"weekdays", despertador.NewWeekdays(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)},
		{"weekend,sat", despertador.NewWeekdays(time.Saturday, time.Sunday)},
	}
	for _, tt := range tests {
		got, err := despertador.ParseWeekdays(tt.in)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%q: wrong days\ngot:  %s\nwant: %s", tt.in, got, tt.want)
		}
	}

	_, err := despertador.ParseWeekdays("mon,funday")
	if got, want := despertador.ErrorCode(err), despertador.ErrInvalid; got != want {
		t.Errorf("wrong error code\ngot:  %s\nwant: %s", got, want)
	}
}

func TestWeekdaysString(t *testing.T) {
	w := despertador.NewWeekdays(time.Sunday, time.Friday, time.Monday)
	if got, want := w.String(), "Mon,Fri,Sun"; got != want {
		t.Errorf("wrong string\ngot:  %s\nwant: %s", got, want)
	}
	if got, want := w.Len(), 3; got != want {
		t.Errorf("wrong length\ngot:  %d\nwant: %d", got, want)
	}
	if despertador.Weekdays(0).String() != "" {
		t.Error("empty set should print as empty string")
	}
	if w.Contains(time.Weekday(9)) {
		t.Error("out of range weekday reported as contained")
	}
}
