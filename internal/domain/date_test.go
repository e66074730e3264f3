package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-01")
	if err != nil {
		t.Fatalf("ParseDate() unexpected error = %v", err)
	}
	if d.String() != "2024-06-01" {
		t.Errorf("String() = %q, want %q", d.String(), "2024-06-01")
	}

	if _, err := ParseDate("01/06/2024"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("ParseDate() error = %v, want ErrInvalidInput", err)
	}
}

func TestDate_DaysUntil(t *testing.T) {
	in := NewDate(2024, time.June, 1)
	out := NewDate(2024, time.June, 5)

	if got := in.DaysUntil(out); got != 4 {
		t.Errorf("DaysUntil() = %d, want 4", got)
	}
	if got := out.DaysUntil(in); got != -4 {
		t.Errorf("DaysUntil() reversed = %d, want -4", got)
	}
}

func TestDate_AddDays(t *testing.T) {
	d := NewDate(2024, time.February, 28)
	if got := d.AddDays(1).String(); got != "2024-02-29" {
		t.Errorf("AddDays(1) = %q, want leap day", got)
	}
	if got := d.AddDays(2).String(); got != "2024-03-01" {
		t.Errorf("AddDays(2) = %q, want 2024-03-01", got)
	}
}

func TestDateOf_DropsTimeOfDay(t *testing.T) {
	ts := time.Date(2024, time.June, 1, 23, 59, 59, 0, time.UTC)
	if got := DateOf(ts); !got.Equal(NewDate(2024, time.June, 1)) {
		t.Errorf("DateOf() = %s, want 2024-06-01", got)
	}
}

func TestDate_JSONRoundTrip(t *testing.T) {
	type payload struct {
		CheckIn Date `json:"check_in"`
	}

	raw := []byte(`{"check_in":"2024-06-01"}`)
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		t.Fatalf("Unmarshal() unexpected error = %v", err)
	}
	if !p.CheckIn.Equal(NewDate(2024, time.June, 1)) {
		t.Errorf("Unmarshal() = %s, want 2024-06-01", p.CheckIn)
	}

	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal() unexpected error = %v", err)
	}
	if string(out) != `{"check_in":"2024-06-01"}` {
		t.Errorf("Marshal() = %s", out)
	}
}
