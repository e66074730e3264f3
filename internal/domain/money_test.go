package domain

import (
	"errors"
	"testing"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in      string
		want    Money
		wantErr error
	}{
		{"100.00", Money(10000), nil},
		{"50", Money(5000), nil},
		{"75.5", Money(7550), nil},
		{"0.05", Money(5), nil},
		{"-10.25", Money(-1025), nil},
		{"", 0, ErrInvalidInput},
		{"abc", 0, ErrInvalidInput},
		{"10.005", 0, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMoney(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseMoney(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
				return
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseMoney(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestMoney_String(t *testing.T) {
	tests := []struct {
		in   Money
		want string
	}{
		{Money(10000), "100.00"},
		{Money(7550), "75.50"},
		{Money(5), "0.05"},
		{Money(-1025), "-10.25"},
		{Money(0), "0.00"},
	}

	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("Money(%d).String() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMoney_MulNights(t *testing.T) {
	if got := Money(10000).MulNights(3); got != Money(30000) {
		t.Errorf("MulNights() = %d, want 30000", got)
	}
}
