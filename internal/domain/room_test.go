package domain

import (
	"errors"
	"testing"
)

func TestRoomClass_Occupancy(t *testing.T) {
	tests := []struct {
		class   RoomClass
		wantMin int
		wantMax int
	}{
		{RoomClassSimple, 1, 2},
		{RoomClassDouble, 2, 4},
		{RoomClassSuite, 2, 6},
	}

	for _, tt := range tests {
		t.Run(tt.class.String(), func(t *testing.T) {
			if got := tt.class.MinOccupancy(); got != tt.wantMin {
				t.Errorf("MinOccupancy() = %d, want %d", got, tt.wantMin)
			}
			if got := tt.class.MaxOccupancy(); got != tt.wantMax {
				t.Errorf("MaxOccupancy() = %d, want %d", got, tt.wantMax)
			}
		})
	}

	if RoomClass("penthouse").IsValid() {
		t.Error("IsValid() accepted unknown room class")
	}
}

func TestNewRoom(t *testing.T) {
	room := NewRoom(" 204 ", RoomClassDouble, Money(12000))

	if room.Number != "204" {
		t.Errorf("Number = %q, want %q", room.Number, "204")
	}
	if room.MaxOccupancy != 4 {
		t.Errorf("MaxOccupancy = %d, want 4", room.MaxOccupancy)
	}
	if !room.Available {
		t.Error("new room should be available")
	}
}

func TestRoom_Validate(t *testing.T) {
	tests := []struct {
		name    string
		room    *Room
		wantErr error
	}{
		{
			name: "valid room",
			room: NewRoom("101", RoomClassSimple, Money(10000)),
		},
		{
			name:    "blank number",
			room:    NewRoom("   ", RoomClassSimple, Money(10000)),
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown class",
			room:    &Room{Number: "101", Class: "loft", NightlyRate: Money(10000), MaxOccupancy: 2},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "rate below minimum",
			room:    NewRoom("101", RoomClassSimple, Money(4999)),
			wantErr: ErrInvalidInput,
		},
		{
			name:    "zero max occupancy",
			room:    &Room{Number: "101", Class: RoomClassSimple, NightlyRate: Money(10000), MaxOccupancy: 0},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.room.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRoom_CanAccommodate(t *testing.T) {
	room := NewRoom("101", RoomClassSimple, Money(10000)) // max 2

	tests := []struct {
		occupants int
		want      bool
	}{
		{0, false},
		{1, true},
		{2, true},
		{3, false},
	}

	for _, tt := range tests {
		if got := room.CanAccommodate(tt.occupants); got != tt.want {
			t.Errorf("CanAccommodate(%d) = %v, want %v", tt.occupants, got, tt.want)
		}
	}
}
