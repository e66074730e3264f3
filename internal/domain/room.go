package domain

import "strings"

// RoomClass categorizes a room and carries its occupancy bounds.
type RoomClass string

const (
	RoomClassSimple RoomClass = "simple"
	RoomClassDouble RoomClass = "double"
	RoomClassSuite  RoomClass = "suite"
)

// MinNightlyRate is the lowest rate a room may be created or updated with.
const MinNightlyRate = Money(5000) // 50.00

// MaxOccupants is the global hard cap on occupants per reservation,
// independent of any single room's capacity.
const MaxOccupants = 10

// IsValid checks if the class is a known RoomClass.
func (c RoomClass) IsValid() bool {
	switch c {
	case RoomClassSimple, RoomClassDouble, RoomClassSuite:
		return true
	}
	return false
}

// String returns the string representation of RoomClass.
func (c RoomClass) String() string {
	return string(c)
}

// MinOccupancy returns the minimum occupancy for the class.
func (c RoomClass) MinOccupancy() int {
	switch c {
	case RoomClassSimple:
		return 1
	case RoomClassDouble, RoomClassSuite:
		return 2
	}
	return 0
}

// MaxOccupancy returns the default maximum occupancy for the class.
func (c RoomClass) MaxOccupancy() int {
	switch c {
	case RoomClassSimple:
		return 2
	case RoomClassDouble:
		return 4
	case RoomClassSuite:
		return 6
	}
	return 0
}

// Room represents a bookable room in the catalog.
type Room struct {
	ID           int64     `json:"id"`
	Number       string    `json:"number"`
	Class        RoomClass `json:"class"`
	NightlyRate  Money     `json:"nightly_rate"`
	MaxOccupancy int       `json:"max_occupancy"`
	Available    bool      `json:"available"`
}

// NewRoom builds a room with the class's default maximum occupancy and the
// administrative availability flag switched on.
func NewRoom(number string, class RoomClass, nightlyRate Money) *Room {
	return &Room{
		Number:       strings.TrimSpace(number),
		Class:        class,
		NightlyRate:  nightlyRate,
		MaxOccupancy: class.MaxOccupancy(),
		Available:    true,
	}
}

// Validate validates all room fields.
func (r *Room) Validate() error {
	if strings.TrimSpace(r.Number) == "" {
		return ErrInvalidInput
	}
	if !r.Class.IsValid() {
		return ErrInvalidInput
	}
	if r.NightlyRate < MinNightlyRate {
		return ErrInvalidInput
	}
	if r.MaxOccupancy <= 0 {
		return ErrInvalidInput
	}
	return nil
}

// CanAccommodate checks if the room can host the given number of occupants.
func (r *Room) CanAccommodate(occupants int) bool {
	return occupants > 0 && occupants <= r.MaxOccupancy
}
