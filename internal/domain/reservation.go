package domain

import "time"

// ReservationStatus represents the lifecycle state of a reservation.
type ReservationStatus string

const (
	ReservationStatusActive    ReservationStatus = "active"
	ReservationStatusCancelled ReservationStatus = "cancelled"
	ReservationStatusCompleted ReservationStatus = "completed"
)

// IsValid checks if the status is a valid ReservationStatus.
func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationStatusActive, ReservationStatusCancelled, ReservationStatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of ReservationStatus.
func (s ReservationStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions are allowed.
func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationStatusCancelled || s == ReservationStatusCompleted
}

// Reservation holds a room for a guest over a half-open date range
// [CheckIn, CheckOut). It references guest and room by id only.
type Reservation struct {
	ID          int64             `json:"id"`
	GuestID     int64             `json:"guest_id"`
	RoomID      int64             `json:"room_id"`
	CheckIn     Date              `json:"check_in"`
	CheckOut    Date              `json:"check_out"`
	Occupants   int               `json:"occupants"`
	TotalAmount Money             `json:"total_amount"`
	Status      ReservationStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}

// NewReservation builds an active reservation. The id is assigned by the
// repository on insert; the total amount is set by the pricing calculator.
func NewReservation(guestID, roomID int64, checkIn, checkOut Date, occupants int) *Reservation {
	return &Reservation{
		GuestID:   guestID,
		RoomID:    roomID,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Occupants: occupants,
		Status:    ReservationStatusActive,
		CreatedAt: time.Now(),
	}
}

// Nights returns the stay length in whole nights.
func (r *Reservation) Nights() int {
	return r.CheckIn.DaysUntil(r.CheckOut)
}

// Overlaps reports whether the reservation's half-open interval intersects
// [checkIn, checkOut). A check-out on day X does not conflict with a check-in
// on day X: same-day turnover is allowed.
func (r *Reservation) Overlaps(checkIn, checkOut Date) bool {
	return r.CheckIn.Before(checkOut) && checkIn.Before(r.CheckOut)
}

// IsActive reports whether the reservation is in the active state.
func (r *Reservation) IsActive() bool {
	return r.Status == ReservationStatusActive
}

// Validate validates the reservation fields against a reference date for the
// check-in-not-in-the-past rule.
func (r *Reservation) Validate(today Date) error {
	if r.GuestID <= 0 || r.RoomID <= 0 {
		return ErrInvalidInput
	}
	if err := r.ValidateDates(today); err != nil {
		return err
	}
	return r.ValidateOccupants()
}

// ValidateDates checks that both dates are set, check-in precedes check-out
// and check-in is not in the past.
func (r *Reservation) ValidateDates(today Date) error {
	if r.CheckIn.IsZero() || r.CheckOut.IsZero() {
		return ErrInvalidInput
	}
	if !r.CheckIn.Before(r.CheckOut) {
		return ErrInvalidInput
	}
	if r.CheckIn.Before(today) {
		return ErrInvalidInput
	}
	return nil
}

// ValidateOccupants checks the occupant count against the global cap.
func (r *Reservation) ValidateOccupants() error {
	if r.Occupants < 1 || r.Occupants > MaxOccupants {
		return ErrInvalidInput
	}
	return nil
}

// CanCancel reports whether the reservation may be cancelled: it must be
// active and its check-in must be strictly in the future. Cancelling a stay
// already in progress or past is rejected.
func (r *Reservation) CanCancel(today Date) bool {
	return r.Status == ReservationStatusActive && r.CheckIn.After(today)
}

// Cancel transitions the reservation to cancelled.
func (r *Reservation) Cancel(today Date) error {
	if !r.CanCancel(today) {
		return ErrInvalidState
	}
	r.Status = ReservationStatusCancelled
	return nil
}

// Complete transitions the reservation to completed. Only active stays whose
// check-out date has been reached can complete.
func (r *Reservation) Complete(today Date) error {
	if r.Status != ReservationStatusActive {
		return ErrInvalidState
	}
	if r.CheckOut.After(today) {
		return ErrInvalidState
	}
	r.Status = ReservationStatusCompleted
	return nil
}
