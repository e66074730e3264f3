package dto

import (
	"time"

	"github.com/hoteleria/reservation-engine/internal/domain"
)

// CreateReservationRequest represents request to book a room
type CreateReservationRequest struct {
	GuestID int64 `json:"guest_id" binding:"required"`
	RoomID  int64 `json:"room_id" binding:"required"`
	// CheckIn and CheckOut are dates in "2006-01-02" form; the stay covers
	// the half-open range [check_in, check_out)
	CheckIn   string `json:"check_in" binding:"required"`
	CheckOut  string `json:"check_out" binding:"required"`
	Occupants int    `json:"occupants" binding:"required,min=1"`
}

// UpdateReservationRequest represents request to modify an active stay.
// Omitted fields keep their current value.
type UpdateReservationRequest struct {
	CheckIn   *string `json:"check_in,omitempty"`
	CheckOut  *string `json:"check_out,omitempty"`
	Occupants *int    `json:"occupants,omitempty"`
}

// FindAvailableRoomsRequest represents availability search query params
type FindAvailableRoomsRequest struct {
	CheckIn   string `form:"check_in" binding:"required"`
	CheckOut  string `form:"check_out" binding:"required"`
	Occupants int    `form:"occupants" binding:"required,min=1"`
}

// ReservationResponse represents a reservation in API responses
type ReservationResponse struct {
	ID          int64     `json:"id"`
	GuestID     int64     `json:"guest_id"`
	RoomID      int64     `json:"room_id"`
	CheckIn     string    `json:"check_in"`
	CheckOut    string    `json:"check_out"`
	Nights      int       `json:"nights"`
	Occupants   int       `json:"occupants"`
	TotalAmount string    `json:"total_amount"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReservationFromDomain converts a domain Reservation to ReservationResponse
func ReservationFromDomain(r *domain.Reservation) *ReservationResponse {
	return &ReservationResponse{
		ID:          r.ID,
		GuestID:     r.GuestID,
		RoomID:      r.RoomID,
		CheckIn:     r.CheckIn.String(),
		CheckOut:    r.CheckOut.String(),
		Nights:      r.Nights(),
		Occupants:   r.Occupants,
		TotalAmount: r.TotalAmount.String(),
		Status:      r.Status.String(),
		CreatedAt:   r.CreatedAt,
	}
}

// ReservationsFromDomain converts a slice of domain Reservations
func ReservationsFromDomain(reservations []*domain.Reservation) []*ReservationResponse {
	out := make([]*ReservationResponse, len(reservations))
	for i, r := range reservations {
		out[i] = ReservationFromDomain(r)
	}
	return out
}
