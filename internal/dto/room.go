package dto

import (
	"github.com/hoteleria/reservation-engine/internal/domain"
)

// CreateRoomRequest represents request to add a room to the catalog
type CreateRoomRequest struct {
	Number string `json:"number" binding:"required"`
	Class  string `json:"class" binding:"required"`
	// NightlyRate is a decimal string, e.g. "75.00"
	NightlyRate string `json:"nightly_rate" binding:"required"`
	// MaxOccupancy defaults to the class ceiling when omitted
	MaxOccupancy int `json:"max_occupancy,omitempty"`
}

// UpdateRoomRequest represents request to update room attributes
type UpdateRoomRequest struct {
	NightlyRate  *string `json:"nightly_rate,omitempty"`
	MaxOccupancy *int    `json:"max_occupancy,omitempty"`
	Available    *bool   `json:"available,omitempty"`
}

// RoomResponse represents a room in API responses
type RoomResponse struct {
	ID           int64  `json:"id"`
	Number       string `json:"number"`
	Class        string `json:"class"`
	NightlyRate  string `json:"nightly_rate"`
	MaxOccupancy int    `json:"max_occupancy"`
	Available    bool   `json:"available"`
}

// RoomFromDomain converts a domain Room to RoomResponse
func RoomFromDomain(r *domain.Room) *RoomResponse {
	return &RoomResponse{
		ID:           r.ID,
		Number:       r.Number,
		Class:        r.Class.String(),
		NightlyRate:  r.NightlyRate.String(),
		MaxOccupancy: r.MaxOccupancy,
		Available:    r.Available,
	}
}

// RoomsFromDomain converts a slice of domain Rooms
func RoomsFromDomain(rooms []*domain.Room) []*RoomResponse {
	out := make([]*RoomResponse, len(rooms))
	for i, r := range rooms {
		out[i] = RoomFromDomain(r)
	}
	return out
}
