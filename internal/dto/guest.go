package dto

import (
	"time"

	"github.com/hoteleria/reservation-engine/internal/domain"
)

// RegisterGuestRequest represents request to register a guest
type RegisterGuestRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
	Phone string `json:"phone" binding:"required"`
}

// UpdateGuestRequest represents request to update a guest's contact details
type UpdateGuestRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
	Phone string `json:"phone" binding:"required"`
}

// GuestResponse represents a guest in API responses
type GuestResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	RegisteredAt time.Time `json:"registered_at"`
}

// GuestFromDomain converts a domain Guest to GuestResponse
func GuestFromDomain(g *domain.Guest) *GuestResponse {
	return &GuestResponse{
		ID:           g.ID,
		Name:         g.Name,
		Email:        g.Email,
		Phone:        g.Phone,
		RegisteredAt: g.RegisteredAt,
	}
}

// GuestsFromDomain converts a slice of domain Guests
func GuestsFromDomain(guests []*domain.Guest) []*GuestResponse {
	out := make([]*GuestResponse, len(guests))
	for i, g := range guests {
		out[i] = GuestFromDomain(g)
	}
	return out
}
