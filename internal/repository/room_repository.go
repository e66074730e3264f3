package repository

import (
	"context"

	"github.com/hoteleria/reservation-engine/internal/domain"
)

// RoomRepository defines the persistence interface for the room catalog.
type RoomRepository interface {
	// Create inserts a room and returns it with its assigned id.
	Create(ctx context.Context, room *domain.Room) (*domain.Room, error)

	// GetByID retrieves a room by id.
	GetByID(ctx context.Context, id int64) (*domain.Room, error)

	// List retrieves all rooms ordered by room number.
	List(ctx context.Context) ([]*domain.Room, error)

	// ListCandidates retrieves rooms with the availability flag on and
	// max occupancy >= minCapacity, ordered by nightly rate ascending with
	// room number as the tie-break.
	ListCandidates(ctx context.Context, minCapacity int) ([]*domain.Room, error)

	// Update persists changes to a room.
	Update(ctx context.Context, room *domain.Room) (*domain.Room, error)

	// Delete removes a room. Fails while reservations still reference it.
	Delete(ctx context.Context, id int64) error
}
