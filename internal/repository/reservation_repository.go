package repository

import (
	"context"

	"github.com/hoteleria/reservation-engine/internal/domain"
)

// ReservationRepository defines the persistence interface for reservations.
//
// Insert and Update return domain.ErrConflict when the storage layer's
// exclusion constraint on (room, active date range) rejects the write. That
// constraint is the commit-time backstop for the no-double-booking invariant:
// the availability pre-check in the service layer can race, the constraint
// cannot.
type ReservationRepository interface {
	// Insert persists a new reservation and returns it with its assigned id.
	Insert(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)

	// Update persists changes to an existing reservation.
	Update(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)

	// GetByID retrieves a reservation by id.
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)

	// FindActiveForRoom retrieves all active reservations for a room.
	FindActiveForRoom(ctx context.Context, roomID int64) ([]*domain.Reservation, error)

	// FindActive retrieves all active reservations.
	FindActive(ctx context.Context) ([]*domain.Reservation, error)

	// FindByGuest retrieves a guest's reservations, newest first.
	FindByGuest(ctx context.Context, guestID int64) ([]*domain.Reservation, error)

	// FindByRoom retrieves a room's reservations ordered by check-in.
	FindByRoom(ctx context.Context, roomID int64) ([]*domain.Reservation, error)

	// FindDueForCompletion retrieves active reservations whose check-out date
	// is on or before asOf, up to limit rows.
	FindDueForCompletion(ctx context.Context, asOf domain.Date, limit int) ([]*domain.Reservation, error)
}
